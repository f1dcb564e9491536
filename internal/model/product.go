package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// PriceScale is the number of decimals a price is stored with.
	PriceScale = 2
	// priceIntegerDigits bounds the integer part of a price (NUMERIC(12, 2)).
	priceIntegerDigits = 10
)

// ErrInvalidPrice is returned for prices the catalog cannot store.
var ErrInvalidPrice = errors.New("invalid price")

// NormalizePrice checks that d is a storable price and returns it with at most
// PriceScale decimals. Trailing zero decimals are dropped; any other decimal
// beyond the scale is rejected rather than rounded. The checks work on the
// coefficient and exponent so that huge exponents are never expanded.
func NormalizePrice(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsZero() {
		return decimal.Zero, nil
	}
	if d.IsNegative() {
		return d, fmt.Errorf("%w: must not be negative", ErrInvalidPrice)
	}

	digits := int64(d.NumDigits())
	exp := int64(d.Exponent())
	if digits+exp > priceIntegerDigits {
		return d, fmt.Errorf("%w: must be below 1e%d", ErrInvalidPrice, priceIntegerDigits)
	}
	if exp >= -PriceScale {
		return d, nil
	}

	extra := -PriceScale - exp
	if extra > digits {
		return d, fmt.Errorf("%w: at most %d decimals", ErrInvalidPrice, PriceScale)
	}
	truncated := d.Truncate(PriceScale)
	if !truncated.Equal(d) {
		return d, fmt.Errorf("%w: at most %d decimals", ErrInvalidPrice, PriceScale)
	}
	return truncated, nil
}

// Product is a catalog item. Price is the unit or box price used for wholesale,
// PricePerKg the retail price. Either may be absent.
type Product struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Price        decimal.NullDecimal `json:"price"`
	PricePerKg   decimal.NullDecimal `json:"price_per_kg"`
	Unit         *string             `json:"unit"`
	Brand        *string             `json:"brand"`
	CategoryID   uuid.UUID           `json:"category_id"`
	CategoryName string              `json:"category_name"`
	ImageURL     *string             `json:"image_url"`
	UpdatedAt    time.Time           `json:"updated_at"`
	CreatedAt    time.Time           `json:"created_at"`
}

// InitMeta initializes the product metadata including ID and timestamps.
func (p *Product) InitMeta() {
	p.ID = uuid.New()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
}

// HasPrice reports whether the product has a unit price.
func (p Product) HasPrice() bool {
	return p.Price.Valid
}

// HasPricePerKg reports whether the product has a per kilogram price.
func (p Product) HasPricePerKg() bool {
	return p.PricePerKg.Valid
}

// BrandName returns the brand or an empty string.
func (p Product) BrandName() string {
	if p.Brand == nil {
		return ""
	}
	return *p.Brand
}
