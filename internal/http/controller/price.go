package controller

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/shopspring/decimal"
)

// Price accepts a JSON number, a numeric string, "" or null. The last two mean no price.
// Values the catalog cannot store are rejected while decoding.
type Price struct {
	decimal.NullDecimal
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		p.NullDecimal = decimal.NullDecimal{}
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("invalid price %s: %w", raw, err)
		}
		raw = unquoted
	}
	if raw == "" {
		p.NullDecimal = decimal.NullDecimal{}
		return nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if d, err = model.NormalizePrice(d); err != nil {
		return fmt.Errorf("price %q: %w", raw, err)
	}
	p.NullDecimal = decimal.NewNullDecimal(d)
	return nil
}

func formatPrice(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(2)
	return &s
}
