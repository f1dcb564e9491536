package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products and drives wholesale eligibility.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`
}

// InitMeta initializes the category metadata including ID and timestamps.
func (c *Category) InitMeta() {
	c.ID = uuid.New()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
}

// CategoryCount pairs a category with the number of priced products in it.
type CategoryCount struct {
	Category
	Count int `json:"count"`
}

// Snapshot is the complete catalog state the filter engine works on.
type Snapshot struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}
