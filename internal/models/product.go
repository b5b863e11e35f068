package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock is mutated by catalog admins and by
// order placement; it must never go negative.
type Product struct {
	ID        string          `json:"id" gorm:"primaryKey;type:uuid" validate:"omitempty,uuid"`
	Name      string          `json:"name" gorm:"not null" validate:"required"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric;not null"`
	Stock     int             `json:"stock" gorm:"not null;check:stock >= 0" validate:"gte=0"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
