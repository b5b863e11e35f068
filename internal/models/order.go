package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order. UnitPrice is the product price captured
// at the instant the order was committed and is never re-read afterwards.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:uuid"`
	OrderID   string          `json:"-" gorm:"type:uuid;not null;index"`
	ProductID string          `json:"productId" gorm:"type:uuid;not null"`
	UnitPrice decimal.Decimal `json:"unitPrice" gorm:"type:numeric;not null"`
	Quantity  int             `json:"quantity" gorm:"not null;check:quantity > 0"`
}

// ItemTotal is the line total at the snapshotted unit price.
func (i OrderItem) ItemTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a committed purchase. It exclusively owns its items; TotalPrice
// always equals the sum of the item totals.
type Order struct {
	ID         string          `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt  time.Time       `json:"createdAt"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:numeric;not null"`
	UserID     *string         `json:"userId" gorm:"type:uuid"`
	Items      []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}
