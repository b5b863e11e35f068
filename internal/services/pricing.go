package services

import (
	"github.com/shopspring/decimal"

	"orderms/internal/models"
)

// PriceLine is one priced line fed to OrderTotal.
type PriceLine struct {
	UnitPrice *decimal.Decimal
	Quantity  int
}

// OrderTotal sums unit price times quantity over all lines using exact
// decimal arithmetic. Multiplication keeps both operands' scales and the
// accumulated sum keeps the maximum scale seen, so 10.50 x 2 stays 21.00.
// An empty or nil input totals zero. Deterministic, no I/O.
func OrderTotal(lines []PriceLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range lines {
		if line.UnitPrice == nil {
			return decimal.Zero, &models.InvalidLineError{Reason: "OrderItem unit price cannot be null"}
		}
		if line.Quantity <= 0 {
			return decimal.Zero, &models.InvalidLineError{Reason: "OrderItem quantity must be positive"}
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}
