package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderms/internal/models"
	"orderms/internal/services"
)

func price(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func TestOrderTotalSingleLine(t *testing.T) {
	total, err := services.OrderTotal([]services.PriceLine{
		{UnitPrice: price(t, "10.50"), Quantity: 2},
	})

	require.NoError(t, err)
	assert.Equal(t, "21.00", total.String())
}

func TestOrderTotalMultipleLines(t *testing.T) {
	total, err := services.OrderTotal([]services.PriceLine{
		{UnitPrice: price(t, "10.00"), Quantity: 2},
		{UnitPrice: price(t, "15.50"), Quantity: 1},
		{UnitPrice: price(t, "5.25"), Quantity: 4},
	})

	require.NoError(t, err)
	assert.Equal(t, "56.50", total.String())
}

func TestOrderTotalEmpty(t *testing.T) {
	total, err := services.OrderTotal(nil)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	total, err = services.OrderTotal([]services.PriceLine{})
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestOrderTotalNilUnitPrice(t *testing.T) {
	_, err := services.OrderTotal([]services.PriceLine{
		{UnitPrice: nil, Quantity: 1},
	})

	var invalidLine *models.InvalidLineError
	require.ErrorAs(t, err, &invalidLine)
	assert.Equal(t, "OrderItem unit price cannot be null", err.Error())
}

func TestOrderTotalNonPositiveQuantity(t *testing.T) {
	for _, quantity := range []int{0, -3} {
		_, err := services.OrderTotal([]services.PriceLine{
			{UnitPrice: price(t, "9.99"), Quantity: quantity},
		})

		var invalidLine *models.InvalidLineError
		require.ErrorAs(t, err, &invalidLine)
		assert.Equal(t, "OrderItem quantity must be positive", err.Error())
	}
}

func TestOrderTotalAdditive(t *testing.T) {
	first := []services.PriceLine{
		{UnitPrice: price(t, "3.33"), Quantity: 3},
		{UnitPrice: price(t, "0.01"), Quantity: 7},
	}
	second := []services.PriceLine{
		{UnitPrice: price(t, "1899.99"), Quantity: 2},
	}

	totalFirst, err := services.OrderTotal(first)
	require.NoError(t, err)
	totalSecond, err := services.OrderTotal(second)
	require.NoError(t, err)
	totalCombined, err := services.OrderTotal(append(append([]services.PriceLine{}, first...), second...))
	require.NoError(t, err)

	assert.True(t, totalCombined.Equal(totalFirst.Add(totalSecond)))
}
