package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"foodbooking/internal/invoice"
	"foodbooking/internal/models"
)

func item(price string, qty int) models.OrderItem {
	return models.OrderItem{Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestComputeTaxBreakdown(t *testing.T) {
	totals := invoice.Compute([]models.OrderItem{
		item("120.00", 2),
		item("60.00", 1),
	})

	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("300.00")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.CGST.Equal(decimal.RequireFromString("7.50")), "cgst %s", totals.CGST)
	assert.True(t, totals.SGST.Equal(decimal.RequireFromString("7.50")), "sgst %s", totals.SGST)
	assert.True(t, totals.GrandTotal.Equal(decimal.RequireFromString("315.00")), "grand total %s", totals.GrandTotal)
}

func TestComputeGrandTotalIsSumOfParts(t *testing.T) {
	totals := invoice.Compute([]models.OrderItem{
		item("199.99", 3),
		item("45.50", 2),
	})

	expected := totals.Subtotal.Add(totals.CGST).Add(totals.SGST)
	assert.True(t, totals.GrandTotal.Equal(expected))
}

func TestComputeEmptyOrder(t *testing.T) {
	totals := invoice.Compute(nil)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.CGST.IsZero())
	assert.True(t, totals.SGST.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestComputeIsDeterministic(t *testing.T) {
	items := []models.OrderItem{item("333.33", 1), item("0.01", 7)}

	first := invoice.Compute(items)
	second := invoice.Compute(items)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.CGST.Equal(second.CGST))
	assert.True(t, first.SGST.Equal(second.SGST))
	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
}
