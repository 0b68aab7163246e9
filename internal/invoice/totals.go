package invoice

import (
	"github.com/shopspring/decimal"

	"foodbooking/internal/models"
)

// Flat GST split applied to every invoice subtotal.
var (
	CGSTRate = decimal.RequireFromString("0.025")
	SGSTRate = decimal.RequireFromString("0.025")
)

// Totals carries the invoice money figures, all fixed-point.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	CGST       decimal.Decimal `json:"cgst"`
	SGST       decimal.Decimal `json:"sgst"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Compute derives subtotal, taxes and grand total from the frozen line
// items. Pure and deterministic: identical input yields identical
// figures on every call.
func Compute(items []models.OrderItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	cgst := subtotal.Mul(CGSTRate)
	sgst := subtotal.Mul(SGSTRate)

	return Totals{
		Subtotal:   subtotal,
		CGST:       cgst,
		SGST:       sgst,
		GrandTotal: subtotal.Add(cgst).Add(sgst),
	}
}
