// Package billing holds the pure pricing and identifier logic for
// invoice creation.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/model"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/validate"
)

var hundred = decimal.NewFromInt(100)

// Totals aggregates the monetary result of pricing a request. Values are
// kept at full precision; rounding to 2 decimals happens only when a
// value is rendered.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	TaxRate  decimal.Decimal // blended rate: Tax / Subtotal * 100
	Total    decimal.Decimal
}

// ComputeTotals prices the validated items: per-line tax-inclusive totals
// plus the invoice aggregates. Pure function.
func ComputeTotals(items []validate.Item) ([]model.InvoiceItem, Totals) {
	priced := make([]model.InvoiceItem, len(items))
	subtotal := decimal.Zero
	tax := decimal.Zero

	for i, item := range items {
		quantity := decimal.NewFromFloat(item.Quantity)
		unitPrice := decimal.NewFromFloat(item.UnitPrice)
		taxRate := decimal.NewFromFloat(item.TaxRate)

		lineSubtotal := quantity.Mul(unitPrice)
		lineTax := lineSubtotal.Mul(taxRate).Div(hundred)

		subtotal = subtotal.Add(lineSubtotal)
		tax = tax.Add(lineTax)

		priced[i] = model.InvoiceItem{
			Description: item.Description,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			TaxRate:     taxRate,
			Total:       lineSubtotal.Add(lineTax),
		}
	}

	blended := decimal.Zero
	if subtotal.IsPositive() {
		blended = tax.Div(subtotal).Mul(hundred)
	}

	return priced, Totals{
		Subtotal: subtotal,
		Tax:      tax,
		TaxRate:  blended,
		Total:    subtotal.Add(tax),
	}
}
