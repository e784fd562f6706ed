package billing

import (
	"testing"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/validate"
)

func TestComputeTotalsSingleItem(t *testing.T) {
	items := []validate.Item{
		{Description: "Consultoría", Quantity: 2, UnitPrice: 100, TaxRate: 21},
	}

	priced, totals := ComputeTotals(items)

	if got := totals.Subtotal.StringFixed(2); got != "200.00" {
		t.Errorf("subtotal = %s, want 200.00", got)
	}
	if got := totals.Tax.StringFixed(2); got != "42.00" {
		t.Errorf("tax = %s, want 42.00", got)
	}
	if got := totals.Total.StringFixed(2); got != "242.00" {
		t.Errorf("total = %s, want 242.00", got)
	}
	if got := totals.TaxRate.StringFixed(1); got != "21.0" {
		t.Errorf("blended rate = %s, want 21.0", got)
	}
	if got := priced[0].Total.StringFixed(2); got != "242.00" {
		t.Errorf("line total = %s, want 242.00", got)
	}
}

func TestComputeTotalsMixedRates(t *testing.T) {
	items := []validate.Item{
		{Description: "Libros", Quantity: 1, UnitPrice: 100, TaxRate: 4},
		{Description: "Servicios", Quantity: 1, UnitPrice: 100, TaxRate: 21},
	}

	_, totals := ComputeTotals(items)

	if got := totals.Subtotal.StringFixed(2); got != "200.00" {
		t.Errorf("subtotal = %s, want 200.00", got)
	}
	if got := totals.Tax.StringFixed(2); got != "25.00" {
		t.Errorf("tax = %s, want 25.00", got)
	}
	if got := totals.TaxRate.StringFixed(1); got != "12.5" {
		t.Errorf("blended rate = %s, want 12.5", got)
	}
}

func TestComputeTotalsZeroRate(t *testing.T) {
	items := []validate.Item{
		{Description: "Exento", Quantity: 3, UnitPrice: 10, TaxRate: 0},
	}

	_, totals := ComputeTotals(items)

	if !totals.Tax.IsZero() {
		t.Errorf("tax = %s, want 0", totals.Tax)
	}
	if !totals.TaxRate.IsZero() {
		t.Errorf("blended rate = %s, want 0", totals.TaxRate)
	}
	if got := totals.Total.StringFixed(2); got != "30.00" {
		t.Errorf("total = %s, want 30.00", got)
	}
}

func TestComputeTotalsNoRoundingDrift(t *testing.T) {
	// Many small lines whose per-line rounded values would drift if
	// accumulated post-rounding: 100 lines of 3 × 0.07 at 21%.
	items := make([]validate.Item, 100)
	for i := range items {
		items[i] = validate.Item{Description: "micro", Quantity: 3, UnitPrice: 0.07, TaxRate: 21}
	}

	_, totals := ComputeTotals(items)

	if got := totals.Subtotal.StringFixed(2); got != "21.00" {
		t.Errorf("subtotal = %s, want 21.00", got)
	}
	if got := totals.Tax.StringFixed(2); got != "4.41" {
		t.Errorf("tax = %s, want 4.41", got)
	}
	if got := totals.Total.StringFixed(2); got != "25.41" {
		t.Errorf("total = %s, want 25.41", got)
	}
}

func TestComputeTotalsInvariants(t *testing.T) {
	items := []validate.Item{
		{Description: "a", Quantity: 2.5, UnitPrice: 19.99, TaxRate: 21},
		{Description: "b", Quantity: 1, UnitPrice: 0.01, TaxRate: 10},
		{Description: "c", Quantity: 7, UnitPrice: 133.7, TaxRate: 4},
	}

	priced, totals := ComputeTotals(items)

	sum := totals.Subtotal.Add(totals.Tax)
	if !sum.Equal(totals.Total) {
		t.Errorf("total %s != subtotal+tax %s", totals.Total, sum)
	}

	lineSum := priced[0].Total
	for _, item := range priced[1:] {
		lineSum = lineSum.Add(item.Total)
	}
	if !lineSum.Equal(totals.Total) {
		t.Errorf("sum of line totals %s != total %s", lineSum, totals.Total)
	}
}
