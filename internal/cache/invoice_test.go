package cache

import (
	"testing"
	"time"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/model"
)

func TestInvoiceTTL(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	soon := now.Add(10 * time.Minute)
	later := now.Add(30 * 24 * time.Hour)
	lapsed := now.Add(-time.Minute)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      time.Duration
	}{
		{"no_expiry_uses_default", nil, DefaultInvoiceTTL},
		{"far_expiry_capped_at_default", &later, DefaultInvoiceTTL},
		{"near_expiry_caps_ttl", &soon, 10 * time.Minute},
		{"lapsed_expiry_yields_nonpositive", &lapsed, -time.Minute},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			invoice := &model.Invoice{PublicExpiresAt: test.expiresAt}
			if got := InvoiceTTL(invoice, now); got != test.want {
				t.Fatalf("InvoiceTTL() = %v, want %v", got, test.want)
			}
		})
	}
}
