package model

import (
	"testing"
	"time"
)

func TestPublicActive(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name      string
		isPublic  bool
		expiresAt *time.Time
		want      bool
	}{
		{"private", false, nil, false},
		{"private_with_expiry", false, &future, false},
		{"public_no_expiry", true, nil, true},
		{"public_future_expiry", true, &future, true},
		{"public_expired", true, &past, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			inv := &Invoice{IsPublic: test.isPublic, PublicExpiresAt: test.expiresAt}
			if got := inv.PublicActive(now); got != test.want {
				t.Fatalf("PublicActive() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestPublicExpired(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)

	inv := &Invoice{IsPublic: true, PublicExpiresAt: &past}
	if !inv.PublicExpired(now) {
		t.Fatal("expected expired public invoice")
	}

	inv = &Invoice{IsPublic: false, PublicExpiresAt: &past}
	if inv.PublicExpired(now) {
		t.Fatal("private invoice should never report expired")
	}
}

func TestQuotaReached(t *testing.T) {
	tests := []struct {
		name  string
		usage int
		limit int
		want  bool
	}{
		{"below", 3, 10, false},
		{"at_limit", 10, 10, true},
		{"over_limit", 11, 10, true},
		{"zero_limit", 0, 0, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			u := &User{CurrentInvoiceUsage: test.usage, MonthlyInvoiceLimit: test.limit}
			if got := u.QuotaReached(); got != test.want {
				t.Fatalf("QuotaReached() = %v, want %v", got, test.want)
			}
		})
	}
}
