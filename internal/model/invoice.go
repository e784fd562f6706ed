package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Party is a point-in-time snapshot of one side of an invoice. Snapshots
// are copies: editing the user or re-sending client data later never
// changes an invoice that has already been persisted.
type Party struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// InvoiceItem is a billed line after pricing: Total carries the
// tax-inclusive line amount.
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Total       decimal.Decimal `json:"total"`
}

// Invoice is the persisted billing document. TaxRate holds the blended
// rate across possibly-mixed per-line rates. PublicExpiresAt is nil when
// the invoice is not public; PublicToken is always assigned so flipping
// visibility later needs no backfill.
type Invoice struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	Date            string          `json:"date"`
	DueDate         string          `json:"due_date"`
	CompanyData     Party           `json:"company_data"`
	ClientData      Party           `json:"client_data"`
	Items           []InvoiceItem   `json:"items"`
	Notes           string          `json:"notes"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	Total           decimal.Decimal `json:"total"`
	Currency        string          `json:"currency"`
	Language        string          `json:"language"`
	IsPublic        bool            `json:"is_public"`
	PublicExpiresAt *time.Time      `json:"public_expires_at,omitempty"`
	PublicToken     string          `json:"public_token"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PublicActive reports whether the public link should resolve at the
// given instant.
func (i *Invoice) PublicActive(now time.Time) bool {
	if !i.IsPublic {
		return false
	}
	if i.PublicExpiresAt != nil && now.After(*i.PublicExpiresAt) {
		return false
	}
	return true
}

// PublicExpired reports whether the invoice was public but its link has
// lapsed.
func (i *Invoice) PublicExpired(now time.Time) bool {
	return i.IsPublic && i.PublicExpiresAt != nil && now.After(*i.PublicExpiresAt)
}
