// Package model defines domain entities for the application.
package model

import "time"

// User owns invoices. Its ID doubles as the API key presented by the
// MCP client, so there is no separate credential entity.
type User struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	MonthlyInvoiceLimit int       `json:"monthly_invoice_limit"`
	CurrentInvoiceUsage int       `json:"current_invoice_usage"`
	CreatedAt           time.Time `json:"created_at"`
}

// QuotaReached reports whether the user has exhausted the monthly allowance.
func (u *User) QuotaReached() bool {
	return u.CurrentInvoiceUsage >= u.MonthlyInvoiceLimit
}
