package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/model"
)

// Common errors for invoice repository operations.
var (
	// ErrInvoiceNumberExists marks a unique-constraint conflict on the
	// invoice number. Driver conflict codes never escape this package.
	ErrInvoiceNumberExists = errors.New("invoice number already exists")
	// ErrInvoiceNotFound indicates no invoice matches the lookup.
	ErrInvoiceNotFound = errors.New("invoice not found")
)

// uniqueViolationCode is the PostgreSQL class 23 code for unique_violation.
const uniqueViolationCode = "23505"

// CreateInvoice inserts the full invoice record. Party snapshots and
// priced items are stored as JSONB documents.
func (r *Repository) CreateInvoice(ctx context.Context, invoice *model.Invoice) error {
	companyData, err := json.Marshal(invoice.CompanyData)
	if err != nil {
		return fmt.Errorf("failed to encode company data: %w", err)
	}
	clientData, err := json.Marshal(invoice.ClientData)
	if err != nil {
		return fmt.Errorf("failed to encode client data: %w", err)
	}
	items, err := json.Marshal(invoice.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	query := `
		INSERT INTO invoices (
			id, user_id, invoice_number, date, due_date,
			company_data, client_data, items, notes,
			subtotal, tax, tax_rate, total,
			currency, language, is_public, public_expires_at, public_token,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = r.pool.Exec(ctx, query,
		invoice.ID,
		invoice.UserID,
		invoice.InvoiceNumber,
		invoice.Date,
		invoice.DueDate,
		companyData,
		clientData,
		items,
		invoice.Notes,
		invoice.Subtotal,
		invoice.Tax,
		invoice.TaxRate,
		invoice.Total,
		invoice.Currency,
		invoice.Language,
		invoice.IsPublic,
		invoice.PublicExpiresAt,
		invoice.PublicToken,
		invoice.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrInvoiceNumberExists
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// GetInvoiceByPublicToken retrieves an invoice by its public access
// token. Visibility and expiry are enforced by the caller, which needs
// to distinguish expired from unknown.
func (r *Repository) GetInvoiceByPublicToken(ctx context.Context, token string) (*model.Invoice, error) {
	query := `
		SELECT id, user_id, invoice_number, date, due_date,
		       company_data, client_data, items, notes,
		       subtotal, tax, tax_rate, total,
		       currency, language, is_public, public_expires_at, public_token,
		       created_at
		FROM invoices
		WHERE public_token = $1
	`

	var (
		invoice     model.Invoice
		companyData []byte
		clientData  []byte
		items       []byte
	)
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&invoice.ID,
		&invoice.UserID,
		&invoice.InvoiceNumber,
		&invoice.Date,
		&invoice.DueDate,
		&companyData,
		&clientData,
		&items,
		&invoice.Notes,
		&invoice.Subtotal,
		&invoice.Tax,
		&invoice.TaxRate,
		&invoice.Total,
		&invoice.Currency,
		&invoice.Language,
		&invoice.IsPublic,
		&invoice.PublicExpiresAt,
		&invoice.PublicToken,
		&invoice.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice by token: %w", err)
	}

	if err := json.Unmarshal(companyData, &invoice.CompanyData); err != nil {
		return nil, fmt.Errorf("failed to decode company data: %w", err)
	}
	if err := json.Unmarshal(clientData, &invoice.ClientData); err != nil {
		return nil, fmt.Errorf("failed to decode client data: %w", err)
	}
	if err := json.Unmarshal(items, &invoice.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}

	return &invoice, nil
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
