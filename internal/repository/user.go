package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/model"
)

// ErrUserNotFound indicates no user row matches the given ID.
var ErrUserNotFound = errors.New("user not found")

// GetUser retrieves a user by ID. The ID is the caller's API key, so a
// miss here is an authentication failure upstream.
func (r *Repository) GetUser(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, email, name, monthly_invoice_limit, current_invoice_usage, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.MonthlyInvoiceLimit,
		&user.CurrentInvoiceUsage,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// IncrementUsage bumps the monthly counter unconditionally. Kept as the
// fallback path for stores without conditional updates; the service uses
// IncrementUsageBelowLimit.
func (r *Repository) IncrementUsage(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET current_invoice_usage = current_invoice_usage + 1
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// IncrementUsageBelowLimit bumps the counter only while it is under the
// monthly limit, in a single statement so concurrent calls cannot push
// the counter past the cap. Returns whether a row was updated.
func (r *Repository) IncrementUsageBelowLimit(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE users
		SET current_invoice_usage = current_invoice_usage + 1
		WHERE id = $1 AND current_invoice_usage < monthly_invoice_limit
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to increment usage: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// CreateUser inserts a user row. Used by the bootstrap script, not the
// invoice pipeline.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, name, monthly_invoice_limit, current_invoice_usage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.MonthlyInvoiceLimit,
		user.CurrentInvoiceUsage,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}
