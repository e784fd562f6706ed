// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/billing"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/metrics"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/model"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/repository"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/validate"
)

// Service errors. Messages are protocol-visible and surface to the
// caller unchanged.
var (
	ErrAPIKeyInvalid          = errors.New("❌ API Key inválida: Usuario no encontrado")
	ErrDuplicateInvoiceNumber = errors.New("❌ Error: Ya existe una factura con ese número")
)

// QuotaError reports an exhausted monthly allowance, carrying both
// counters for the caller.
type QuotaError struct {
	Used  int
	Limit int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("❌ Límite mensual alcanzado: %d/%d facturas", e.Used, e.Limit)
}

// Store is the persistence surface the invoice pipeline needs. Satisfied
// by *repository.Repository; tests inject fakes.
type Store interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	CreateInvoice(ctx context.Context, invoice *model.Invoice) error
	IncrementUsageBelowLimit(ctx context.Context, id string) (bool, error)
}

// InvoiceService runs the invoice creation pipeline.
type InvoiceService struct {
	store   Store
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(store Store, logger *slog.Logger, recorder metrics.Recorder) *InvoiceService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &InvoiceService{
		store:   store,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// Result is what a successful creation hands to the formatter. Usage
// counters are the post-increment values derived from the row read at
// the start of the call; the store is not re-read.
type Result struct {
	Invoice    *model.Invoice
	UsageAfter int
	UsageLimit int
}

// Create validates the argument bag and runs the pipeline: user lookup,
// quota check, pricing, identifier assignment, persistence, usage
// increment. At most one insert and one update happen per call, and the
// increment is attempted strictly after a successful insert.
func (s *InvoiceService) Create(ctx context.Context, userID string, args map[string]any) (*Result, error) {
	req, err := validate.Parse(args)
	if err != nil {
		s.metrics.IncInvoiceFailed(metrics.FailureValidation)
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncInvoiceFailed(metrics.FailureAuthentication)
			return nil, ErrAPIKeyInvalid
		}
		s.metrics.IncInvoiceFailed(metrics.FailureStore)
		return nil, err
	}

	if user.QuotaReached() {
		s.metrics.IncInvoiceFailed(metrics.FailureQuota)
		return nil, &QuotaError{Used: user.CurrentInvoiceUsage, Limit: user.MonthlyInvoiceLimit}
	}

	items, totals := billing.ComputeTotals(req.Items)

	now := s.now()
	invoiceNumber := billing.InvoiceNumber(user.ID, req.InvoiceNumber, now)

	publicToken, err := billing.PublicToken()
	if err != nil {
		s.metrics.IncInvoiceFailed(metrics.FailureStore)
		return nil, err
	}

	date := req.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}

	var publicExpiresAt *time.Time
	if req.MakePublic {
		expiry := now.Add(time.Duration(req.PublicExpirationDays) * 24 * time.Hour)
		publicExpiresAt = &expiry
	}

	invoice := &model.Invoice{
		ID:            ulid.Make().String(),
		UserID:        user.ID,
		InvoiceNumber: invoiceNumber,
		Date:          date,
		DueDate:       req.DueDate,
		CompanyData: model.Party{
			Name:  companyName(user),
			Email: user.Email,
		},
		ClientData: model.Party{
			Name:       req.ClientName,
			Email:      req.ClientEmail,
			Address:    req.ClientAddress,
			City:       req.ClientCity,
			PostalCode: req.ClientPostalCode,
			Country:    req.ClientCountry,
		},
		Items:           items,
		Notes:           req.Notes,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		TaxRate:         totals.TaxRate,
		Total:           totals.Total,
		Currency:        req.Currency,
		Language:        req.Language,
		IsPublic:        req.MakePublic,
		PublicExpiresAt: publicExpiresAt,
		PublicToken:     publicToken,
		CreatedAt:       now,
	}

	if err := s.store.CreateInvoice(ctx, invoice); err != nil {
		if errors.Is(err, repository.ErrInvoiceNumberExists) {
			s.metrics.IncInvoiceFailed(metrics.FailureDuplicateNumber)
			return nil, ErrDuplicateInvoiceNumber
		}
		s.metrics.IncInvoiceFailed(metrics.FailureStore)
		return nil, err
	}

	// The invoice is committed; a failed or unsatisfied increment leaves
	// the counter behind by one rather than rolling the document back.
	incremented, err := s.store.IncrementUsageBelowLimit(ctx, user.ID)
	if err != nil {
		s.logger.Error("usage increment failed after insert",
			"user_id", user.ID,
			"invoice_id", invoice.ID,
			"error", err,
		)
	} else if !incremented {
		s.logger.Warn("usage counter reached limit before increment",
			"user_id", user.ID,
			"invoice_id", invoice.ID,
		)
	}

	s.metrics.IncInvoiceCreated()
	s.logger.Info("invoice created",
		"invoice_id", invoice.ID,
		"invoice_number", invoice.InvoiceNumber,
		"user_id", user.ID,
		"total", invoice.Total.StringFixed(2),
		"currency", invoice.Currency,
		"is_public", invoice.IsPublic,
	)

	return &Result{
		Invoice:    invoice,
		UsageAfter: user.CurrentInvoiceUsage + 1,
		UsageLimit: user.MonthlyInvoiceLimit,
	}, nil
}

// companyName falls back to a placeholder when the user never filled a
// display name.
func companyName(user *model.User) string {
	if user.Name != "" {
		return user.Name
	}
	return "Tu Empresa"
}
