package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/billing"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/cache"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/handler/dto"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/metrics"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/model"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/repository"
)

// InvoiceReader loads invoices by their public share token.
type InvoiceReader interface {
	GetInvoiceByPublicToken(ctx context.Context, token string) (*model.Invoice, error)
}

// InvoiceCache is the optional read-through cache in front of the
// repository. A nil cache disables caching entirely.
type InvoiceCache interface {
	GetInvoice(ctx context.Context, token string) (*model.Invoice, error)
	SetInvoice(ctx context.Context, invoice *model.Invoice) error
	SetInvoiceMissing(ctx context.Context, token string) error
}

// PublicInvoiceHandler serves the unauthenticated invoice view reached
// through shared links.
type PublicInvoiceHandler struct {
	repo    InvoiceReader
	cache   InvoiceCache
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewPublicInvoiceHandler creates a handler. cache may be nil.
func NewPublicInvoiceHandler(repo InvoiceReader, invoiceCache InvoiceCache, recorder metrics.Recorder, logger *slog.Logger) *PublicInvoiceHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PublicInvoiceHandler{
		repo:    repo,
		cache:   invoiceCache,
		metrics: recorder,
		logger:  logger,
		now:     time.Now,
	}
}

// View handles GET /invoice/public/{token}.
//
// Unknown tokens and invoices whose owner revoked visibility both
// return 404 so the response does not reveal whether an invoice
// exists. An expired link returns 410.
func (h *PublicInvoiceHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := chi.URLParam(r, "token")
	if len(token) != billing.TokenLength {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}

	invoice, fromCache := h.lookupCache(ctx, token)
	if invoice == nil && fromCache {
		// Negative cache hit: a recent lookup already established
		// that this token does not exist.
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}

	if invoice == nil {
		var err error
		invoice, err = h.repo.GetInvoiceByPublicToken(ctx, token)
		if err != nil {
			if errors.Is(err, repository.ErrInvoiceNotFound) {
				h.rememberMissing(ctx, token)
				writeError(w, http.StatusNotFound, "invoice not found")
				return
			}
			h.logger.Error("failed to load public invoice", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		h.storeCache(ctx, invoice)
	}

	now := h.now()
	switch {
	case invoice.PublicExpired(now):
		writeError(w, http.StatusGone, "invoice link expired")
	case !invoice.PublicActive(now):
		writeError(w, http.StatusNotFound, "invoice not found")
	default:
		writeJSON(w, http.StatusOK, dto.ToPublicInvoiceResponse(invoice))
	}
}

// lookupCache returns (invoice, true) on a hit, (nil, true) when the
// token is known missing, and (nil, false) on a miss or cache error.
func (h *PublicInvoiceHandler) lookupCache(ctx context.Context, token string) (*model.Invoice, bool) {
	if h.cache == nil {
		return nil, false
	}

	invoice, err := h.cache.GetInvoice(ctx, token)
	switch {
	case err == nil:
		h.metrics.IncPublicViewCacheHit()
		return invoice, true
	case errors.Is(err, cache.ErrKnownMissing):
		h.metrics.IncPublicViewCacheHit()
		return nil, true
	case errors.Is(err, cache.ErrCacheMiss):
		h.metrics.IncPublicViewCacheMiss()
	default:
		h.logger.Warn("invoice cache read failed", "error", err)
		h.metrics.IncPublicViewCacheMiss()
	}
	return nil, false
}

func (h *PublicInvoiceHandler) storeCache(ctx context.Context, invoice *model.Invoice) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetInvoice(ctx, invoice); err != nil {
		h.logger.Warn("invoice cache write failed", "error", err)
	}
}

func (h *PublicInvoiceHandler) rememberMissing(ctx context.Context, token string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetInvoiceMissing(ctx, token); err != nil {
		h.logger.Warn("invoice negative cache write failed", "error", err)
	}
}
