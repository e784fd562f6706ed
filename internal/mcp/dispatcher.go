package mcp

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/service"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/validate"
)

// InvoiceCreator runs the invoice pipeline for one tool call.
type InvoiceCreator interface {
	Create(ctx context.Context, userID string, args map[string]any) (*service.Result, error)
}

// Dispatcher maps tool calls onto the invoice pipeline and failures
// onto protocol-visible errors.
type Dispatcher struct {
	svc           InvoiceCreator
	apiKey        string
	publicBaseURL string
	logger        *slog.Logger
}

// NewDispatcher creates a Dispatcher. The API key identifies the one
// user this process serves.
func NewDispatcher(svc InvoiceCreator, apiKey, publicBaseURL string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		svc:           svc,
		apiKey:        apiKey,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// ListTools answers the capability listing, independent of the invoke
// path.
func (d *Dispatcher) ListTools() ListToolsResult {
	return ListToolsResult{Tools: []Tool{GenerateInvoiceTool()}}
}

// CallTool dispatches a tool invocation by name.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args map[string]any) (*CallToolResult, *RPCError) {
	switch name {
	case ToolGenerateInvoice:
		return d.generateInvoice(ctx, args)
	default:
		return nil, &RPCError{
			Code:    CodeMethodNotFound,
			Message: "Herramienta desconocida: " + name,
		}
	}
}

func (d *Dispatcher) generateInvoice(ctx context.Context, args map[string]any) (*CallToolResult, *RPCError) {
	result, err := d.svc.Create(ctx, d.apiKey, args)
	if err != nil {
		return nil, d.toolError(err)
	}

	return NewTextResult(service.FormatConfirmation(result, d.publicBaseURL)), nil
}

// toolError translates pipeline failures into protocol errors. Every
// failure lands in the log before it goes out, whatever its kind.
func (d *Dispatcher) toolError(err error) *RPCError {
	var verr *validate.Error
	if errors.As(err, &verr) {
		lines := make([]string, len(verr.Fields))
		for i, f := range verr.Fields {
			lines[i] = f.Field + ": " + f.Message
		}
		msg := "Datos inválidos:\n" + strings.Join(lines, "\n")
		d.logger.Warn("tool call rejected", "tool", ToolGenerateInvoice, "error", msg)
		return &RPCError{Code: CodeInvalidParams, Message: msg}
	}

	d.logger.Error("tool call failed", "tool", ToolGenerateInvoice, "error", err)
	return &RPCError{Code: CodeInternalError, Message: err.Error()}
}
