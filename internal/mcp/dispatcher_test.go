package mcp

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/model"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/service"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/validate"
)

type fakeCreator struct {
	result     *service.Result
	err        error
	lastUserID string
	calls      int
}

func (f *fakeCreator) Create(_ context.Context, userID string, _ map[string]any) (*service.Result, error) {
	f.calls++
	f.lastUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testResult() *service.Result {
	return &service.Result{
		Invoice: &model.Invoice{
			InvoiceNumber: "FAC-001",
			Date:          "2026-08-28",
			DueDate:       "2026-09-30",
			ClientData:    model.Party{Name: "Acme SL", Email: "billing@acme.example"},
			Items: []model.InvoiceItem{{
				Description: "Consultoría",
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   decimal.NewFromInt(100),
				TaxRate:     decimal.NewFromInt(21),
				Total:       decimal.NewFromInt(242),
			}},
			Subtotal: decimal.NewFromInt(200),
			Tax:      decimal.NewFromInt(42),
			TaxRate:  decimal.NewFromInt(21),
			Total:    decimal.NewFromInt(242),
			Currency: "EUR",
			Language: "es",
			IsPublic: false,
		},
		UsageAfter: 4,
		UsageLimit: 10,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListToolsDescriptor(t *testing.T) {
	d := NewDispatcher(&fakeCreator{}, "key", "https://example.test", discardLogger())

	listed := d.ListTools()
	if len(listed.Tools) != 1 {
		t.Fatalf("got %d tools, want 1", len(listed.Tools))
	}

	tool := listed.Tools[0]
	if tool.Name != "generar_factura" {
		t.Errorf("tool name = %q", tool.Name)
	}

	required, ok := tool.InputSchema["required"].([]string)
	if !ok {
		t.Fatalf("required is %T", tool.InputSchema["required"])
	}
	want := []string{
		"clientName", "clientEmail", "clientAddress", "clientCity",
		"clientPostalCode", "clientCountry", "dueDate", "items",
	}
	if len(required) != len(want) {
		t.Fatalf("required = %v, want %v", required, want)
	}
	for i, field := range want {
		if required[i] != field {
			t.Errorf("required[%d] = %q, want %q", i, required[i], field)
		}
	}
}

func TestCallToolSuccess(t *testing.T) {
	creator := &fakeCreator{result: testResult()}
	d := NewDispatcher(creator, "user-1234", "https://example.test", discardLogger())

	result, rpcErr := d.CallTool(context.Background(), ToolGenerateInvoice, map[string]any{})
	if rpcErr != nil {
		t.Fatalf("unexpected error: %v", rpcErr)
	}
	if creator.lastUserID != "user-1234" {
		t.Errorf("pipeline called with user %q", creator.lastUserID)
	}
	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("unexpected content: %+v", result.Content)
	}
	if !strings.Contains(result.Content[0].Text, "FAC-001") {
		t.Errorf("confirmation missing invoice number:\n%s", result.Content[0].Text)
	}
}

func TestCallToolUnknownName(t *testing.T) {
	creator := &fakeCreator{result: testResult()}
	d := NewDispatcher(creator, "key", "https://example.test", discardLogger())

	_, rpcErr := d.CallTool(context.Background(), "emitir_recibo", nil)
	if rpcErr == nil || rpcErr.Code != CodeMethodNotFound {
		t.Fatalf("expected method-not-found, got %v", rpcErr)
	}
	if creator.calls != 0 {
		t.Error("unknown tools must not reach the pipeline")
	}
}

func TestCallToolValidationErrorListsEveryField(t *testing.T) {
	creator := &fakeCreator{err: &validate.Error{Fields: []validate.FieldError{
		{Field: "clientEmail", Message: "Email del cliente inválido"},
		{Field: "items.0.quantity", Message: "La cantidad debe ser mayor a 0"},
	}}}
	d := NewDispatcher(creator, "key", "https://example.test", discardLogger())

	_, rpcErr := d.CallTool(context.Background(), ToolGenerateInvoice, map[string]any{})
	if rpcErr == nil || rpcErr.Code != CodeInvalidParams {
		t.Fatalf("expected invalid-params, got %v", rpcErr)
	}
	if !strings.HasPrefix(rpcErr.Message, "Datos inválidos:\n") {
		t.Errorf("message missing marker: %q", rpcErr.Message)
	}
	for _, line := range []string{
		"clientEmail: Email del cliente inválido",
		"items.0.quantity: La cantidad debe ser mayor a 0",
	} {
		if !strings.Contains(rpcErr.Message, line) {
			t.Errorf("message missing %q: %q", line, rpcErr.Message)
		}
	}
}

func TestCallToolPassesOtherMessagesVerbatim(t *testing.T) {
	creator := &fakeCreator{err: &service.QuotaError{Used: 10, Limit: 10}}
	d := NewDispatcher(creator, "key", "https://example.test", discardLogger())

	_, rpcErr := d.CallTool(context.Background(), ToolGenerateInvoice, map[string]any{})
	if rpcErr == nil || rpcErr.Code != CodeInternalError {
		t.Fatalf("expected internal error, got %v", rpcErr)
	}
	if rpcErr.Message != "❌ Límite mensual alcanzado: 10/10 facturas" {
		t.Errorf("message altered: %q", rpcErr.Message)
	}
}
