// Package validate turns the raw tool-call argument bag into a typed,
// defaulted invoice request. All violations are collected into a single
// error so the caller can fix everything in one round trip.
package validate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Defaults applied to optional request fields.
const (
	DefaultCurrency             = "EUR"
	DefaultLanguage             = "es"
	DefaultTaxRate              = 21
	DefaultPublicExpirationDays = 30
)

// FieldError describes one violated field, addressed by its dotted path
// (e.g. "items.0.quantity").
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error batches every violation found in one request.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	lines := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		lines[i] = f.Field + ": " + f.Message
	}
	return strings.Join(lines, "\n")
}

// Item is a defaulted, validated line item request.
type Item struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	TaxRate     float64
}

// Request is a fully-typed invoice request with documented defaults
// applied. Date stays empty when the caller omitted it; the service
// substitutes its clock's current date.
type Request struct {
	ClientName           string
	ClientEmail          string
	ClientAddress        string
	ClientCity           string
	ClientPostalCode     string
	ClientCountry        string
	InvoiceNumber        string
	Date                 string
	DueDate              string
	Items                []Item
	Currency             string
	Language             string
	Notes                string
	MakePublic           bool
	PublicExpirationDays int
}

// wireRequest mirrors the tool-call argument schema. Pointer fields
// distinguish "absent" from zero values so defaults only fill real gaps.
type wireRequest struct {
	ClientName           string     `json:"clientName" validate:"required"`
	ClientEmail          string     `json:"clientEmail" validate:"required,email"`
	ClientAddress        string     `json:"clientAddress" validate:"required"`
	ClientCity           string     `json:"clientCity" validate:"required"`
	ClientPostalCode     string     `json:"clientPostalCode" validate:"required"`
	ClientCountry        string     `json:"clientCountry" validate:"required"`
	InvoiceNumber        string     `json:"invoiceNumber"`
	Date                 string     `json:"date"`
	DueDate              string     `json:"dueDate" validate:"required"`
	Items                []wireItem `json:"items" validate:"min=1,dive"`
	Currency             string     `json:"currency"`
	Language             string     `json:"language"`
	Notes                string     `json:"notes"`
	MakePublic           *bool      `json:"makePublic"`
	PublicExpirationDays *int       `json:"publicExpirationDays"`
}

type wireItem struct {
	Description string   `json:"description" validate:"required"`
	Quantity    float64  `json:"quantity" validate:"gt=0"`
	UnitPrice   float64  `json:"unitPrice" validate:"gt=0"`
	TaxRate     *float64 `json:"taxRate" validate:"omitempty,gte=0"`
}

// messages maps a leaf field name to its human-readable reason. Leaf
// names are unique across the schema, so the tag is not needed.
var messages = map[string]string{
	"clientName":       "El nombre del cliente es obligatorio",
	"clientEmail":      "Email del cliente inválido",
	"clientAddress":    "La dirección del cliente es obligatoria",
	"clientCity":       "La ciudad del cliente es obligatoria",
	"clientPostalCode": "El código postal es obligatorio",
	"clientCountry":    "El país del cliente es obligatorio",
	"dueDate":          "La fecha de vencimiento es obligatoria",
	"items":            "Debe haber al menos un item en la factura",
	"description":      "La descripción del item es obligatoria",
	"quantity":         "La cantidad debe ser mayor a 0",
	"unitPrice":        "El precio unitario debe ser mayor a 0",
	"taxRate":          "La tasa de impuesto no puede ser negativa",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire names so paths match the tool schema.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Parse decodes, validates and defaults an argument bag. On failure it
// returns an *Error listing every violated field.
func Parse(args map[string]any) (*Request, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode arguments: %w", err)
	}

	var wire wireRequest
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, decodeError(err)
	}

	if err := validate.Struct(&wire); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, fmt.Errorf("validate request: %w", err)
		}
		batch := &Error{}
		for _, fe := range verrs {
			batch.Fields = append(batch.Fields, FieldError{
				Field:   fieldPath(fe.Namespace()),
				Message: messageFor(fe.Field()),
			})
		}
		return nil, batch
	}

	return withDefaults(&wire), nil
}

// withDefaults maps the wire form to the typed request, filling the
// documented defaults for every absent optional field.
func withDefaults(wire *wireRequest) *Request {
	req := &Request{
		ClientName:           wire.ClientName,
		ClientEmail:          wire.ClientEmail,
		ClientAddress:        wire.ClientAddress,
		ClientCity:           wire.ClientCity,
		ClientPostalCode:     wire.ClientPostalCode,
		ClientCountry:        wire.ClientCountry,
		InvoiceNumber:        wire.InvoiceNumber,
		Date:                 wire.Date,
		DueDate:              wire.DueDate,
		Currency:             wire.Currency,
		Language:             wire.Language,
		Notes:                wire.Notes,
		MakePublic:           true,
		PublicExpirationDays: DefaultPublicExpirationDays,
	}

	if req.Currency == "" {
		req.Currency = DefaultCurrency
	}
	if req.Language == "" {
		req.Language = DefaultLanguage
	}
	if wire.MakePublic != nil {
		req.MakePublic = *wire.MakePublic
	}
	if wire.PublicExpirationDays != nil {
		req.PublicExpirationDays = *wire.PublicExpirationDays
	}

	req.Items = make([]Item, len(wire.Items))
	for i, item := range wire.Items {
		taxRate := float64(DefaultTaxRate)
		if item.TaxRate != nil {
			taxRate = *item.TaxRate
		}
		req.Items[i] = Item{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     taxRate,
		}
	}

	return req
}

// decodeError converts a JSON type mismatch into a field-addressed
// validation error instead of an opaque decode failure.
func decodeError(err error) error {
	if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
		field := typeErr.Field
		if field == "" {
			field = "(request)"
		}
		return &Error{Fields: []FieldError{{
			Field:   field,
			Message: fmt.Sprintf("tipo de dato inválido, se esperaba %s", typeErr.Type.Kind()),
		}}}
	}
	return fmt.Errorf("decode arguments: %w", err)
}

// fieldPath converts a validator namespace like
// "wireRequest.items[2].quantity" into the dotted form "items.2.quantity".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}

func messageFor(field string) string {
	if msg, ok := messages[field]; ok {
		return msg
	}
	return "valor inválido"
}
