// Package dto provides Data Transfer Objects for API responses.
package dto

import (
	"time"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/model"
)

// PartyResponse is one side of an invoice in API responses.
type PartyResponse struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// ItemResponse is a priced invoice line. Monetary values are rendered
// to two decimals here, at the presentation boundary.
type ItemResponse struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TaxRate     string `json:"tax_rate"`
	Total       string `json:"total"`
}

// PublicInvoiceResponse is the unauthenticated invoice view.
type PublicInvoiceResponse struct {
	InvoiceNumber string         `json:"invoice_number"`
	Date          string         `json:"date"`
	DueDate       string         `json:"due_date"`
	Company       PartyResponse  `json:"company"`
	Client        PartyResponse  `json:"client"`
	Items         []ItemResponse `json:"items"`
	Notes         string         `json:"notes,omitempty"`
	Subtotal      string         `json:"subtotal"`
	Tax           string         `json:"tax"`
	TaxRate       string         `json:"tax_rate"`
	Total         string         `json:"total"`
	Currency      string         `json:"currency"`
	Language      string         `json:"language"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty"`
}

// ToPublicInvoiceResponse maps an invoice to its public view.
func ToPublicInvoiceResponse(invoice *model.Invoice) PublicInvoiceResponse {
	items := make([]ItemResponse, len(invoice.Items))
	for i, item := range invoice.Items {
		items[i] = ItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPrice.StringFixed(2),
			TaxRate:     item.TaxRate.StringFixed(1),
			Total:       item.Total.StringFixed(2),
		}
	}

	return PublicInvoiceResponse{
		InvoiceNumber: invoice.InvoiceNumber,
		Date:          invoice.Date,
		DueDate:       invoice.DueDate,
		Company:       toPartyResponse(invoice.CompanyData),
		Client:        toPartyResponse(invoice.ClientData),
		Items:         items,
		Notes:         invoice.Notes,
		Subtotal:      invoice.Subtotal.StringFixed(2),
		Tax:           invoice.Tax.StringFixed(2),
		TaxRate:       invoice.TaxRate.StringFixed(1),
		Total:         invoice.Total.StringFixed(2),
		Currency:      invoice.Currency,
		Language:      invoice.Language,
		ExpiresAt:     invoice.PublicExpiresAt,
	}
}

func toPartyResponse(party model.Party) PartyResponse {
	return PartyResponse{
		Name:       party.Name,
		Email:      party.Email,
		Address:    party.Address,
		City:       party.City,
		PostalCode: party.PostalCode,
		Country:    party.Country,
	}
}
