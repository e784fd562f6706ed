package service

import (
	"fmt"
	"strings"
)

// confirmationLabels holds the translatable fragments of the
// confirmation text.
type confirmationLabels struct {
	title      string
	number     string
	client     string
	email      string
	date       string
	dueDate    string
	total      string
	subtotal   string
	tax        string
	items      string
	publicLink string
	expires    string
	share      string
	usage      string
}

var labelsByLanguage = map[string]confirmationLabels{
	"es": {
		title:      "Factura generada exitosamente",
		number:     "Número de factura",
		client:     "Cliente",
		email:      "Email",
		date:       "Fecha",
		dueDate:    "Vencimiento",
		total:      "Total",
		subtotal:   "Subtotal",
		tax:        "IVA",
		items:      "Items facturados",
		publicLink: "Enlace público de la factura",
		expires:    "El enlace expira el",
		share:      "Comparte este enlace con tu cliente para que pueda ver y descargar la factura.",
		usage:      "Estado de tu cuenta: %d/%d facturas usadas este mes",
	},
	"en": {
		title:      "Invoice generated successfully",
		number:     "Invoice number",
		client:     "Client",
		email:      "Email",
		date:       "Date",
		dueDate:    "Due date",
		total:      "Total",
		subtotal:   "Subtotal",
		tax:        "VAT",
		items:      "Invoiced items",
		publicLink: "Public invoice link",
		expires:    "The link expires on",
		share:      "Share this link with your client so they can view and download the invoice.",
		usage:      "Account status: %d/%d invoices used this month",
	},
}

// expiryDateLayout renders expiry dates day-first, as the es-ES locale
// does.
const expiryDateLayout = "02/01/2006"

// FormatConfirmation renders the human-readable confirmation for a
// created invoice. Deterministic given its inputs: money rounds to two
// decimals here and nowhere earlier.
func FormatConfirmation(result *Result, publicBaseURL string) string {
	inv := result.Invoice
	l, ok := labelsByLanguage[inv.Language]
	if !ok {
		l = labelsByLanguage["es"]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ **%s**\n\n", l.title)
	fmt.Fprintf(&b, "📄 **%s:** %s\n", l.number, inv.InvoiceNumber)
	fmt.Fprintf(&b, "👤 **%s:** %s\n", l.client, inv.ClientData.Name)
	fmt.Fprintf(&b, "📧 **%s:** %s\n", l.email, inv.ClientData.Email)
	fmt.Fprintf(&b, "📅 **%s:** %s\n", l.date, inv.Date)
	fmt.Fprintf(&b, "⏰ **%s:** %s\n", l.dueDate, inv.DueDate)
	fmt.Fprintf(&b, "💰 **%s:** %s %s\n", l.total, inv.Total.StringFixed(2), inv.Currency)
	fmt.Fprintf(&b, "🧾 **%s:** %s %s\n", l.subtotal, inv.Subtotal.StringFixed(2), inv.Currency)
	fmt.Fprintf(&b, "📊 **%s (%s%%):** %s %s\n\n", l.tax, inv.TaxRate.StringFixed(1), inv.Tax.StringFixed(2), inv.Currency)

	fmt.Fprintf(&b, "📋 **%s:**\n", l.items)
	for i, item := range inv.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Description)
		fmt.Fprintf(&b, "   %s × %s %s = %s %s\n",
			item.Quantity.String(),
			item.UnitPrice.StringFixed(2), inv.Currency,
			item.Total.StringFixed(2), inv.Currency,
		)
	}

	if inv.IsPublic {
		publicURL := strings.TrimSuffix(publicBaseURL, "/") + "/" + inv.PublicToken
		fmt.Fprintf(&b, "\n🔗 **%s:**\n%s\n\n", l.publicLink, publicURL)
		if inv.PublicExpiresAt != nil {
			fmt.Fprintf(&b, "⏱️ **%s:** %s\n", l.expires, inv.PublicExpiresAt.Format(expiryDateLayout))
		}
		fmt.Fprintf(&b, "💡 **%s**\n", l.share)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "📊 **"+l.usage+"**", result.UsageAfter, result.UsageLimit)

	return b.String()
}
