package mcp

// ToolGenerateInvoice is the single tool this server exposes.
const ToolGenerateInvoice = "generar_factura"

// GenerateInvoiceTool returns the static descriptor for the invoice
// tool. The schema mirrors the validated request field for field.
func GenerateInvoiceTool() Tool {
	return Tool{
		Name:        ToolGenerateInvoice,
		Description: "Genera una nueva factura en RapidInvoice y devuelve el enlace público para visualizarla",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"clientName": map[string]any{
					"type":        "string",
					"description": "Nombre completo del cliente",
				},
				"clientEmail": map[string]any{
					"type":        "string",
					"description": "Email del cliente",
				},
				"clientAddress": map[string]any{
					"type":        "string",
					"description": "Dirección del cliente",
				},
				"clientCity": map[string]any{
					"type":        "string",
					"description": "Ciudad del cliente",
				},
				"clientPostalCode": map[string]any{
					"type":        "string",
					"description": "Código postal del cliente",
				},
				"clientCountry": map[string]any{
					"type":        "string",
					"description": "País del cliente",
				},
				"invoiceNumber": map[string]any{
					"type":        "string",
					"description": "Número de factura (opcional, se autogenera si no se proporciona)",
				},
				"date": map[string]any{
					"type":        "string",
					"description": "Fecha de la factura en formato YYYY-MM-DD (opcional, por defecto hoy)",
				},
				"dueDate": map[string]any{
					"type":        "string",
					"description": "Fecha de vencimiento en formato YYYY-MM-DD",
				},
				"items": map[string]any{
					"type":        "array",
					"description": "Lista de productos/servicios en la factura",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"description": map[string]any{
								"type":        "string",
								"description": "Descripción del producto/servicio",
							},
							"quantity": map[string]any{
								"type":        "number",
								"description": "Cantidad",
							},
							"unitPrice": map[string]any{
								"type":        "number",
								"description": "Precio unitario",
							},
							"taxRate": map[string]any{
								"type":        "number",
								"description": "Tasa de impuesto en porcentaje (por defecto 21)",
							},
						},
						"required": []string{"description", "quantity", "unitPrice"},
					},
				},
				"currency": map[string]any{
					"type":        "string",
					"description": "Moneda (por defecto EUR)",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Idioma de la factura (por defecto es)",
				},
				"notes": map[string]any{
					"type":        "string",
					"description": "Notas adicionales en la factura",
				},
				"makePublic": map[string]any{
					"type":        "boolean",
					"description": "Hacer la factura visible públicamente (por defecto true)",
				},
				"publicExpirationDays": map[string]any{
					"type":        "number",
					"description": "Días hasta que expire el enlace público (por defecto 30)",
				},
			},
			"required": []string{
				"clientName",
				"clientEmail",
				"clientAddress",
				"clientCity",
				"clientPostalCode",
				"clientCountry",
				"dueDate",
				"items",
			},
		},
	}
}
