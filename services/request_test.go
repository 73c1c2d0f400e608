package services

import (
	"errors"
	"strings"
	"testing"
)

const validPayload = `{
	"sender": {"name": "Fervid Trading", "address": "Dubai"},
	"receiver": {"name": "Gulf Retail", "email": "ap@gulf.example"},
	"details": {
		"invoiceNumber": "25",
		"invoiceDate": "2025-03-01",
		"dueDate": "2025-03-31",
		"currency": "aed",
		"pdfTemplate": 1,
		"items": [
			{"name": "Consulting", "quantity": 2, "unitPrice": 100, "total": 1},
			{"name": "Support", "quantity": 1, "unitPrice": 50}
		],
		"taxDetails": {"amount": 5, "amountType": "percentage"},
		"discountDetails": {"enabled": false, "amount": 20, "amountType": "fixed"},
		"paymentTerms": "  Net 30  "
	}
}`

func TestParseInvoiceRequest_Valid(t *testing.T) {
	v, err := ParseInvoiceRequest([]byte(validPayload))
	if err != nil {
		t.Fatalf("ParseInvoiceRequest() error = %v", err)
	}

	d := v.Document.Details
	if d.Currency != "AED" {
		t.Errorf("currency = %q, want AED", d.Currency)
	}
	if d.PdfTemplate != TemplateClassic {
		t.Errorf("pdfTemplate = %d, want %d", d.PdfTemplate, TemplateClassic)
	}
	if d.DiscountDetails != DefaultCharge {
		t.Errorf("disabled discount stored as %+v, want DefaultCharge", d.DiscountDetails)
	}
	if d.ShippingDetails != DefaultCharge {
		t.Errorf("missing shipping stored as %+v, want DefaultCharge", d.ShippingDetails)
	}
	if d.Items[0].Total != 200 {
		t.Errorf("client-supplied total was kept: %v", d.Items[0].Total)
	}
	if d.PaymentTerms != "Net 30" {
		t.Errorf("paymentTerms = %q", d.PaymentTerms)
	}
	if !d.IsInvoice {
		t.Error("expected IsInvoice")
	}
	assertAmount(t, "grandTotal", v.Amounts.GrandTotal, "262.50")
}

func TestParseInvoiceRequest_StripsStoredPrefix(t *testing.T) {
	body := strings.Replace(validPayload, `"invoiceNumber": "25"`, `"invoiceNumber": "INV-25"`, 1)
	v, err := ParseInvoiceRequest([]byte(body))
	if err != nil {
		t.Fatalf("ParseInvoiceRequest() error = %v", err)
	}
	if v.Document.Details.InvoiceNumber != "25" {
		t.Errorf("invoiceNumber = %q, want bare 25", v.Document.Details.InvoiceNumber)
	}
}

func TestParseInvoiceRequest_TemplateAsString(t *testing.T) {
	body := strings.Replace(validPayload, `"pdfTemplate": 1`, `"pdfTemplate": "2"`, 1)
	v, err := ParseInvoiceRequest([]byte(body))
	if err != nil {
		t.Fatalf("ParseInvoiceRequest() error = %v", err)
	}
	if v.Document.Details.PdfTemplate != TemplateCompact {
		t.Errorf("pdfTemplate = %d, want %d", v.Document.Details.PdfTemplate, TemplateCompact)
	}
}

func TestParseInvoiceRequest_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"empty body", "", ""},
		{"malformed json", "{", ""},
		{"missing sender", strings.Replace(validPayload, `"name": "Fervid Trading"`, `"name": ""`, 1), "sender"},
		{"missing receiver", strings.Replace(validPayload, `"name": "Gulf Retail"`, `"name": " "`, 1), "receiver"},
		{"missing details", `{"sender": {"name": "a"}, "receiver": {"name": "b"}}`, "details"},
		{"missing invoice number", strings.Replace(validPayload, `"invoiceNumber": "25"`, `"invoiceNumber": ""`, 1), "details.invoiceNumber"},
		{"non numeric template", strings.Replace(validPayload, `"pdfTemplate": 1`, `"pdfTemplate": "classic"`, 1), "details.pdfTemplate"},
		{"missing template", strings.Replace(validPayload, `"pdfTemplate": 1,`, ``, 1), "details.pdfTemplate"},
		{"unknown template", strings.Replace(validPayload, `"pdfTemplate": 1`, `"pdfTemplate": 9`, 1), "details.pdfTemplate"},
		{"fractional template", strings.Replace(validPayload, `"pdfTemplate": 1`, `"pdfTemplate": 1.5`, 1), "details.pdfTemplate"},
		{"no items", strings.Replace(validPayload, `"items": [`, `"items": [], "x": [`, 1), "details.items"},
		{"negative quantity", strings.Replace(validPayload, `"quantity": 2`, `"quantity": -2`, 1), "details.items[0].quantity"},
		{"negative price", strings.Replace(validPayload, `"unitPrice": 50`, `"unitPrice": -50`, 1), "details.items[1].unitPrice"},
		{"unknown amount type", strings.Replace(validPayload, `"amountType": "percentage"`, `"amountType": "ratio"`, 1), "details.taxDetails.amountType"},
		{"bad date", strings.Replace(validPayload, `"2025-03-01"`, `"March first"`, 1), "details.invoiceDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInvoiceRequest([]byte(tt.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q (%v)", ve.Field, tt.field, err)
			}
		})
	}
}

func TestValidateForSave(t *testing.T) {
	v, err := ParseInvoiceRequest([]byte(validPayload))
	if err != nil {
		t.Fatalf("ParseInvoiceRequest() error = %v", err)
	}
	if err := ValidateForSave(v); err != nil {
		t.Errorf("positive total rejected: %v", err)
	}

	zero := strings.NewReplacer(`"unitPrice": 100`, `"unitPrice": 0`, `"unitPrice": 50`, `"unitPrice": 0`).Replace(validPayload)
	v, err = ParseInvoiceRequest([]byte(zero))
	if err != nil {
		t.Fatalf("zero total must pass request validation: %v", err)
	}
	if err := ValidateForSave(v); !IsValidationError(err) {
		t.Errorf("expected validation error for zero total, got %v", err)
	}
}
