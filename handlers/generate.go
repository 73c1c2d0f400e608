package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"invoicedesk/services"
)

// amountsResponse is the JSON form of computed figures.
type amountsResponse struct {
	Title              string   `json:"title"`
	DisplayNumber      string   `json:"displayNumber"`
	IsInvoice          bool     `json:"isInvoice"`
	LineTotals         []string `json:"lineTotals"`
	SubTotal           string   `json:"subTotal"`
	TaxAmount          string   `json:"taxAmount"`
	DiscountAmount     string   `json:"discountAmount"`
	ShippingAmount     string   `json:"shippingAmount"`
	TotalAmount        string   `json:"totalAmount"`
	TotalAmountInWords string   `json:"totalAmountInWords"`
}

func newAmountsResponse(doc services.InvoiceDocument, a services.Amounts) amountsResponse {
	lines := make([]string, len(a.LineTotals))
	for i, lt := range a.LineTotals {
		lines[i] = lt.StringFixed(2)
	}
	return amountsResponse{
		Title:              services.DocumentTitle(a.HasTax()),
		DisplayNumber:      services.DisplayInvoiceNumber(doc.Details.InvoiceNumber, a.HasTax()),
		IsInvoice:          a.HasTax(),
		LineTotals:         lines,
		SubTotal:           a.SubTotal.StringFixed(2),
		TaxAmount:          a.TaxAmount.StringFixed(2),
		DiscountAmount:     a.DiscountAmount.StringFixed(2),
		ShippingAmount:     a.ShippingAmount.StringFixed(2),
		TotalAmount:        a.GrandTotal.StringFixed(2),
		TotalAmountInWords: doc.Details.TotalAmountInWords,
	}
}

// parseInvoiceBody reads and validates an invoice payload.
func parseInvoiceBody(e *core.RequestEvent) (*services.ValidatedInvoice, error) {
	body, err := readBody(e)
	if err != nil {
		return nil, err
	}
	return services.ParseInvoiceRequest(body)
}

// HandleGenerate validates the payload and returns the rendered PDF as an
// attachment.
// Route: POST /api/invoicing/generate
func HandleGenerate(app *pocketbase.PocketBase, docs *services.DocumentService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		v, err := parseInvoiceBody(e)
		if err != nil {
			return RespondError(e, "generate", err)
		}

		pdf, err := docs.InvoicePDF(e.Request.Context(), v.Document, v.Amounts)
		if err != nil {
			return RespondError(e, "generate", err)
		}

		log.Printf("generate: %s for %s (%d bytes)",
			services.DisplayInvoiceNumber(v.Document.Details.InvoiceNumber, v.Amounts.HasTax()),
			v.Document.Receiver.Name, len(pdf))
		return sendAttachment(e, contentTypePDF, services.InvoiceFilename(v.Document.Details.InvoiceNumber), pdf)
	}
}

// HandlePreview returns the rendered HTML document for the payload.
// Route: POST /api/invoicing/preview
func HandlePreview(app *pocketbase.PocketBase, docs *services.DocumentService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		v, err := parseInvoiceBody(e)
		if err != nil {
			return RespondError(e, "preview", err)
		}

		html, err := docs.InvoiceHTML(e.Request.Context(), v.Document, v.Amounts)
		if err != nil {
			return RespondError(e, "preview", err)
		}
		return e.HTML(http.StatusOK, html)
	}
}

// HandleCalculate returns the computed amounts for the payload.
// Route: POST /api/invoicing/calculate
func HandleCalculate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		v, err := parseInvoiceBody(e)
		if err != nil {
			return RespondError(e, "calculate", err)
		}
		return e.JSON(http.StatusOK, newAmountsResponse(v.Document, v.Amounts))
	}
}
