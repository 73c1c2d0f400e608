package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"invoicedesk/services"
)

// invoiceResponse is a stored document plus the derived display fields.
type invoiceResponse struct {
	services.InvoiceDocument
	Title         string `json:"title"`
	DisplayNumber string `json:"displayNumber"`
}

// newInvoiceResponse derives the prefix from the charges, like the rendered
// document, rather than trusting the stored is_invoice flag.
func newInvoiceResponse(doc services.InvoiceDocument) invoiceResponse {
	hasTax := services.CalcAmounts(doc.Charges()).HasTax()
	doc.Details.IsInvoice = hasTax
	return invoiceResponse{
		InvoiceDocument: doc,
		Title:           services.DocumentTitle(hasTax),
		DisplayNumber:   services.DisplayInvoiceNumber(doc.Details.InvoiceNumber, hasTax),
	}
}

// parseSaveBody validates an invoice payload for persistence.
func parseSaveBody(e *core.RequestEvent) (*services.ValidatedInvoice, error) {
	v, err := parseInvoiceBody(e)
	if err != nil {
		return nil, err
	}
	if err := services.ValidateForSave(v); err != nil {
		return nil, err
	}
	return v, nil
}

// HandleInvoiceList returns every stored invoice, newest first.
// Route: GET /api/invoicing/invoices
func HandleInvoiceList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		docs, err := services.NewInvoiceStore(app).List()
		if err != nil {
			return RespondError(e, "invoice_list", err)
		}
		out := make([]invoiceResponse, 0, len(docs))
		for _, d := range docs {
			out = append(out, newInvoiceResponse(d))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleInvoiceCreate stores a validated invoice.
// Route: POST /api/invoicing/invoices
func HandleInvoiceCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		v, err := parseSaveBody(e)
		if err != nil {
			return RespondError(e, "invoice_create", err)
		}

		id, created, err := services.NewInvoiceStore(app).Create(v.Document)
		if err != nil {
			return RespondError(e, "invoice_create", err)
		}
		if !created {
			return ErrorJSON(e, http.StatusConflict, "Invoice number already exists")
		}

		doc := v.Document
		doc.ID = id
		return e.JSON(http.StatusCreated, newInvoiceResponse(doc))
	}
}

// HandleInvoiceGet returns one stored invoice.
// Route: GET /api/invoicing/invoices/{id}
func HandleInvoiceGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, err := services.NewInvoiceStore(app).Get(e.Request.PathValue("id"))
		if err != nil {
			return RespondError(e, "invoice_get", err)
		}
		return e.JSON(http.StatusOK, newInvoiceResponse(*doc))
	}
}

// HandleInvoiceUpdate replaces a stored invoice.
// Route: PUT /api/invoicing/invoices/{id}
func HandleInvoiceUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		v, err := parseSaveBody(e)
		if err != nil {
			return RespondError(e, "invoice_update", err)
		}

		ok, err := services.NewInvoiceStore(app).Update(id, v.Document)
		if err != nil {
			return RespondError(e, "invoice_update", err)
		}
		if !ok {
			return ErrorJSON(e, http.StatusNotFound, "Invoice not found")
		}

		doc := v.Document
		doc.ID = id
		return e.JSON(http.StatusOK, newInvoiceResponse(doc))
	}
}

// HandleInvoiceDelete removes a stored invoice.
// Route: DELETE /api/invoicing/invoices/{id}
func HandleInvoiceDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ok, err := services.NewInvoiceStore(app).Delete(e.Request.PathValue("id"))
		if err != nil {
			return RespondError(e, "invoice_delete", err)
		}
		if !ok {
			return ErrorJSON(e, http.StatusNotFound, "Invoice not found")
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleInvoicePDF renders a stored invoice as a PDF download.
// Route: GET /api/invoicing/invoices/{id}/pdf
func HandleInvoicePDF(app *pocketbase.PocketBase, docs *services.DocumentService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, err := services.NewInvoiceStore(app).Get(e.Request.PathValue("id"))
		if err != nil {
			return RespondError(e, "invoice_pdf", err)
		}

		pdf, err := docs.StoredInvoicePDF(e.Request.Context(), *doc)
		if err != nil {
			return RespondError(e, "invoice_pdf", err)
		}
		return sendAttachment(e, contentTypePDF, services.InvoiceFilename(doc.Details.InvoiceNumber), pdf)
	}
}

// HandleNextInvoiceNumber suggests the next free invoice number.
// Route: GET /api/invoicing/invoices/next-number
func HandleNextInvoiceNumber(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		next, err := services.NextInvoiceNumber(app)
		if err != nil {
			return RespondError(e, "invoice_next_number", err)
		}
		return e.JSON(http.StatusOK, map[string]string{"invoiceNumber": next})
	}
}
