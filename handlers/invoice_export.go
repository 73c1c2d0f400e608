package handlers

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"invoicedesk/services"
)

// HandleInvoiceExportPDF downloads the condensed report of all invoices.
// Route: GET /api/invoicing/invoices/export/pdf
func HandleInvoiceExportPDF(app *pocketbase.PocketBase, docs *services.DocumentService) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, err := services.NewInvoiceStore(app).List()
		if err != nil {
			return RespondError(e, "export_pdf", err)
		}

		now := time.Now()
		pdf, err := docs.ReportPDF(e.Request.Context(), list, now)
		if err != nil {
			return RespondError(e, "export_pdf", err)
		}
		filename := fmt.Sprintf("invoice_report_%s.pdf", now.Format("2006-01-02"))
		return sendAttachment(e, contentTypePDF, filename, pdf)
	}
}

// HandleInvoiceExportExcel downloads all invoices as a spreadsheet.
// Route: GET /api/invoicing/invoices/export/xlsx
func HandleInvoiceExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, err := services.NewInvoiceStore(app).List()
		if err != nil {
			return RespondError(e, "export_excel", err)
		}

		now := time.Now()
		xlsx, err := services.GenerateExcel(services.BuildExportData(list, now))
		if err != nil {
			return RespondError(e, "export_excel", err)
		}
		filename := fmt.Sprintf("invoices_%s.xlsx", now.Format("2006-01-02"))
		return sendAttachment(e, contentTypeXLSX, filename, xlsx)
	}
}
