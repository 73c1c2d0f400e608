package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"invoicedesk/testhelpers"
)

func TestHandleInvoiceExportPDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestInvoice(t, app, "1", "Gulf Retail", 5)
	testhelpers.CreateTestInvoice(t, app, "2", "Desert Foods", 0)
	conv := &fakeConverter{}

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, httptest.NewRequest(http.MethodGet, "/api/invoicing/invoices/export/pdf", nil), rec)

	if err := HandleInvoiceExportPDF(app, newTestDocs(conv))(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment; filename=invoice_report_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	testhelpers.AssertHTMLContains(t, conv.html, "INVOICE REPORT", "INV-1", "QUT-2", "512.50")
}

func TestHandleInvoiceExportExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestInvoice(t, app, "1", "Gulf Retail", 5)

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, httptest.NewRequest(http.MethodGet, "/api/invoicing/invoices/export/xlsx", nil), rec)

	if err := HandleInvoiceExportExcel(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not valid Excel: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue("Invoices", "B5"); got != "INV-1" {
		t.Errorf("B5 = %q, want INV-1", got)
	}
}
