package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"invoicedesk/services"
	"invoicedesk/testhelpers"
)

// fakeConverter records the HTML it was given and returns a fixed result.
type fakeConverter struct {
	html  string
	calls int
	err   error
}

func (f *fakeConverter) ToPDF(_ context.Context, html string) ([]byte, error) {
	f.calls++
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func newTestDocs(conv services.PDFConverter) *services.DocumentService {
	return services.NewDocumentService(services.NewRenderer("", ""), conv)
}

const validInvoiceJSON = `{
	"sender": {"name": "Fervid Trading"},
	"receiver": {"name": "Gulf Retail"},
	"details": {
		"invoiceNumber": "25",
		"invoiceDate": "2025-03-01",
		"currency": "AED",
		"pdfTemplate": "1",
		"items": [
			{"name": "Consulting", "quantity": 2, "unitPrice": 100},
			{"name": "Support", "quantity": 1, "unitPrice": 50}
		],
		"taxDetails": {"enabled": true, "amount": 5, "amountType": "percentage"}
	}
}`

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body["error"]
}

func TestHandleGenerate_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	conv := &fakeConverter{}

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, postJSON("/api/invoicing/generate", validInvoiceJSON), rec)

	if err := HandleGenerate(app, newTestDocs(conv))(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=invoice_25.pdf" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Error("expected PDF body")
	}
	testhelpers.AssertHTMLContains(t, conv.html, "TAX INVOICE", "INV-25", "262.50")
}

func TestHandleGenerate_ValidationErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", "{"},
		{"missing invoice number", strings.Replace(validInvoiceJSON, `"invoiceNumber": "25"`, `"invoiceNumber": ""`, 1)},
		{"non-numeric template", strings.Replace(validInvoiceJSON, `"pdfTemplate": "1"`, `"pdfTemplate": "fancy"`, 1)},
		{"no items", strings.Replace(validInvoiceJSON, `"items": [`, `"items": [], "x": [`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &fakeConverter{}
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, postJSON("/api/invoicing/generate", tt.body), rec)

			if err := HandleGenerate(app, newTestDocs(conv))(e); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if errorMessage(t, rec) == "" {
				t.Error("expected an error message")
			}
			if conv.calls != 0 {
				t.Error("converter must not run for invalid input")
			}
		})
	}
}

func TestHandleGenerate_ConverterFailure(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	conv := &fakeConverter{err: fmt.Errorf("%w: chrome missing", services.ErrBrowserLaunch)}

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, postJSON("/api/invoicing/generate", validInvoiceJSON), rec)

	if err := HandleGenerate(app, newTestDocs(conv))(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "failed to launch browser" {
		t.Errorf("error = %q", msg)
	}
	if rec.Header().Get("Content-Disposition") != "" {
		t.Error("no attachment expected on failure")
	}
}

func TestHandlePreview(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, postJSON("/api/invoicing/preview", validInvoiceJSON), rec)

	if err := HandlePreview(app, newTestDocs(&fakeConverter{}))(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "<html", "INV-25", "Gulf Retail")
}

func TestHandleCalculate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, postJSON("/api/invoicing/calculate", validInvoiceJSON), rec)

	if err := HandleCalculate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body amountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.SubTotal != "250.00" || body.TaxAmount != "12.50" || body.TotalAmount != "262.50" {
		t.Errorf("unexpected amounts %+v", body)
	}
	if body.DisplayNumber != "INV-25" || body.Title != "TAX INVOICE" || !body.IsInvoice {
		t.Errorf("unexpected labels %+v", body)
	}
	if len(body.LineTotals) != 2 || body.LineTotals[0] != "200.00" {
		t.Errorf("line totals = %v", body.LineTotals)
	}
}

func TestHandleCalculate_ZeroTotalAllowed(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	body := strings.Replace(validInvoiceJSON, `"unitPrice": 100`, `"unitPrice": 0`, 1)
	body = strings.Replace(body, `"unitPrice": 50`, `"unitPrice": 0`, 1)

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, postJSON("/api/invoicing/calculate", body), rec)

	if err := HandleCalculate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for a zero total, got %d", rec.Code)
	}
}
