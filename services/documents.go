package services

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// PDFConverter turns a complete HTML document into PDF bytes.
type PDFConverter interface {
	ToPDF(ctx context.Context, html string) ([]byte, error)
}

// DocumentService is the single render-then-rasterize path shared by
// generate, stored invoice downloads and the report export.
type DocumentService struct {
	Renderer  *Renderer
	Converter PDFConverter
}

// NewDocumentService wires a renderer to a converter.
func NewDocumentService(r *Renderer, c PDFConverter) *DocumentService {
	return &DocumentService{Renderer: r, Converter: c}
}

// InvoiceHTML renders the document with its computed amounts.
func (s *DocumentService) InvoiceHTML(ctx context.Context, doc InvoiceDocument, a Amounts) (string, error) {
	return s.Renderer.Render(ctx, doc, a)
}

// InvoicePDF renders and rasterizes one invoice.
func (s *DocumentService) InvoicePDF(ctx context.Context, doc InvoiceDocument, a Amounts) ([]byte, error) {
	html, err := s.Renderer.Render(ctx, doc, a)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPDFGeneration, err)
	}
	return s.Converter.ToPDF(ctx, html)
}

// StoredInvoicePDF recomputes a persisted document before rendering it.
func (s *DocumentService) StoredInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error) {
	a := doc.Recalculate()
	return s.InvoicePDF(ctx, doc, a)
}

// ReportPDF renders the condensed list report for docs.
func (s *DocumentService) ReportPDF(ctx context.Context, docs []InvoiceDocument, generatedOn time.Time) ([]byte, error) {
	html, err := s.Renderer.RenderReport(ctx, docs, generatedOn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPDFGeneration, err)
	}
	return s.Converter.ToPDF(ctx, html)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// InvoiceFilename returns the attachment name for a downloaded invoice,
// e.g. "invoice_25.pdf".
func InvoiceFilename(invoiceNumber string) string {
	name := unsafeFilenameChars.ReplaceAllString(BareInvoiceNumber(invoiceNumber), "_")
	if name == "" {
		name = "document"
	}
	return "invoice_" + name + ".pdf"
}
