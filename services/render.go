package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"

	"invoicedesk/templates"
)

// inlineStylesheet is used when no stylesheet is configured or the
// configured one cannot be loaded.
const inlineStylesheet = `
@page { size: A4; margin: 14mm; }
body { font-family: Helvetica, Arial, sans-serif; font-size: 11px; color: #212529; margin: 0; }
.doc-header { display: flex; justify-content: space-between; align-items: flex-start; border-bottom: 2px solid #212529; padding-bottom: 8px; }
.logo { max-height: 60px; max-width: 180px; }
h1 { font-size: 20px; margin: 0; letter-spacing: 1px; }
.doc-number, .generated-on { margin: 2px 0; color: #555; }
.doc-dates dt { font-weight: bold; color: #666; }
.doc-dates dd { margin: 0 0 4px 0; }
.parties { display: flex; gap: 24px; margin: 12px 0; }
.party { flex: 1; }
.party p { margin: 1px 0; }
.party-name { font-weight: bold; }
.section-label { font-size: 9px; text-transform: uppercase; color: #666; margin: 0 0 4px 0; }
table { width: 100%; border-collapse: collapse; }
.items th { background: #212529; color: #fff; padding: 4px; text-align: left; }
.items td { padding: 4px; border-bottom: 1px solid #e5e5e5; }
.item-desc { color: #666; font-size: 9px; }
.num { text-align: right; }
.summary { width: 45%; margin: 10px 0 0 auto; }
.summary th { text-align: right; padding: 3px 6px; }
.summary td { padding: 3px 6px; }
.grand-total th, .grand-total td { background: #212529; color: #fff; }
.total-words { font-style: italic; margin-top: 8px; }
.payment dl { display: grid; grid-template-columns: 140px auto; margin: 0; }
.payment dd { margin: 0; }
.layout-compact { font-size: 10px; }
.layout-compact .parties { margin: 6px 0; }
`

// Renderer assembles invoice HTML. Logo and stylesheet problems are logged
// and never fail a render.
type Renderer struct {
	LogoPath string
	// Stylesheet is an http(s) URL or a local file path.
	Stylesheet   string
	HTTPClient   *http.Client
	FetchTimeout time.Duration
}

// NewRenderer creates a Renderer with a bounded stylesheet fetch.
func NewRenderer(logoPath, stylesheet string) *Renderer {
	return &Renderer{
		LogoPath:     logoPath,
		Stylesheet:   stylesheet,
		HTTPClient:   http.DefaultClient,
		FetchTimeout: 5 * time.Second,
	}
}

// Render produces the HTML for a single invoice using the amounts computed
// for it. Identical inputs produce identical output.
func (r *Renderer) Render(ctx context.Context, doc InvoiceDocument, amounts Amounts) (string, error) {
	view := BuildDocumentView(doc, amounts)
	view.LogoDataURI = r.loadLogo()
	view.Stylesheet = r.loadStylesheet(ctx)

	var buf bytes.Buffer
	if err := templates.InvoiceDocument(view).Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("render invoice %s: %w", doc.Details.InvoiceNumber, err)
	}
	return buf.String(), nil
}

// RenderReport produces the condensed list report. generatedOn is the only
// dynamic value in the output.
func (r *Renderer) RenderReport(ctx context.Context, docs []InvoiceDocument, generatedOn time.Time) (string, error) {
	view := BuildReportView(docs, generatedOn)
	view.LogoDataURI = r.loadLogo()
	view.Stylesheet = r.loadStylesheet(ctx)

	var buf bytes.Buffer
	if err := templates.InvoiceReport(view).Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("render invoice report: %w", err)
	}
	return buf.String(), nil
}

// BuildDocumentView maps a document and its amounts onto the template view.
func BuildDocumentView(doc InvoiceDocument, a Amounts) templates.DocumentView {
	d := doc.Details
	hasTax := a.HasTax()

	items := make([]templates.ItemView, 0, len(d.Items))
	for i, item := range d.Items {
		total := CalcLineTotal(item.Quantity, item.UnitPrice)
		if i < len(a.LineTotals) {
			total = a.LineTotals[i]
		}
		items = append(items, templates.ItemView{
			Index:       i + 1,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    formatQty(item.Quantity),
			UnitType:    item.UnitType,
			UnitPrice:   FormatMoneyFloat(item.UnitPrice),
			Total:       FormatMoney(total),
		})
	}

	currency := strings.ToUpper(d.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	view := templates.DocumentView{
		Layout:      d.PdfTemplate,
		Title:       DocumentTitle(hasTax),
		Number:      DisplayInvoiceNumber(d.InvoiceNumber, hasTax),
		InvoiceDate: formatDocDate(d.InvoiceDate),
		DueDate:     formatDocDate(d.DueDate),
		Currency:    currency,
		Sender:      partyView("From", doc.Sender),
		Receiver:    partyView("Bill To", doc.Receiver),
		Items:       items,
		SubTotal:    FormatMoney(a.SubTotal),
		Tax:         chargeView("Tax", d.TaxDetails, a.TaxAmount, ""),
		Discount:    chargeView("Discount", d.DiscountDetails, a.DiscountAmount, "-"),
		Shipping:    chargeView("Shipping", d.ShippingDetails, a.ShippingAmount, ""),
		Total:       FormatMoney(a.GrandTotal),
		Notes:       d.AdditionalNotes,
		Terms:       d.PaymentTerms,
		Payment:     paymentRows(d.PaymentInformation),
	}
	if a.GrandTotal.IsPositive() {
		view.TotalWords = AmountToWords(a.GrandTotal.InexactFloat64(), currency)
	}
	return view
}

// BuildReportView maps stored documents onto report rows. Amounts are
// recomputed so the report agrees with every single-invoice render.
func BuildReportView(docs []InvoiceDocument, generatedOn time.Time) templates.ReportView {
	rows := make([]templates.ReportRow, 0, len(docs))
	totals := map[string]decimal.Decimal{}
	var invoices, quotations int

	for _, doc := range docs {
		a := CalcAmounts(doc.Charges())
		hasTax := a.HasTax()
		currency := strings.ToUpper(doc.Details.Currency)
		if currency == "" {
			currency = DefaultCurrency
		}

		kind := "Quotation"
		if hasTax {
			kind = "Invoice"
			invoices++
		} else {
			quotations++
		}

		rows = append(rows, templates.ReportRow{
			Number:   DisplayInvoiceNumber(doc.Details.InvoiceNumber, hasTax),
			Date:     formatDocDate(doc.Details.InvoiceDate),
			Customer: doc.Receiver.Name,
			Kind:     kind,
			Currency: currency,
			SubTotal: FormatMoney(a.SubTotal),
			Tax:      FormatMoney(a.TaxAmount),
			Total:    FormatMoney(a.GrandTotal),
		})
		totals[currency] = totals[currency].Add(a.GrandTotal)
	}

	currencies := make([]string, 0, len(totals))
	for c := range totals {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)

	summary := []templates.LabelValue{
		{Label: "Invoices", Value: fmt.Sprintf("%d", invoices)},
		{Label: "Quotations", Value: fmt.Sprintf("%d", quotations)},
	}
	for _, c := range currencies {
		summary = append(summary, templates.LabelValue{
			Label: "Total (" + c + ")",
			Value: FormatMoney(totals[c]),
		})
	}

	generated := ""
	if !generatedOn.IsZero() {
		generated = generatedOn.Format("02 Jan 2006 15:04")
	}

	return templates.ReportView{
		Title:       "INVOICE REPORT",
		GeneratedOn: generated,
		Rows:        rows,
		Totals:      summary,
	}
}

func partyView(label string, p Party) templates.PartyView {
	var lines []string
	for _, l := range []string{p.Address, joinNonEmpty([]string{p.State, p.Country}, ", "), p.Email, p.Phone} {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return templates.PartyView{Label: label, Name: p.Name, Lines: lines}
}

// chargeView returns nil for charges that must not be printed.
func chargeView(label string, c ChargeDetail, amount decimal.Decimal, sign string) *templates.ChargeView {
	if amount.IsZero() {
		return nil
	}
	if !c.AmountType.IsFixed() {
		label = fmt.Sprintf("%s (%s)", label, formatPercent(c.Amount))
	}
	return &templates.ChargeView{Label: label, Amount: sign + FormatMoney(amount)}
}

func paymentRows(p PaymentInformation) []templates.LabelValue {
	var rows []templates.LabelValue
	for _, f := range []templates.LabelValue{
		{Label: "Bank Name", Value: p.BankName},
		{Label: "Account Name", Value: p.AccountName},
		{Label: "Account Number", Value: p.AccountNumber},
		{Label: "IBAN", Value: p.IBAN},
		{Label: "SWIFT", Value: p.SWIFT},
	} {
		if f.Value != "" {
			rows = append(rows, f)
		}
	}
	return rows
}

func formatDocDate(value string) string {
	if value == "" {
		return ""
	}
	t := ParseDate(value)
	if t.IsZero() {
		return value
	}
	return t.Format("02 Jan 2006")
}

// loadLogo returns the logo as a data URI, or "" when it cannot be read.
func (r *Renderer) loadLogo() string {
	if r.LogoPath == "" {
		return ""
	}
	data, err := os.ReadFile(r.LogoPath)
	if err != nil {
		log.Printf("render: warning: logo %s unavailable, rendering without it: %v", r.LogoPath, err)
		return ""
	}
	if len(data) == 0 {
		log.Printf("render: warning: logo %s is empty, rendering without it", r.LogoPath)
		return ""
	}
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		log.Printf("render: warning: logo %s is %s, not an image", r.LogoPath, mime.String())
		return ""
	}
	return "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// loadStylesheet returns the configured stylesheet or the inline fallback.
func (r *Renderer) loadStylesheet(ctx context.Context) string {
	if r.Stylesheet == "" {
		return inlineStylesheet
	}

	var css string
	var err error
	if strings.HasPrefix(r.Stylesheet, "http://") || strings.HasPrefix(r.Stylesheet, "https://") {
		css, err = r.fetchStylesheet(ctx)
	} else {
		var data []byte
		data, err = os.ReadFile(r.Stylesheet)
		css = string(data)
	}
	if err != nil {
		log.Printf("render: warning: stylesheet %s unavailable, using inline fallback: %v", r.Stylesheet, err)
		return inlineStylesheet
	}
	return css
}

func (r *Renderer) fetchStylesheet(ctx context.Context) (string, error) {
	timeout := r.FetchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.Stylesheet, nil)
	if err != nil {
		return "", err
	}
	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
