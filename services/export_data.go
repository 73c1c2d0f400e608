package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExportRow represents a single invoice in the list export.
type ExportRow struct {
	Number    string // prefixed display number, e.g. "INV-25"
	Kind      string // "Invoice" or "Quotation"
	Date      string
	DueDate   string
	Customer  string
	Currency  string
	SubTotal  decimal.Decimal
	Tax       decimal.Decimal
	Discount  decimal.Decimal
	Shipping  decimal.Decimal
	Total     decimal.Decimal
	ItemCount int
}

// ExportData holds all data needed for the invoice list export.
type ExportData struct {
	Title       string
	CreatedDate string
	Rows        []ExportRow
	// Totals maps currency code to the sum of grand totals.
	Totals map[string]decimal.Decimal
}

// BuildExportData recomputes every document and flattens it into rows in
// the order given.
func BuildExportData(docs []InvoiceDocument, generatedOn time.Time) ExportData {
	data := ExportData{
		Title:       "Invoices",
		CreatedDate: generatedOn.Format("02 Jan 2006"),
		Rows:        make([]ExportRow, 0, len(docs)),
		Totals:      map[string]decimal.Decimal{},
	}

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
		}

		data.Rows = append(data.Rows, ExportRow{
			Number:    DisplayInvoiceNumber(doc.Details.InvoiceNumber, hasTax),
			Kind:      kind,
			Date:      formatDocDate(doc.Details.InvoiceDate),
			DueDate:   formatDocDate(doc.Details.DueDate),
			Customer:  doc.Receiver.Name,
			Currency:  currency,
			SubTotal:  a.SubTotal,
			Tax:       a.TaxAmount,
			Discount:  a.DiscountAmount,
			Shipping:  a.ShippingAmount,
			Total:     a.GrandTotal,
			ItemCount: len(doc.Details.Items),
		})
		data.Totals[currency] = data.Totals[currency].Add(a.GrandTotal)
	}
	return data
}
