package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

const (
	PrefixInvoice   = "INV"
	PrefixQuotation = "QUT"
)

// DocumentTitle returns the heading printed on the document.
func DocumentTitle(hasTax bool) string {
	if hasTax {
		return "TAX INVOICE"
	}
	return "QUOTATION"
}

// InvoicePrefix is the single prefix rule used by every view of an invoice:
// INV when tax applies, QUT otherwise.
func InvoicePrefix(hasTax bool) string {
	if hasTax {
		return PrefixInvoice
	}
	return PrefixQuotation
}

// BareInvoiceNumber strips a stored INV-/QUT- prefix, if any. The prefix
// must be followed by a separator or a digit, so "INVOICE7" is kept whole.
func BareInvoiceNumber(number string) string {
	n := strings.TrimSpace(number)
	for _, p := range []string{PrefixInvoice, PrefixQuotation} {
		if len(n) <= len(p) || !strings.EqualFold(n[:len(p)], p) {
			continue
		}
		next := n[len(p)]
		if next != '-' && next != '_' && next != ' ' && (next < '0' || next > '9') {
			continue
		}
		if rest := strings.TrimLeft(n[len(p):], "-_ "); rest != "" {
			return rest
		}
	}
	return n
}

// DisplayInvoiceNumber derives the printed number, e.g. "25" → "INV-25".
func DisplayInvoiceNumber(number string, hasTax bool) string {
	return fmt.Sprintf("%s-%s", InvoicePrefix(hasTax), BareInvoiceNumber(number))
}

// NextInvoiceNumber suggests the next free numeric invoice number. Numbers
// that are not plain integers are ignored.
func NextInvoiceNumber(app core.App) (string, error) {
	records, err := app.FindAllRecords("invoices")
	if err != nil {
		return "", fmt.Errorf("could not query invoices: %w", err)
	}

	var highest int64
	for _, rec := range records {
		n, err := strconv.ParseInt(BareInvoiceNumber(rec.GetString("invoice_number")), 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	return strconv.FormatInt(highest+1, 10), nil
}
