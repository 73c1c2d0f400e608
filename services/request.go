package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidationError is returned for client input that must never reach the
// renderer. Handlers map it to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// chargePayload is the loosely typed wire form of a charge. A missing charge
// or one with enabled=false is disabled.
type chargePayload struct {
	Enabled    *bool   `json:"enabled"`
	Amount     float64 `json:"amount"`
	AmountType string  `json:"amountType"`
}

type detailsPayload struct {
	InvoiceNumber      string             `json:"invoiceNumber"`
	InvoiceDate        string             `json:"invoiceDate"`
	DueDate            string             `json:"dueDate"`
	Currency           string             `json:"currency"`
	Items              []LineItem         `json:"items"`
	TaxDetails         *chargePayload     `json:"taxDetails"`
	DiscountDetails    *chargePayload     `json:"discountDetails"`
	ShippingDetails    *chargePayload     `json:"shippingDetails"`
	PaymentInformation PaymentInformation `json:"paymentInformation"`
	AdditionalNotes    string             `json:"additionalNotes"`
	PaymentTerms       string             `json:"paymentTerms"`
	PdfTemplate        json.RawMessage    `json:"pdfTemplate"`
}

type invoicePayload struct {
	Sender   *Party          `json:"sender"`
	Receiver *Party          `json:"receiver"`
	Details  *detailsPayload `json:"details"`
}

// ValidatedInvoice is a request that passed validation. Disabled charges
// are already replaced with DefaultCharge and Amounts are computed.
type ValidatedInvoice struct {
	Document InvoiceDocument
	Amounts  Amounts
}

// Supported layouts for the single-invoice document.
const (
	TemplateClassic = 1
	TemplateCompact = 2
)

// ParseInvoiceRequest decodes and validates a {sender, receiver, details}
// payload. Every error it returns is a *ValidationError.
func ParseInvoiceRequest(body []byte) (*ValidatedInvoice, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, invalid("", "request body is empty")
	}

	var p invoicePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, invalid("", "invalid JSON body: %v", err)
	}

	if p.Sender == nil || strings.TrimSpace(p.Sender.Name) == "" {
		return nil, invalid("sender", "sender is required")
	}
	if p.Receiver == nil || strings.TrimSpace(p.Receiver.Name) == "" {
		return nil, invalid("receiver", "receiver is required")
	}
	if p.Details == nil {
		return nil, invalid("details", "details are required")
	}
	d := p.Details

	number := BareInvoiceNumber(d.InvoiceNumber)
	if number == "" {
		return nil, invalid("details.invoiceNumber", "invoice number is required")
	}

	tmpl, err := parseTemplateID(d.PdfTemplate)
	if err != nil {
		return nil, err
	}

	if len(d.Items) == 0 {
		return nil, invalid("details.items", "at least one item is required")
	}
	for i, item := range d.Items {
		field := fmt.Sprintf("details.items[%d]", i)
		if strings.TrimSpace(item.Name) == "" {
			return nil, invalid(field+".name", "item name is required")
		}
		if item.Quantity < 0 {
			return nil, invalid(field+".quantity", "quantity must not be negative")
		}
		if item.UnitPrice < 0 {
			return nil, invalid(field+".unitPrice", "unit price must not be negative")
		}
	}

	tax, err := parseCharge("details.taxDetails", d.TaxDetails)
	if err != nil {
		return nil, err
	}
	discount, err := parseCharge("details.discountDetails", d.DiscountDetails)
	if err != nil {
		return nil, err
	}
	shipping, err := parseCharge("details.shippingDetails", d.ShippingDetails)
	if err != nil {
		return nil, err
	}

	if err := checkDate("details.invoiceDate", d.InvoiceDate); err != nil {
		return nil, err
	}
	if err := checkDate("details.dueDate", d.DueDate); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(d.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	items := make([]LineItem, len(d.Items))
	copy(items, d.Items)

	doc := InvoiceDocument{
		Sender:   *p.Sender,
		Receiver: *p.Receiver,
		Details: InvoiceDetails{
			InvoiceNumber:      number,
			InvoiceDate:        d.InvoiceDate,
			DueDate:            d.DueDate,
			Currency:           currency,
			Items:              items,
			TaxDetails:         effectiveCharge(tax),
			DiscountDetails:    effectiveCharge(discount),
			ShippingDetails:    effectiveCharge(shipping),
			PaymentInformation: d.PaymentInformation,
			AdditionalNotes:    strings.TrimSpace(d.AdditionalNotes),
			PaymentTerms:       strings.TrimSpace(d.PaymentTerms),
			PdfTemplate:        tmpl,
		},
	}

	amounts := CalcAmounts(AmountsInput{
		Items:    items,
		Tax:      tax,
		Discount: discount,
		Shipping: shipping,
	})
	doc.ApplyAmounts(amounts)

	return &ValidatedInvoice{Document: doc, Amounts: amounts}, nil
}

// ValidateForSave applies the extra rule for persisted invoices: the grand
// total must be positive.
func ValidateForSave(v *ValidatedInvoice) error {
	if !v.Amounts.GrandTotal.IsPositive() {
		return invalid("details.totalAmount", "total amount must be greater than zero")
	}
	return nil
}

// parseTemplateID accepts a JSON number or a numeric string.
func parseTemplateID(raw json.RawMessage) (int, error) {
	const field = "details.pdfTemplate"
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, invalid(field, "pdf template is required")
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, invalid(field, "pdf template must be numeric")
	}
	id := int(f)
	if id != TemplateClassic && id != TemplateCompact {
		return 0, invalid(field, "unknown pdf template %d", id)
	}
	return id, nil
}

func parseCharge(field string, c *chargePayload) (ChargeInput, error) {
	if c == nil || (c.Enabled != nil && !*c.Enabled) {
		return ChargeInput{Enabled: false, Detail: DefaultCharge}, nil
	}
	t := AmountType(strings.ToLower(strings.TrimSpace(c.AmountType)))
	if t == "" {
		t = DefaultCharge.AmountType
	}
	if !t.Valid() {
		return ChargeInput{}, invalid(field+".amountType", "unknown amount type %q", c.AmountType)
	}
	if c.Amount < 0 {
		return ChargeInput{}, invalid(field+".amount", "amount must not be negative")
	}
	return ChargeInput{Enabled: true, Detail: ChargeDetail{Amount: c.Amount, AmountType: t}}, nil
}

// effectiveCharge is what gets stored and rendered: disabled charges are
// zeroed rather than hidden.
func effectiveCharge(c ChargeInput) ChargeDetail {
	if !c.Enabled {
		return DefaultCharge
	}
	return c.Detail
}

var dateLayouts = []string{time.DateOnly, time.RFC3339, "2006-01-02 15:04:05.000Z"}

func checkDate(field, value string) error {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return nil
		}
	}
	return invalid(field, "unrecognised date %q", value)
}

// ParseDate parses a stored document date; the zero time is returned for
// empty or unparseable values.
func ParseDate(value string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
