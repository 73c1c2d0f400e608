package services

import "time"

// AmountType selects how a charge amount is applied to the subtotal.
type AmountType string

const (
	AmountTypePercentage AmountType = "percentage"
	AmountTypeFixed      AmountType = "fixed"
	// AmountTypeAmount is accepted as an alias of AmountTypeFixed.
	AmountTypeAmount AmountType = "amount"
)

// IsFixed reports whether the charge is a flat amount rather than a percentage.
func (t AmountType) IsFixed() bool {
	return t == AmountTypeFixed || t == AmountTypeAmount
}

// Valid reports whether t is one of the known amount types.
func (t AmountType) Valid() bool {
	return t == AmountTypePercentage || t.IsFixed()
}

// ChargeDetail describes a tax, discount or shipping charge.
type ChargeDetail struct {
	Amount     float64    `json:"amount"`
	AmountType AmountType `json:"amountType"`
}

// DefaultCharge is the zeroed charge every disabled or missing charge is
// replaced with before calculation, persistence and rendering.
var DefaultCharge = ChargeDetail{Amount: 0, AmountType: AmountTypePercentage}

// IsZero reports whether the charge contributes nothing.
func (c ChargeDetail) IsZero() bool {
	return c.Amount == 0
}

// LineItem is a single billable row. Total is always derived from
// Quantity and UnitPrice.
type LineItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
	UnitType    string  `json:"unitType,omitempty"`
}

// Party is the sender or receiver block of an invoice.
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// PaymentInformation holds the bank details printed on the document.
type PaymentInformation struct {
	BankName      string `json:"bankName,omitempty"`
	AccountName   string `json:"accountName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IBAN          string `json:"iban,omitempty"`
	SWIFT         string `json:"swift,omitempty"`
}

// IsEmpty reports whether no payment field is filled in.
func (p PaymentInformation) IsEmpty() bool {
	return p.BankName == "" && p.AccountName == "" && p.AccountNumber == "" && p.IBAN == "" && p.SWIFT == ""
}

// InvoiceDetails carries everything below the parties.
type InvoiceDetails struct {
	InvoiceNumber      string             `json:"invoiceNumber"`
	IsInvoice          bool               `json:"isInvoice"`
	InvoiceDate        string             `json:"invoiceDate,omitempty"`
	DueDate            string             `json:"dueDate,omitempty"`
	Currency           string             `json:"currency"`
	Items              []LineItem         `json:"items"`
	TaxDetails         ChargeDetail       `json:"taxDetails"`
	DiscountDetails    ChargeDetail       `json:"discountDetails"`
	ShippingDetails    ChargeDetail       `json:"shippingDetails"`
	PaymentInformation PaymentInformation `json:"paymentInformation"`
	AdditionalNotes    string             `json:"additionalNotes,omitempty"`
	PaymentTerms       string             `json:"paymentTerms,omitempty"`
	SubTotal           float64            `json:"subTotal"`
	TotalAmount        float64            `json:"totalAmount"`
	TotalAmountInWords string             `json:"totalAmountInWords,omitempty"`
	PdfTemplate        int                `json:"pdfTemplate"`
}

// InvoiceDocument is the full invoice or quotation as stored and rendered.
type InvoiceDocument struct {
	ID        string         `json:"id,omitempty"`
	Sender    Party          `json:"sender"`
	Receiver  Party          `json:"receiver"`
	Details   InvoiceDetails `json:"details"`
	CreatedAt time.Time      `json:"createdAt,omitzero"`
}

// Charges returns the calculator input for a stored document. Stored
// charges are already zeroed when disabled, so each one is enabled.
func (d *InvoiceDocument) Charges() AmountsInput {
	return AmountsInput{
		Items:    d.Details.Items,
		Tax:      ChargeInput{Enabled: true, Detail: d.Details.TaxDetails},
		Discount: ChargeInput{Enabled: true, Detail: d.Details.DiscountDetails},
		Shipping: ChargeInput{Enabled: true, Detail: d.Details.ShippingDetails},
	}
}

// ApplyAmounts writes the computed figures back onto the document so that
// the stored record always agrees with the calculator.
func (d *InvoiceDocument) ApplyAmounts(a Amounts) {
	for i := range d.Details.Items {
		if i < len(a.LineTotals) {
			d.Details.Items[i].Total = a.LineTotals[i].InexactFloat64()
		}
	}
	d.Details.SubTotal = a.SubTotal.InexactFloat64()
	d.Details.TotalAmount = a.GrandTotal.InexactFloat64()
	d.Details.IsInvoice = a.HasTax()
	d.Details.TotalAmountInWords = AmountToWords(d.Details.TotalAmount, d.Details.Currency)
}

// Recalculate recomputes every derived figure from items and charges.
func (d *InvoiceDocument) Recalculate() Amounts {
	a := CalcAmounts(d.Charges())
	d.ApplyAmounts(a)
	return a
}
