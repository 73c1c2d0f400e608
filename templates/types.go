// Package templates holds the templ components that produce the HTML fed to
// the PDF exporter.
package templates

// PartyView is a sender or receiver block, already split into lines.
type PartyView struct {
	Label string
	Name  string
	Lines []string
}

// ItemView is a formatted line item row.
type ItemView struct {
	Index       int
	Name        string
	Description string
	Quantity    string
	UnitType    string
	UnitPrice   string
	Total       string
}

// ChargeView is a summary row such as "Tax (5%)".
type ChargeView struct {
	Label  string
	Amount string
}

// LabelValue is a generic key/value row.
type LabelValue struct {
	Label string
	Value string
}

// Layouts of the single-invoice document.
const (
	LayoutClassic = 1
	LayoutCompact = 2
)

// DocumentView is everything the invoice document prints. Optional blocks
// are nil or empty when they must not appear.
type DocumentView struct {
	Layout      int
	Title       string
	Number      string
	Stylesheet  string
	LogoDataURI string
	InvoiceDate string
	DueDate     string
	Currency    string
	Sender      PartyView
	Receiver    PartyView
	Items       []ItemView
	SubTotal    string
	Tax         *ChargeView
	Discount    *ChargeView
	Shipping    *ChargeView
	Total       string
	TotalWords  string
	Notes       string
	Terms       string
	Payment     []LabelValue
}

// ReportRow is one invoice in the condensed list report.
type ReportRow struct {
	Number   string
	Date     string
	Customer string
	Kind     string
	Currency string
	SubTotal string
	Tax      string
	Total    string
}

// ReportView is the multi-record list report.
type ReportView struct {
	Title       string
	GeneratedOn string
	Stylesheet  string
	LogoDataURI string
	Rows        []ReportRow
	Totals      []LabelValue
}
