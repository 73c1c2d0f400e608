package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

// StatementRow is one document on a customer statement.
type StatementRow struct {
	Number   string
	Kind     string
	Date     string
	DueDate  string
	Currency string
	Total    decimal.Decimal
}

// StatementData holds everything printed on a customer statement.
type StatementData struct {
	CompanyName string
	Customer    Customer
	GeneratedOn string
	Rows        []StatementRow
	// Totals maps currency code to the summed invoice totals. Quotations
	// are listed but not summed.
	Totals map[string]decimal.Decimal
}

// BuildStatementData assembles a statement from the documents billed to c.
func BuildStatementData(companyName string, c Customer, docs []InvoiceDocument, generatedOn time.Time) StatementData {
	data := StatementData{
		CompanyName: companyName,
		Customer:    c,
		GeneratedOn: generatedOn.Format("02 Jan 2006"),
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
			data.Totals[currency] = data.Totals[currency].Add(a.GrandTotal)
		}
		data.Rows = append(data.Rows, StatementRow{
			Number:   DisplayInvoiceNumber(doc.Details.InvoiceNumber, hasTax),
			Kind:     kind,
			Date:     formatDocDate(doc.Details.InvoiceDate),
			DueDate:  formatDocDate(doc.Details.DueDate),
			Currency: currency,
			Total:    a.GrandTotal,
		})
	}
	return data
}

// GenerateStatementPDF renders a customer statement using maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateStatementPDF(data StatementData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addStatementHeader(m, data)
	addStatementCustomer(m, data.Customer)
	addStatementTable(m, data.Rows)
	addStatementTotals(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate statement PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addStatementHeader adds company name, title and generated date.
func addStatementHeader(m core.Maroto, data StatementData) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(data.CompanyName, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New("STATEMENT OF ACCOUNT", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				}),
			),
		),
	)
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Generated on %s", data.GeneratedOn), props.Text{
					Size:  8,
					Align: align.Right,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
		),
	)
	m.AddRows(row.New(3))
}

// addStatementCustomer prints the customer's contact block.
func addStatementCustomer(m core.Maroto, c Customer) {
	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	valueStyle := props.Text{
		Size:  8,
		Align: align.Left,
	}

	m.AddRows(row.New(5).Add(col.New(12).Add(text.New("BILL TO", labelStyle))))
	m.AddRows(row.New(5).Add(col.New(12).Add(text.New(c.Name, props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Left,
	}))))

	lines := []string{
		c.Address,
		joinNonEmpty([]string{c.State, c.Country}, ", "),
		joinNonEmpty([]string{fmtField("Email", c.Email), fmtField("Phone", c.Phone)}, " | "),
	}
	for _, l := range lines {
		if l == "" {
			continue
		}
		m.AddRows(row.New(4).Add(col.New(12).Add(text.New(l, valueStyle))))
	}
	m.AddRows(row.New(4))
}

// addStatementTable lists every document billed to the customer.
func addStatementTable(m core.Maroto, rows []StatementRow) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(2).Add(text.New("Number", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Type", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Date", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Due Date", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Cur.", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Amount", headerText)).WithStyle(&headerCell),
		),
	)

	if len(rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(text.New("No invoices found.", props.Text{
			Size:  8,
			Style: fontstyle.Italic,
			Align: align.Center,
		}))))
		return
	}

	baseText := props.Text{Size: 8, Align: align.Center}
	rightText := baseText
	rightText.Align = align.Right
	stripe := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}

	for i, r := range rows {
		cols := []core.Col{
			col.New(2).Add(text.New(r.Number, baseText)),
			col.New(2).Add(text.New(r.Kind, baseText)),
			col.New(2).Add(text.New(r.Date, baseText)),
			col.New(2).Add(text.New(r.DueDate, baseText)),
			col.New(1).Add(text.New(r.Currency, baseText)),
			col.New(3).Add(text.New(FormatMoney(r.Total), rightText)),
		}
		if i%2 == 1 {
			for j := range cols {
				cols[j] = cols[j].WithStyle(stripe)
			}
		}
		m.AddRows(row.New(7).Add(cols...))
	}
	m.AddRows(row.New(3))
}

// addStatementTotals adds one outstanding-total row per currency.
func addStatementTotals(m core.Maroto, data StatementData) {
	grandCell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	style := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}

	currencies := make([]string, 0, len(data.Totals))
	for c := range data.Totals {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)

	for _, c := range currencies {
		m.AddRows(
			row.New(8).Add(
				col.New(9).Add(text.New(fmt.Sprintf("Total Invoiced (%s)", c), style)).WithStyle(grandCell),
				col.New(3).Add(text.New(FormatMoney(data.Totals[c]), style)).WithStyle(grandCell),
			),
		)
	}
}

// joinNonEmpty joins non-empty strings with the given separator.
func joinNonEmpty(parts []string, sep string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, sep)
}

// fmtField returns "label: value" if value is non-empty, otherwise empty string.
func fmtField(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s", label, value)
}
