package templates

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func sampleView() DocumentView {
	return DocumentView{
		Layout:   LayoutClassic,
		Title:    "TAX INVOICE",
		Number:   "INV-25",
		Currency: "AED",
		Sender:   PartyView{Label: "From", Name: "Fervid Trading", Lines: []string{"Dubai"}},
		Receiver: PartyView{Label: "Bill To", Name: "Acme <b>Corp</b>"},
		Items: []ItemView{
			{Index: 1, Name: "Widget", Quantity: "2", UnitPrice: "100.00", Total: "200.00"},
		},
		SubTotal:   "200.00",
		Tax:        &ChargeView{Label: "Tax (5%)", Amount: "10.00"},
		Total:      "210.00",
		TotalWords: "Two hundred and ten Dirham",
	}
}

func render(t *testing.T, v DocumentView) string {
	t.Helper()
	var buf bytes.Buffer
	if err := InvoiceDocument(v).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestInvoiceDocument_EscapesText(t *testing.T) {
	html := render(t, sampleView())

	if strings.Contains(html, "<b>Corp</b>") {
		t.Error("receiver name was not escaped")
	}
	if !strings.Contains(html, "Acme &lt;b&gt;Corp&lt;/b&gt;") {
		t.Error("escaped receiver name missing")
	}
}

func TestInvoiceDocument_Layout(t *testing.T) {
	tests := []struct {
		layout int
		want   string
	}{
		{LayoutClassic, `<body class="layout-classic">`},
		{LayoutCompact, `<body class="layout-compact">`},
		{0, `<body class="layout-classic">`},
	}
	for _, tt := range tests {
		v := sampleView()
		v.Layout = tt.layout
		if html := render(t, v); !strings.Contains(html, tt.want) {
			t.Errorf("layout %d: missing %q", tt.layout, tt.want)
		}
	}
}

func TestInvoiceDocument_OptionalBlocks(t *testing.T) {
	v := sampleView()
	v.Tax = nil
	v.Payment = nil
	v.Notes = ""
	html := render(t, v)

	for _, absent := range []string{"Tax (5%)", "Payment Information", "Additional Notes", `class="logo"`} {
		if strings.Contains(html, absent) {
			t.Errorf("unexpected %q in output", absent)
		}
	}

	v.Notes = "Thank you"
	v.Payment = []LabelValue{{Label: "IBAN", Value: "AE07 0331 2345"}}
	html = render(t, v)
	for _, present := range []string{"Payment Information", "AE07 0331 2345", "Additional Notes", "Thank you"} {
		if !strings.Contains(html, present) {
			t.Errorf("missing %q in output", present)
		}
	}
}

func TestInvoiceDocument_StylesheetCannotCloseTag(t *testing.T) {
	v := sampleView()
	v.Stylesheet = "body{color:red}</style><script>x()</script>"
	html := render(t, v)

	if n := strings.Count(html, "</style>"); n != 1 {
		t.Errorf("expected exactly one </style>, got %d", n)
	}
}

func TestInvoiceDocument_Idempotent(t *testing.T) {
	if render(t, sampleView()) != render(t, sampleView()) {
		t.Error("same view rendered differently")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestInvoiceDocument_WriteError(t *testing.T) {
	err := InvoiceDocument(sampleView()).Render(context.Background(), failingWriter{})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestInvoiceReport(t *testing.T) {
	var buf bytes.Buffer
	v := ReportView{Title: "Invoice Report", GeneratedOn: "15 Jan 2025"}
	if err := InvoiceReport(v).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No invoices found.") {
		t.Error("empty report should say no invoices found")
	}

	buf.Reset()
	v.Rows = []ReportRow{{Number: "INV-1", Customer: "Acme", Kind: "Invoice", Total: "105.00"}}
	v.Totals = []LabelValue{{Label: "Total (AED)", Value: "105.00"}}
	if err := InvoiceReport(v).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"INV-1", "Acme", "Total (AED)", "Generated on 15 Jan 2025"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestSafeStylesheet(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"body{margin:0}", "body{margin:0}"},
		{"a{}</style><script>", `a{}<\/style><script>`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := safeStylesheet(tt.in); got != tt.want {
			t.Errorf("safeStylesheet(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInvoiceDocument_ItemDescriptionByLayout(t *testing.T) {
	v := sampleView()
	v.Items[0].Description = "Blue, 10cm"

	if html := render(t, v); !strings.Contains(html, `<div class="item-desc">Blue, 10cm</div>`) {
		t.Error("classic layout should show the item description")
	}
	v.Layout = LayoutCompact
	if html := render(t, v); strings.Contains(html, "item-desc") {
		t.Error("compact layout should hide the item description")
	}
}
