package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func assertAmount(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Errorf("%s = %s, want %s", name, got.StringFixed(2), want)
	}
}

func sampleItems() []LineItem {
	return []LineItem{
		{Name: "Consulting", Quantity: 2, UnitPrice: 100},
		{Name: "Support", Quantity: 1, UnitPrice: 50},
	}
}

func enabled(amount float64, t AmountType) ChargeInput {
	return ChargeInput{Enabled: true, Detail: ChargeDetail{Amount: amount, AmountType: t}}
}

func TestCalcAmounts_TaxOnly(t *testing.T) {
	a := CalcAmounts(AmountsInput{
		Items: sampleItems(),
		Tax:   enabled(5, AmountTypePercentage),
	})

	assertAmount(t, "subTotal", a.SubTotal, "250.00")
	assertAmount(t, "taxAmount", a.TaxAmount, "12.50")
	assertAmount(t, "discountAmount", a.DiscountAmount, "0.00")
	assertAmount(t, "shippingAmount", a.ShippingAmount, "0.00")
	assertAmount(t, "grandTotal", a.GrandTotal, "262.50")
	if !a.HasTax() {
		t.Error("expected HasTax() to be true")
	}
}

func TestCalcAmounts_FixedDiscountOnly(t *testing.T) {
	a := CalcAmounts(AmountsInput{
		Items:    sampleItems(),
		Discount: enabled(20, AmountTypeFixed),
	})

	assertAmount(t, "subTotal", a.SubTotal, "250.00")
	assertAmount(t, "discountAmount", a.DiscountAmount, "20.00")
	assertAmount(t, "grandTotal", a.GrandTotal, "230.00")
	if a.HasTax() {
		t.Error("expected HasTax() to be false")
	}
}

func TestCalcAmounts_AllCharges(t *testing.T) {
	a := CalcAmounts(AmountsInput{
		Items:    sampleItems(),
		Tax:      enabled(5, AmountTypePercentage),
		Discount: enabled(10, AmountTypePercentage),
		Shipping: enabled(15.5, AmountTypeAmount),
	})

	assertAmount(t, "taxAmount", a.TaxAmount, "12.50")
	assertAmount(t, "discountAmount", a.DiscountAmount, "25.00")
	assertAmount(t, "shippingAmount", a.ShippingAmount, "15.50")
	// 250 + 12.50 + 15.50 - 25
	assertAmount(t, "grandTotal", a.GrandTotal, "253.00")
}

func TestCalcAmounts_LineTotals(t *testing.T) {
	a := CalcAmounts(AmountsInput{Items: sampleItems()})
	if len(a.LineTotals) != 2 {
		t.Fatalf("expected 2 line totals, got %d", len(a.LineTotals))
	}
	assertAmount(t, "line 1", a.LineTotals[0], "200.00")
	assertAmount(t, "line 2", a.LineTotals[1], "50.00")
}

func TestCalcAmounts_RoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name     string
		in       AmountsInput
		field    func(Amounts) decimal.Decimal
		expected string
	}{
		{
			name:     "line total half cent rounds up",
			in:       AmountsInput{Items: []LineItem{{Name: "x", Quantity: 1, UnitPrice: 0.125}}},
			field:    func(a Amounts) decimal.Decimal { return a.SubTotal },
			expected: "0.13",
		},
		{
			name: "percentage tax half cent rounds up",
			in: AmountsInput{
				Items: []LineItem{{Name: "x", Quantity: 1, UnitPrice: 10.10}},
				Tax:   enabled(5, AmountTypePercentage),
			},
			field:    func(a Amounts) decimal.Decimal { return a.TaxAmount },
			expected: "0.51",
		},
		{
			name: "fixed charge rounded to cents",
			in: AmountsInput{
				Items:    []LineItem{{Name: "x", Quantity: 1, UnitPrice: 10}},
				Shipping: enabled(2.345, AmountTypeFixed),
			},
			field:    func(a Amounts) decimal.Decimal { return a.ShippingAmount },
			expected: "2.35",
		},
		{
			name: "each line rounded before summing",
			in: AmountsInput{Items: []LineItem{
				{Name: "a", Quantity: 1, UnitPrice: 0.005},
				{Name: "b", Quantity: 1, UnitPrice: 0.005},
			}},
			field:    func(a Amounts) decimal.Decimal { return a.SubTotal },
			expected: "0.02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAmount(t, tt.name, tt.field(CalcAmounts(tt.in)), tt.expected)
		})
	}
}

func TestCalcAmounts_NoClamping(t *testing.T) {
	a := CalcAmounts(AmountsInput{
		Items:    []LineItem{{Name: "x", Quantity: 1, UnitPrice: 10}},
		Discount: enabled(25, AmountTypeFixed),
	})
	assertAmount(t, "grandTotal", a.GrandTotal, "-15.00")
}

func TestCalcAmounts_SubTotalIndependentOfOrder(t *testing.T) {
	items := []LineItem{
		{Name: "a", Quantity: 3, UnitPrice: 19.99},
		{Name: "b", Quantity: 0.5, UnitPrice: 7.335},
		{Name: "c", Quantity: 12, UnitPrice: 1.005},
		{Name: "d", Quantity: 1, UnitPrice: 0},
	}
	want := CalcAmounts(AmountsInput{Items: items}).SubTotal

	permutations := [][]int{
		{3, 2, 1, 0},
		{1, 3, 0, 2},
		{2, 0, 3, 1},
	}
	for _, p := range permutations {
		shuffled := make([]LineItem, len(items))
		for i, idx := range p {
			shuffled[i] = items[idx]
		}
		got := CalcAmounts(AmountsInput{Items: shuffled}).SubTotal
		if !got.Equal(want) {
			t.Errorf("order %v: subTotal = %s, want %s", p, got, want)
		}
	}
}

func TestCalcAmounts_DisabledEqualsZero(t *testing.T) {
	charges := []ChargeInput{
		enabled(5, AmountTypePercentage),
		enabled(12, AmountTypeFixed),
		enabled(7.25, AmountTypeAmount),
	}

	// Every enabled/disabled permutation of tax, discount, shipping.
	for mask := 0; mask < 8; mask++ {
		disabled := AmountsInput{Items: sampleItems()}
		zeroed := AmountsInput{Items: sampleItems()}
		targets := []struct {
			disabled, zeroed *ChargeInput
		}{
			{&disabled.Tax, &zeroed.Tax},
			{&disabled.Discount, &zeroed.Discount},
			{&disabled.Shipping, &zeroed.Shipping},
		}
		for i, target := range targets {
			if mask&(1<<i) != 0 {
				*target.disabled = charges[i]
				*target.zeroed = charges[i]
				continue
			}
			*target.disabled = ChargeInput{Enabled: false, Detail: charges[i].Detail}
			zero := charges[i]
			zero.Detail.Amount = 0
			*target.zeroed = zero
		}

		got := CalcAmounts(disabled).GrandTotal
		want := CalcAmounts(zeroed).GrandTotal
		if !got.Equal(want) {
			t.Errorf("mask %03b: disabled grandTotal %s != zero-amount grandTotal %s", mask, got, want)
		}
	}
}

func TestCalcAmounts_Monotonic(t *testing.T) {
	base := AmountsInput{
		Items:    sampleItems(),
		Tax:      enabled(5, AmountTypePercentage),
		Discount: enabled(10, AmountTypeFixed),
		Shipping: enabled(5, AmountTypeFixed),
	}

	var prevTax, prevShip, prevDisc decimal.Decimal
	for step := 0; step <= 40; step++ {
		amount := float64(step) * 2.5

		in := base
		in.Tax = enabled(amount, AmountTypePercentage)
		tax := CalcAmounts(in).GrandTotal

		in = base
		in.Shipping = enabled(amount, AmountTypeFixed)
		ship := CalcAmounts(in).GrandTotal

		in = base
		in.Discount = enabled(amount, AmountTypeFixed)
		disc := CalcAmounts(in).GrandTotal

		if step > 0 {
			if tax.LessThan(prevTax) {
				t.Errorf("tax %.2f: grandTotal decreased from %s to %s", amount, prevTax, tax)
			}
			if ship.LessThan(prevShip) {
				t.Errorf("shipping %.2f: grandTotal decreased from %s to %s", amount, prevShip, ship)
			}
			if disc.GreaterThan(prevDisc) {
				t.Errorf("discount %.2f: grandTotal increased from %s to %s", amount, prevDisc, disc)
			}
		}
		prevTax, prevShip, prevDisc = tax, ship, disc
	}
}

func TestInvoiceDocument_Recalculate(t *testing.T) {
	doc := InvoiceDocument{
		Details: InvoiceDetails{
			InvoiceNumber:   "25",
			Currency:        "AED",
			Items:           []LineItem{{Name: "a", Quantity: 2, UnitPrice: 100, Total: 999}, {Name: "b", Quantity: 1, UnitPrice: 50}},
			TaxDetails:      ChargeDetail{Amount: 5, AmountType: AmountTypePercentage},
			DiscountDetails: DefaultCharge,
			ShippingDetails: DefaultCharge,
		},
	}

	a := doc.Recalculate()

	assertAmount(t, "grandTotal", a.GrandTotal, "262.50")
	if doc.Details.Items[0].Total != 200 {
		t.Errorf("item total = %v, want 200 (client value must be ignored)", doc.Details.Items[0].Total)
	}
	if doc.Details.SubTotal != 250 || doc.Details.TotalAmount != 262.5 {
		t.Errorf("stored totals = %v / %v, want 250 / 262.5", doc.Details.SubTotal, doc.Details.TotalAmount)
	}
	if !doc.Details.IsInvoice {
		t.Error("expected IsInvoice when tax applies")
	}
	want := "Two hundred and sixty-two Dirham and fifty Fils"
	if doc.Details.TotalAmountInWords != want {
		t.Errorf("TotalAmountInWords = %q, want %q", doc.Details.TotalAmountInWords, want)
	}
}
