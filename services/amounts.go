package services

import "github.com/shopspring/decimal"

// ChargeInput pairs a charge with the switch that turns it on.
type ChargeInput struct {
	Enabled bool
	Detail  ChargeDetail
}

// AmountsInput is everything the calculator needs.
type AmountsInput struct {
	Items    []LineItem
	Tax      ChargeInput
	Discount ChargeInput
	Shipping ChargeInput
}

// Amounts holds the derived figures of an invoice. All values are rounded
// half away from zero to 2 decimal places.
type Amounts struct {
	LineTotals     []decimal.Decimal
	SubTotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	ShippingAmount decimal.Decimal
	GrandTotal     decimal.Decimal
}

// HasTax reports whether a positive tax amount applies. It decides both the
// document title and the invoice number prefix.
func (a Amounts) HasTax() bool {
	return a.TaxAmount.IsPositive()
}

// round2 rounds half away from zero to 2 decimal places.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CalcLineTotal returns quantity × unit price rounded to cents.
func CalcLineTotal(quantity, unitPrice float64) decimal.Decimal {
	return round2(decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(unitPrice)))
}

// CalcCharge computes a single charge against the subtotal. Disabled
// charges contribute zero.
func CalcCharge(subTotal decimal.Decimal, c ChargeInput) decimal.Decimal {
	if !c.Enabled {
		return decimal.Zero
	}
	amount := decimal.NewFromFloat(c.Detail.Amount)
	if c.Detail.AmountType.IsFixed() {
		return round2(amount)
	}
	return round2(subTotal.Mul(amount).Div(decimal.NewFromInt(100)))
}

// CalcAmounts derives subtotal, charges and grand total. It performs no
// clamping: a zero or negative total is returned as computed and left for
// the caller to reject.
func CalcAmounts(in AmountsInput) Amounts {
	lineTotals := make([]decimal.Decimal, len(in.Items))
	sum := decimal.Zero
	for i, item := range in.Items {
		lineTotals[i] = CalcLineTotal(item.Quantity, item.UnitPrice)
		sum = sum.Add(lineTotals[i])
	}
	subTotal := round2(sum)

	tax := CalcCharge(subTotal, in.Tax)
	discount := CalcCharge(subTotal, in.Discount)
	shipping := CalcCharge(subTotal, in.Shipping)

	return Amounts{
		LineTotals:     lineTotals,
		SubTotal:       subTotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		ShippingAmount: shipping,
		GrandTotal:     round2(subTotal.Add(tax).Add(shipping).Sub(discount)),
	}
}
