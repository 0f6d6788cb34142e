package services

import "github.com/shopspring/decimal"

// Monetary math runs on decimals and is rounded to cents only at the
// persistence boundary, so percentage discounts cannot accumulate
// float drift across lines.

var hundred = decimal.NewFromInt(100)

// lineTotal computes quantity × unitPrice reduced by the per-line
// remise percentage and then by the absolute discount amount, in that
// order.
func lineTotal(quantity int, unitPrice, remise, discountAmount float64) decimal.Decimal {
	gross := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
	if remise > 0 {
		factor := hundred.Sub(decimal.NewFromFloat(remise)).Div(hundred)
		gross = gross.Mul(factor)
	}
	if discountAmount > 0 {
		gross = gross.Sub(decimal.NewFromFloat(discountAmount))
	}
	return gross
}

// invoiceAdjustments resolves the invoice-level tax and discount
// amounts. Absolute amounts win when provided; otherwise the rates
// apply in the historical order: discount percentage first against the
// subtotal, then the tax percentage against the discounted amount.
func invoiceAdjustments(subtotal decimal.Decimal, tax, discount float64, taxRate, discountRate *float64) (taxAmt, discountAmt decimal.Decimal) {
	taxAmt = decimal.NewFromFloat(tax)
	discountAmt = decimal.NewFromFloat(discount)
	if discountRate != nil {
		discountAmt = subtotal.Mul(decimal.NewFromFloat(*discountRate)).Div(hundred)
	}
	if taxRate != nil {
		taxAmt = subtotal.Sub(discountAmt).Mul(decimal.NewFromFloat(*taxRate)).Div(hundred)
	}
	return taxAmt, discountAmt
}

// round2 rounds to cents for storage.
func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
