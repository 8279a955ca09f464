package pricing

import "github.com/shopspring/decimal"

// Shipping is charged flat per order regardless of cart size.
var Shipping = decimal.RequireFromString("16.00")

var hundred = decimal.NewFromInt(100)

// Line is one cart position as the engine sees it. UserPrice is the
// unit price × quantity precomputed when the item entered the cart; a
// non-positive value means it must be recomputed from UnitPrice.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  uint
	UserPrice decimal.Decimal
}

type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives subtotal, coupon discount, shipping and total from
// the cart lines. It is a pure function: no rounding happens here, the
// transport layer rounds to 2dp for display only.
func ComputeTotals(lines []Line, couponPercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(lineTotal(l))
	}

	pct := clampPercent(couponPercent)
	discount := subtotal.Mul(pct).Div(hundred)

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: Shipping,
		Total:    subtotal.Sub(discount).Add(Shipping),
	}
}

func lineTotal(l Line) decimal.Decimal {
	if l.UserPrice.IsPositive() {
		return l.UserPrice
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func clampPercent(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
