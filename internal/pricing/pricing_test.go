package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, decimal.Zero)

	require.True(t, totals.Subtotal.Equal(decimal.Zero))
	require.True(t, totals.Discount.Equal(decimal.Zero))
	require.True(t, totals.Shipping.Equal(d("16.00")))
	require.True(t, totals.Total.Equal(d("16.00")))
}

func TestComputeTotalsWithCoupon(t *testing.T) {
	lines := []Line{
		{UnitPrice: d("10"), Quantity: 2},
		{UnitPrice: d("20"), Quantity: 1},
	}

	totals := ComputeTotals(lines, d("10"))

	require.True(t, totals.Subtotal.Equal(d("40")), "subtotal = %s", totals.Subtotal)
	require.True(t, totals.Discount.Equal(d("4")), "discount = %s", totals.Discount)
	require.True(t, totals.Total.Equal(d("52")), "total = %s", totals.Total)
}

func TestComputeTotalsSingleItemNoCoupon(t *testing.T) {
	lines := []Line{{UnitPrice: d("25.00"), Quantity: 1}}

	totals := ComputeTotals(lines, decimal.Zero)
	require.True(t, totals.Total.Equal(d("41.00")), "total = %s", totals.Total)

	totals = ComputeTotals(lines, d("10"))
	require.True(t, totals.Discount.Equal(d("2.50")), "discount = %s", totals.Discount)
	require.True(t, totals.Total.Equal(d("38.50")), "total = %s", totals.Total)
}

func TestComputeTotalsIsPure(t *testing.T) {
	lines := []Line{
		{UnitPrice: d("19.99"), Quantity: 3},
		{UnitPrice: d("7.35"), Quantity: 2},
	}

	first := ComputeTotals(lines, d("15"))
	for i := 0; i < 10; i++ {
		again := ComputeTotals(lines, d("15"))
		require.True(t, first.Subtotal.Equal(again.Subtotal))
		require.True(t, first.Discount.Equal(again.Discount))
		require.True(t, first.Total.Equal(again.Total))
	}
}

func TestComputeTotalsKeepsFullPrecision(t *testing.T) {
	// 3.333 * 3 @ 7% must not round before the end.
	lines := []Line{{UnitPrice: d("3.333"), Quantity: 3}}

	totals := ComputeTotals(lines, d("7"))

	require.True(t, totals.Subtotal.Equal(d("9.999")), "subtotal = %s", totals.Subtotal)
	require.True(t, totals.Discount.Equal(d("0.69993")), "discount = %s", totals.Discount)
	require.True(t, totals.Total.Equal(d("25.29907")), "total = %s", totals.Total)
}

func TestComputeTotalsPrefersPrecomputedUserPrice(t *testing.T) {
	lines := []Line{{UnitPrice: d("10"), Quantity: 2, UserPrice: d("18")}}

	totals := ComputeTotals(lines, decimal.Zero)
	require.True(t, totals.Subtotal.Equal(d("18")), "subtotal = %s", totals.Subtotal)
}

func TestComputeTotalsClampsPercent(t *testing.T) {
	lines := []Line{{UnitPrice: d("100"), Quantity: 1}}

	totals := ComputeTotals(lines, d("150"))
	require.True(t, totals.Discount.Equal(d("100")))

	totals = ComputeTotals(lines, d("-5"))
	require.True(t, totals.Discount.Equal(decimal.Zero))
}
