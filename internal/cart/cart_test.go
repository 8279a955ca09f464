package cart

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func item(productID uint, price string, qty uint) LineItem {
	return LineItem{
		ProductID: productID,
		Title:     gofakeit.ProductName(),
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestAddKeepsIdentityUnique(t *testing.T) {
	c := New()

	c.Add(item(1, "10.00", 1))
	c.Add(item(2, "5.00", 1))
	c.Add(item(1, "10.00", 3))

	items := c.Items()
	require.Len(t, items, 2)

	seen := map[uint]bool{}
	for _, it := range items {
		require.False(t, seen[it.ProductID], "duplicate product %d", it.ProductID)
		seen[it.ProductID] = true
	}
}

func TestAddIncrementsQuantityAndUserPrice(t *testing.T) {
	c := New()

	c.Add(item(7, "10.00", 1))
	got := c.Add(item(7, "10.00", 2))

	require.Equal(t, uint(3), got.Quantity)
	require.True(t, got.UserPrice.Equal(decimal.RequireFromString("30.00")))
}

func TestIdentityUniqueUnderRandomSequences(t *testing.T) {
	c := New()
	faker := gofakeit.New(1)

	for i := 0; i < 500; i++ {
		id := uint(faker.Number(1, 20))
		if faker.Bool() {
			c.Add(item(id, "1.00", 1))
		} else {
			c.Remove(id)
		}

		seen := map[uint]bool{}
		for _, it := range c.Items() {
			require.False(t, seen[it.ProductID])
			seen[it.ProductID] = true
		}
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	c := New()
	c.Add(item(1, "10.00", 1))

	require.False(t, c.Remove(99))
	require.Equal(t, 1, c.Len())
}

func TestContains(t *testing.T) {
	c := New()
	require.False(t, c.Contains(1))

	c.Add(item(1, "10.00", 1))
	require.True(t, c.Contains(1))

	c.Remove(1)
	require.False(t, c.Contains(1))
}

func TestSetQuantity(t *testing.T) {
	c := New()
	c.Add(item(1, "4.50", 1))

	got, ok := c.SetQuantity(1, 4)
	require.True(t, ok)
	require.Equal(t, uint(4), got.Quantity)
	require.True(t, got.UserPrice.Equal(decimal.RequireFromString("18.00")))

	_, ok = c.SetQuantity(2, 1)
	require.False(t, ok)

	_, ok = c.SetQuantity(1, 0)
	require.True(t, ok)
	require.False(t, c.Contains(1))
}

func TestClearDropsItemsAndCoupon(t *testing.T) {
	c := New()
	c.Add(item(1, "25.00", 1))
	c.ApplyCoupon(decimal.NewFromInt(10))

	c.Clear()

	require.Equal(t, 0, c.Len())
	require.True(t, c.CouponPercent().IsZero())
}

func TestCartTotals(t *testing.T) {
	c := New()
	c.Add(item(1, "25.00", 1))

	totals := c.Totals()
	require.Equal(t, "41.00", totals.Total.StringFixed(2))

	c.ApplyCoupon(decimal.NewFromInt(10))
	totals = c.Totals()
	require.Equal(t, "2.50", totals.Discount.StringFixed(2))
	require.Equal(t, "38.50", totals.Total.StringFixed(2))
}

func TestManagerReturnsSameCartPerUser(t *testing.T) {
	m := NewManager()

	a := m.Get(1)
	b := m.Get(1)
	other := m.Get(2)

	require.Same(t, a, b)
	require.NotSame(t, a, other)
}
