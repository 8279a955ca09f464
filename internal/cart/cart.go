package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/greenshop/storefront/internal/pricing"
)

// LineItem is one product position in a cart. UserPrice is precomputed at
// insertion time (unit price × quantity) and kept in step by Add/SetQuantity.
type LineItem struct {
	ProductID uint            `json:"product_id"`
	Title     string          `json:"title"`
	MainImage string          `json:"main_image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  uint            `json:"quantity"`
	UserPrice decimal.Decimal `json:"user_price"`
}

// Cart holds one user's session cart together with the applied coupon
// percentage. All mutation goes through its methods; there is at most one
// line item per product identity. Items keep insertion order.
//
// The coupon is transient state: it survives for the life of the session
// cart and is dropped by Clear.
type Cart struct {
	mu     sync.Mutex
	items  []LineItem
	coupon decimal.Decimal
}

func New() *Cart {
	return &Cart{}
}

// Add inserts the product or, when it is already in the cart, increments
// its quantity. The returned item reflects the stored state.
func (c *Cart) Add(item LineItem) LineItem {
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			c.items[i].UserPrice = c.items[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.items[i].Quantity)))
			return c.items[i]
		}
	}

	item.UserPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	c.items = append(c.items, item)
	return item
}

// Remove drops the line item with the given identity, no-op if absent.
func (c *Cart) Remove(productID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity adjusts an existing line item. Quantity 0 removes it.
func (c *Cart) SetQuantity(productID uint, quantity uint) (LineItem, bool) {
	if quantity == 0 {
		ok := c.Remove(productID)
		return LineItem{}, ok
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			c.items[i].UserPrice = c.items[i].UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
			return c.items[i], true
		}
	}
	return LineItem{}, false
}

// Clear empties the cart and drops the applied coupon. Invoked after a
// successful order placement.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.coupon = decimal.Zero
}

func (c *Cart) Contains(productID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// ApplyCoupon overwrites the active coupon percentage. Only one coupon is
// active at a time.
func (c *Cart) ApplyCoupon(percent decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupon = percent
}

func (c *Cart) CouponPercent() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coupon
}

// Totals recomputes the price breakdown from the current contents.
func (c *Cart) Totals() pricing.Totals {
	c.mu.Lock()
	lines := make([]pricing.Line, len(c.items))
	for i, it := range c.items {
		lines[i] = pricing.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity, UserPrice: it.UserPrice}
	}
	coupon := c.coupon
	c.mu.Unlock()

	return pricing.ComputeTotals(lines, coupon)
}

// Manager owns the session carts, one per user. Carts are created lazily
// and live for the lifetime of the process.
type Manager struct {
	mu    sync.RWMutex
	carts map[uint]*Cart
}

func NewManager() *Manager {
	return &Manager{carts: make(map[uint]*Cart)}
}

func (m *Manager) Get(userID uint) *Cart {
	m.mu.RLock()
	c, ok := m.carts[userID]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[userID]; ok {
		return c
	}
	c = New()
	m.carts[userID] = c
	return c
}
