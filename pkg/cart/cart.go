package cart

import (
	"fmt"
	"slices"
	"sync"
)

// Product is what the catalog hands to the cart.
type Product struct {
	ID    string
	Name  string
	Price float64
}

// Entry is one cart line.
type Entry struct {
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int
}

// Subtotal is UnitPrice times Quantity.
func (e Entry) Subtotal() float64 {
	return e.UnitPrice * float64(e.Quantity)
}

// Cart is an ordered set of entries keyed by product id.
type Cart struct {
	mu      sync.RWMutex
	entries []Entry
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts one unit of p in the cart. An existing entry keeps its name and
// price and gains one unit.
func (c *Cart) Add(p Product) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(p.ID); i >= 0 {
		c.entries[i].Quantity++
	} else {
		c.entries = append(c.entries, Entry{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  1,
		})
	}

	return c.snapshot()
}

// SetQuantity sets the quantity of id. Unknown ids and q < 1 are ignored.
func (c *Cart) SetQuantity(id string, q int) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 && q >= 1 {
		c.entries[i].Quantity = q
	}

	return c.snapshot()
}

// Increment adds one unit to an existing entry.
func (c *Cart) Increment(id string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 {
		c.entries[i].Quantity++
	}

	return c.snapshot()
}

// Decrement takes one unit away, removing the entry at zero.
func (c *Cart) Decrement(id string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 {
		if c.entries[i].Quantity > 1 {
			c.entries[i].Quantity--
		} else {
			c.entries = slices.Delete(c.entries, i, i+1)
		}
	}

	return c.snapshot()
}

// Remove drops the entry for id if present.
func (c *Cart) Remove(id string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 {
		c.entries = slices.Delete(c.entries, i, i+1)
	}

	return c.snapshot()
}

// Clear empties the cart.
func (c *Cart) Clear() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
	return c.snapshot()
}

// Items returns the current entries.
func (c *Cart) Items() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.entries)
}

// Len returns the number of distinct products.
func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Units returns the number of units across all entries.
func (c *Cart) Units() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.entries {
		n += e.Quantity
	}
	return n
}

// Total is the sum of every entry's subtotal, 0 for an empty cart.
func (c *Cart) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Total(c.entries)
}

// Total sums the subtotals of entries.
func Total(entries []Entry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Subtotal()
	}
	return sum
}

func (c *Cart) index(id string) int {
	return slices.IndexFunc(c.entries, func(e Entry) bool { return e.ProductID == id })
}

// snapshot verifies the invariants and copies the entries. Callers hold the lock.
func (c *Cart) snapshot() []Entry {
	seen := make(map[string]struct{}, len(c.entries))
	for _, e := range c.entries {
		if _, dup := seen[e.ProductID]; dup {
			panic(fmt.Errorf("%w: duplicate product %q", ErrCorrupted, e.ProductID))
		}
		if e.Quantity < 1 {
			panic(fmt.Errorf("%w: product %q has quantity %d", ErrCorrupted, e.ProductID, e.Quantity))
		}
		seen[e.ProductID] = struct{}{}
	}
	return slices.Clone(c.entries)
}
