package cart_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pharmakit/pkg/cart"
)

var (
	paracetamol = cart.Product{ID: "m1", Name: "Paracetamol", Price: 50}
	cetirizine  = cart.Product{ID: "m2", Name: "Cetirizine", Price: 12.5}
	ors         = cart.Product{ID: "m3", Name: "ORS", Price: 20}
)

func TestCart_Add(t *testing.T) {
	t.Parallel()

	t.Run("repeated add increments", func(t *testing.T) {
		t.Parallel()
		c := cart.New()

		var got []cart.Entry
		for range 5 {
			got = c.Add(paracetamol)
		}

		require.Len(t, got, 1)
		assert.Equal(t, 5, got[0].Quantity)
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, 5, c.Units())
	})

	t.Run("two units of m1 at 50 total 100", func(t *testing.T) {
		t.Parallel()
		c := cart.New()
		c.Add(paracetamol)
		c.Add(paracetamol)

		assert.Equal(t, 100.0, c.Total())
	})

	t.Run("insertion order kept", func(t *testing.T) {
		t.Parallel()
		c := cart.New()
		c.Add(cetirizine)
		c.Add(paracetamol)
		got := c.Add(cetirizine)

		require.Len(t, got, 2)
		assert.Equal(t, "m2", got[0].ProductID)
		assert.Equal(t, 2, got[0].Quantity)
		assert.Equal(t, "m1", got[1].ProductID)
	})

	t.Run("existing entry keeps its price", func(t *testing.T) {
		t.Parallel()
		c := cart.New()
		c.Add(paracetamol)
		got := c.Add(cart.Product{ID: "m1", Name: "Other", Price: 999})

		assert.Equal(t, 50.0, got[0].UnitPrice)
		assert.Equal(t, "Paracetamol", got[0].Name)
	})
}

func TestCart_SetQuantity(t *testing.T) {
	t.Parallel()

	c := cart.New()
	c.Add(paracetamol)

	got := c.SetQuantity("m1", 4)
	assert.Equal(t, 4, got[0].Quantity)

	got = c.SetQuantity("m1", 0)
	assert.Equal(t, 4, got[0].Quantity, "quantity below one is ignored")

	got = c.SetQuantity("m1", -3)
	assert.Equal(t, 4, got[0].Quantity)

	got = c.SetQuantity("missing", 2)
	assert.Len(t, got, 1)
	assert.Equal(t, 200.0, c.Total())
}

func TestCart_IncrementDecrement(t *testing.T) {
	t.Parallel()

	c := cart.New()
	c.Add(ors)

	got := c.Increment("m3")
	assert.Equal(t, 2, got[0].Quantity)

	got = c.Decrement("m3")
	assert.Equal(t, 1, got[0].Quantity)

	got = c.Decrement("m3")
	assert.Empty(t, got, "decrementing the last unit removes the entry")

	assert.Empty(t, c.Increment("m3"), "increment does not create entries")
	assert.Empty(t, c.Decrement("m3"))
}

func TestCart_RemoveAndClear(t *testing.T) {
	t.Parallel()

	c := cart.New()
	c.Add(paracetamol)
	c.Add(paracetamol)
	c.Add(cetirizine)

	got := c.Remove("m1")
	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0].ProductID)

	got = c.Add(paracetamol)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[1].Quantity, "re-added product starts at one")

	assert.Len(t, c.Remove("missing"), 2)

	assert.Empty(t, c.Clear())
	assert.Zero(t, c.Len())
	assert.Zero(t, c.Total())
}

func TestCart_SnapshotIsolation(t *testing.T) {
	t.Parallel()

	c := cart.New()
	got := c.Add(paracetamol)
	got[0].Quantity = 42

	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestTotal(t *testing.T) {
	t.Parallel()

	assert.Zero(t, cart.Total(nil))
	assert.Equal(t, 145.0, cart.Total([]cart.Entry{
		{ProductID: "m1", UnitPrice: 50, Quantity: 2},
		{ProductID: "m2", UnitPrice: 12.5, Quantity: 2},
		{ProductID: "m3", UnitPrice: 20, Quantity: 1},
	}))
}

func TestCart_Concurrent(t *testing.T) {
	t.Parallel()

	c := cart.New()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Add(paracetamol)
		}()
		go func() {
			defer wg.Done()
			c.Add(cetirizine)
		}()
	}
	wg.Wait()

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 100, items[0].Quantity+items[1].Quantity)
	assert.Equal(t, 50*50.0+50*12.5, c.Total())
}
