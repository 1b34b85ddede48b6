// Package cart keeps the shopping cart in memory.
//
// A Cart holds at most one Entry per product, in the order products were
// first added. Every quantity is at least one: decrementing the last unit
// removes the entry. Mutating methods return a snapshot of the entries after
// the change, so callers never share the internal slice.
//
//	c := cart.New()
//	c.Add(cart.Product{ID: "m1", Name: "Paracetamol", Price: 50})
//	c.Add(cart.Product{ID: "m1", Name: "Paracetamol", Price: 50})
//	c.Total() // 100
//
// A Cart is safe for concurrent use.
package cart
