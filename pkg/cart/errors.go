package cart

import "errors"

// ErrCorrupted reports a broken internal invariant. It is never returned to
// callers; the cart panics with it because continuing would misprice an order.
var ErrCorrupted = errors.New("cart.corrupted")
