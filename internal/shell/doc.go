// Package shell is the interactive front end of pharmakit.
//
// Every command belongs to a view path. Before a command runs, the route
// guard re-checks that path against the current session, so logging out or
// letting the session expire closes protected views on the next command.
// A 401 from the backend or an expired session forces a logout and moves the
// shell to /login.
//
// The purchase flow spans three views. Products go into the cart on /cart;
// checkout places the order, empties the cart and remembers the placed
// order with its total; pay on /payment-options confirms that order for the
// remembered amount. Editing the cart between checkout and pay therefore
// starts a new order rather than changing the one being paid for.
//
// Commands without a route (help, go, whoami, logout, quit) work from any
// view. Each command line gets its own request id.
package shell
