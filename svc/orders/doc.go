// Package orders places orders from the cart, lists the caller's past orders
// and confirms mock payments.
//
// NewOrder derives the wire payload from cart entries at submission time;
// the cart itself is never sent. The total is rounded to whole paise and
// travels with the order, so a later payment charges what was placed even if
// the cart changes in between. Payment confirmation only records the chosen
// method with the backend; no money moves.
//
//	order := orders.NewOrder(userID, c.Items())
//	placed, err := svc.Place(ctx, order)
//	if err != nil {
//		return err
//	}
//	err = svc.ConfirmPayment(ctx, orders.Payment{
//		Method:  orders.MethodUPI,
//		OrderID: placed.OrderID,
//		Amount:  order.TotalAmount,
//	})
//
// Place sends the bearer token when there is one; Mine requires it and fills
// in DefaultStatus for orders returned without a status. Local checks fail
// with ErrEmptyOrder, ErrMissingUser or ErrInvalidPaymentMethod before any
// request is made. A 2xx answer with success=false is ErrOrderRejected or
// ErrPaymentDeclined.
package orders
