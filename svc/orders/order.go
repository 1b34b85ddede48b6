package orders

import (
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/pharmakit/pkg/cart"
	"github.com/dmitrymomot/pharmakit/pkg/money"
)

// DefaultStatus is shown for orders the backend returns without a status.
const DefaultStatus = "Pending"

// Item is one order line as the backend expects it.
type Item struct {
	ProductID string  `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"price"`
}

// Order is the place-order payload.
type Order struct {
	UserID      string  `json:"userId"`
	Items       []Item  `json:"items"`
	TotalAmount float64 `json:"totalAmount"`
}

// NewOrder builds the payload for userID from cart entries.
func NewOrder(userID string, entries []cart.Entry) Order {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, Item{ProductID: e.ProductID, Quantity: e.Quantity, UnitPrice: e.UnitPrice})
	}
	return Order{
		UserID:      userID,
		Items:       items,
		TotalAmount: money.Round(cart.Total(entries)),
	}
}

// Placed is the backend's answer to a successful order.
type Placed struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId,omitempty"`
}

// PlacedItem is one line of a past order.
type PlacedItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// PlacedOrder is an order as listed under "my orders".
type PlacedOrder struct {
	ID         string       `json:"_id"`
	CreatedAt  time.Time    `json:"createdAt"`
	Status     string       `json:"status"`
	TotalPrice float64      `json:"totalPrice"`
	Items      []PlacedItem `json:"items"`
}

// Payment methods the confirm endpoint accepts.
const (
	MethodCard       = "card"
	MethodUPI        = "upi"
	MethodCOD        = "cod"
	MethodNetBanking = "netbanking"
)

// PaymentMethods lists the accepted methods in display order.
func PaymentMethods() []string {
	return []string{MethodCard, MethodUPI, MethodCOD, MethodNetBanking}
}

// Payment is the payment confirm payload.
type Payment struct {
	Method  string  `json:"method"`
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
}

func validMethod(m string) bool {
	return slices.Contains(PaymentMethods(), strings.ToLower(m))
}
