package shop

import (
	"encoding/xml"
	"math"
	"time"

	"github.com/localrivet/storefront/markdown"
)

// OrderItem is one priced line of a cart or order.
type OrderItem struct {
	ItemName string  `json:"itemName" xml:"itemName"`
	Qty      int     `json:"qty" xml:"qty"`
	Rate     float64 `json:"rate" xml:"rate"`
	Cost     float64 `json:"cost" xml:"cost"`
	Image    string  `json:"image" xml:"image"`
	Currency string  `json:"currency" xml:"currency"`
}

// Cart is a snapshot of a session's cart.
type Cart struct {
	XMLName    xml.Name    `json:"-" xml:"Cart"`
	OrderItems []OrderItem `json:"orderItems" xml:"orderItems>orderItem"`
	Total      float64     `json:"total" xml:"total"`
	Currency   string      `json:"currency" xml:"currency"`
}

// Order is a checked out cart.
type Order struct {
	XMLName       xml.Name    `json:"-" xml:"Order"`
	OrderNumber   string      `json:"orderNumber" xml:"orderNumber"`
	OrderDateTime time.Time   `json:"orderDateTime" xml:"orderDateTime"`
	OrderItems    []OrderItem `json:"orderItems" xml:"orderItems>orderItem"`
	Total         float64     `json:"total" xml:"total"`
	Currency      string      `json:"currency" xml:"currency"`
}

func newCart(items []OrderItem, currency string) *Cart {
	return &Cart{OrderItems: items, Total: totalOf(items), Currency: currency}
}

func newOrder(number string, at time.Time, items []OrderItem, currency string) *Order {
	return &Order{
		OrderNumber:   number,
		OrderDateTime: at,
		OrderItems:    items,
		Total:         totalOf(items),
		Currency:      currency,
	}
}

// totalOf sums the item costs. The stored total is never trusted.
func totalOf(items []OrderItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Cost
	}
	return roundCents(sum)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (it OrderItem) MarkdownNode() markdown.Node {
	return markdown.NewProduct("OrderItem",
		markdown.F("itemName", it.ItemName),
		markdown.F("qty", it.Qty),
		markdown.F("rate", it.Rate),
		markdown.F("cost", it.Cost),
		markdown.F("image", it.Image),
		markdown.F("currency", it.Currency),
	)
}

func (c *Cart) MarkdownNode() markdown.Node {
	if c == nil {
		return markdown.Absent{}
	}
	return markdown.NewProduct("Cart",
		markdown.F("orderItems", markdown.Seq(c.OrderItems)),
		markdown.F("total", c.Total),
		markdown.F("currency", c.Currency),
	)
}

func (o *Order) MarkdownNode() markdown.Node {
	if o == nil {
		return markdown.Absent{}
	}
	return markdown.NewProduct("Order",
		markdown.F("orderNumber", o.OrderNumber),
		markdown.F("orderDateTime", o.OrderDateTime),
		markdown.F("orderItems", markdown.Seq(o.OrderItems)),
		markdown.F("total", o.Total),
		markdown.F("currency", o.Currency),
	)
}
