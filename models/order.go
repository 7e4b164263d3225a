package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// OrderItem is a line of a placed order as reported by the backend.
type OrderItem struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	Color     string          `json:"color,omitempty"`
	Storage   string          `json:"storage,omitempty"`
}

// OrderSummary is the backend's authoritative result for one order. An order
// placement may return several (one per seller or branch).
type OrderSummary struct {
	OrderID         string          `json:"orderId"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	Discount        decimal.Decimal `json:"discount"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
}

// AggregatedOrder is the single view rendered for one or many orders.
type AggregatedOrder struct {
	OrderIDs        []string        `json:"orderIds"`
	DisplayID       string          `json:"displayId"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	Discount        decimal.Decimal `json:"discount"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Orders          []OrderSummary  `json:"orders"`
}

// PrimaryOrderID is the id used for gateway initiation.
func (a AggregatedOrder) PrimaryOrderID() string {
	if len(a.OrderIDs) == 0 {
		return ""
	}
	return a.OrderIDs[0]
}

// AggregateOrders sums totals, concatenates ids and flattens items.
func AggregateOrders(orders []OrderSummary) AggregatedOrder {
	agg := AggregatedOrder{
		Items:       []OrderItem{},
		Subtotal:    decimal.Zero,
		ShippingFee: decimal.Zero,
		Discount:    decimal.Zero,
		GrandTotal:  decimal.Zero,
		Orders:      orders,
	}
	for _, o := range orders {
		if o.OrderID != "" {
			agg.OrderIDs = append(agg.OrderIDs, o.OrderID)
		}
		agg.Items = append(agg.Items, o.Items...)
		agg.Subtotal = agg.Subtotal.Add(o.Subtotal)
		agg.ShippingFee = agg.ShippingFee.Add(o.ShippingFee)
		agg.Discount = agg.Discount.Add(o.Discount)
		agg.GrandTotal = agg.GrandTotal.Add(o.GrandTotal)
		if agg.ShippingAddress == "" {
			agg.ShippingAddress = o.ShippingAddress
		}
		if agg.PaymentMethod == "" {
			agg.PaymentMethod = o.PaymentMethod
		}
	}
	agg.DisplayID = strings.Join(agg.OrderIDs, ", ")
	return agg
}

// PlaceOrderRequest is sent to either order endpoint. Items is only set for
// guest shoppers; the cart endpoint re-derives items from the server cart.
type PlaceOrderRequest struct {
	UserID           int64            `json:"userId,omitempty"`
	FullName         string           `json:"fullName"`
	Email            string           `json:"email,omitempty"`
	Phone            string           `json:"phone"`
	ShippingAddress  string           `json:"shippingAddress"`
	ShippingLocation ShippingLocation `json:"shippingLocation"`
	DeliveryTime     string           `json:"deliveryTime,omitempty"`
	PaymentMethod    PaymentMethod    `json:"paymentMethod"`
	Note             string           `json:"note,omitempty"`
	DeviceType       string           `json:"deviceType,omitempty"`
	Items            []PreviewItem    `json:"items,omitempty"`
}

// SavedAddress is the best-effort address book entry written after a
// successful cash-on-delivery order.
type SavedAddress struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	Landmark   string `json:"landmark,omitempty"`
	City       string `json:"city"`
	District   string `json:"district,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}
