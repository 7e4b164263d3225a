package models

import (
	"github.com/shopspring/decimal"
)

// LineKey is the identity of a cart line. Two lines for the same product
// with a different color or storage are distinct.
type LineKey struct {
	ProductID int64  `json:"productId" binding:"required,gt=0"`
	Color     string `json:"color,omitempty"`
	Storage   string `json:"storage,omitempty"`
}

// CartLine is one product variant entry in a cart.
type CartLine struct {
	ProductID  int64           `json:"productId"`
	CartItemID int64           `json:"cartItemId,omitempty"` // server carts only
	Name       string          `json:"name"`
	ImagePath  string          `json:"imagePath,omitempty"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
	Color      string          `json:"color,omitempty"`
	Storage    string          `json:"storage,omitempty"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Color: l.Color, Storage: l.Storage}
}

// Recompute derives LineTotal from UnitPrice and Quantity.
func (l *CartLine) Recompute() {
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Product is the minimum a storefront page knows about the item being added.
type Product struct {
	ID        int64           `json:"productId" binding:"required,gt=0"`
	Name      string          `json:"name"`
	ImagePath string          `json:"imagePath,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Cart is an ordered collection of lines.
type Cart struct {
	Lines []CartLine `json:"items"`
}

// Find returns the index of the line with key k or -1.
func (c *Cart) Find(k LineKey) int {
	for i := range c.Lines {
		if c.Lines[i].Key() == k {
			return i
		}
	}
	return -1
}

// AddLine merges quantity into an existing line with the same identity key
// or appends a new one.
func (c *Cart) AddLine(p Product, quantity int, color, storage string) {
	k := LineKey{ProductID: p.ID, Color: color, Storage: storage}
	if i := c.Find(k); i >= 0 {
		c.Lines[i].Quantity += quantity
		c.Lines[i].Recompute()
		return
	}
	line := CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		ImagePath: p.ImagePath,
		UnitPrice: p.UnitPrice,
		Quantity:  quantity,
		Color:     color,
		Storage:   storage,
	}
	line.Recompute()
	c.Lines = append(c.Lines, line)
}

// SetQuantity sets the quantity of line k. Lines that end at zero or below
// are dropped. Reports whether the key was present.
func (c *Cart) SetQuantity(k LineKey, quantity int) bool {
	i := c.Find(k)
	if i < 0 {
		return false
	}
	c.Lines[i].Quantity = quantity
	c.Lines[i].Recompute()
	c.Recompute()
	return true
}

// Recompute refreshes every line total and filters out empty lines. Totals
// read from storage are never trusted.
func (c *Cart) Recompute() {
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.Quantity <= 0 {
			continue
		}
		l.Recompute()
		kept = append(kept, l)
	}
	c.Lines = kept
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.LineTotal)
	}
	return sum
}

func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// CartView is what the storefront receives for a cart read.
type CartView struct {
	Items     []CartLine      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Guest     bool            `json:"guest"`
}

func NewCartView(c Cart, guest bool) CartView {
	items := c.Lines
	if items == nil {
		items = []CartLine{}
	}
	return CartView{
		Items:     items,
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
		Guest:     guest,
	}
}

// Shopper identifies whose cart is being operated on. A zero UserID is a
// guest; the device id scopes local state either way.
type Shopper struct {
	DeviceID string
	UserID   int64
}

func (s Shopper) Authenticated() bool { return s.UserID > 0 }

// AddItemRequest is the body of an add-to-cart call. Name, image and price
// are only kept for guest carts; the server prices authenticated carts.
type AddItemRequest struct {
	ProductID int64           `json:"productId" binding:"required,gt=0"`
	Name      string          `json:"name"`
	ImagePath string          `json:"imagePath"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity" binding:"required,gte=1"`
	Color     string          `json:"color"`
	Storage   string          `json:"storage"`
}

func (r AddItemRequest) Product() Product {
	return Product{ID: r.ProductID, Name: r.Name, ImagePath: r.ImagePath, UnitPrice: r.UnitPrice}
}

// UpdateItemRequest sets the quantity of one line; 0 removes it.
type UpdateItemRequest struct {
	ProductID int64  `json:"productId" binding:"required,gt=0"`
	Color     string `json:"color"`
	Storage   string `json:"storage"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

func (r UpdateItemRequest) Key() LineKey {
	return LineKey{ProductID: r.ProductID, Color: r.Color, Storage: r.Storage}
}
