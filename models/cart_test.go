package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phone(price int64) Product {
	return Product{ID: 3, Name: "Phone", UnitPrice: decimal.NewFromInt(price)}
}

func TestCart_AddLineMergesSameVariant(t *testing.T) {
	var c Cart
	c.AddLine(phone(1000), 1, "black", "128GB")
	c.AddLine(phone(1000), 2, "black", "128GB")

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	assert.True(t, c.Lines[0].LineTotal.Equal(decimal.NewFromInt(3000)))
}

func TestCart_VariantsAreDistinctLines(t *testing.T) {
	var c Cart
	c.AddLine(phone(1000), 1, "black", "128GB")
	c.AddLine(phone(1000), 1, "black", "256GB")
	c.AddLine(phone(1000), 1, "white", "128GB")

	assert.Len(t, c.Lines, 3)
	assert.Equal(t, 3, c.ItemCount())
}

func TestCart_SetQuantityZeroRemovesLine(t *testing.T) {
	var c Cart
	c.AddLine(phone(1000), 2, "", "")
	c.AddLine(Product{ID: 4, UnitPrice: decimal.NewFromInt(50)}, 1, "", "")

	ok := c.SetQuantity(LineKey{ProductID: 3}, 0)

	assert.True(t, ok)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(4), c.Lines[0].ProductID)
	assert.False(t, c.SetQuantity(LineKey{ProductID: 99}, 1))
}

func TestCart_RecomputeIgnoresStoredTotals(t *testing.T) {
	c := Cart{Lines: []CartLine{
		{ProductID: 1, UnitPrice: decimal.RequireFromString("99.50"), Quantity: 2, LineTotal: decimal.NewFromInt(1)},
		{ProductID: 2, UnitPrice: decimal.NewFromInt(10), Quantity: 0},
	}}

	c.Recompute()

	require.Len(t, c.Lines, 1)
	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("199")))
}

func TestNewCartView_EmptyCartHasItemsArray(t *testing.T) {
	v := NewCartView(Cart{}, true)

	assert.NotNil(t, v.Items)
	assert.Zero(t, v.ItemCount)
	assert.True(t, v.Subtotal.IsZero())
	assert.True(t, v.Guest)
}
