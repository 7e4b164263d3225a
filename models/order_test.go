package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAggregateOrders_SumsAndJoins(t *testing.T) {
	orders := []OrderSummary{
		{OrderID: "A-1", Subtotal: decimal.NewFromInt(450), ShippingFee: decimal.NewFromInt(50), GrandTotal: decimal.NewFromInt(500),
			Items: []OrderItem{{ProductID: 1, Quantity: 1}}, PaymentMethod: PaymentCOD},
		{OrderID: "A-2", Subtotal: decimal.NewFromInt(300), GrandTotal: decimal.NewFromInt(300),
			Items: []OrderItem{{ProductID: 2, Quantity: 2}}, ShippingAddress: "Baluwatar, Kathmandu"},
	}

	agg := AggregateOrders(orders)

	assert.Equal(t, []string{"A-1", "A-2"}, agg.OrderIDs)
	assert.Equal(t, "A-1, A-2", agg.DisplayID)
	assert.Equal(t, "A-1", agg.PrimaryOrderID())
	assert.True(t, agg.GrandTotal.Equal(decimal.NewFromInt(800)))
	assert.True(t, agg.ShippingFee.Equal(decimal.NewFromInt(50)))
	assert.Len(t, agg.Items, 2)
	assert.Equal(t, PaymentCOD, agg.PaymentMethod)
	assert.Equal(t, "Baluwatar, Kathmandu", agg.ShippingAddress)
}

func TestAggregateOrders_Empty(t *testing.T) {
	agg := AggregateOrders(nil)

	assert.Empty(t, agg.PrimaryOrderID())
	assert.Empty(t, agg.DisplayID)
	assert.True(t, agg.GrandTotal.IsZero())
	assert.NotNil(t, agg.Items)
}

func TestDraftPatch_LeavesOmittedFields(t *testing.T) {
	d := CheckoutDraft{FullName: "Sita", City: "Pokhara", PaymentMethod: PaymentCOD}
	city := "Kathmandu"
	method := PaymentKhalti

	DraftPatch{City: &city, PaymentMethod: &method}.Apply(&d)

	assert.Equal(t, "Sita", d.FullName)
	assert.Equal(t, "Kathmandu", d.City)
	assert.Equal(t, PaymentKhalti, d.PaymentMethod)
}

func TestPaymentMethod(t *testing.T) {
	assert.True(t, PaymentEsewa.Gateway())
	assert.True(t, PaymentKhalti.Gateway())
	assert.False(t, PaymentCOD.Gateway())
	assert.False(t, PaymentMethod("CARD").Valid())
	assert.True(t, StepRedirecting.IsTerminal())
	assert.False(t, StepSubmitting.IsTerminal())
}
