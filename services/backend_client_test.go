package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeCart_FieldNames(t *testing.T) {
	raw := json.RawMessage(`{"data":{"items":[
		{"id":"7","productId":10,"productName":"Kurta","price":"250.50","quantity":2,"selectedColor":"red","selectedStorage":null},
		{"cartItemId":8,"product":{"id":11,"name":"Shawl","price":100},"qty":"1","color":"blue"},
		{"id":9,"name":"ghost","quantity":1}
	]}}`)

	cart, ok := normalizeCart(raw)
	require.True(t, ok)
	require.Len(t, cart.Lines, 2)

	first := cart.Lines[0]
	assert.Equal(t, int64(7), first.CartItemID)
	assert.Equal(t, int64(10), first.ProductID)
	assert.Equal(t, "Kurta", first.Name)
	assert.Equal(t, "501", first.LineTotal.String())
	assert.Equal(t, "red", first.Color)
	assert.Empty(t, first.Storage)

	second := cart.Lines[1]
	assert.Equal(t, int64(8), second.CartItemID)
	assert.Equal(t, int64(11), second.ProductID)
	assert.Equal(t, "Shawl", second.Name)
	assert.Equal(t, 1, second.Quantity)
	assert.Equal(t, "blue", second.Color)
}

func TestNormalizeCart_BareArray(t *testing.T) {
	cart, ok := normalizeCart(json.RawMessage(`[{"productId":1,"unitPrice":5,"quantity":3}]`))
	require.True(t, ok)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "15", cart.Lines[0].LineTotal.String())

	_, ok = normalizeCart(json.RawMessage(`{"message":"ok"}`))
	assert.False(t, ok)
}

func TestNormalizeOrders_ObjectOrArray(t *testing.T) {
	single := normalizeOrders(json.RawMessage(`{"orderId":"X1","grandTotal":"500"}`))
	require.Len(t, single, 1)
	assert.Equal(t, "X1", single[0].OrderID)

	many := normalizeOrders(json.RawMessage(`{"data":[{"id":1,"total":500},{"id":2,"total":300}]}`))
	require.Len(t, many, 2)
	assert.Equal(t, "800", models.AggregateOrders(many).GrandTotal.String())

	wrapped := normalizeOrders(json.RawMessage(`{"message":"created","orders":[{"orderNumber":"N-1"}]}`))
	require.Len(t, wrapped, 1)
	assert.Equal(t, "N-1", wrapped[0].OrderID)
}

func TestNormalizeEsewa_TopLevelFields(t *testing.T) {
	raw := json.RawMessage(`{"success":true,"esewa_url":"https://epay.esewa.com.np/api/epay/main/v2/form","amount":100.10,"total_amount":"100.10","transaction_uuid":"T-1","signature":"abc="}`)
	h, ok := normalizeEsewaInitiation("T", raw)
	require.True(t, ok)
	assert.Equal(t, "https://epay.esewa.com.np/api/epay/main/v2/form", h.ActionURL)
	assert.Equal(t, map[string]string{
		"amount":           "100.10",
		"total_amount":     "100.10",
		"transaction_uuid": "T-1",
		"signature":        "abc=",
	}, h.Fields)
}

func TestServerError_PassesBodyThrough(t *testing.T) {
	raw := []byte(`{"status":409,"message":"Out of stock","details":{"productId":3},"timestamp":"2025-01-02T03:04:05Z","path":"/api/cart/1/add/3"}`)
	e := serverError(http.StatusConflict, "/cart/1/add/3", raw)

	assert.Equal(t, http.StatusConflict, e.Status)
	assert.Equal(t, "Out of stock", e.Message)
	assert.Equal(t, map[string]any{"productId": float64(3)}, e.Details)
	assert.Equal(t, "/api/cart/1/add/3", e.Path)
	assert.True(t, e.Timestamp.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestServerError_SynthesizesMissingFields(t *testing.T) {
	e := serverError(http.StatusBadGateway, "/orders", []byte("<html>bad gateway</html>"))
	assert.Equal(t, http.StatusBadGateway, e.Status)
	assert.Equal(t, "<html>bad gateway</html>", e.Message)
	assert.Equal(t, "/orders", e.Path)
	assert.False(t, e.Timestamp.IsZero())
}

func TestMarketplaceClient_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	c := NewMarketplaceClient(slow.URL, 20*time.Millisecond, zap.NewNop())
	_, err := c.GetCart(ctx, 1)
	require.Error(t, err)

	apiErr := models.AsApiError(err)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, models.NetworkErrorMessage, apiErr.Message)
	assert.Equal(t, "/cart/1", apiErr.Path)
}

func TestMarketplaceClient_Login(t *testing.T) {
	h := newHarness(t)
	h.backend.Users["sita@example.com"] = testUser(7, "Sita", "secret")

	res, err := h.client.Login(ctx, models.LoginRequest{Email: "sita@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, models.LoginResult{UserID: 7, Name: "Sita", Email: "sita@example.com"}, res)

	_, err = h.client.Login(ctx, models.LoginRequest{Email: "sita@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, models.StatusOf(err))
}
