package ecommerce_routes

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartBody struct {
	Items []struct {
		ProductID int64  `json:"productId"`
		Quantity  int    `json:"quantity"`
		Color     string `json:"color"`
	} `json:"items"`
	ItemCount int    `json:"itemCount"`
	Subtotal  string `json:"subtotal"`
	Guest     bool   `json:"guest"`
}

type checkoutBody struct {
	Step  models.CheckoutStep `json:"step"`
	Next  string              `json:"next"`
	Order *struct {
		OrderIDs   []string `json:"orderIds"`
		DisplayID  string   `json:"displayId"`
		GrandTotal string   `json:"grandTotal"`
	} `json:"order"`
}

func TestGuestCart_AddMergesSameVariant(t *testing.T) {
	g := newGateway(t)
	b := g.browser(t)

	add := map[string]any{"productId": 7, "name": "Kurta", "unitPrice": "1200", "quantity": 1, "color": "red"}
	require.Equal(t, http.StatusOK, b.post("/cart/items", add).Status)
	r := b.post("/cart/items", add)
	require.Equal(t, http.StatusOK, r.Status)

	var cart cartBody
	r.data(t, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "2400", cart.Subtotal)
	assert.True(t, cart.Guest)
	assert.NotEmpty(t, b.cookie(middleware.DeviceCookie))

	var count struct {
		Count  int  `json:"count"`
		Cached bool `json:"cached"`
	}
	b.get("/cart/count?cached=true").data(t, &count)
	assert.Equal(t, 2, count.Count)
	assert.True(t, count.Cached)
}

func TestAddItem_RejectsMissingFields(t *testing.T) {
	g := newGateway(t)
	b := g.browser(t)

	r := b.post("/cart/items", map[string]any{"quantity": 0})

	assert.Equal(t, http.StatusBadRequest, r.Status)
	env := r.envelope(t)
	require.NotNil(t, env.Failure)
	assert.ElementsMatch(t, []any{"productId", "quantity"}, env.Failure.Details["fields"])
}

func TestUpdateItem_UnknownLineIsNotFound(t *testing.T) {
	g := newGateway(t)
	b := g.browser(t)

	r := b.patch("/cart/items", map[string]any{"productId": 99, "quantity": 2})

	assert.Equal(t, http.StatusNotFound, r.Status)
}

func TestLogin_MergesGuestCartAndSetsSession(t *testing.T) {
	g := newGateway(t)
	g.backend.Users["sita@example.com"] = testUserFor(42)
	b := g.browser(t)

	b.post("/cart/items", map[string]any{"productId": 1, "unitPrice": "500", "quantity": 1})
	b.post("/cart/items", map[string]any{"productId": 2, "unitPrice": "300", "quantity": 2})

	r := b.post("/auth/login", map[string]any{"email": "sita@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, r.Status, string(r.Body))

	var session models.SessionView
	r.data(t, &session)
	assert.True(t, session.Authenticated)
	assert.Equal(t, int64(42), session.UserID)
	require.NotNil(t, session.Merge)
	assert.Equal(t, 2, session.Merge.Merged)
	assert.Equal(t, 3, session.ItemCount)
	assert.NotEmpty(t, b.cookie(middleware.SessionCookie))

	assert.Equal(t, 1, g.backend.CartQuantity(42, 1))
	assert.Equal(t, 2, g.backend.CartQuantity(42, 2))

	var cart cartBody
	b.get("/cart").data(t, &cart)
	assert.False(t, cart.Guest)
	assert.Equal(t, 3, cart.ItemCount)

	b.post("/auth/logout", nil)
	b.get("/cart").data(t, &cart)
	assert.True(t, cart.Guest)
	assert.Empty(t, cart.Items)
}

func TestLogin_BadCredentials(t *testing.T) {
	g := newGateway(t)
	b := g.browser(t)

	r := b.post("/auth/login", map[string]any{"email": "nobody@example.com", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, r.Status)
	assert.Empty(t, b.cookie(middleware.SessionCookie))
}

func TestBearerToken_IdentifiesShopper(t *testing.T) {
	g := newGateway(t)
	g.backend.SeedCart(5, 3, 4, "", "")
	b := g.browser(t)

	r := b.get("/cart", "Authorization", "Bearer 5")

	var cart cartBody
	r.data(t, &cart)
	assert.False(t, cart.Guest)
	assert.Equal(t, 4, cart.ItemCount)
}

func TestCheckout_NextReportsMissingFields(t *testing.T) {
	g := newGateway(t)
	b := g.browser(t)

	r := b.post("/checkout/next", nil)

	assert.Equal(t, http.StatusBadRequest, r.Status)
	env := r.envelope(t)
	require.NotNil(t, env.Failure)
	assert.Contains(t, env.Failure.Details["fields"], "fullName")

	var view checkoutBody
	r.data(t, &view)
	assert.Equal(t, models.StepInfo, view.Step)
}

func TestCheckout_UnsupportedPaymentMethod(t *testing.T) {
	g := newGateway(t)
	b := g.browser(t)

	r := b.patch("/checkout/draft", map[string]any{"paymentMethod": "PAYPAL"})

	assert.Equal(t, http.StatusBadRequest, r.Status)
}

func TestCheckout_CashOnDeliveryEndsOnConfirmation(t *testing.T) {
	g := newGateway(t)
	b := g.browser(t)
	b.post("/cart/items", map[string]any{"productId": 1, "unitPrice": "500", "quantity": 1})
	b.toPayment("COD")

	r := b.post("/checkout/submit", nil)
	require.Equal(t, http.StatusOK, r.Status, string(r.Body))

	var view checkoutBody
	r.data(t, &view)
	assert.Equal(t, models.StepSuccess, view.Step)
	assert.Equal(t, services.NextConfirmation, view.Next)
	require.NotNil(t, view.Order)
	assert.Equal(t, "ORD-1", view.Order.DisplayID)

	var confirmed models.AggregatedOrder
	b.get("/orders/confirmation").data(t, &confirmed)
	assert.Equal(t, []string{"ORD-1"}, confirmed.OrderIDs)

	var count struct {
		Count int `json:"count"`
	}
	b.get("/cart/count").data(t, &count)
	assert.Zero(t, count.Count)
}

func TestCheckout_SubmitEmptyCartStaysOnPayment(t *testing.T) {
	g := newGateway(t)
	b := g.browser(t)
	b.toPayment("COD")

	r := b.post("/checkout/submit", nil)

	assert.Equal(t, http.StatusBadRequest, r.Status)
	var view checkoutBody
	r.data(t, &view)
	assert.Equal(t, models.StepPayment, view.Step)
	assert.Zero(t, g.backend.CallsTo(http.MethodPost, "/orders"))
}

func TestConfirmation_NoneYet(t *testing.T) {
	g := newGateway(t)
	b := g.browser(t)

	assert.Equal(t, http.StatusNotFound, b.get("/orders/confirmation").Status)
}

func TestEsewa_RedirectRendersSignedForm(t *testing.T) {
	g := newGateway(t)
	g.backend.EsewaResponse = map[string]any{
		"url": "https://rc-epay.esewa.com.np/api/epay/main/v2/form",
		"fields": map[string]any{
			"total_amount":     "600",
			"transaction_uuid": "ORD-1",
			"signature":        "c2lnbmVk",
		},
	}
	b := g.browser(t)
	b.post("/cart/items", map[string]any{"productId": 1, "unitPrice": "500", "quantity": 1})
	b.toPayment("ESEWA")

	r := b.post("/checkout/submit", nil)
	require.Equal(t, http.StatusOK, r.Status, string(r.Body))
	var view checkoutBody
	r.data(t, &view)
	assert.Equal(t, models.StepRedirecting, view.Step)
	assert.Equal(t, services.NextPaymentRedirect, view.Next)

	page := b.get("/payment/redirect")
	require.Equal(t, http.StatusOK, page.Status)
	html := string(page.Body)
	assert.Contains(t, html, `action="https://rc-epay.esewa.com.np/api/epay/main/v2/form"`)
	assert.Contains(t, html, `name="signature" value="c2lnbmVk"`)
	assert.Contains(t, html, `name="transaction_uuid" value="ORD-1"`)
}

func TestKhalti_RedirectIsSeeOther(t *testing.T) {
	g := newGateway(t)
	g.backend.KhaltiResponse = map[string]any{"pidx": "PX1", "payment_url": "https://test-pay.khalti.com/?pidx=PX1"}
	b := g.browser(t)
	b.post("/cart/items", map[string]any{"productId": 1, "unitPrice": "500", "quantity": 1})
	b.toPayment("KHALTI")
	require.Equal(t, http.StatusOK, b.post("/checkout/submit", nil).Status)

	r := b.get("/payment/redirect")

	assert.Equal(t, http.StatusSeeOther, r.Status)
	assert.Equal(t, "https://test-pay.khalti.com/?pidx=PX1", r.Header.Get("Location"))
}

func TestPaymentStatus_VerifiedRendersConfirmation(t *testing.T) {
	g := newGateway(t)
	g.backend.VerifyResponse = map[string]any{
		"success": true,
		"data":    map[string]any{"orders": []map[string]any{{"orderId": "E-1", "grandTotal": 800}}},
	}
	b := g.browser(t)

	r := b.get("/payment/status?data=eyJzdGF0dXMiOiJDT01QTEVURSJ9")
	require.Equal(t, http.StatusOK, r.Status)
	var view models.PaymentStatusView
	r.data(t, &view)
	assert.True(t, view.Success)
	assert.Equal(t, models.PaymentEsewa, view.Gateway)

	var confirmed models.AggregatedOrder
	b.get("/orders/confirmation").data(t, &confirmed)
	assert.Equal(t, "E-1", confirmed.DisplayID)
}

func TestPaymentStatus_HTMLForBrowsers(t *testing.T) {
	g := newGateway(t)
	g.backend.VerifyResponse = map[string]any{"success": false, "message": "Transaction not completed"}
	b := g.browser(t)

	r := b.get("/payment/status?pidx=PX1", "Accept", "text/html")

	require.Equal(t, http.StatusOK, r.Status)
	html := string(r.Body)
	assert.Contains(t, html, "Transaction not completed")
	assert.Contains(t, html, `href="http://shop.test/checkout"`)
	assert.False(t, strings.Contains(html, "http-equiv"))
}

func TestPaymentFailure_NeverVerifies(t *testing.T) {
	g := newGateway(t)
	b := g.browser(t)

	var view models.PaymentStatusView
	b.get("/payment/failure").data(t, &view)

	assert.False(t, view.Success)
	assert.Equal(t, services.NextCheckout, view.Next)
	assert.Zero(t, g.backend.CallsTo(http.MethodPost, "/payment/verify/esewa"))
	assert.Zero(t, g.backend.CallsTo(http.MethodPost, "/payment/verify/khalti"))
}

func TestRedirect_NoPendingPayment(t *testing.T) {
	g := newGateway(t)
	b := g.browser(t)

	assert.Equal(t, http.StatusNotFound, b.get("/payment/redirect").Status)
}
