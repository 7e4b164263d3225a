package ecommerce_routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Modeva-Ecommerce/modeva-storefront/device_store"
	"github.com/Modeva-Ecommerce/modeva-storefront/middleware"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type storefrontFeature struct {
	t       *testing.T
	gateway *gateway
	browser *browser
	session models.SessionView
	view    checkoutBody
}

func (f *storefrontFeature) reset() {
	f.gateway = newGateway(f.t)
	f.browser = f.gateway.browser(f.t)
	f.session = models.SessionView{}
	f.view = checkoutBody{}
}

func (f *storefrontFeature) aRegisteredShopper(email string, id int64) error {
	f.gateway.backend.Users[email] = testUserFor(id)
	return nil
}

func (f *storefrontFeature) theGuestCartHolds(quantity int, productID int64, price int64) error {
	r := f.browser.post("/cart/items", map[string]any{
		"productId": productID,
		"unitPrice": decimal.NewFromInt(price),
		"quantity":  quantity,
	})
	if r.Status != http.StatusOK {
		return fmt.Errorf("add to cart answered %d: %s", r.Status, r.Body)
	}
	return nil
}

func (f *storefrontFeature) theMarketplaceRefusesProduct(productID int64) error {
	f.gateway.backend.FailAddProducts[productID] = true
	return nil
}

func (f *storefrontFeature) theMarketplacePlacesOrders(id1 string, total1 int, id2 string, total2 int) error {
	f.gateway.backend.OrderResponse = map[string]any{"orders": []map[string]any{
		{"orderId": id1, "subtotal": total1, "grandTotal": total1},
		{"orderId": id2, "subtotal": total2, "grandTotal": total2},
	}}
	return nil
}

func (f *storefrontFeature) theShopperLogsInAs(email string) error {
	r := f.browser.post("/auth/login", map[string]any{"email": email, "password": "secret123"})
	if r.Status != http.StatusOK {
		return fmt.Errorf("login answered %d: %s", r.Status, r.Body)
	}
	r.data(f.t, &f.session)
	return nil
}

func (f *storefrontFeature) theLoginReports(merged, failed int) error {
	if f.session.Merge == nil {
		return fmt.Errorf("login returned no merge report")
	}
	if f.session.Merge.Merged != merged || f.session.Merge.Failed != failed {
		return fmt.Errorf("merge report %+v, want %d merged and %d failed", *f.session.Merge, merged, failed)
	}
	return nil
}

func (f *storefrontFeature) theCartBadgeShows(n int) error {
	var count struct {
		Count int `json:"count"`
	}
	f.browser.get("/cart/count").data(f.t, &count)
	if count.Count != n {
		return fmt.Errorf("badge shows %d, want %d", count.Count, n)
	}
	return nil
}

func (f *storefrontFeature) theCartIsNotAGuestCart() error {
	var cart cartBody
	f.browser.get("/cart").data(f.t, &cart)
	if cart.Guest {
		return fmt.Errorf("cart is still the guest cart")
	}
	return nil
}

func (f *storefrontFeature) theGuestCartIsEmpty() error {
	deviceID := f.browser.cookie(middleware.DeviceCookie)
	raw, err := f.gateway.store.Get(context.Background(), deviceID, device_store.KeyGuestCart)
	if errors.Is(err, device_store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("guest cart still holds %s", raw)
}

func (f *storefrontFeature) theGuestChecksOutWith(method string) error {
	f.browser.toPayment(method)
	r := f.browser.post("/checkout/submit", nil)
	if r.Status != http.StatusOK {
		return fmt.Errorf("submit answered %d: %s", r.Status, r.Body)
	}
	r.data(f.t, &f.view)
	return nil
}

func (f *storefrontFeature) theCheckoutStepIs(step string) error {
	if string(f.view.Step) != step {
		return fmt.Errorf("step is %s, want %s", f.view.Step, step)
	}
	return nil
}

func (f *storefrontFeature) theConfirmationShows(displayID string, total int64) error {
	var order models.AggregatedOrder
	r := f.browser.get("/orders/confirmation")
	if r.Status != http.StatusOK {
		return fmt.Errorf("confirmation answered %d", r.Status)
	}
	r.data(f.t, &order)
	if order.DisplayID != displayID {
		return fmt.Errorf("confirmation shows %q, want %q", order.DisplayID, displayID)
	}
	if !order.GrandTotal.Equal(decimal.NewFromInt(total)) {
		return fmt.Errorf("confirmation total %s, want %d", order.GrandTotal, total)
	}
	return nil
}

func initializeScenario(t *testing.T) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		f := &storefrontFeature{t: t}

		ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
			f.reset()
			return ctx, nil
		})

		ctx.Step(`^a registered shopper "([^"]*)" with id (\d+)$`, f.aRegisteredShopper)
		ctx.Step(`^the guest cart holds (\d+) of product (\d+) at (\d+)$`, f.theGuestCartHolds)
		ctx.Step(`^the marketplace refuses product (\d+)$`, f.theMarketplaceRefusesProduct)
		ctx.Step(`^the marketplace places orders "([^"]*)" for (\d+) and "([^"]*)" for (\d+)$`, f.theMarketplacePlacesOrders)
		ctx.Step(`^the shopper logs in as "([^"]*)"$`, f.theShopperLogsInAs)
		ctx.Step(`^the guest checks out with "([^"]*)"$`, f.theGuestChecksOutWith)

		ctx.Step(`^the login reports (\d+) merged and (\d+) failed$`, f.theLoginReports)
		ctx.Step(`^the cart badge shows (\d+)$`, f.theCartBadgeShows)
		ctx.Step(`^the cart is not a guest cart$`, f.theCartIsNotAGuestCart)
		ctx.Step(`^the guest cart is empty$`, f.theGuestCartIsEmpty)
		ctx.Step(`^the checkout step is "([^"]*)"$`, f.theCheckoutStepIs)
		ctx.Step(`^the confirmation shows orders "([^"]*)" totalling (\d+)$`, f.theConfirmationShows)
	}
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
