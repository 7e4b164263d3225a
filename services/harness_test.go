package services

import (
	"context"
	"testing"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/device_store"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/Modeva-Ecommerce/modeva-storefront/testutil"
	"github.com/Modeva-Ecommerce/modeva-storefront/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testHold = 1500 * time.Millisecond

type harness struct {
	backend  *testutil.FakeMarketplace
	store    *testutil.RecordingStore
	tokens   *utils.SessionTokens
	broker   *CartBroker
	client   *MarketplaceClient
	carts    *CartStore
	sessions *CheckoutSessions
	checkout *CheckoutService
	payments *PaymentVerifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := testutil.NewFakeMarketplace()
	t.Cleanup(backend.Close)

	tokens, err := utils.NewSessionTokens("test-secret", time.Hour)
	require.NoError(t, err)

	logger := zap.NewNop()
	store := testutil.NewRecordingStore(device_store.NewMemoryStore())
	broker := NewCartBroker()
	client := NewMarketplaceClient(backend.URL(), 5*time.Second, logger)
	carts := NewCartStore(client, store, tokens, broker, logger)
	sessions := NewCheckoutSessions(time.Hour)

	return &harness{
		backend:  backend,
		store:    store,
		tokens:   tokens,
		broker:   broker,
		client:   client,
		carts:    carts,
		sessions: sessions,
		checkout: NewCheckoutService(client, carts, sessions, store, testHold, logger),
		payments: NewPaymentVerifier(client, store, testHold, logger),
	}
}

func guest() models.Shopper {
	return models.Shopper{DeviceID: uuid.NewString()}
}

func member(userID int64) models.Shopper {
	return models.Shopper{DeviceID: uuid.NewString(), UserID: userID}
}

func product(id int64, price int64) models.Product {
	return models.Product{ID: id, Name: "Item", UnitPrice: decimal.NewFromInt(price)}
}

// fillDraft walks the wizard to the payment step with a valid draft.
func (h *harness) fillDraft(t *testing.T, shopper models.Shopper, method models.PaymentMethod) {
	t.Helper()
	name, phone := "Ram Thapa", "9800000000"
	street, city := "Jhamsikhel Road", "Lalitpur"
	accept := true
	inside := true
	_, err := h.checkout.EditDraft(shopper, models.DraftPatch{
		FullName:      &name,
		Phone:         &phone,
		Street:        &street,
		City:          &city,
		InsideValley:  &inside,
		PaymentMethod: &method,
		AcceptTerms:   &accept,
	})
	require.NoError(t, err)
	_, err = h.checkout.Next(shopper)
	require.NoError(t, err)
	_, err = h.checkout.Next(shopper)
	require.NoError(t, err)
}

var ctx = context.Background()

func testUser(id int64, name, password string) testutil.LoginUser {
	return testutil.LoginUser{ID: id, Name: name, Password: password}
}
