package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/device_store"
	"github.com/Modeva-Ecommerce/modeva-storefront/models"
)

// Storefront destinations handed back in "next".
const (
	NextConfirmation    = "/orders/confirmation"
	NextCheckout        = "/checkout"
	NextPaymentRedirect = "/api/v1/payment/redirect"
)

const (
	ConfirmationTTL   = 30 * time.Minute
	PendingPaymentTTL = 30 * time.Minute
)

var (
	ErrNoConfirmation   = errors.New("No recent order to show")
	ErrNoPendingPayment = errors.New("No payment is waiting to be completed")
)

func SaveConfirmation(ctx context.Context, store device_store.Store, deviceID string, order models.AggregatedOrder) error {
	return putJSON(ctx, store, deviceID, device_store.KeyOrderConfirmation, order, ConfirmationTTL)
}

func LoadConfirmation(ctx context.Context, store device_store.Store, deviceID string) (models.AggregatedOrder, error) {
	var order models.AggregatedOrder
	if err := getJSON(ctx, store, deviceID, device_store.KeyOrderConfirmation, &order); err != nil {
		if errors.Is(err, device_store.ErrNotFound) {
			return order, models.WrapError(http.StatusNotFound, ErrNoConfirmation)
		}
		return order, err
	}
	return order, nil
}

func SavePendingPayment(ctx context.Context, store device_store.Store, deviceID string, p models.PendingPayment) error {
	return putJSON(ctx, store, deviceID, device_store.KeyPendingPayment, p, PendingPaymentTTL)
}

func LoadPendingPayment(ctx context.Context, store device_store.Store, deviceID string) (models.PendingPayment, error) {
	var p models.PendingPayment
	if err := getJSON(ctx, store, deviceID, device_store.KeyPendingPayment, &p); err != nil {
		if errors.Is(err, device_store.ErrNotFound) {
			return p, models.WrapError(http.StatusNotFound, ErrNoPendingPayment)
		}
		return p, err
	}
	return p, nil
}

func ClearPendingPayment(ctx context.Context, store device_store.Store, deviceID string) error {
	err := store.Delete(ctx, deviceID, device_store.KeyPendingPayment)
	if errors.Is(err, device_store.ErrNotFound) {
		return nil
	}
	return err
}

func putJSON(ctx context.Context, store device_store.Store, deviceID, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Set(ctx, deviceID, key, raw, ttl)
}

// getJSON treats an undecodable value as missing.
func getJSON(ctx context.Context, store device_store.Store, deviceID, key string, v any) error {
	if deviceID == "" {
		return device_store.ErrNotFound
	}
	raw, err := store.Get(ctx, deviceID, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return device_store.ErrNotFound
	}
	return nil
}
