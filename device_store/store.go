// Package device_store holds the per-device key/value state the storefront
// keeps for a browser: the guest cart, the cached badge count, the pending
// gateway hand-off and the last order confirmation.
//
// Reads and writes are not coordinated across tabs of the same device; the
// last writer wins.
package device_store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for a missing or expired key.
var ErrNotFound = errors.New("device store: key not found")

// Well-known keys.
const (
	KeyGuestCart         = "guest_cart"
	KeyCartCount         = "cart_count"
	KeyPendingPayment    = "pending_payment"
	KeyOrderConfirmation = "order_confirmation"
)

// Store is implemented by every driver. A ttl of zero means no expiry.
type Store interface {
	Get(ctx context.Context, deviceID, key string) ([]byte, error)
	Set(ctx context.Context, deviceID, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, deviceID, key string) error
}

func namespaced(deviceID, key string) string {
	return "device:" + deviceID + ":" + key
}
