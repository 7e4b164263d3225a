package testutil

import (
	"context"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/device_store"
)

// ContextStore fails every call made with a finished context, the way the
// redis and postgres drivers do.
type ContextStore struct {
	device_store.Store
}

func (s ContextStore) Get(ctx context.Context, deviceID, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Store.Get(ctx, deviceID, key)
}

func (s ContextStore) Set(ctx context.Context, deviceID, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Set(ctx, deviceID, key, value, ttl)
}

func (s ContextStore) Delete(ctx context.Context, deviceID, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Delete(ctx, deviceID, key)
}
