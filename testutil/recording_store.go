package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/device_store"
)

// RecordingStore wraps a device store and remembers which keys were read.
type RecordingStore struct {
	device_store.Store

	mu    sync.Mutex
	reads map[string]int
}

func NewRecordingStore(inner device_store.Store) *RecordingStore {
	return &RecordingStore{Store: inner, reads: map[string]int{}}
}

func (r *RecordingStore) Get(ctx context.Context, deviceID, key string) ([]byte, error) {
	r.mu.Lock()
	r.reads[key]++
	r.mu.Unlock()
	return r.Store.Get(ctx, deviceID, key)
}

func (r *RecordingStore) Set(ctx context.Context, deviceID, key string, value []byte, ttl time.Duration) error {
	return r.Store.Set(ctx, deviceID, key, value, ttl)
}

// Reads returns how many times key was read.
func (r *RecordingStore) Reads(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads[key]
}

func (r *RecordingStore) Reset() {
	r.mu.Lock()
	r.reads = map[string]int{}
	r.mu.Unlock()
}
