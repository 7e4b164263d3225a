package preview_cache

import (
	"sync"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/models"
)

// FreshFor is how long a preview is reused without asking the backend
// again for the same inputs.
const FreshFor = 2 * time.Minute

// KeepFor bounds how long a preview may be shown as a stale fallback.
const KeepFor = 30 * time.Minute

// ── Last-known price preview per device ──────────────────────────────────────
// The fingerprint ties a preview to the cart contents and delivery zone it
// was computed for; a preview is never shown for other inputs.

type entry struct {
	fingerprint string
	preview     models.PricePreview
	fetchedAt   time.Time
}

var (
	mu      sync.RWMutex
	entries = map[string]*entry{}
	now     = time.Now
)

// Lookup returns the retained preview for the same inputs and when it was
// fetched. Entries older than KeepFor are not returned.
func Lookup(deviceID, fingerprint string) (models.PricePreview, time.Time, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := entries[deviceID]
	if ok && e.fingerprint == fingerprint && now().Sub(e.fetchedAt) < KeepFor {
		return e.preview, e.fetchedAt, true
	}
	return models.PricePreview{}, time.Time{}, false
}

func Set(deviceID, fingerprint string, p models.PricePreview) {
	mu.Lock()
	defer mu.Unlock()
	entries[deviceID] = &entry{fingerprint: fingerprint, preview: p, fetchedAt: now()}
	sweepLocked()
}

// ── Invalidate (call when an order is placed) ────────────────────────────────

func Invalidate(deviceID string) {
	mu.Lock()
	delete(entries, deviceID)
	mu.Unlock()
}

func sweepLocked() {
	t := now()
	for id, e := range entries {
		if t.Sub(e.fetchedAt) >= KeepFor {
			delete(entries, id)
		}
	}
}
