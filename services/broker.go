package services

import (
	"sync"
)

// CartBroker fans out payload-free "cart changed" signals to every listener
// on the same device. Listeners re-read the count themselves.
type CartBroker struct {
	mu   sync.RWMutex
	subs map[string]map[chan struct{}]struct{}
}

func NewCartBroker() *CartBroker {
	return &CartBroker{subs: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe registers a listener for deviceID. The returned cancel func
// must be called once the listener goes away.
func (b *CartBroker) Subscribe(deviceID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subs[deviceID] == nil {
		b.subs[deviceID] = make(map[chan struct{}]struct{})
	}
	b.subs[deviceID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[deviceID], ch)
			if len(b.subs[deviceID]) == 0 {
				delete(b.subs, deviceID)
			}
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

// Publish never blocks. A listener that has not drained its previous signal
// already knows it must re-read, so the new one is dropped.
func (b *CartBroker) Publish(deviceID string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[deviceID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (b *CartBroker) Listeners(deviceID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[deviceID])
}
