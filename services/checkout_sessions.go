package services

import (
	"context"
	"sync"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/models"
)

// CheckoutSession owns one device's wizard. Callers hold mu while reading
// or changing it.
type CheckoutSession struct {
	mu      sync.Mutex
	Wizard  *Wizard
	touched time.Time
}

// CheckoutSessions keeps wizards in memory only. A session idle for longer
// than ttl is dropped with its draft.
type CheckoutSessions struct {
	mu       sync.Mutex
	sessions map[string]*CheckoutSession
	ttl      time.Duration
	now      func() time.Time
}

func NewCheckoutSessions(ttl time.Duration) *CheckoutSessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &CheckoutSessions{
		sessions: make(map[string]*CheckoutSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Acquire returns the live session for deviceID, starting a fresh one when
// none exists or the previous one expired. The session is returned locked.
func (r *CheckoutSessions) Acquire(deviceID string) *CheckoutSession {
	r.mu.Lock()
	now := r.now()
	s, ok := r.sessions[deviceID]
	if !ok || now.Sub(s.touched) > r.ttl {
		s = &CheckoutSession{Wizard: NewWizard()}
		r.sessions[deviceID] = s
	}
	s.touched = now
	r.mu.Unlock()

	s.mu.Lock()
	return s
}

// Release unlocks a session obtained from Acquire.
func (r *CheckoutSessions) Release(s *CheckoutSession) {
	s.mu.Unlock()
}

// End discards the session if it is still the current one for deviceID.
func (r *CheckoutSessions) End(deviceID string, s *CheckoutSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[deviceID]; ok && current == s {
		delete(r.sessions, deviceID)
	}
}

func (r *CheckoutSessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops idle sessions. Sessions with a submission in flight are kept.
func (r *CheckoutSessions) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.touched) <= r.ttl {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		submitting := s.Wizard.Step == models.StepSubmitting
		s.mu.Unlock()
		if submitting {
			continue
		}
		delete(r.sessions, id)
		removed++
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *CheckoutSessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
