// Package codes holds the short-lived access codes that authorize scoreboard
// submissions. A code is issued to one user, lives five minutes, and is good
// for exactly one upload.
package codes

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	// TTL is how long a stored code stays valid.
	TTL = 5 * time.Minute
	// SweepInterval is how often expired entries are purged.
	SweepInterval = 300 * time.Second
)

type entry struct {
	userID  string
	expires time.Time
}

// Registry is the shared access-code table. All access goes through the
// mutex: the upload handler and the sweeper run on different goroutines.
type Registry struct {
	mu    sync.Mutex
	codes map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		codes: make(map[string]entry),
		ttl:   TTL,
		now:   time.Now,
	}
}

// Store registers a code for a user. Re-storing a code resets its expiry.
func (r *Registry) Store(code, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[code] = entry{userID: userID, expires: r.now().Add(r.ttl)}
}

// Consume validates and invalidates a code in one step, returning the user it
// was issued to. Expired codes are invalid whether or not they were ever
// used; an expired entry is dropped on sight.
func (r *Registry) Consume(code string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.codes[code]
	if !ok {
		return "", false
	}
	delete(r.codes, code)
	if r.now().After(e.expires) {
		return "", false
	}
	return e.userID, true
}

// Sweep removes expired entries and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	dropped := 0
	for code, e := range r.codes {
		if now.After(e.expires) {
			delete(r.codes, code)
			dropped++
		}
	}
	return dropped
}

// StartSweeper purges expired codes on a fixed interval until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					log.Printf("swept %d expired access codes", n)
				}
			}
		}
	}()
}
