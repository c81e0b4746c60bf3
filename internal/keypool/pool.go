// Package keypool rotates a pool of API credentials, enforcing a per-key
// call cap so no single credential burns through its quota.
package keypool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// ErrExhausted is returned by Next when every key in the pool has reached
// its call cap. The run must stop; the operator supplies more keys or waits
// for quotas to reset.
var ErrExhausted = errors.New("keypool: all keys exhausted")

// Key is a credential handed out by the pool. ID identifies the key for
// RecordCall and MarkExhausted; Number is the 1-based position for logs.
type Key struct {
	ID         int
	Number     int
	Credential string
}

type keyState struct {
	credential string
	calls      int
}

// Pool tracks per-key call counts and selects the next usable credential
// round-robin. Counters reset only when the pool is rebuilt, matching a
// per-session quota model.
type Pool struct {
	mu sync.Mutex

	keys       []keyState
	cursor     int
	capPerKey  int
	totalCalls int

	limiter *rate.Limiter
}

// New builds a pool over the given credentials. maxCallsPerKey bounds each
// key's counter; at least one credential is required.
func New(credentials []string, maxCallsPerKey int) (*Pool, error) {
	if len(credentials) == 0 {
		return nil, fmt.Errorf("keypool: at least one credential required")
	}
	if maxCallsPerKey <= 0 {
		return nil, fmt.Errorf("keypool: max calls per key must be positive, got %d", maxCallsPerKey)
	}

	keys := make([]keyState, len(credentials))
	for i, c := range credentials {
		keys[i] = keyState{credential: c}
	}
	return &Pool{keys: keys, capPerKey: maxCallsPerKey}, nil
}

// SetLimiter attaches a rate limiter applied in Next before a key is handed
// out. Optional; nil disables pacing.
func (p *Pool) SetLimiter(l *rate.Limiter) { p.limiter = l }

// Next returns the next key with remaining capacity, starting from the
// round-robin cursor. Returns ErrExhausted when every key is at cap.
func (p *Pool) Next(ctx context.Context) (Key, error) {
	p.mu.Lock()
	key, err := p.pick()
	p.mu.Unlock()
	if err != nil {
		return Key{}, err
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return Key{}, err
		}
	}
	return key, nil
}

// pick scans at most len(keys) slots from the cursor. Caller holds mu.
func (p *Pool) pick() (Key, error) {
	for i := 0; i < len(p.keys); i++ {
		idx := (p.cursor + i) % len(p.keys)
		if p.keys[idx].calls < p.capPerKey {
			p.cursor = idx
			return Key{ID: idx, Number: idx + 1, Credential: p.keys[idx].credential}, nil
		}
	}
	return Key{}, ErrExhausted
}

// RecordCall increments the counter for the given key and advances the
// cursor once the key reaches its cap.
func (p *Pool) RecordCall(k Key) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if k.ID < 0 || k.ID >= len(p.keys) {
		return
	}
	if p.keys[k.ID].calls < p.capPerKey {
		p.keys[k.ID].calls++
	}
	p.totalCalls++
	if p.keys[k.ID].calls >= p.capPerKey && p.cursor == k.ID {
		p.cursor = (k.ID + 1) % len(p.keys)
	}
}

// Advance moves the round-robin cursor past the given key so the next Next
// call tries a different credential. Used after a transient failure.
func (p *Pool) Advance(k Key) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if k.ID < 0 || k.ID >= len(p.keys) {
		return
	}
	if p.cursor == k.ID {
		p.cursor = (k.ID + 1) % len(p.keys)
	}
}

// MarkExhausted forces a key to its cap. Used when the provider reports a
// quota error before our counter reaches the configured limit.
func (p *Pool) MarkExhausted(k Key) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if k.ID < 0 || k.ID >= len(p.keys) {
		return
	}
	p.keys[k.ID].calls = p.capPerKey
	if p.cursor == k.ID {
		p.cursor = (k.ID + 1) % len(p.keys)
	}
}

// Status reports pool usage for logs and the run report.
type Status struct {
	Keys       int
	CapPerKey  int
	TotalCalls int
	Remaining  int
}

// Status returns a snapshot of pool usage.
func (p *Pool) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	remaining := 0
	for _, k := range p.keys {
		remaining += p.capPerKey - k.calls
	}
	return Status{
		Keys:       len(p.keys),
		CapPerKey:  p.capPerKey,
		TotalCalls: p.totalCalls,
		Remaining:  remaining,
	}
}

// Size returns the number of keys in the pool.
func (p *Pool) Size() int { return len(p.keys) }
