// Package keypool rotates across multiple AI provider API keys. Deployments
// with a single key get a pool of one; the rotation logic only starts to
// matter when operators configure several keys to spread request volume.
package keypool

import (
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	// errorThreshold is how many consecutive failures rest a key.
	errorThreshold = 3
	// cooldownPeriod is how long a rested key stays out of rotation.
	cooldownPeriod = time.Minute
)

var (
	ErrNoKeys          = errors.New("keypool: no keys configured")
	ErrNoKeysAvailable = errors.New("keypool: all keys are cooling down")
)

type keyState struct {
	uses         int
	errs         int
	coolingUntil time.Time
}

// Pool hands out the least-used available key. Keys that keep failing, or
// that hit quota or rate limits, rest for a cooldown before rejoining.
type Pool struct {
	mu    sync.Mutex
	now   func() time.Time
	keys  []string
	state map[string]*keyState
}

// New builds a pool from the given keys, dropping blanks and duplicates.
func New(keys ...string) (*Pool, error) {
	p := &Pool{
		now:   time.Now,
		state: make(map[string]*keyState),
	}
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, seen := p.state[k]; seen {
			continue
		}
		p.keys = append(p.keys, k)
		p.state[k] = &keyState{}
	}
	if len(p.keys) == 0 {
		return nil, ErrNoKeys
	}
	return p, nil
}

// Acquire returns the least-used key not currently cooling down.
func (p *Pool) Acquire() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	best := ""
	bestUses := -1
	for _, k := range p.keys {
		st := p.state[k]
		if p.now().Before(st.coolingUntil) {
			continue
		}
		if bestUses == -1 || st.uses < bestUses {
			best, bestUses = k, st.uses
		}
	}
	if bestUses == -1 {
		return "", ErrNoKeysAvailable
	}

	p.state[best].uses++
	return best, nil
}

// ReportError records a failure against a key. Quota and rate-limit errors
// rest the key immediately; other errors rest it after errorThreshold in a
// row.
func (p *Pool) ReportError(key string, err error) {
	if err == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.state[key]
	if !ok {
		return
	}

	if isQuotaError(err) {
		st.coolingUntil = p.now().Add(cooldownPeriod)
		st.errs = 0
		return
	}

	st.errs++
	if st.errs >= errorThreshold {
		st.coolingUntil = p.now().Add(cooldownPeriod)
		st.errs = 0
	}
}

// Size reports how many keys the pool rotates across.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

func isQuotaError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429")
}
