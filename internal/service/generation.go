package service

import (
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned when the filters of the same session and domain
// changed while a search was fetching records.
var ErrSuperseded = errors.New("search superseded by a newer filter change")

// DefaultGenerationTTL is how long an untouched key is remembered.
const DefaultGenerationTTL = 30 * time.Minute

type generation struct {
	token   uint64
	touched time.Time
}

// Generations hands out monotonically increasing tokens per key so that a
// response computed from stale state can be detected and discarded. Keys
// not touched for the TTL are forgotten and start again from zero.
type Generations struct {
	mu        sync.Mutex
	m         map[string]generation
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewGenerations(ttl time.Duration) *Generations {
	if ttl <= 0 {
		ttl = DefaultGenerationTTL
	}
	return &Generations{
		m:   make(map[string]generation),
		ttl: ttl,
		now: time.Now,
	}
}

// Advance starts a new generation for key and returns its token.
func (g *Generations) Advance(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.sweep(now)

	gen := g.m[key]
	gen.token++
	gen.touched = now
	g.m[key] = gen
	return gen.token
}

// Current returns the latest token issued for key. Reading keeps the key
// alive; an unknown key reads as zero and is not stored.
func (g *Generations) Current(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	gen, ok := g.m[key]
	if !ok {
		return 0
	}
	gen.touched = g.now()
	g.m[key] = gen
	return gen.token
}

// Check returns ErrSuperseded when token is no longer the latest for key.
func (g *Generations) Check(key string, token uint64) error {
	if g.Current(key) != token {
		return ErrSuperseded
	}
	return nil
}

// Len returns the number of remembered keys.
func (g *Generations) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.m)
}

// sweep forgets idle keys at most once per TTL. Caller holds mu.
func (g *Generations) sweep(now time.Time) {
	if now.Sub(g.lastSweep) < g.ttl {
		return
	}
	g.lastSweep = now
	for k, gen := range g.m {
		if now.Sub(gen.touched) >= g.ttl {
			delete(g.m, k)
		}
	}
}
