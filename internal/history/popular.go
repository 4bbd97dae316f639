package history

import (
	"context"
	"sync"
	"time"

	"marketplace/internal/filter"
)

// StaticPopular is a fixed per-domain list of popular terms.
type StaticPopular map[filter.Domain][]string

func (p StaticPopular) PopularTerms(_ context.Context, domain filter.Domain) ([]string, error) {
	return p[domain], nil
}

// DefaultPopular seeds suggestions before any search has been logged.
var DefaultPopular = StaticPopular{
	filter.DomainCompany:      {"eletricista", "encanador", "diarista", "pintor"},
	filter.DomainProfessional: {"eletricista", "encanador", "jardineiro", "montador de móveis"},
	filter.DomainService:      {"instalação de chuveiro", "limpeza pós-obra", "pintura de parede", "conserto de bomba"},
	filter.DomainPromotion:    {"limpeza", "ar-condicionado", "pintura"},
}

// Fallback asks Primary first and uses Secondary when Primary fails or has
// nothing for the domain.
type Fallback struct {
	Primary   PopularSource
	Secondary PopularSource
}

func (f Fallback) PopularTerms(ctx context.Context, domain filter.Domain) ([]string, error) {
	terms, err := f.Primary.PopularTerms(ctx, domain)
	if err == nil && len(terms) > 0 {
		return terms, nil
	}
	if f.Secondary == nil {
		return terms, err
	}
	return f.Secondary.PopularTerms(ctx, domain)
}

type cacheEntry struct {
	terms     []string
	fetchedAt time.Time
}

// CachedPopular memoises another source per domain for a TTL. Failed
// lookups are not cached.
type CachedPopular struct {
	source PopularSource
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	entries map[filter.Domain]cacheEntry
}

func NewCachedPopular(source PopularSource, ttl time.Duration) *CachedPopular {
	return &CachedPopular{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[filter.Domain]cacheEntry),
	}
}

func (c *CachedPopular) PopularTerms(ctx context.Context, domain filter.Domain) ([]string, error) {
	c.mu.RLock()
	e, ok := c.entries[domain]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.fetchedAt) < c.ttl {
		return e.terms, nil
	}

	terms, err := c.source.PopularTerms(ctx, domain)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[domain] = cacheEntry{terms: terms, fetchedAt: c.now()}
	c.mu.Unlock()
	return terms, nil
}

// Invalidate drops every cached domain.
func (c *CachedPopular) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[filter.Domain]cacheEntry)
	c.mu.Unlock()
}
