package urlsync

import (
	"net/url"
	"sync"

	"marketplace/internal/filter"
)

// Router exposes the current query parameters of a page and replaces them
// without adding a history entry.
type Router interface {
	Query() url.Values
	Replace(url.Values)
}

// Synchronizer mirrors every state change into a Router.
type Synchronizer struct {
	router Router
	schema filter.Schema
}

func NewSynchronizer(router Router, schema filter.Schema) *Synchronizer {
	return &Synchronizer{router: router, schema: schema}
}

// Sync rewrites the router's query from st and returns what was written.
func (s *Synchronizer) Sync(st filter.State) url.Values {
	next := Sync(s.router.Query(), s.schema, st)
	s.router.Replace(next)
	return next
}

// MemoryRouter is a Router holding its query in memory.
type MemoryRouter struct {
	mu       sync.Mutex
	query    url.Values
	replaced int
}

func NewMemoryRouter(initial url.Values) *MemoryRouter {
	r := &MemoryRouter{query: url.Values{}}
	for k, vs := range initial {
		r.query[k] = append([]string(nil), vs...)
	}
	return r
}

func (r *MemoryRouter) Query() url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(url.Values, len(r.query))
	for k, vs := range r.query {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func (r *MemoryRouter) Replace(v url.Values) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.query = v
	r.replaced++
}

// Replacements counts Replace calls.
func (r *MemoryRouter) Replacements() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replaced
}
