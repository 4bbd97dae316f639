// Package filterstate holds the filter state of one session and domain,
// initialised from and written back to a persisted key-value store.
package filterstate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"marketplace/internal/filter"
	"marketplace/internal/kvstore"

	"github.com/rs/zerolog"
)

// KeyPrefix starts every persisted filters key.
const KeyPrefix = "filters:"

// Key returns the persisted key for a session's filters in a domain.
func Key(session string, domain filter.Domain) string {
	return fmt.Sprintf("%s%s:%s", KeyPrefix, session, domain)
}

// Store owns the current filter state. Every mutation returns a new State
// and is written to the key-value store when a persist key is set.
type Store struct {
	kv         kvstore.Store
	schema     filter.Schema
	persistKey string
	defaults   filter.State
	log        zerolog.Logger

	mu      sync.Mutex
	current filter.State
}

// Open initialises a Store. A persisted state under persistKey wins over
// defaults; a missing, unreadable or corrupt entry falls back to defaults,
// and a corrupt entry is overwritten. An empty persistKey disables
// persistence.
func Open(ctx context.Context, kv kvstore.Store, schema filter.Schema, persistKey string, defaults filter.State, log zerolog.Logger) *Store {
	s := &Store{
		kv:         kv,
		schema:     schema,
		persistKey: persistKey,
		defaults:   defaults.Clone(),
		log:        log.With().Str("component", "filterstate").Str("domain", string(schema.Domain)).Logger(),
	}
	s.current = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) filter.State {
	if s.persistKey == "" || s.kv == nil {
		return s.defaults.Clone()
	}

	raw, ok, err := s.kv.Get(ctx, s.persistKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.persistKey).Msg("Failed to read persisted filters, using defaults")
		return s.defaults.Clone()
	}
	if !ok {
		return s.defaults.Clone()
	}

	var st filter.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		s.log.Warn().Err(err).Str("key", s.persistKey).Msg("Corrupt persisted filters, resetting to defaults")
		st = s.defaults.Clone()
		s.persist(ctx, st)
		return st
	}
	return s.schema.Sanitize(st)
}

// State returns a copy of the current state.
func (s *Store) State() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Defaults returns a copy of the defaults the store was opened with.
func (s *Store) Defaults() filter.State {
	return s.defaults.Clone()
}

// Set replaces one field value. Unknown fields and kind mismatches are
// programmer errors and leave the state untouched.
func (s *Store) Set(ctx context.Context, id string, v filter.Value) (filter.State, error) {
	if err := s.schema.Check(id, v); err != nil {
		return s.State(), err
	}
	return s.update(ctx, func(cur filter.State) filter.State { return cur.With(id, v) }), nil
}

// SetSearch replaces the free-text search term.
func (s *Store) SetSearch(ctx context.Context, term string) filter.State {
	return s.update(ctx, func(cur filter.State) filter.State { return cur.WithSearch(term) })
}

// Replace swaps in a whole state, e.g. one hydrated from a URL. Values that
// do not belong to the schema are dropped.
func (s *Store) Replace(ctx context.Context, st filter.State) filter.State {
	clean := s.schema.Sanitize(st)
	return s.update(ctx, func(filter.State) filter.State { return clean })
}

// Clear resets to defaults and removes the persisted entry.
func (s *Store) Clear(ctx context.Context) filter.State {
	s.mu.Lock()
	s.current = s.defaults.Clone()
	out := s.current.Clone()
	s.mu.Unlock()

	if s.persistKey != "" && s.kv != nil {
		if err := s.kv.Remove(ctx, s.persistKey); err != nil {
			s.log.Warn().Err(err).Str("key", s.persistKey).Msg("Failed to remove persisted filters")
		}
	}
	return out
}

func (s *Store) update(ctx context.Context, fn func(filter.State) filter.State) filter.State {
	s.mu.Lock()
	s.current = fn(s.current)
	out := s.current.Clone()
	s.mu.Unlock()

	s.persist(ctx, out)
	return out
}

// persist writes st; failures are logged, never surfaced.
func (s *Store) persist(ctx context.Context, st filter.State) {
	if s.persistKey == "" || s.kv == nil {
		return
	}
	data, err := json.Marshal(st)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode filters")
		return
	}
	if err := s.kv.Set(ctx, s.persistKey, string(data)); err != nil {
		s.log.Warn().Err(err).Str("key", s.persistKey).Msg("Failed to persist filters")
	}
}
