// Package history records submitted search terms per scope and domain and
// derives type-ahead suggestions from them.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/filter"
	"marketplace/internal/kvstore"
	"marketplace/internal/utils"

	"github.com/rs/zerolog"
)

const (
	DefaultHistoryCap      = 20
	DefaultSuggestionLimit = 10
)

// Entry is one remembered search term.
type Entry struct {
	Term      string        `json:"term"`
	Domain    filter.Domain `json:"domain"`
	Timestamp time.Time     `json:"timestamp"`
}

// SuggestionType tells where a suggestion came from.
type SuggestionType string

const (
	SuggestionHistory  SuggestionType = "history"
	SuggestionPopular  SuggestionType = "popular"
	SuggestionCategory SuggestionType = "category"
)

// Suggestion is a candidate completion for the term being typed.
type Suggestion struct {
	Term string         `json:"term"`
	Type SuggestionType `json:"type"`
}

// PopularSource supplies the most searched terms of a domain.
type PopularSource interface {
	PopularTerms(ctx context.Context, domain filter.Domain) ([]string, error)
}

// Key returns the persisted key of a scope's history in a domain.
func Key(scope string, domain filter.Domain) string {
	return fmt.Sprintf("search_history:%s:%s", scope, domain)
}

// Service tracks history and computes suggestions.
type Service struct {
	kv              kvstore.Store
	popular         PopularSource
	historyCap      int
	suggestionLimit int
	now             func() time.Time
	log             zerolog.Logger
}

// Option customises a Service.
type Option func(*Service)

func WithPopularSource(p PopularSource) Option { return func(s *Service) { s.popular = p } }

func WithHistoryCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyCap = n
		}
	}
}

func WithSuggestionLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.suggestionLimit = n
		}
	}
}

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(kv kvstore.Store, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		kv:              kv,
		historyCap:      DefaultHistoryCap,
		suggestionLimit: DefaultSuggestionLimit,
		now:             time.Now,
		log:             log.With().Str("component", "history").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Track prepends term to the history, dropping an earlier identical entry
// and trimming to the cap. Blank terms are ignored.
func (s *Service) Track(ctx context.Context, scope string, domain filter.Domain, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	entries := s.load(ctx, scope, domain)

	next := make([]Entry, 0, len(entries)+1)
	next = append(next, Entry{Term: term, Domain: domain, Timestamp: s.now().UTC()})
	for _, e := range entries {
		if e.Term == term {
			continue
		}
		next = append(next, e)
	}
	if len(next) > s.historyCap {
		next = next[:s.historyCap]
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.kv.Set(ctx, Key(scope, domain), string(data)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// History returns the remembered entries, most recent first.
func (s *Service) History(ctx context.Context, scope string, domain filter.Domain) []Entry {
	return s.load(ctx, scope, domain)
}

// Clear forgets the history of a scope in a domain.
func (s *Service) Clear(ctx context.Context, scope string, domain filter.Domain) error {
	if err := s.kv.Remove(ctx, Key(scope, domain)); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Suggestions returns terms containing prefix (case and accent
// insensitive): history first, then popular terms, then category labels.
// An empty prefix yields no suggestions.
func (s *Service) Suggestions(ctx context.Context, scope string, domain filter.Domain, prefix string) []Suggestion {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []Suggestion{}
	}

	needle := utils.Fold(prefix)
	out := make([]Suggestion, 0, s.suggestionLimit)
	seen := make(map[string]struct{})
	add := func(term string, typ SuggestionType) bool {
		if len(out) >= s.suggestionLimit {
			return false
		}
		key := utils.Fold(term)
		if key == "" || !strings.Contains(key, needle) {
			return true
		}
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
		out = append(out, Suggestion{Term: term, Type: typ})
		return true
	}

	for _, e := range s.load(ctx, scope, domain) {
		if !add(e.Term, SuggestionHistory) {
			return out
		}
	}

	if s.popular != nil {
		terms, err := s.popular.PopularTerms(ctx, domain)
		if err != nil {
			s.log.Warn().Err(err).Str("domain", string(domain)).Msg("Popular terms unavailable")
		}
		for _, t := range terms {
			if !add(t, SuggestionPopular) {
				return out
			}
		}
	}

	if schema, err := filter.Lookup(domain); err == nil {
		for _, c := range schema.Categories() {
			if !add(c, SuggestionCategory) {
				return out
			}
		}
	}
	return out
}

// load reads the stored history; absent or unreadable history is empty.
func (s *Service) load(ctx context.Context, scope string, domain filter.Domain) []Entry {
	raw, ok, err := s.kv.Get(ctx, Key(scope, domain))
	if err != nil {
		s.log.Warn().Err(err).Str("domain", string(domain)).Msg("Failed to read history")
		return []Entry{}
	}
	if !ok {
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn().Err(err).Str("domain", string(domain)).Msg("Corrupt history, ignoring")
		return []Entry{}
	}
	return entries
}
