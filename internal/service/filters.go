package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"marketplace/internal/filter"
	"marketplace/internal/filterstate"
	"marketplace/internal/kvstore"
	"marketplace/internal/model"
	"marketplace/internal/urlsync"

	"github.com/rs/zerolog"
)

// FilterService manages the persisted filter state of each session and domain
type FilterService struct {
	kv          kvstore.Store
	generations *Generations
	log         zerolog.Logger
}

// NewFilterService creates a new filter service
func NewFilterService(kv kvstore.Store, generations *Generations, log zerolog.Logger) *FilterService {
	return &FilterService{
		kv:          kv,
		generations: generations,
		log:         log.With().Str("component", "filters").Logger(),
	}
}

// Open loads the filter state of a session in a domain. When query carries
// any filter parameter it becomes the state (and is persisted); otherwise
// the persisted state, or the domain defaults, is used.
func (s *FilterService) Open(ctx context.Context, session string, domain filter.Domain, query url.Values) (*filterstate.Store, filter.Schema, error) {
	schema, err := filter.Lookup(domain)
	if err != nil {
		return nil, filter.Schema{}, err
	}

	store := filterstate.Open(ctx, s.kv, schema, filterstate.Key(session, domain), schema.Defaults(), s.log)
	if decoded, present := urlsync.Decode(schema, query); present && !decoded.Equal(store.State()) {
		store.Replace(ctx, decoded)
		s.generations.Advance(filterstate.Key(session, domain))
	}
	return store, schema, nil
}

// Current returns the schema and current state of a domain.
func (s *FilterService) Current(ctx context.Context, session string, domain filter.Domain, query url.Values) (*model.FilterStateResponse, error) {
	store, schema, err := s.Open(ctx, session, domain, query)
	if err != nil {
		return nil, err
	}
	return s.response(session, schema, store.State(), query), nil
}

// SetFilter sets one field and returns the new state.
func (s *FilterService) SetFilter(ctx context.Context, session string, domain filter.Domain, field string, req model.SetFilterRequest) (*model.FilterStateResponse, error) {
	store, schema, err := s.Open(ctx, session, domain, nil)
	if err != nil {
		return nil, err
	}

	spec, ok := schema.Field(field)
	if !ok {
		return nil, fmt.Errorf("%w: %q", filter.ErrUnknownField, field)
	}

	st, err := store.Set(ctx, field, valueFor(spec, req))
	if err != nil {
		return nil, err
	}
	s.generations.Advance(filterstate.Key(session, domain))

	s.log.Debug().
		Str("domain", string(domain)).
		Str("field", field).
		Strs("active", schema.Active(st)).
		Msg("Filter updated")
	return s.response(session, schema, st, nil), nil
}

// SetSearch sets the free-text search term.
func (s *FilterService) SetSearch(ctx context.Context, session string, domain filter.Domain, term string) (*model.FilterStateResponse, error) {
	store, schema, err := s.Open(ctx, session, domain, nil)
	if err != nil {
		return nil, err
	}
	st := store.SetSearch(ctx, term)
	s.generations.Advance(filterstate.Key(session, domain))
	return s.response(session, schema, st, nil), nil
}

// Clear resets a domain to its defaults.
func (s *FilterService) Clear(ctx context.Context, session string, domain filter.Domain) (*model.FilterStateResponse, error) {
	store, schema, err := s.Open(ctx, session, domain, nil)
	if err != nil {
		return nil, err
	}
	st := store.Clear(ctx)
	s.generations.Advance(filterstate.Key(session, domain))
	return s.response(session, schema, st, nil), nil
}

func (s *FilterService) response(session string, schema filter.Schema, st filter.State, query url.Values) *model.FilterStateResponse {
	active := schema.Active(st)
	if active == nil {
		active = []string{}
	}
	return &model.FilterStateResponse{
		Domain:     schema.Domain,
		Fields:     schema.Fields,
		Filters:    st,
		Active:     active,
		Query:      urlsync.Sync(query, schema, st).Encode(),
		Generation: s.generations.Current(filterstate.Key(session, schema.Domain)),
	}
}

// valueFor builds the field value carried by a request. Members that do not
// apply to the field kind are ignored.
func valueFor(spec filter.FieldSpec, req model.SetFilterRequest) filter.Value {
	switch spec.Kind {
	case filter.KindText:
		if req.Value == nil {
			return filter.Text("")
		}
		return filter.Text(strings.TrimSpace(*req.Value))
	case filter.KindSelect:
		if req.Value == nil {
			return filter.Select("")
		}
		return filter.Select(strings.TrimSpace(*req.Value))
	case filter.KindRange:
		return filter.ParseRange(boundText(req.Min), boundText(req.Max))
	case filter.KindBoolean:
		return filter.Bool(req.Flag)
	}
	return filter.Empty(spec.Kind)
}

// boundText renders a decoded JSON range bound for filter.ParseRange.
func boundText(v any) string {
	switch b := v.(type) {
	case float64:
		return strconv.FormatFloat(b, 'f', -1, 64)
	case int:
		return strconv.Itoa(b)
	case string:
		return b
	}
	return ""
}
