package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"marketplace/internal/filter"
	"marketplace/internal/filterstate"
	"marketplace/internal/history"
	"marketplace/internal/model"
	"marketplace/internal/urlsync"

	"github.com/rs/zerolog"
)

// CandidateSource fetches the records of each domain
type CandidateSource interface {
	Companies(ctx context.Context, q model.CandidateQuery) ([]model.Company, error)
	Professionals(ctx context.Context, q model.CandidateQuery) ([]model.Professional, error)
	Services(ctx context.Context, q model.CandidateQuery) ([]model.Service, error)
	Promotions(ctx context.Context, q model.CandidateQuery) ([]model.Promotion, error)
}

// SearchLogger records executed searches
type SearchLogger interface {
	LogSearch(ctx context.Context, entry model.SearchLog) error
}

// DefaultCandidateBatch is the number of candidates fetched per round trip
const DefaultCandidateBatch = 500

// SearchConfig holds paging limits of the search service. CandidateBatch
// sizes the fetches; every candidate is still examined.
type SearchConfig struct {
	DefaultLimit   int
	MaxLimit       int
	CandidateBatch int
}

// SearchService filters, sorts and pages the candidates of a domain
type SearchService struct {
	source      CandidateSource
	filters     *FilterService
	history     *history.Service
	logger      SearchLogger
	generations *Generations
	cfg         SearchConfig
	log         zerolog.Logger
}

// NewSearchService creates a new search service. history and logger may be nil.
func NewSearchService(
	source CandidateSource,
	filters *FilterService,
	hist *history.Service,
	logger SearchLogger,
	generations *Generations,
	cfg SearchConfig,
	log zerolog.Logger,
) *SearchService {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	if cfg.CandidateBatch <= 0 {
		cfg.CandidateBatch = DefaultCandidateBatch
	}
	return &SearchService{
		source:      source,
		filters:     filters,
		history:     hist,
		logger:      logger,
		generations: generations,
		cfg:         cfg,
		log:         log.With().Str("component", "search").Logger(),
	}
}

// Search hydrates the session's filters (query parameters win over the
// persisted state), fetches the domain's candidates, filters, sorts and
// pages them. ErrSuperseded is returned when the filters changed while the
// candidates were being fetched.
func (s *SearchService) Search(ctx context.Context, session string, domain filter.Domain, query url.Values, opts model.SearchOptions) (*model.SearchResponse, error) {
	startTime := time.Now()

	store, schema, err := s.filters.Open(ctx, session, domain, query)
	if err != nil {
		return nil, err
	}
	st := store.State()
	opts = s.normalize(opts)

	// Only filter writes advance the generation.
	key := filterstate.Key(session, domain)
	token := s.generations.Current(key)

	cq := model.CandidateQuery{Limit: s.cfg.CandidateBatch}
	if schema.CategoryField != "" {
		if v := st.Get(schema.CategoryField); v.Kind() == filter.KindSelect && v.Active() {
			cq.Category = v.String()
		}
	}

	var results any
	var total int
	switch schema.Domain {
	case filter.DomainCompany:
		results, total, err = run(ctx, s.source.Companies, schema, st, cq, opts)
	case filter.DomainProfessional:
		results, total, err = run(ctx, s.source.Professionals, schema, st, cq, opts)
	case filter.DomainService:
		results, total, err = run(ctx, s.source.Services, schema, st, cq, opts)
	case filter.DomainPromotion:
		results, total, err = run(ctx, s.source.Promotions, schema, st, cq, opts)
	default:
		return nil, fmt.Errorf("%w: %q", filter.ErrUnknownDomain, domain)
	}
	if err != nil {
		return nil, err
	}

	if err := s.generations.Check(key, token); err != nil {
		s.log.Debug().Str("domain", string(domain)).Uint64("token", token).Msg("Discarding stale search")
		return nil, err
	}

	if term := strings.TrimSpace(st.Search); term != "" && s.history != nil {
		if err := s.history.Track(ctx, session, domain, term); err != nil {
			s.log.Warn().Err(err).Msg("Failed to track search")
		}
	}

	took := time.Since(startTime).Milliseconds()

	// Log search (non-blocking)
	if s.logger != nil {
		entry := model.SearchLog{
			SessionID:      session,
			Domain:         domain,
			Query:          strings.TrimSpace(st.Search),
			Filters:        st,
			ResultCount:    total,
			ResponseTimeMs: int(took),
		}
		go func() {
			if err := s.logger.LogSearch(context.Background(), entry); err != nil {
				s.log.Warn().Err(err).Msg("Failed to log search")
			}
		}()
	}

	totalPages := (total + opts.PageSize - 1) / opts.PageSize
	active := schema.Active(st)
	if active == nil {
		active = []string{}
	}

	return &model.SearchResponse{
		Domain:     schema.Domain,
		Results:    results,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: totalPages,
		HasMore:    opts.Page < totalPages,
		Sort:       opts.Sort,
		Filters:    st,
		Active:     active,
		Query:      urlsync.NewSynchronizer(urlsync.NewMemoryRouter(query), schema).Sync(st).Encode(),
		Took:       took,
	}, nil
}

func (s *SearchService) normalize(opts model.SearchOptions) model.SearchOptions {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = s.cfg.DefaultLimit
	}
	if opts.PageSize > s.cfg.MaxLimit {
		opts.PageSize = s.cfg.MaxLimit
	}
	if !ValidSort(opts.Sort) {
		opts.Sort = model.SortRelevance
	}
	return opts
}

// run fetches one domain's candidates batch by batch, filters each batch
// and returns the requested page of the ranked matches.
func run[R filter.Record](
	ctx context.Context,
	fetch func(context.Context, model.CandidateQuery) ([]R, error),
	schema filter.Schema,
	st filter.State,
	cq model.CandidateQuery,
	opts model.SearchOptions,
) ([]R, int, error) {
	matched := []R{}
	for {
		records, err := fetch(ctx, cq)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to fetch candidates: %w", err)
		}
		matched = append(matched, filter.Apply(schema, records, st)...)

		if cq.Limit <= 0 || len(records) < cq.Limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		cq.Offset += cq.Limit
	}

	ranked := Rank(NewRanker(schema.Domain), matched, opts.Sort, schema, st.Search)
	return paginate(ranked, opts.Page, opts.PageSize), len(ranked), nil
}

func paginate[R any](records []R, page, pageSize int) []R {
	start := (page - 1) * pageSize
	if start >= len(records) {
		return []R{}
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
