package model

import (
	"marketplace/internal/availability"
	"marketplace/internal/filter"
	"marketplace/internal/history"
)

// Sort orders accepted by the search endpoint
const (
	SortRelevance  = "relevance"
	SortRatingDesc = "rating_desc"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortNameAsc    = "name_asc"
)

// SearchOptions represents paging and ordering of a search
type SearchOptions struct {
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"page_size" json:"page_size"`
	Sort     string `form:"sort" json:"sort"`
}

// SearchResponse represents a page of filtered candidates
type SearchResponse struct {
	Domain     filter.Domain `json:"domain"`
	Results    any           `json:"results"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
	HasMore    bool          `json:"has_more"`
	Sort       string        `json:"sort"`
	Filters    filter.State  `json:"filters"`
	Active     []string      `json:"active"`
	Query      string        `json:"query"`
	Took       int64         `json:"took_ms"` // Response time in milliseconds
}

// FilterStateResponse represents a domain's schema and the session's current filters
type FilterStateResponse struct {
	Domain     filter.Domain      `json:"domain"`
	Fields     []filter.FieldSpec `json:"fields"`
	Filters    filter.State       `json:"filters"`
	Active     []string           `json:"active"`
	Query      string             `json:"query"`
	Generation uint64             `json:"generation"`
}

// SetFilterRequest carries a new value for one field. Which members are read
// depends on the field kind: value for text and select, min/max for range,
// flag for boolean. Range bounds may be numbers or numeric strings; anything
// else leaves that side unbounded.
type SetFilterRequest struct {
	Value *string `json:"value"`
	Min   any     `json:"min"`
	Max   any     `json:"max"`
	Flag  *bool   `json:"flag"`
}

// SearchTermRequest represents a new free-text search term
type SearchTermRequest struct {
	Term string `json:"term"`
}

// TrackSearchRequest represents a submitted search term
type TrackSearchRequest struct {
	Term string `json:"term" binding:"required"`
}

// HistoryResponse lists a session's recent searches
type HistoryResponse struct {
	Domain  filter.Domain   `json:"domain"`
	Entries []history.Entry `json:"entries"`
}

// SuggestionsResponse lists completions for the typed prefix
type SuggestionsResponse struct {
	Query       string               `json:"query"`
	Suggestions []history.Suggestion `json:"suggestions"`
}

// AvailabilityResponse lists a provider's slots on a date
type AvailabilityResponse struct {
	ProviderID  string              `json:"providerId"`
	Date        string              `json:"date"`
	Granularity int                 `json:"granularityMinutes"`
	Slots       []availability.Slot `json:"slots"`
}

// CandidateQuery narrows the candidate fetch before in-memory filtering.
// Limit and Offset select one batch; a zero Limit fetches everything.
type CandidateQuery struct {
	Category string
	Limit    int
	Offset   int
}

// SearchLog represents one executed search
type SearchLog struct {
	SessionID      string        `db:"session_id"`
	Domain         filter.Domain `db:"domain"`
	Query          string        `db:"query"`
	Filters        filter.State  `db:"-"`
	ResultCount    int           `db:"result_count"`
	ResponseTimeMs int           `db:"response_time_ms"`
}
