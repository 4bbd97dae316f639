package service

import (
	"sort"
	"strings"

	"marketplace/internal/filter"
	"marketplace/internal/model"
	"marketplace/internal/utils"
)

// SortKeys names the attributes a domain sorts by. An empty name disables
// that order.
type SortKeys struct {
	Name   string
	Price  string
	Rating string
}

var domainSortKeys = map[filter.Domain]SortKeys{
	filter.DomainCompany:      {Name: "name", Rating: "rating"},
	filter.DomainProfessional: {Name: "name", Price: "hourlyRate", Rating: "rating"},
	filter.DomainService:      {Name: "title", Price: "price", Rating: "rating"},
	filter.DomainPromotion:    {Name: "title", Price: "price", Rating: "discountPercent"},
}

// ValidSort reports whether order is a known sort order.
func ValidSort(order string) bool {
	switch order {
	case model.SortRelevance, model.SortRatingDesc, model.SortPriceAsc, model.SortPriceDesc, model.SortNameAsc:
		return true
	}
	return false
}

// Ranker orders filtered candidates. Sorting is stable: ties keep the
// order the filter produced, and records missing the sort attribute go last.
type Ranker struct {
	keys SortKeys
}

// NewRanker creates a ranker for a domain
func NewRanker(domain filter.Domain) *Ranker {
	return &Ranker{keys: domainSortKeys[domain]}
}

// Rank returns a sorted copy of records.
func Rank[R filter.Record](r *Ranker, records []R, order string, schema filter.Schema, term string) []R {
	out := make([]R, len(records))
	copy(out, records)

	switch order {
	case model.SortRatingDesc:
		sortByNumber(out, r.keys.Rating, true)
	case model.SortPriceAsc:
		sortByNumber(out, r.keys.Price, false)
	case model.SortPriceDesc:
		sortByNumber(out, r.keys.Price, true)
	case model.SortNameAsc:
		if r.keys.Name != "" {
			sort.SliceStable(out, func(i, j int) bool {
				return utils.Fold(textAttr(out[i], r.keys.Name)) < utils.Fold(textAttr(out[j], r.keys.Name))
			})
		}
	default:
		if strings.TrimSpace(term) == "" {
			return out
		}
		scores := make([]int, len(out))
		for i, rec := range out {
			scores[i] = relevance(rec, r.keys.Name, schema.SearchAttributes, term)
		}
		idx := make([]int, len(out))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
		ranked := make([]R, len(out))
		for i, k := range idx {
			ranked[i] = out[k]
		}
		return ranked
	}
	return out
}

// relevance scores a record against the search term: a name match counts
// double, every other matching search attribute once.
func relevance(rec filter.Record, nameAttr string, attrs []string, term string) int {
	score := 0
	for _, a := range attrs {
		if !utils.ContainsFold(textAttr(rec, a), term) {
			continue
		}
		if a == nameAttr {
			score += 2
		} else {
			score++
		}
	}
	return score
}

func sortByNumber[R filter.Record](records []R, attr string, desc bool) {
	if attr == "" {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, aok := numberAttr(records[i], attr)
		b, bok := numberAttr(records[j], attr)
		if aok != bok {
			return aok
		}
		if !aok {
			return false
		}
		if desc {
			return a > b
		}
		return a < b
	})
}

func textAttr(rec filter.Record, attr string) string {
	raw, ok := rec.Attr(attr)
	if !ok {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
	case []string:
		return strings.Join(v, " ")
	}
	return ""
}

func numberAttr(rec filter.Record, attr string) (float64, bool) {
	raw, ok := rec.Attr(attr)
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case *float64:
		if v != nil {
			return *v, true
		}
	case *int:
		if v != nil {
			return float64(*v), true
		}
	}
	return 0, false
}
