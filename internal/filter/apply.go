package filter

import (
	"strings"

	"marketplace/internal/utils"
)

// Record is a candidate the filter engine can inspect. Attr returns the
// named attribute as a string, []string, bool or number; ok is false when
// the record has no such attribute.
type Record interface {
	Attr(name string) (value any, ok bool)
}

type predicate func(Record) bool

// Apply returns the records matching every active filter in st, preserving
// input order. When nothing is active the input slice is returned as is.
// Records are never modified.
func Apply[R Record](schema Schema, records []R, st State) []R {
	if len(records) == 0 {
		return []R{}
	}

	preds := schema.predicates(st)
	if len(preds) == 0 {
		return records
	}

	out := make([]R, 0, len(records))
	for _, r := range records {
		if matchesAll(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(r Record, preds []predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

func (s Schema) predicates(st State) []predicate {
	var preds []predicate

	if term := strings.TrimSpace(st.Search); term != "" {
		preds = append(preds, textPredicate(s.SearchAttributes, term))
	}

	for _, f := range s.Fields {
		v := st.Get(f.ID)
		// Values of the wrong kind behave as if cleared.
		if v.Kind() != f.Kind || !v.Active() {
			continue
		}
		attr := f.attribute()
		switch f.Kind {
		case KindText:
			preds = append(preds, textPredicate([]string{attr}, v.String()))
		case KindSelect:
			preds = append(preds, selectPredicate(attr, v.String()))
		case KindRange:
			min, max := v.Bounds()
			preds = append(preds, rangePredicate(attr, min, max))
		case KindBoolean:
			preds = append(preds, boolPredicate(attr, *v.Flag()))
		}
	}
	return preds
}

func textPredicate(attrs []string, term string) predicate {
	return func(r Record) bool {
		for _, a := range attrs {
			raw, ok := r.Attr(a)
			if !ok {
				continue
			}
			for _, s := range stringsOf(raw) {
				if utils.ContainsFold(s, term) {
					return true
				}
			}
		}
		return false
	}
}

func selectPredicate(attr, want string) predicate {
	return func(r Record) bool {
		raw, ok := r.Attr(attr)
		if !ok {
			return false
		}
		for _, s := range stringsOf(raw) {
			if s == want {
				return true
			}
		}
		return false
	}
}

func rangePredicate(attr string, min, max *float64) predicate {
	return func(r Record) bool {
		raw, ok := r.Attr(attr)
		if !ok {
			return false
		}
		n, ok := toFloat(raw)
		if !ok {
			return false
		}
		if min != nil && n < *min {
			return false
		}
		if max != nil && n > *max {
			return false
		}
		return true
	}
}

func boolPredicate(attr string, want bool) predicate {
	return func(r Record) bool {
		raw, ok := r.Attr(attr)
		if !ok {
			return false
		}
		switch b := raw.(type) {
		case bool:
			return b == want
		case *bool:
			return b != nil && *b == want
		}
		return false
	}
}

func stringsOf(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case *string:
		if v == nil {
			return nil
		}
		return []string{*v}
	case []string:
		return v
	}
	return nil
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case *float64:
		if v == nil {
			return 0, false
		}
		return *v, true
	case *int:
		if v == nil {
			return 0, false
		}
		return float64(*v), true
	}
	return 0, false
}
