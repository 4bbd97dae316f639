// Package urlsync mirrors filter state into query-string parameters and
// hydrates state back from them.
//
// Key layout: "search" for the free-text term, the field id for text and
// select fields, "<id>Min" / "<id>Max" for ranges, and "true"/"false" under
// the field id for booleans. Inactive values are never written.
package urlsync

import (
	"net/url"
	"strconv"
	"strings"

	"marketplace/internal/filter"
)

// MinSuffix and MaxSuffix name the two query keys of a range field.
const (
	MinSuffix = "Min"
	MaxSuffix = "Max"
)

// Encode projects the active entries of st into query parameters.
func Encode(schema filter.Schema, st filter.State) url.Values {
	return Sync(url.Values{}, schema, st)
}

// Sync returns a copy of current with every key owned by schema rewritten
// from st: active values are set, inactive ones deleted. Keys the schema
// does not own (page, sort, ...) are preserved.
func Sync(current url.Values, schema filter.Schema, st filter.State) url.Values {
	out := make(url.Values, len(current))
	for k, vs := range current {
		out[k] = append([]string(nil), vs...)
	}

	setOrDelete(out, filter.SearchKey, strings.TrimSpace(st.Search))

	for _, f := range schema.Fields {
		v := st.Get(f.ID)
		if v.Kind() != f.Kind {
			v = filter.Empty(f.Kind)
		}
		switch f.Kind {
		case filter.KindText:
			setOrDelete(out, f.ID, strings.TrimSpace(v.String()))
		case filter.KindSelect:
			text := ""
			if v.Active() {
				text = v.String()
			}
			setOrDelete(out, f.ID, text)
		case filter.KindRange:
			min, max := v.Bounds()
			setOrDelete(out, f.ID+MinSuffix, formatFloat(min))
			setOrDelete(out, f.ID+MaxSuffix, formatFloat(max))
		case filter.KindBoolean:
			text := ""
			if b := v.Flag(); b != nil {
				text = strconv.FormatBool(*b)
			}
			setOrDelete(out, f.ID, text)
		}
	}
	return out
}

// Decode hydrates a state from query parameters, starting from the schema
// defaults. Malformed numbers and booleans are ignored. present reports
// whether any key owned by the schema appeared in values.
func Decode(schema filter.Schema, values url.Values) (st filter.State, present bool) {
	st = schema.Defaults()
	for key := range values {
		if Owns(schema, key) {
			present = true
			break
		}
	}

	if _, ok := values[filter.SearchKey]; ok {
		st.Search = strings.TrimSpace(values.Get(filter.SearchKey))
	}

	for _, f := range schema.Fields {
		switch f.Kind {
		case filter.KindText:
			if _, ok := values[f.ID]; ok {
				st.Values[f.ID] = filter.Text(strings.TrimSpace(values.Get(f.ID)))
			}
		case filter.KindSelect:
			if _, ok := values[f.ID]; ok {
				st.Values[f.ID] = filter.Select(strings.TrimSpace(values.Get(f.ID)))
			}
		case filter.KindRange:
			_, hasMin := values[f.ID+MinSuffix]
			_, hasMax := values[f.ID+MaxSuffix]
			if hasMin || hasMax {
				st.Values[f.ID] = filter.ParseRange(values.Get(f.ID+MinSuffix), values.Get(f.ID+MaxSuffix))
			}
		case filter.KindBoolean:
			if _, ok := values[f.ID]; ok {
				st.Values[f.ID] = filter.ParseBool(values.Get(f.ID))
			}
		}
	}
	return st, present
}

// Owns reports whether key is written by Sync for schema.
func Owns(schema filter.Schema, key string) bool {
	if key == filter.SearchKey {
		return true
	}
	for _, f := range schema.Fields {
		if f.Kind == filter.KindRange {
			if key == f.ID+MinSuffix || key == f.ID+MaxSuffix {
				return true
			}
			continue
		}
		if key == f.ID {
			return true
		}
	}
	return false
}

func setOrDelete(v url.Values, key, value string) {
	if value == "" {
		v.Del(key)
		return
	}
	v.Set(key, value)
}

func formatFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
