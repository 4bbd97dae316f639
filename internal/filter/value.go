package filter

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SearchKey is the state/query key of the free-text search term.
const SearchKey = "search"

// Value is the current value of one filter field. It is a tagged variant:
// construct it with Text, Select, Range or Bool. Values are immutable.
type Value struct {
	kind Kind
	text string
	min  *float64
	max  *float64
	flag *bool
}

// Text builds a free-text field value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Select builds a select field value; "" and AllValue mean unrestricted.
func Select(s string) Value { return Value{kind: KindSelect, text: s} }

// Range builds an inclusive numeric range; a nil side is unbounded.
func Range(min, max *float64) Value {
	return Value{kind: KindRange, min: copyFloat(min), max: copyFloat(max)}
}

// Bool builds a boolean field value; nil means unset.
func Bool(b *bool) Value {
	v := Value{kind: KindBoolean}
	if b != nil {
		flag := *b
		v.flag = &flag
	}
	return v
}

// Empty returns the unset value of the given kind.
func Empty(k Kind) Value { return Value{kind: k} }

func (v Value) Kind() Kind { return v.kind }

// String returns the text of a text or select value.
func (v Value) String() string { return v.text }

// Bounds returns copies of the range bounds.
func (v Value) Bounds() (min, max *float64) { return copyFloat(v.min), copyFloat(v.max) }

// Flag returns a copy of the boolean value, nil when unset.
func (v Value) Flag() *bool {
	if v.flag == nil {
		return nil
	}
	b := *v.flag
	return &b
}

// Active reports whether the value restricts the candidate set.
func (v Value) Active() bool {
	switch v.kind {
	case KindText:
		return strings.TrimSpace(v.text) != ""
	case KindSelect:
		return v.text != "" && v.text != AllValue
	case KindRange:
		return v.min != nil || v.max != nil
	case KindBoolean:
		return v.flag != nil
	}
	return false
}

// Equal compares two values by kind and content.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind &&
		v.text == o.text &&
		floatPtrEqual(v.min, o.min) &&
		floatPtrEqual(v.max, o.max) &&
		boolPtrEqual(v.flag, o.flag)
}

type valueJSON struct {
	Kind  Kind     `json:"kind"`
	Value string   `json:"value,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Flag  *bool    `json:"flag,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Kind: v.kind, Value: v.text, Min: v.min, Max: v.max, Flag: v.flag})
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw valueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Value{kind: raw.Kind, text: raw.Value, min: raw.Min, max: raw.Max, flag: raw.Flag}
	return nil
}

// State is the full filter value set of one domain: the free-text search
// term plus one Value per declared field. Methods never mutate the receiver.
type State struct {
	Search string           `json:"search"`
	Values map[string]Value `json:"values,omitempty"`
}

// Get returns the value stored under id, or the zero Value.
func (s State) Get(id string) Value {
	return s.Values[id]
}

// With returns a copy of s with id set to v.
func (s State) With(id string, v Value) State {
	out := s.Clone()
	out.Values[id] = v
	return out
}

// WithSearch returns a copy of s with a new search term.
func (s State) WithSearch(term string) State {
	out := s.Clone()
	out.Search = term
	return out
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{Search: s.Search, Values: make(map[string]Value, len(s.Values))}
	for id, v := range s.Values {
		out.Values[id] = v
	}
	return out
}

// Equal reports deep equality of two states.
func (s State) Equal(o State) bool {
	if s.Search != o.Search || len(s.Values) != len(o.Values) {
		return false
	}
	for id, v := range s.Values {
		ov, ok := o.Values[id]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Active returns the ids of fields that currently restrict results, in
// schema order. The search term is reported as SearchKey.
func (s Schema) Active(st State) []string {
	var ids []string
	if strings.TrimSpace(st.Search) != "" {
		ids = append(ids, SearchKey)
	}
	for _, f := range s.Fields {
		if st.Get(f.ID).Active() {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// ParseRange coerces raw bounds into a Range value. Malformed or empty
// sides are ignored and leave that side unbounded.
func ParseRange(minRaw, maxRaw string) Value {
	return Range(parseFloat(minRaw), parseFloat(maxRaw))
}

// ParseBool coerces "true"/"false" (and 1/0) into a Bool value; anything
// else leaves the value unset.
func ParseBool(raw string) Value {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return Bool(nil)
	}
	return Bool(&b)
}

func parseFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	f := *p
	return &f
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
