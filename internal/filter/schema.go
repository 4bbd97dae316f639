package filter

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies how a filter field is edited and matched.
type Kind string

const (
	KindText    Kind = "text"
	KindSelect  Kind = "select"
	KindRange   Kind = "range"
	KindBoolean Kind = "boolean"
)

// AllValue is the select sentinel meaning "no restriction".
const AllValue = "all"

var (
	ErrUnknownField  = errors.New("unknown filter field")
	ErrKindMismatch  = errors.New("filter value kind does not match field")
	ErrUnknownDomain = errors.New("unknown search domain")
)

// Option is a value/label pair offered by a select field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldSpec describes one filterable attribute of a domain.
type FieldSpec struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
	// Attribute is the record attribute tested by this field. Defaults to ID.
	Attribute string   `json:"-"`
	Options   []Option `json:"options,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

func (f FieldSpec) attribute() string {
	if f.Attribute != "" {
		return f.Attribute
	}
	return f.ID
}

// Schema is the immutable filter definition of one search domain.
type Schema struct {
	Domain Domain      `json:"domain"`
	Fields []FieldSpec `json:"fields"`
	// SearchAttributes are matched by the free-text search term.
	SearchAttributes []string `json:"-"`
	// CategoryField names the select field whose option labels feed suggestions.
	CategoryField string `json:"-"`

	index map[string]int
}

// NewSchema validates the field list and builds a Schema.
func NewSchema(domain Domain, searchAttrs []string, categoryField string, fields ...FieldSpec) (Schema, error) {
	s := Schema{
		Domain:           domain,
		Fields:           fields,
		SearchAttributes: searchAttrs,
		CategoryField:    categoryField,
		index:            make(map[string]int, len(fields)),
	}

	for i, f := range fields {
		if strings.TrimSpace(f.ID) == "" {
			return Schema{}, fmt.Errorf("field %d of %s: empty id", i, domain)
		}
		if f.ID == SearchKey {
			return Schema{}, fmt.Errorf("field %q of %s: id is reserved", f.ID, domain)
		}
		if _, dup := s.index[f.ID]; dup {
			return Schema{}, fmt.Errorf("field %q of %s: duplicate id", f.ID, domain)
		}
		switch f.Kind {
		case KindText, KindBoolean:
		case KindSelect:
			if len(f.Options) == 0 {
				return Schema{}, fmt.Errorf("field %q of %s: select without options", f.ID, domain)
			}
		case KindRange:
			if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
				return Schema{}, fmt.Errorf("field %q of %s: min greater than max", f.ID, domain)
			}
		default:
			return Schema{}, fmt.Errorf("field %q of %s: unknown kind %q", f.ID, domain, f.Kind)
		}
		s.index[f.ID] = i
	}

	if categoryField != "" {
		f, ok := s.Field(categoryField)
		if !ok || f.Kind != KindSelect {
			return Schema{}, fmt.Errorf("category field %q of %s must be a declared select", categoryField, domain)
		}
	}

	return s, nil
}

// MustSchema is NewSchema that panics on an invalid definition.
func MustSchema(domain Domain, searchAttrs []string, categoryField string, fields ...FieldSpec) Schema {
	s, err := NewSchema(domain, searchAttrs, categoryField, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Field returns the spec registered under id.
func (s Schema) Field(id string) (FieldSpec, bool) {
	i, ok := s.index[id]
	if !ok {
		return FieldSpec{}, false
	}
	return s.Fields[i], true
}

// Check reports whether v may be stored under field id.
func (s Schema) Check(id string, v Value) error {
	f, ok := s.Field(id)
	if !ok {
		return fmt.Errorf("%w: %q in %s", ErrUnknownField, id, s.Domain)
	}
	if v.Kind() != f.Kind {
		return fmt.Errorf("%w: %q expects %s, got %s", ErrKindMismatch, id, f.Kind, v.Kind())
	}
	return nil
}

// Defaults returns a state holding every field in its unset form.
func (s Schema) Defaults() State {
	st := State{Values: make(map[string]Value, len(s.Fields))}
	for _, f := range s.Fields {
		st.Values[f.ID] = Empty(f.Kind)
	}
	return st
}

// Sanitize drops values that do not belong to the schema. It never fails,
// so it is safe to run over persisted or user-supplied state.
func (s Schema) Sanitize(st State) State {
	out := State{Search: st.Search, Values: make(map[string]Value, len(st.Values))}
	for id, v := range st.Values {
		if s.Check(id, v) == nil {
			out.Values[id] = v
		}
	}
	return out
}

// Categories returns the labels of the category field options.
func (s Schema) Categories() []string {
	if s.CategoryField == "" {
		return nil
	}
	f, _ := s.Field(s.CategoryField)
	labels := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		labels = append(labels, o.Label)
	}
	return labels
}
