package model

import (
	"testing"

	"marketplace/internal/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sptr(s string) *string { return &s }

func fptr(v float64) *float64 { return &v }

func companyIDs(cs []Company) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.RecordID())
	}
	return out
}

func TestCompany_FilterByAttributes(t *testing.T) {
	schema, err := filter.Lookup(filter.DomainCompany)
	require.NoError(t, err)

	companies := []Company{
		{ID: "a", Name: "Luz & Cia", Category: "eletrica", Tags: JSONArray{"bomba", "quadro"}, Rating: fptr(4.2), IsOpen: true},
		{ID: "b", Name: "Brilho", Category: "limpeza", City: sptr("Recife"), IsOpen: true},
		{ID: "c", Name: "Volt", Category: "eletrica", Description: sptr("Instalações"), Rating: fptr(3.1)},
	}

	tests := []struct {
		name  string
		state filter.State
		want  []string
	}{
		{name: "Search matches tags", state: schema.Defaults().WithSearch("BOMBA"), want: []string{"a"}},
		{name: "Search matches category label", state: schema.Defaults().WithSearch("elétrica"), want: []string{"a", "c"}},
		{name: "Search matches description", state: schema.Defaults().WithSearch("instalacoes"), want: []string{"c"}},
		{name: "Missing rating fails range", state: schema.Defaults().With("rating", filter.Range(fptr(3), nil)), want: []string{"a", "c"}},
		{name: "City text", state: schema.Defaults().With("city", filter.Text("recife")), want: []string{"b"}},
		{name: "Open now", state: schema.Defaults().With("isOpen", filter.Bool(new(bool))), want: []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Apply(schema, companies, tt.state)
			assert.Equal(t, tt.want, companyIDs(got))
		})
	}
}

func TestService_DurationRange(t *testing.T) {
	schema, err := filter.Lookup(filter.DomainService)
	require.NoError(t, err)

	short, long := 30, 120
	services := []Service{
		{ID: "s1", Title: "Troca de tomada", Category: "eletrica", DurationMinutes: &short},
		{ID: "s2", Title: "Pintura de sala", Category: "pintura", DurationMinutes: &long},
		{ID: "s3", Title: "Orçamento", Category: "reformas"},
	}

	got := filter.Apply(schema, services, schema.Defaults().With("duration", filter.Range(nil, fptr(60))))
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].RecordID())
}

func TestAttr_UnknownName(t *testing.T) {
	_, ok := Company{}.Attr("price")
	assert.False(t, ok)
	_, ok = Promotion{}.Attr("rating")
	assert.False(t, ok)
}

func TestJSONArray_ValueAndScan(t *testing.T) {
	v, err := JSONArray{"a", "b"}.Value()
	require.NoError(t, err)

	var back JSONArray
	require.NoError(t, back.Scan(v))
	assert.Equal(t, JSONArray{"a", "b"}, back)

	require.NoError(t, back.Scan(`["x"]`))
	assert.Equal(t, JSONArray{"x"}, back)

	require.NoError(t, back.Scan(nil))
	assert.Nil(t, back)

	v, err = JSONArray(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestJSONArray_ScanRejectsOtherTypes(t *testing.T) {
	var back JSONArray
	assert.NotPanics(t, func() {
		assert.Error(t, back.Scan(int64(42)))
	})
	assert.Error(t, back.Scan(`{"not":"an array"}`))
}
