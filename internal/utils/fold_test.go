package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Plain lowercase", input: "limpeza", want: "limpeza"},
		{name: "Uppercase with accent", input: "Elétrica", want: "eletrica"},
		{name: "Cedilla and tilde", input: "Manutenção", want: "manutencao"},
		{name: "Surrounding spaces", input: "  Pintura ", want: "pintura"},
		{name: "Empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.input))
		})
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		want     bool
	}{
		{name: "Accent-insensitive", haystack: "Serviços Elétricos Silva", needle: "eletric", want: true},
		{name: "Case-insensitive", haystack: "Bomba d'água", needle: "BOMBA", want: true},
		{name: "Empty needle", haystack: "anything", needle: "", want: true},
		{name: "No match", haystack: "Limpeza Total", needle: "jardim", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsFold(tt.haystack, tt.needle))
		})
	}
}
