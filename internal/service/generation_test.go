package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerations(t *testing.T) {
	g := NewGenerations(0)
	assert.Equal(t, uint64(0), g.Current("k"))

	first := g.Advance("k")
	assert.NoError(t, g.Check("k", first))

	g.Advance("k")
	assert.ErrorIs(t, g.Check("k", first), ErrSuperseded)
	assert.Equal(t, uint64(0), g.Current("other"))
}

func TestGenerations_ReadsDoNotGrow(t *testing.T) {
	g := NewGenerations(time.Minute)
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("filters:session-%d:empresa", i)
		assert.NoError(t, g.Check(key, g.Current(key)))
	}
	assert.Equal(t, 0, g.Len())
}

func TestGenerations_IdleKeysAreForgotten(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	g := NewGenerations(10 * time.Minute)
	g.now = func() time.Time { return now }

	g.Advance("idle")
	g.Advance("busy")

	now = now.Add(8 * time.Minute)
	g.Current("busy")

	now = now.Add(5 * time.Minute)
	g.Advance("fresh")

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, uint64(0), g.Current("idle"))
	assert.Equal(t, uint64(1), g.Current("busy"))
}
