package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"marketplace/internal/filter"
	"marketplace/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCandidateQuery(t *testing.T) {
	tests := []struct {
		name      string
		domain    filter.Domain
		query     model.CandidateQuery
		wantSQL   string
		wantArgs  []interface{}
		wantError bool
	}{
		{
			name:     "No narrowing",
			domain:   filter.DomainCompany,
			wantSQL:  "SELECT id, name, description, category, tags, city, rating, is_open, is_verified, created_at FROM companies WHERE 1=1 ORDER BY rating DESC NULLS LAST, name, id",
			wantArgs: []interface{}{},
		},
		{
			name:     "Category and limit",
			domain:   filter.DomainProfessional,
			query:    model.CandidateQuery{Category: "eletrica", Limit: 50},
			wantSQL:  "SELECT id, name, bio, specialty, city, rating, hourly_rate, is_available, created_at FROM professionals WHERE 1=1 AND specialty = $1 ORDER BY rating DESC NULLS LAST, name, id LIMIT $2",
			wantArgs: []interface{}{"eletrica", 50},
		},
		{
			name:     "All category is not pushed down",
			domain:   filter.DomainService,
			query:    model.CandidateQuery{Category: filter.AllValue, Limit: 10},
			wantSQL:  "SELECT id, title, description, category, provider_id, provider_name, price, rating, duration_minutes, created_at FROM services WHERE 1=1 ORDER BY rating DESC NULLS LAST, title, id LIMIT $1",
			wantArgs: []interface{}{10},
		},
		{
			name:     "Later batch",
			domain:   filter.DomainPromotion,
			query:    model.CandidateQuery{Category: "pintura", Limit: 100, Offset: 200},
			wantSQL:  "SELECT id, title, description, category, company_id, company_name, discount_percent, price, is_active, valid_until, created_at FROM promotions WHERE 1=1 AND category = $1 ORDER BY discount_percent DESC NULLS LAST, title, id LIMIT $2 OFFSET $3",
			wantArgs: []interface{}{"pintura", 100, 200},
		},
		{
			name:      "Unknown domain",
			domain:    "imoveis",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := buildCandidateQuery(tt.domain, tt.query)
			if tt.wantError {
				assert.True(t, errors.Is(err, filter.ErrUnknownDomain))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCandidateTablesCoverEveryDomain(t *testing.T) {
	for _, d := range filter.Domains() {
		_, ok := candidateTables[d]
		assert.True(t, ok, "no table for %s", d)
	}
}

// TestPostgresRepository runs against a real database when DATABASE_URL is set.
func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	repo, err := NewPostgresRepository(dsn, 2, 1)
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.EnsureSchema(ctx))

	provider := "test-" + uuid.NewString()
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO availability_rules (provider_id, weekday, open_time, close_time) VALUES ($1, 1, '08:00', '12:00')`, provider)
	require.NoError(t, err)
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO appointments (id, provider_id, starts_at, duration_minutes, status) VALUES ($1, $2, '2024-05-06T09:00:00Z', 60, 'scheduled')`,
		uuid.NewString(), provider)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = repo.db.ExecContext(ctx, `DELETE FROM availability_rules WHERE provider_id = $1`, provider)
		_, _ = repo.db.ExecContext(ctx, `DELETE FROM appointments WHERE provider_id = $1`, provider)
		_, _ = repo.db.ExecContext(ctx, `DELETE FROM search_logs WHERE session_id = $1`, provider)
	})

	rules, err := repo.AvailabilityRules(ctx, provider)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "08:00", rules[0].OpenTime)

	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	appts, err := repo.Appointments(ctx, provider, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, appts, 1)

	exceptions, err := repo.AvailabilityExceptions(ctx, provider, day)
	require.NoError(t, err)
	assert.Empty(t, exceptions)

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.LogSearch(ctx, model.SearchLog{
			SessionID: provider,
			Domain:    filter.DomainPromotion,
			Query:     provider,
		}))
	}
	terms, err := repo.PopularTerms(ctx, filter.DomainPromotion)
	require.NoError(t, err)
	assert.NotEmpty(t, terms)
}
