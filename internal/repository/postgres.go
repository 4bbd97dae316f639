package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/filter"
	"marketplace/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PopularLimit caps the popular terms returned per domain
const PopularLimit = 20

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the database connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// EnsureSchema creates the tables the service reads and writes
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

var candidateTables = map[filter.Domain]struct {
	table    string
	columns  string
	category string
	order    string
}{
	filter.DomainCompany: {
		table:    "companies",
		columns:  "id, name, description, category, tags, city, rating, is_open, is_verified, created_at",
		category: "category",
		order:    "rating DESC NULLS LAST, name, id",
	},
	filter.DomainProfessional: {
		table:    "professionals",
		columns:  "id, name, bio, specialty, city, rating, hourly_rate, is_available, created_at",
		category: "specialty",
		order:    "rating DESC NULLS LAST, name, id",
	},
	filter.DomainService: {
		table:    "services",
		columns:  "id, title, description, category, provider_id, provider_name, price, rating, duration_minutes, created_at",
		category: "category",
		order:    "rating DESC NULLS LAST, title, id",
	},
	filter.DomainPromotion: {
		table:    "promotions",
		columns:  "id, title, description, category, company_id, company_name, discount_percent, price, is_active, valid_until, created_at",
		category: "category",
		order:    "discount_percent DESC NULLS LAST, title, id",
	},
}

// buildCandidateQuery builds the SELECT for a domain's candidates
func buildCandidateQuery(domain filter.Domain, q model.CandidateQuery) (string, []interface{}, error) {
	spec, ok := candidateTables[domain]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", filter.ErrUnknownDomain, domain)
	}

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if q.Category != "" && q.Category != filter.AllValue {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", spec.category, argIndex))
		args = append(args, q.Category)
		argIndex++
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s",
		spec.columns, spec.table, strings.Join(whereClauses, " AND "), spec.order)

	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, q.Limit)
		argIndex++
	}
	if q.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, q.Offset)
	}
	return query, args, nil
}

func selectCandidates[T any](ctx context.Context, db *sqlx.DB, domain filter.Domain, q model.CandidateQuery) ([]T, error) {
	query, args, err := buildCandidateQuery(domain, q)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch %s candidates: %w", domain, err)
	}
	return out, nil
}

// Companies returns company candidates
func (r *PostgresRepository) Companies(ctx context.Context, q model.CandidateQuery) ([]model.Company, error) {
	return selectCandidates[model.Company](ctx, r.db, filter.DomainCompany, q)
}

// Professionals returns professional candidates
func (r *PostgresRepository) Professionals(ctx context.Context, q model.CandidateQuery) ([]model.Professional, error) {
	return selectCandidates[model.Professional](ctx, r.db, filter.DomainProfessional, q)
}

// Services returns service candidates
func (r *PostgresRepository) Services(ctx context.Context, q model.CandidateQuery) ([]model.Service, error) {
	return selectCandidates[model.Service](ctx, r.db, filter.DomainService, q)
}

// Promotions returns promotion candidates
func (r *PostgresRepository) Promotions(ctx context.Context, q model.CandidateQuery) ([]model.Promotion, error) {
	return selectCandidates[model.Promotion](ctx, r.db, filter.DomainPromotion, q)
}

// AvailabilityRules returns a provider's recurring rules
func (r *PostgresRepository) AvailabilityRules(ctx context.Context, providerID string) ([]model.AvailabilityRule, error) {
	query := `
		SELECT provider_id, weekday, to_char(open_time, 'HH24:MI') AS open_time, to_char(close_time, 'HH24:MI') AS close_time
		FROM availability_rules
		WHERE provider_id = $1
		ORDER BY weekday, open_time
	`
	var rules []model.AvailabilityRule
	if err := r.db.SelectContext(ctx, &rules, query, providerID); err != nil {
		return nil, fmt.Errorf("failed to fetch availability rules: %w", err)
	}
	return rules, nil
}

// AvailabilityExceptions returns a provider's exceptions on a date
func (r *PostgresRepository) AvailabilityExceptions(ctx context.Context, providerID string, date time.Time) ([]model.AvailabilityException, error) {
	query := `
		SELECT id, provider_id, date, kind,
			to_char(open_time, 'HH24:MI') AS open_time, to_char(close_time, 'HH24:MI') AS close_time,
			updated_at
		FROM availability_exceptions
		WHERE provider_id = $1 AND date = $2::date
		ORDER BY updated_at
	`
	var exceptions []model.AvailabilityException
	if err := r.db.SelectContext(ctx, &exceptions, query, providerID, date.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("failed to fetch availability exceptions: %w", err)
	}
	return exceptions, nil
}

// Appointments returns a provider's appointments starting in [from, to)
func (r *PostgresRepository) Appointments(ctx context.Context, providerID string, from, to time.Time) ([]model.Appointment, error) {
	query := `
		SELECT id, provider_id, starts_at, duration_minutes, status
		FROM appointments
		WHERE provider_id = $1 AND starts_at < $3
			AND starts_at + make_interval(mins => duration_minutes) > $2
		ORDER BY starts_at
	`
	var appointments []model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, providerID, from, to); err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}
	return appointments, nil
}

// LogSearch logs a search query
func (r *PostgresRepository) LogSearch(ctx context.Context, entry model.SearchLog) error {
	filters, err := json.Marshal(entry.Filters)
	if err != nil {
		return fmt.Errorf("failed to encode filters: %w", err)
	}

	logQuery := `
		INSERT INTO search_logs (session_id, domain, query, filters, result_count, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.ExecContext(ctx, logQuery,
		entry.SessionID, string(entry.Domain), entry.Query, string(filters), entry.ResultCount, entry.ResponseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// PopularTerms returns the most searched terms of a domain over the last 30 days
func (r *PostgresRepository) PopularTerms(ctx context.Context, domain filter.Domain) ([]string, error) {
	query := `
		SELECT lower(query) AS term
		FROM search_logs
		WHERE domain = $1 AND query <> '' AND created_at > NOW() - INTERVAL '30 days'
		GROUP BY lower(query)
		ORDER BY COUNT(*) DESC, term
		LIMIT $2
	`
	var terms []string
	if err := r.db.SelectContext(ctx, &terms, query, string(domain), PopularLimit); err != nil {
		return nil, fmt.Errorf("failed to fetch popular terms: %w", err)
	}
	return terms, nil
}
