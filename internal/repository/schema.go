package repository

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		category TEXT NOT NULL,
		tags JSONB,
		city TEXT,
		rating NUMERIC(2,1),
		is_open BOOLEAN NOT NULL DEFAULT false,
		is_verified BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS professionals (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		bio TEXT,
		specialty TEXT NOT NULL,
		city TEXT,
		rating NUMERIC(2,1),
		hourly_rate NUMERIC(10,2),
		is_available BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		category TEXT NOT NULL,
		provider_id TEXT NOT NULL,
		provider_name TEXT NOT NULL,
		price NUMERIC(10,2),
		rating NUMERIC(2,1),
		duration_minutes INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS promotions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		category TEXT NOT NULL,
		company_id TEXT NOT NULL,
		company_name TEXT NOT NULL,
		discount_percent NUMERIC(5,2),
		price NUMERIC(10,2),
		is_active BOOLEAN NOT NULL DEFAULT true,
		valid_until TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS availability_rules (
		provider_id TEXT NOT NULL,
		weekday SMALLINT NOT NULL CHECK (weekday BETWEEN 0 AND 6),
		open_time TIME NOT NULL,
		close_time TIME NOT NULL,
		PRIMARY KEY (provider_id, weekday, open_time)
	)`,
	`CREATE TABLE IF NOT EXISTS availability_exceptions (
		id TEXT PRIMARY KEY,
		provider_id TEXT NOT NULL,
		date DATE NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('closed', 'override', 'extra')),
		open_time TIME,
		close_time TIME,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_availability_exceptions_provider_date
		ON availability_exceptions (provider_id, date)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id TEXT PRIMARY KEY,
		provider_id TEXT NOT NULL,
		starts_at TIMESTAMPTZ NOT NULL,
		duration_minutes INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_provider_start
		ON appointments (provider_id, starts_at)`,
	`CREATE TABLE IF NOT EXISTS search_logs (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL,
		domain TEXT NOT NULL,
		query TEXT NOT NULL,
		filters JSONB,
		result_count INTEGER NOT NULL,
		response_time_ms INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_logs_domain_created
		ON search_logs (domain, created_at)`,
}
