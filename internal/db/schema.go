package db

import (
	"context"
	"fmt"
)

// schemaStatements creates the five tables idempotently. Foreign keys on
// cases and logs are SET NULL on delete so removing a principal orphans its
// records instead of destroying the audit trail.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		number INTEGER NOT NULL DEFAULT 0,
		complement TEXT,
		city TEXT NOT NULL DEFAULT '',
		uf CHAR(2) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS organizations (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		number INTEGER NOT NULL DEFAULT 0,
		complement TEXT,
		city TEXT NOT NULL DEFAULT '',
		uf CHAR(2) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cases (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		org_id BIGINT REFERENCES organizations(id) ON DELETE SET NULL,
		status TEXT NOT NULL DEFAULT 'open',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		org_id BIGINT REFERENCES organizations(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id BIGSERIAL PRIMARY KEY,
		token_hash TEXT NOT NULL UNIQUE,
		principal_type TEXT NOT NULL,
		principal_id BIGINT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked BOOLEAN NOT NULL DEFAULT false,
		ip_address TEXT,
		user_agent TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cases_org_id ON cases (org_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cases_user_id ON cases (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_org_id ON logs (org_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_principal ON sessions (principal_type, principal_id)`,
}

// InitSchema creates the application schema if it does not exist yet
func (db *Database) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
