package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit records in a relational table for payers that
// need queryable retention rather than a log stream.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the audit table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sanctions_audit (
			id             UUID PRIMARY KEY,
			recorded_at    TIMESTAMPTZ NOT NULL,
			npi            TEXT NOT NULL,
			provider_name  TEXT,
			outcome        TEXT NOT NULL,
			exclusion_type TEXT,
			audit_ref      TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure sanctions_audit schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, record CheckRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sanctions_audit (id, recorded_at, npi, provider_name, outcome, exclusion_type, audit_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID,
		record.Timestamp,
		record.NPI,
		nullable(record.ProviderName),
		record.Outcome,
		nullable(record.ExclusionType),
		record.AuditRef,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// CountByNPI returns how many checks have been recorded for a provider.
func (s *PostgresStore) CountByNPI(ctx context.Context, npi string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sanctions_audit WHERE npi = $1`, npi,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count audit records: %w", err)
	}
	return count, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
