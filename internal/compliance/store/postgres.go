package store

import (
	"context"
	"database/sql"
	"fmt"

	"tokenguard/internal/compliance"
	"tokenguard/pkg/domain"
)

// PostgresStore keeps one row per bound module in compliance_modules,
// ordered by position.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) LoadChain(ctx context.Context, c domain.Address) ([]compliance.ModuleEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT module, params FROM compliance_modules
		WHERE compliance = $1
		ORDER BY position`, c[:])
	if err != nil {
		return nil, fmt.Errorf("load module chain: %w", err)
	}
	defer rows.Close()

	var entries []compliance.ModuleEntry
	for rows.Next() {
		var ref, params []byte
		if err := rows.Scan(&ref, &params); err != nil {
			return nil, fmt.Errorf("scan module entry: %w", err)
		}
		entries = append(entries, compliance.ModuleEntry{Ref: domain.BytesToAddress(ref), Params: params})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load module chain: %w", err)
	}
	return entries, nil
}

// SaveChain replaces the stored chain for c in one transaction.
func (s *PostgresStore) SaveChain(ctx context.Context, c domain.Address, entries []compliance.ModuleEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin module chain tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM compliance_modules WHERE compliance = $1`, c[:]); err != nil {
		return fmt.Errorf("clear module chain: %w", err)
	}
	for i, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO compliance_modules (compliance, position, module, params)
			VALUES ($1, $2, $3, $4)`,
			c[:], i, e.Ref[:], e.Params,
		)
		if err != nil {
			return fmt.Errorf("save module %s: %w", e.Ref, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit module chain: %w", err)
	}
	return nil
}
