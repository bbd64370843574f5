package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
	"tokenguard/pkg/platform/sentinel"
	txcontext "tokenguard/pkg/platform/tx"
)

// queryer is the subset of *sql.DB and *sql.Tx the store needs.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists identities in the identities and lost_wallets tables.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// q prefers the store's own transaction, then one carried by ctx.
func (s *PostgresStore) q(ctx context.Context) queryer {
	if s.tx != nil {
		return s.tx
	}
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) FindByWallet(ctx context.Context, wallet domain.Address) (models.IdentityRecord, error) {
	var identity []byte
	var country int32
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT identity, country FROM identities WHERE wallet = $1`, wallet[:],
	).Scan(&identity, &country)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.IdentityRecord{}, fmt.Errorf("identity for %s: %w", wallet, sentinel.ErrNotFound)
		}
		return models.IdentityRecord{}, fmt.Errorf("find identity: %w", err)
	}
	return models.IdentityRecord{
		Wallet:   wallet,
		Identity: domain.BytesToAddress(identity),
		Country:  domain.CountryCode(country),
	}, nil
}

func (s *PostgresStore) Save(ctx context.Context, record models.IdentityRecord) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO identities (wallet, identity, country)
		VALUES ($1, $2, $3)
		ON CONFLICT (wallet) DO UPDATE SET identity = EXCLUDED.identity, country = EXCLUDED.country`,
		record.Wallet[:], record.Identity[:], int32(record.Country),
	)
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, wallet domain.Address) error {
	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM identities WHERE wallet = $1`, wallet[:])
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("identity for %s: %w", wallet, sentinel.ErrNotFound))
}

func (s *PostgresStore) MarkLost(ctx context.Context, link models.LostWalletLink) error {
	res, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO lost_wallets (wallet, new_wallet, identity, country, created_record)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (wallet) DO NOTHING`,
		link.Lost[:], link.New[:], link.Identity[:], int32(link.Country), link.CreatedRecord,
	)
	if err != nil {
		return fmt.Errorf("mark wallet lost: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("wallet %s already lost: %w", link.Lost, sentinel.ErrConflict))
}

func (s *PostgresStore) ClearLost(ctx context.Context, lost domain.Address) error {
	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM lost_wallets WHERE wallet = $1`, lost[:])
	if err != nil {
		return fmt.Errorf("clear lost wallet: %w", err)
	}
	return expectOneRow(res, fmt.Errorf("lost wallet %s: %w", lost, sentinel.ErrNotFound))
}

func (s *PostgresStore) IsLost(ctx context.Context, wallet domain.Address) (bool, error) {
	var exists bool
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM lost_wallets WHERE wallet = $1)`, wallet[:],
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check lost wallet: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) LostWalletLink(ctx context.Context, lost domain.Address) (models.LostWalletLink, error) {
	var replacement, identity []byte
	var country sql.NullInt32
	var created bool
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT new_wallet, identity, country, created_record FROM lost_wallets WHERE wallet = $1`, lost[:],
	).Scan(&replacement, &identity, &country, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LostWalletLink{}, fmt.Errorf("lost wallet %s: %w", lost, sentinel.ErrNotFound)
		}
		return models.LostWalletLink{}, fmt.Errorf("find lost wallet link: %w", err)
	}
	return models.LostWalletLink{
		Lost:          lost,
		New:           domain.BytesToAddress(replacement),
		Identity:      domain.BytesToAddress(identity),
		Country:       domain.CountryCode(country.Int32),
		CreatedRecord: created,
	}, nil
}

// RunInTx runs fn inside a serializable transaction. A transaction already
// carried by ctx is joined instead of nested.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	if tx, ok := txcontext.From(ctx); ok {
		return fn(&PostgresStore{db: s.db, tx: tx})
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin identity tx: %w", err)
	}
	if err := fn(&PostgresStore{db: s.db, tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit identity tx: %w", err)
	}
	return nil
}

func expectOneRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}
