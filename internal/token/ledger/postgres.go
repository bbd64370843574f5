package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"tokenguard/pkg/domain"
)

type pgQueryer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresLedger persists balances in the balances and supply tables.
// Amounts travel as text and are cast to NUMERIC in SQL so no precision is
// lost on either side.
type PostgresLedger struct {
	pool *pgxpool.Pool
	q    pgQueryer
}

func NewPostgres(pool *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{pool: pool, q: pool}
}

func (l *PostgresLedger) BalanceOf(ctx context.Context, account domain.Address) (decimal.Decimal, error) {
	var raw string
	err := l.q.QueryRow(ctx, `SELECT amount::text FROM balances WHERE account = $1`, account[:]).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("load balance: %w", err)
	}
	return parseAmount(raw)
}

func (l *PostgresLedger) TotalSupply(ctx context.Context) (decimal.Decimal, error) {
	var raw string
	err := l.q.QueryRow(ctx, `SELECT COALESCE((SELECT total FROM supply WHERE id = 1), 0)::text`).Scan(&raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load total supply: %w", err)
	}
	return parseAmount(raw)
}

func (l *PostgresLedger) Holdings(ctx context.Context) (map[domain.Address]decimal.Decimal, error) {
	rows, err := l.q.Query(ctx, `SELECT account, amount::text FROM balances WHERE amount > 0`)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	defer rows.Close()
	out := make(map[domain.Address]decimal.Decimal)
	for rows.Next() {
		var account []byte
		var raw string
		if err := rows.Scan(&account, &raw); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		amount, err := parseAmount(raw)
		if err != nil {
			return nil, err
		}
		out[domain.BytesToAddress(account)] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	return out, nil
}

func (l *PostgresLedger) Mint(ctx context.Context, to domain.Address, amount decimal.Decimal) error {
	return l.within(ctx, func(tx *PostgresLedger) error {
		if err := tx.credit(ctx, to, amount); err != nil {
			return err
		}
		_, err := tx.q.Exec(ctx, `
			INSERT INTO supply (id, total) VALUES (1, $1::numeric)
			ON CONFLICT (id) DO UPDATE SET total = supply.total + EXCLUDED.total`,
			amount.String(),
		)
		if err != nil {
			return fmt.Errorf("increase supply: %w", err)
		}
		return nil
	})
}

func (l *PostgresLedger) Burn(ctx context.Context, from domain.Address, amount decimal.Decimal) error {
	return l.within(ctx, func(tx *PostgresLedger) error {
		if err := tx.debit(ctx, from, amount); err != nil {
			return err
		}
		if _, err := tx.q.Exec(ctx, `UPDATE supply SET total = total - $1::numeric WHERE id = 1`, amount.String()); err != nil {
			return fmt.Errorf("decrease supply: %w", err)
		}
		return nil
	})
}

func (l *PostgresLedger) Transfer(ctx context.Context, from, to domain.Address, amount decimal.Decimal) error {
	return l.within(ctx, func(tx *PostgresLedger) error {
		if err := tx.debit(ctx, from, amount); err != nil {
			return err
		}
		return tx.credit(ctx, to, amount)
	})
}

func (l *PostgresLedger) credit(ctx context.Context, account domain.Address, amount decimal.Decimal) error {
	_, err := l.q.Exec(ctx, `
		INSERT INTO balances (account, amount) VALUES ($1, $2::numeric)
		ON CONFLICT (account) DO UPDATE SET amount = balances.amount + EXCLUDED.amount`,
		account[:], amount.String(),
	)
	if err != nil {
		return fmt.Errorf("credit %s: %w", account, err)
	}
	return nil
}

func (l *PostgresLedger) debit(ctx context.Context, account domain.Address, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	tag, err := l.q.Exec(ctx, `
		UPDATE balances SET amount = amount - $2::numeric
		WHERE account = $1 AND amount >= $2::numeric`,
		account[:], amount.String(),
	)
	if err != nil {
		return fmt.Errorf("debit %s: %w", account, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s cannot cover %s: %w", account, amount, ErrInsufficientBalance)
	}
	return nil
}

// within runs fn in the current transaction, or in a new one when l is
// bound to the pool.
func (l *PostgresLedger) within(ctx context.Context, fn func(*PostgresLedger) error) error {
	if l.pool == nil {
		return fn(l)
	}
	return l.RunInTx(ctx, func(tx Ledger) error {
		return fn(tx.(*PostgresLedger))
	})
}

// RunInTx runs fn in a serializable transaction. Nested calls on a view
// reuse the outer transaction.
func (l *PostgresLedger) RunInTx(ctx context.Context, fn func(Ledger) error) error {
	if l.pool == nil {
		return fn(l)
	}
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	if err := fn(&PostgresLedger{q: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse stored amount %q: %w", raw, err)
	}
	return d, nil
}
