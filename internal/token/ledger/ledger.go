// Package ledger stores balances and total supply for one asset.
//
// Implementations return ErrInsufficientBalance when a debit would take an
// account below zero and apply nothing in that case. Amounts are integer
// base units; callers validate them before they reach the ledger.
package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"tokenguard/pkg/domain"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

type Ledger interface {
	BalanceOf(ctx context.Context, account domain.Address) (decimal.Decimal, error)
	TotalSupply(ctx context.Context) (decimal.Decimal, error)
	Mint(ctx context.Context, to domain.Address, amount decimal.Decimal) error
	Burn(ctx context.Context, from domain.Address, amount decimal.Decimal) error
	Transfer(ctx context.Context, from, to domain.Address, amount decimal.Decimal) error
}

// HoldingsReader lists every account with a positive balance. Stateful
// compliance modules rebuild their mirrors from it when they are bound.
type HoldingsReader interface {
	Holdings(ctx context.Context) (map[domain.Address]decimal.Decimal, error)
}

// TxLedger runs fn against a transactional view. Changes made through the
// view become visible only if fn returns nil.
type TxLedger interface {
	Ledger
	RunInTx(ctx context.Context, fn func(Ledger) error) error
}
