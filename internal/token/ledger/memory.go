package ledger

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/shopspring/decimal"

	"tokenguard/pkg/domain"
)

// InMemory keeps balances in a map. Transactions write to an overlay that is
// folded into the base state on success. txMu serializes transactions; mu is
// only write-locked for the fold, so reads stay available while a
// transaction runs.
type InMemory struct {
	txMu     sync.Mutex
	mu       sync.RWMutex
	balances map[domain.Address]decimal.Decimal
	supply   decimal.Decimal
}

func NewInMemory() *InMemory {
	return &InMemory{balances: make(map[domain.Address]decimal.Decimal)}
}

func (l *InMemory) BalanceOf(_ context.Context, account domain.Address) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account], nil
}

func (l *InMemory) TotalSupply(context.Context) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.supply, nil
}

func (l *InMemory) Holdings(context.Context) (map[domain.Address]decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.balances), nil
}

func (l *InMemory) Mint(ctx context.Context, to domain.Address, amount decimal.Decimal) error {
	return l.RunInTx(ctx, func(tx Ledger) error { return tx.Mint(ctx, to, amount) })
}

func (l *InMemory) Burn(ctx context.Context, from domain.Address, amount decimal.Decimal) error {
	return l.RunInTx(ctx, func(tx Ledger) error { return tx.Burn(ctx, from, amount) })
}

func (l *InMemory) Transfer(ctx context.Context, from, to domain.Address, amount decimal.Decimal) error {
	return l.RunInTx(ctx, func(tx Ledger) error { return tx.Transfer(ctx, from, to, amount) })
}

func (l *InMemory) RunInTx(ctx context.Context, fn func(Ledger) error) error {
	l.txMu.Lock()
	defer l.txMu.Unlock()
	supply, _ := l.TotalSupply(ctx)
	view := &overlay{
		base:     l,
		balances: make(map[domain.Address]decimal.Decimal),
		supply:   supply,
	}
	if err := fn(view); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for account, balance := range view.balances {
		if balance.IsZero() {
			delete(l.balances, account)
			continue
		}
		l.balances[account] = balance
	}
	l.supply = view.supply
	return nil
}

// overlay is only used while the base txMu is held.
type overlay struct {
	base     *InMemory
	balances map[domain.Address]decimal.Decimal
	supply   decimal.Decimal
}

func (o *overlay) balance(account domain.Address) decimal.Decimal {
	if b, ok := o.balances[account]; ok {
		return b
	}
	b, _ := o.base.BalanceOf(context.Background(), account)
	return b
}

func (o *overlay) BalanceOf(_ context.Context, account domain.Address) (decimal.Decimal, error) {
	return o.balance(account), nil
}

func (o *overlay) TotalSupply(context.Context) (decimal.Decimal, error) {
	return o.supply, nil
}

func (o *overlay) Mint(_ context.Context, to domain.Address, amount decimal.Decimal) error {
	o.balances[to] = o.balance(to).Add(amount)
	o.supply = o.supply.Add(amount)
	return nil
}

func (o *overlay) Burn(_ context.Context, from domain.Address, amount decimal.Decimal) error {
	if err := o.debit(from, amount); err != nil {
		return err
	}
	o.supply = o.supply.Sub(amount)
	return nil
}

func (o *overlay) Transfer(_ context.Context, from, to domain.Address, amount decimal.Decimal) error {
	if err := o.debit(from, amount); err != nil {
		return err
	}
	o.balances[to] = o.balance(to).Add(amount)
	return nil
}

func (o *overlay) debit(account domain.Address, amount decimal.Decimal) error {
	current := o.balance(account)
	if current.LessThan(amount) {
		return fmt.Errorf("account %s holds %s, needs %s: %w", account, current, amount, ErrInsufficientBalance)
	}
	o.balances[account] = current.Sub(amount)
	return nil
}
