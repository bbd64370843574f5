package modules

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/shopspring/decimal"

	"tokenguard/internal/compliance"
	"tokenguard/pkg/domain"
)

// MaxBalanceParams caps any single wallet's holding.
type MaxBalanceParams struct {
	Max decimal.Decimal `json:"max"`
}

// HoldingsSource lists the committed non-zero balances of the ledger a
// module is bound for.
type HoldingsSource interface {
	Holdings(ctx context.Context) (map[domain.Address]decimal.Decimal, error)
}

// MaxBalance rejects mints and transfers that would leave the recipient
// holding more than Max. Holdings are mirrored from the post-effect hooks.
type MaxBalance struct {
	mu       sync.Mutex
	balances map[domain.Address]map[domain.Address]decimal.Decimal
	source   HoldingsSource
}

func NewMaxBalance() *MaxBalance {
	return &MaxBalance{balances: make(map[domain.Address]map[domain.Address]decimal.Decimal)}
}

// SeedFrom makes Bound mirror the holdings reported by source.
func (m *MaxBalance) SeedFrom(source HoldingsSource) *MaxBalance {
	m.source = source
	return m
}

// Bound replaces the mirror for b.Compliance with the source's holdings.
// Without a source, holdings that predate binding are not tracked.
func (m *MaxBalance) Bound(ctx context.Context, b compliance.Binding) error {
	if m.source == nil {
		return nil
	}
	holdings, err := m.source.Holdings(ctx)
	if err != nil {
		return fmt.Errorf("read holdings: %w", err)
	}
	mirror := make(map[domain.Address]decimal.Decimal, len(holdings))
	for wallet, amount := range holdings {
		if amount.IsPositive() {
			mirror[wallet] = amount
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[b.Compliance] = mirror
	return nil
}

func (m *MaxBalance) Name() string { return "max_balance" }

func (m *MaxBalance) ValidateParameters(params []byte) error {
	p, err := decodeParams[MaxBalanceParams](params)
	if err != nil {
		return err
	}
	return requirePositive("max", p.Max)
}

func (m *MaxBalance) CanTransfer(_ context.Context, b compliance.Binding, t compliance.Transfer) (bool, error) {
	if t.To.IsZero() {
		return true, nil
	}
	p, err := decodeParams[MaxBalanceParams](b.Params)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[b.Compliance][t.To].Add(t.Amount).LessThanOrEqual(p.Max), nil
}

func (m *MaxBalance) Created(_ context.Context, b compliance.Binding, to domain.Address, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credit(b.Compliance, to, amount)
	return nil
}

func (m *MaxBalance) Transferred(_ context.Context, b compliance.Binding, t compliance.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.debit(b.Compliance, t.From, t.Amount); err != nil {
		return err
	}
	m.credit(b.Compliance, t.To, t.Amount)
	return nil
}

func (m *MaxBalance) Destroyed(_ context.Context, b compliance.Binding, from domain.Address, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.debit(b.Compliance, from, amount)
}

func (m *MaxBalance) credit(c, wallet domain.Address, amount decimal.Decimal) {
	holders, ok := m.balances[c]
	if !ok {
		holders = make(map[domain.Address]decimal.Decimal)
		m.balances[c] = holders
	}
	holders[wallet] = holders[wallet].Add(amount)
}

// debit tolerates wallets the module never saw credited: holdings that
// predate binding are not tracked.
func (m *MaxBalance) debit(c, wallet domain.Address, amount decimal.Decimal) error {
	holders := m.balances[c]
	if holders == nil {
		return nil
	}
	next := holders[wallet].Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}
	if next.IsZero() {
		delete(holders, wallet)
		return nil
	}
	holders[wallet] = next
	return nil
}

// Balance returns the mirrored holding of wallet under compliance instance c.
func (m *MaxBalance) Balance(c, wallet domain.Address) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[c][wallet]
}

func (m *MaxBalance) Checkpoint(c domain.Address) func() {
	m.mu.Lock()
	saved, had := m.balances[c]
	saved = maps.Clone(saved)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if had {
			m.balances[c] = saved
			return
		}
		delete(m.balances, c)
	}
}
