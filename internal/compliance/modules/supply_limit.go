package modules

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"tokenguard/internal/compliance"
	"tokenguard/pkg/domain"
)

// SupplyLimitParams caps total supply.
type SupplyLimitParams struct {
	Limit decimal.Decimal `json:"limit"`
}

// SupplySource reports the committed total supply of the ledger a module
// is bound for.
type SupplySource interface {
	TotalSupply(ctx context.Context) (decimal.Decimal, error)
}

// SupplyLimit rejects mints that would push supply above Limit. It tracks
// supply per compliance instance from the created/destroyed hooks.
type SupplyLimit struct {
	mu     sync.Mutex
	supply map[domain.Address]decimal.Decimal
	source SupplySource
}

func NewSupplyLimit() *SupplyLimit {
	return &SupplyLimit{supply: make(map[domain.Address]decimal.Decimal)}
}

// SeedFrom makes Bound start tracking from source's total supply.
func (m *SupplyLimit) SeedFrom(source SupplySource) *SupplyLimit {
	m.source = source
	return m
}

func (m *SupplyLimit) Name() string { return "supply_limit" }

func (m *SupplyLimit) ValidateParameters(params []byte) error {
	p, err := decodeParams[SupplyLimitParams](params)
	if err != nil {
		return err
	}
	return requirePositive("limit", p.Limit)
}

func (m *SupplyLimit) CanTransfer(_ context.Context, b compliance.Binding, t compliance.Transfer) (bool, error) {
	if !t.From.IsZero() {
		return true, nil
	}
	p, err := decodeParams[SupplyLimitParams](b.Params)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.supply[b.Compliance].Add(t.Amount).LessThanOrEqual(p.Limit), nil
}

func (m *SupplyLimit) Created(_ context.Context, b compliance.Binding, _ domain.Address, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.supply[b.Compliance] = m.supply[b.Compliance].Add(amount)
	return nil
}

func (m *SupplyLimit) Transferred(context.Context, compliance.Binding, compliance.Transfer) error {
	return nil
}

func (m *SupplyLimit) Destroyed(_ context.Context, b compliance.Binding, _ domain.Address, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Supply minted before the module was bound is not tracked.
	next := m.supply[b.Compliance].Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}
	m.supply[b.Compliance] = next
	return nil
}

// Bound seeds the tracked supply when a source is configured. Without one,
// supply that predates binding is not counted.
func (m *SupplyLimit) Bound(ctx context.Context, b compliance.Binding) error {
	if m.source == nil {
		return nil
	}
	supply, err := m.source.TotalSupply(ctx)
	if err != nil {
		return fmt.Errorf("read total supply: %w", err)
	}
	m.Seed(b.Compliance, supply)
	return nil
}

// Seed sets the tracked supply for a compliance instance, typically from the
// ledger's total supply when the process starts against existing balances.
func (m *SupplyLimit) Seed(c domain.Address, supply decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.supply[c] = supply
}

// Supply returns the tracked supply for a compliance instance.
func (m *SupplyLimit) Supply(c domain.Address) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.supply[c]
}

func (m *SupplyLimit) Checkpoint(c domain.Address) func() {
	m.mu.Lock()
	saved, had := m.supply[c]
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if had {
			m.supply[c] = saved
			return
		}
		delete(m.supply, c)
	}
}
