package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"tokenguard/pkg/domain"
)

// ForeignAssets holds balances of other assets that were sent to the ledger
// by mistake.
type ForeignAssets interface {
	BalanceOf(ctx context.Context, asset domain.Address) (decimal.Decimal, error)
	Withdraw(ctx context.Context, asset, to domain.Address, amount decimal.Decimal) error
}

// Vault is an in-memory ForeignAssets.
type Vault struct {
	mu       sync.Mutex
	holdings map[domain.Address]decimal.Decimal
	paid     map[domain.Address]map[domain.Address]decimal.Decimal
}

func NewVault() *Vault {
	return &Vault{
		holdings: make(map[domain.Address]decimal.Decimal),
		paid:     make(map[domain.Address]map[domain.Address]decimal.Decimal),
	}
}

// Deposit records amount of asset received by the ledger.
func (v *Vault) Deposit(asset domain.Address, amount decimal.Decimal) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.holdings[asset] = v.holdings[asset].Add(amount)
}

func (v *Vault) BalanceOf(_ context.Context, asset domain.Address) (decimal.Decimal, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.holdings[asset], nil
}

func (v *Vault) Withdraw(_ context.Context, asset, to domain.Address, amount decimal.Decimal) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	held := v.holdings[asset]
	if held.LessThan(amount) {
		return fmt.Errorf("vault holds %s of %s: %w", held, asset, ErrInsufficientBalance)
	}
	v.holdings[asset] = held.Sub(amount)
	if v.paid[asset] == nil {
		v.paid[asset] = make(map[domain.Address]decimal.Decimal)
	}
	v.paid[asset][to] = v.paid[asset][to].Add(amount)
	return nil
}

// PaidOut returns the total of asset withdrawn to wallet.
func (v *Vault) PaidOut(asset, wallet domain.Address) decimal.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.paid[asset][wallet]
}
