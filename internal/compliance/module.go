// Package compliance holds the ordered set of rule modules a ledger consults
// before and after every balance change.
package compliance

import (
	"context"

	"github.com/shopspring/decimal"

	"tokenguard/pkg/domain"
)

// Transfer describes a balance change as seen by modules. From is zero for a
// mint and To is zero for a burn.
type Transfer struct {
	From   domain.Address
	To     domain.Address
	Amount decimal.Decimal
}

// Binding is what a module learns about the registry calling it: which
// compliance instance it serves and the parameters configured for it there.
// Modules bound to several registries keep their state per Compliance ref.
type Binding struct {
	Compliance domain.Address
	Params     []byte
}

// Module is the contract every pluggable rule implements.
//
// CanTransfer must not mutate state; it may veto by returning false. The
// post-effect hooks run after the ledger mutation and may update module
// state. An error from any hook aborts the caller's whole operation.
type Module interface {
	Name() string
	ValidateParameters(params []byte) error
	CanTransfer(ctx context.Context, b Binding, t Transfer) (bool, error)
	Created(ctx context.Context, b Binding, to domain.Address, amount decimal.Decimal) error
	Transferred(ctx context.Context, b Binding, t Transfer) error
	Destroyed(ctx context.Context, b Binding, from domain.Address, amount decimal.Decimal) error
}

// Checkpointer is implemented by modules with mutable state. Checkpoint
// captures the state kept for one compliance instance and returns a function
// that restores it. State kept for other instances is left alone.
type Checkpointer interface {
	Checkpoint(compliance domain.Address) (restore func())
}

// Binder is implemented by modules that initialise per-instance state when
// they are bound, for example by mirroring existing ledger balances. An
// error aborts the binding.
type Binder interface {
	Bound(ctx context.Context, b Binding) error
}

// ChainStore persists the ordered module list of a registry so it survives a
// restart.
type ChainStore interface {
	LoadChain(ctx context.Context, compliance domain.Address) ([]ModuleEntry, error)
	SaveChain(ctx context.Context, compliance domain.Address, entries []ModuleEntry) error
}

// ModuleEntry pairs a module reference with its parameter bytes.
type ModuleEntry struct {
	Ref    domain.Address `json:"ref"`
	Params []byte         `json:"params"`
}
