package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"tokenguard/pkg/domain"
)

// IdentityRegistry answers whether a recipient may hold the asset and moves
// identities during wallet recovery.
type IdentityRegistry interface {
	IsVerified(ctx context.Context, wallet domain.Address, topics []domain.ClaimTopic) (bool, error)
	RecoverIdentity(ctx context.Context, lost, replacement, identity domain.Address) error
	// RevertRecovery undoes a committed RecoverIdentity when the ledger side
	// of the recovery fails.
	RevertRecovery(ctx context.Context, lost, replacement domain.Address) error
}

// Compliance is the module registry consulted around every balance change.
type Compliance interface {
	Ref() domain.Address
	CanTransfer(ctx context.Context, from, to domain.Address, amount decimal.Decimal) (bool, error)
	Created(ctx context.Context, to domain.Address, amount decimal.Decimal) error
	Transferred(ctx context.Context, from, to domain.Address, amount decimal.Decimal) error
	Destroyed(ctx context.Context, from domain.Address, amount decimal.Decimal) error
	// Checkpoint captures module state and pins the module list into the
	// returned context; the returned func restores the captured state.
	Checkpoint(ctx context.Context) (context.Context, func())
}
