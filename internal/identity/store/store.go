// Package store persists identity records and lost-wallet links.
//
// Every backend returns sentinel errors: ErrNotFound for a missing record or
// link, ErrConflict when a wallet is marked lost twice. Inside RunInTx, reads
// observe committed state plus, for backends that can, the transaction's own
// writes; callers check preconditions before writing.
package store

import (
	"context"

	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
)

type Store interface {
	FindByWallet(ctx context.Context, wallet domain.Address) (models.IdentityRecord, error)
	Save(ctx context.Context, record models.IdentityRecord) error
	Delete(ctx context.Context, wallet domain.Address) error
	MarkLost(ctx context.Context, link models.LostWalletLink) error
	ClearLost(ctx context.Context, lost domain.Address) error
	IsLost(ctx context.Context, wallet domain.Address) (bool, error)
	LostWalletLink(ctx context.Context, lost domain.Address) (models.LostWalletLink, error)
}

// TxStore runs fn against a view whose writes commit together or not at all.
type TxStore interface {
	Store
	RunInTx(ctx context.Context, fn func(Store) error) error
}
