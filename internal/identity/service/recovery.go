package service

import (
	"context"
	"errors"

	"tokenguard/internal/identity/models"
	"tokenguard/internal/identity/store"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	audit "tokenguard/pkg/platform/audit"
	"tokenguard/pkg/platform/sentinel"
)

// RecoverIdentity moves lost's registration to replacement under identity.
//
// Every precondition is checked before the first write and all writes share
// one store transaction. A replacement already registered to identity keeps
// its record; one registered to any other identity is rejected.
func (s *Service) RecoverIdentity(ctx context.Context, lost, replacement, identity domain.Address) error {
	if lost.IsZero() || replacement.IsZero() || identity.IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "lost wallet, new wallet and identity are required")
	}
	if lost == replacement {
		return dErrors.New(dErrors.CodeBadRequest, "new wallet must differ from lost wallet")
	}

	var country domain.CountryCode
	err := s.store.RunInTx(ctx, func(tx store.Store) error {
		record, err := s.find(ctx, tx, lost)
		if err != nil {
			return err
		}
		if err := s.requireNotLost(ctx, tx, lost); err != nil {
			return err
		}
		existing, err := tx.FindByWallet(ctx, replacement)
		newRecordExists := err == nil
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
		}
		if newRecordExists && existing.Identity != identity {
			return dErrors.Newf(dErrors.CodeIdentityAlreadyRegistered,
				"wallet %s is registered to a different identity", replacement)
		}
		if err := s.requireNotLost(ctx, tx, replacement); err != nil {
			return err
		}
		country = record.Country

		link := models.LostWalletLink{
			Lost:          lost,
			New:           replacement,
			Identity:      record.Identity,
			Country:       country,
			CreatedRecord: !newRecordExists,
		}
		if err := tx.MarkLost(ctx, link); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Newf(dErrors.CodeWalletAlreadyMarkedAsLost, "wallet %s already marked as lost", lost)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark wallet lost")
		}
		if err := tx.Delete(ctx, lost); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove lost wallet record")
		}
		if !newRecordExists {
			rec := models.IdentityRecord{Wallet: replacement, Identity: identity, Country: country}
			if err := tx.Save(ctx, rec); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register new wallet")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncrementMutation("recover")
	s.emit(ctx, audit.EventIdentityRecovered, lost, replacement.String(), identity.String())
	return nil
}

// RevertRecovery undoes a RecoverIdentity of lost onto replacement. It is the
// compensating step when the ledger side of a wallet recovery fails after the
// identity side committed. The lost wallet gets its record back, the link is
// removed and a record created by recovery is deleted.
func (s *Service) RevertRecovery(ctx context.Context, lost, replacement domain.Address) error {
	if lost.IsZero() || replacement.IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "lost wallet and new wallet are required")
	}
	err := s.store.RunInTx(ctx, func(tx store.Store) error {
		link, err := tx.LostWalletLink(ctx, lost)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Newf(dErrors.CodeNotFound, "wallet %s is not marked lost", lost)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load lost wallet link")
		}
		if link.New != replacement {
			return dErrors.Newf(dErrors.CodeConflict, "wallet %s was recovered to %s", lost, link.New)
		}
		if err := tx.ClearLost(ctx, lost); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear lost wallet link")
		}
		if link.CreatedRecord {
			if err := tx.Delete(ctx, replacement); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove new wallet record")
			}
		}
		rec := models.IdentityRecord{Wallet: lost, Identity: link.Identity, Country: link.Country}
		if err := tx.Save(ctx, rec); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to restore lost wallet record")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncrementMutation("revert_recovery")
	s.emit(ctx, audit.EventRecoveryReverted, lost, replacement.String(), "")
	return nil
}

func (s *Service) requireNotLost(ctx context.Context, st store.Store, wallet domain.Address) error {
	lost, err := st.IsLost(ctx, wallet)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check lost wallet")
	}
	if lost {
		return dErrors.Newf(dErrors.CodeWalletAlreadyMarkedAsLost, "wallet %s already marked as lost", wallet)
	}
	return nil
}

// IsLost reports whether wallet was superseded during recovery.
func (s *Service) IsLost(ctx context.Context, wallet domain.Address) (bool, error) {
	lost, err := s.store.IsLost(ctx, wallet)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check lost wallet")
	}
	return lost, nil
}

// RecoveredWallet returns the wallet that replaced lost.
func (s *Service) RecoveredWallet(ctx context.Context, lost domain.Address) (domain.Address, error) {
	link, err := s.store.LostWalletLink(ctx, lost)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.ZeroAddress, dErrors.Newf(dErrors.CodeNotFound, "wallet %s is not marked lost", lost)
		}
		return domain.ZeroAddress, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load lost wallet link")
	}
	return link.New, nil
}
