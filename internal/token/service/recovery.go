package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"tokenguard/internal/token/ledger"
	"tokenguard/internal/token/ports"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	audit "tokenguard/pkg/platform/audit"
)

// RecoverWallet moves the whole balance of lost to replacement and rebinds
// the identity to replacement.
//
// The balance moves as a forced transfer, so modules see a Transferred
// notification. The identity registry is updated last; if it refuses, the
// balance move and module state are rolled back. The registry commits on its
// own, so when the ledger commit fails after it, the identity change is
// reverted through RevertRecovery.
func (s *Service) RecoverWallet(ctx context.Context, lost, replacement, identity domain.Address) error {
	if lost.IsZero() || replacement.IsZero() || identity.IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "lost wallet, new wallet and identity are required")
	}
	var registry ports.IdentityRegistry
	err := s.execute(ctx, "recover_wallet", func(ctx context.Context, u *unit) error {
		balance, err := u.tx.BalanceOf(ctx, lost)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load balance")
		}
		if !balance.IsPositive() {
			return dErrors.Newf(dErrors.CodeNoTokensToRecover, "wallet %s holds no tokens", lost)
		}
		if err := u.move(ctx, lost, replacement, balance, true); err != nil {
			return err
		}
		if err := u.identities.RecoverIdentity(ctx, lost, replacement, identity); err != nil {
			return err
		}
		registry = u.identities
		u.events = append(u.events, audit.Event{
			Action:       string(audit.EventWalletRecovered),
			Subject:      lost.String(),
			Counterparty: replacement.String(),
			Amount:       balance.String(),
			Detail:       identity.String(),
		})
		return nil
	})
	if err != nil && registry != nil {
		s.compensateRecovery(ctx, registry, lost, replacement)
	}
	return err
}

func (s *Service) compensateRecovery(ctx context.Context, registry ports.IdentityRegistry, lost, replacement domain.Address) {
	ctx = context.WithoutCancel(ctx)
	if err := registry.RevertRecovery(ctx, lost, replacement); err != nil {
		s.logger.ErrorContext(ctx, "identity recovery left in place after ledger failure",
			"lost", lost.String(), "replacement", replacement.String(), "error", err)
		return
	}
	s.logger.WarnContext(ctx, "identity recovery reverted after ledger failure",
		"lost", lost.String(), "replacement", replacement.String())
}

// RecoverForeignAsset pays out amount of another asset held by the ledger.
func (s *Service) RecoverForeignAsset(ctx context.Context, asset, to domain.Address, amount decimal.Decimal) error {
	if asset.IsZero() || to.IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "asset and recipient are required")
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}
	if s.foreign == nil {
		return dErrors.New(dErrors.CodeInvalidRequest, "foreign asset recovery is not configured")
	}
	if asset == s.Settings().Self {
		return dErrors.New(dErrors.CodeCannotRecoverOwnAsset, "cannot recover the ledger's own asset")
	}
	return s.execute(ctx, "recover_asset", func(ctx context.Context, u *unit) error {
		held, err := s.foreign.BalanceOf(ctx, asset)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load foreign balance")
		}
		if held.LessThan(amount) {
			return dErrors.Newf(dErrors.CodeInsufficientBalance, "ledger holds %s of %s", held, asset)
		}
		if err := s.foreign.Withdraw(ctx, asset, to, amount); err != nil {
			if errors.Is(err, ledger.ErrInsufficientBalance) {
				return dErrors.Wrap(err, dErrors.CodeInsufficientBalance, "insufficient foreign balance")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to withdraw foreign asset")
		}
		u.events = append(u.events, audit.Event{
			Action:       string(audit.EventAssetRecovered),
			Subject:      asset.String(),
			Counterparty: to.String(),
			Amount:       amount.String(),
		})
		return nil
	})
}
