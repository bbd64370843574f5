package service

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"tokenguard/internal/token/ledger"
	"tokenguard/internal/token/models"
	"tokenguard/internal/token/ports"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	audit "tokenguard/pkg/platform/audit"
)

// unit is the state of one dispatcher operation. Collaborators are
// snapshotted when the operation starts.
type unit struct {
	tx         ledger.Ledger
	settings   models.Settings
	identities ports.IdentityRegistry
	compliance ports.Compliance
	events     []audit.Event
	// inHook is set while an identity or compliance hook runs.
	inHook *atomic.Bool
}

func (u *unit) hook(fn func() error) error {
	u.inHook.Store(true)
	defer u.inHook.Store(false)
	return fn()
}

// move performs one balance change with its checks and notifications.
// forced skips verification and the compliance pre-check; the post-effect
// notification always runs.
func (u *unit) move(ctx context.Context, from, to domain.Address, amount decimal.Decimal, forced bool) error {
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}
	kind, err := models.Classify(from, to)
	if err != nil {
		return err
	}
	if forced {
		if kind != models.OpTransfer {
			return dErrors.New(dErrors.CodeZeroAddress, "forced transfer needs both sender and recipient")
		}
		kind = models.OpForced
	}

	if kind == models.OpMint || kind == models.OpTransfer {
		if err := u.precheck(ctx, kind, from, to, amount); err != nil {
			return err
		}
	}

	switch kind {
	case models.OpMint:
		err = u.tx.Mint(ctx, to, amount)
	case models.OpBurn:
		err = u.tx.Burn(ctx, from, amount)
	default:
		err = u.tx.Transfer(ctx, from, to, amount)
	}
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return dErrors.Wrap(err, dErrors.CodeInsufficientBalance, "insufficient balance")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update ledger")
	}

	err = u.hook(func() error {
		switch kind {
		case models.OpMint:
			return u.compliance.Created(ctx, to, amount)
		case models.OpBurn:
			return u.compliance.Destroyed(ctx, from, amount)
		default:
			return u.compliance.Transferred(ctx, from, to, amount)
		}
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "compliance notification failed")
	}

	u.record(kind, from, to, amount)
	return nil
}

func (u *unit) precheck(ctx context.Context, kind models.OpKind, from, to domain.Address, amount decimal.Decimal) error {
	var verified, ok bool
	err := u.hook(func() (err error) {
		verified, err = u.identities.IsVerified(ctx, to, u.settings.RequiredClaimTopics)
		return err
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify recipient")
	}
	if !verified {
		return dErrors.Newf(dErrors.CodeRecipientNotVerified, "recipient %s is not verified", to)
	}
	err = u.hook(func() (err error) {
		ok, err = u.compliance.CanTransfer(ctx, from, to, amount)
		return err
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "compliance check failed")
	}
	if !ok {
		if kind == models.OpMint {
			return dErrors.Newf(dErrors.CodeMintNotCompliant, "mint of %s to %s is not compliant", amount, to)
		}
		return dErrors.Newf(dErrors.CodeTransferNotCompliant, "transfer of %s from %s to %s is not compliant", amount, from, to)
	}
	return nil
}

func (u *unit) record(kind models.OpKind, from, to domain.Address, amount decimal.Decimal) {
	e := audit.Event{Amount: amount.String()}
	switch kind {
	case models.OpMint:
		e.Action, e.Subject = string(audit.EventTokenMinted), to.String()
	case models.OpBurn:
		e.Action, e.Subject = string(audit.EventTokenBurned), from.String()
	case models.OpForced:
		e.Action, e.Subject, e.Counterparty = string(audit.EventTokenForcedTransfer), from.String(), to.String()
	default:
		e.Action, e.Subject, e.Counterparty = string(audit.EventTokenTransferred), from.String(), to.String()
	}
	u.events = append(u.events, e)
}

// Mint creates amount new units for to.
func (s *Service) Mint(ctx context.Context, to domain.Address, amount decimal.Decimal) error {
	if to.IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "recipient is required")
	}
	return s.execute(ctx, "mint", func(ctx context.Context, u *unit) error {
		return u.move(ctx, domain.ZeroAddress, to, amount, false)
	})
}

// Burn destroys amount units held by from.
func (s *Service) Burn(ctx context.Context, from domain.Address, amount decimal.Decimal) error {
	if from.IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "holder is required")
	}
	return s.execute(ctx, "burn", func(ctx context.Context, u *unit) error {
		return u.move(ctx, from, domain.ZeroAddress, amount, false)
	})
}

// Transfer moves amount from from to to. Both endpoints are required; supply
// only changes through Mint and Burn.
func (s *Service) Transfer(ctx context.Context, from, to domain.Address, amount decimal.Decimal) error {
	if from.IsZero() || to.IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "sender and recipient are required")
	}
	return s.execute(ctx, "transfer", func(ctx context.Context, u *unit) error {
		return u.move(ctx, from, to, amount, false)
	})
}

// ForcedTransfer moves amount without verification or the compliance
// pre-check. Modules are still notified.
func (s *Service) ForcedTransfer(ctx context.Context, from, to domain.Address, amount decimal.Decimal) error {
	return s.execute(ctx, "forced_transfer", func(ctx context.Context, u *unit) error {
		return u.move(ctx, from, to, amount, true)
	})
}

func (s *Service) BatchMint(ctx context.Context, tos []domain.Address, amounts []decimal.Decimal) error {
	if len(tos) != len(amounts) {
		return lengthMismatch(len(tos), len(amounts))
	}
	return s.execute(ctx, "batch_mint", func(ctx context.Context, u *unit) error {
		for i, to := range tos {
			if to.IsZero() {
				return dErrors.New(dErrors.CodeZeroAddress, "recipient is required")
			}
			if err := u.move(ctx, domain.ZeroAddress, to, amounts[i], false); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) BatchBurn(ctx context.Context, froms []domain.Address, amounts []decimal.Decimal) error {
	if len(froms) != len(amounts) {
		return lengthMismatch(len(froms), len(amounts))
	}
	return s.execute(ctx, "batch_burn", func(ctx context.Context, u *unit) error {
		for i, from := range froms {
			if from.IsZero() {
				return dErrors.New(dErrors.CodeZeroAddress, "holder is required")
			}
			if err := u.move(ctx, from, domain.ZeroAddress, amounts[i], false); err != nil {
				return err
			}
		}
		return nil
	})
}

// BatchTransfer moves amounts[i] from from to tos[i].
func (s *Service) BatchTransfer(ctx context.Context, from domain.Address, tos []domain.Address, amounts []decimal.Decimal) error {
	if len(tos) != len(amounts) {
		return lengthMismatch(len(tos), len(amounts))
	}
	if from.IsZero() || slices.ContainsFunc(tos, domain.Address.IsZero) {
		return dErrors.New(dErrors.CodeZeroAddress, "sender and recipients are required")
	}
	return s.execute(ctx, "batch_transfer", func(ctx context.Context, u *unit) error {
		for i, to := range tos {
			if err := u.move(ctx, from, to, amounts[i], false); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) BatchForcedTransfer(ctx context.Context, froms, tos []domain.Address, amounts []decimal.Decimal) error {
	if len(froms) != len(tos) || len(froms) != len(amounts) {
		return dErrors.Newf(dErrors.CodeArrayLengthMismatch,
			"senders (%d), recipients (%d) and amounts (%d) must have the same length",
			len(froms), len(tos), len(amounts))
	}
	return s.execute(ctx, "batch_forced_transfer", func(ctx context.Context, u *unit) error {
		for i := range froms {
			if err := u.move(ctx, froms[i], tos[i], amounts[i], true); err != nil {
				return err
			}
		}
		return nil
	})
}

func lengthMismatch(wallets, amounts int) error {
	return dErrors.Newf(dErrors.CodeArrayLengthMismatch,
		"wallets (%d) and amounts (%d) must have the same length", wallets, amounts)
}
