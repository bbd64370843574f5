package models

import (
	"slices"

	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
)

// MaxDecimals is the largest number of decimals a ledger may declare.
const MaxDecimals = 18

// Settings is the per-ledger configuration. It is owned by the dispatcher
// and changed only through its setters.
type Settings struct {
	Name                string              `json:"name"`
	Symbol              string              `json:"symbol"`
	Decimals            uint8               `json:"decimals"`
	Self                domain.Address      `json:"self"`
	OnchainID           domain.Address      `json:"onchain_id"`
	IdentityRegistry    domain.Address      `json:"identity_registry"`
	Compliance          domain.Address      `json:"compliance"`
	RequiredClaimTopics []domain.ClaimTopic `json:"required_claim_topics"`
}

// Validate checks the fields a ledger cannot run without.
func (s Settings) Validate() error {
	if s.Name == "" || s.Symbol == "" {
		return dErrors.New(dErrors.CodeValidation, "name and symbol are required")
	}
	if s.Decimals > MaxDecimals {
		return dErrors.Newf(dErrors.CodeValidation, "decimals must be at most %d", MaxDecimals)
	}
	if s.Self.IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "ledger reference is required")
	}
	return nil
}

// Clone returns a copy that shares no slices with s.
func (s Settings) Clone() Settings {
	s.RequiredClaimTopics = slices.Clone(s.RequiredClaimTopics)
	return s
}

// OpKind classifies a balance change by its endpoints.
type OpKind string

const (
	OpMint     OpKind = "mint"
	OpBurn     OpKind = "burn"
	OpTransfer OpKind = "transfer"
	OpForced   OpKind = "forced_transfer"
)

// Classify returns the kind of a change from from to to. Both endpoints
// absent is not a balance change.
func Classify(from, to domain.Address) (OpKind, error) {
	switch {
	case from.IsZero() && to.IsZero():
		return "", dErrors.New(dErrors.CodeZeroAddress, "sender or recipient is required")
	case from.IsZero():
		return OpMint, nil
	case to.IsZero():
		return OpBurn, nil
	default:
		return OpTransfer, nil
	}
}
