// Package models holds the identity registry's records and claim shapes.
package models

import (
	"tokenguard/pkg/domain"
)

// IdentityRecord binds a wallet to the identity contract that holds its
// claims, plus the wallet's country of record.
type IdentityRecord struct {
	Wallet   domain.Address     `json:"wallet"`
	Identity domain.Address     `json:"identity"`
	Country  domain.CountryCode `json:"country"`
}

// Claim is an issuer's attestation stored on an identity.
type Claim struct {
	Topic     domain.ClaimTopic `json:"topic"`
	Scheme    uint64            `json:"scheme"`
	Issuer    domain.Address    `json:"issuer"`
	Signature []byte            `json:"signature"`
	Data      []byte            `json:"data"`
	URI       string            `json:"uri"`
}

// LostWalletLink records that Lost was superseded by New during recovery.
// Identity and Country are the lost wallet's registration; CreatedRecord is
// set when recovery registered New rather than reusing its record. A link is
// only removed when the recovery that wrote it is reverted.
type LostWalletLink struct {
	Lost          domain.Address     `json:"lost_wallet"`
	New           domain.Address     `json:"new_wallet"`
	Identity      domain.Address     `json:"identity"`
	Country       domain.CountryCode `json:"country"`
	CreatedRecord bool               `json:"created_record"`
}

// Registration is one element of a batch registration.
type Registration struct {
	Wallet   domain.Address
	Identity domain.Address
	Country  domain.CountryCode
}

// TrustedIssuer is a catalogue entry: the issuer and the topics it may attest.
type TrustedIssuer struct {
	Issuer domain.Address      `json:"issuer"`
	Topics []domain.ClaimTopic `json:"topics"`
}
