// Package onchainid implements claim-holding identities and claim issuers
// that live in-process. They back the identity registry's directory in
// single-node deployments and in tests.
package onchainid

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/platform/sentinel"
)

// Identity stores claims keyed by ComputeClaimID(issuer, topic). An issuer
// holds at most one claim per topic on a given identity.
type Identity struct {
	mu     sync.RWMutex
	ref    domain.Address
	claims map[domain.ClaimID]models.Claim
}

func NewIdentity(ref domain.Address) *Identity {
	return &Identity{ref: ref, claims: make(map[domain.ClaimID]models.Claim)}
}

func (i *Identity) Ref() domain.Address {
	return i.ref
}

// AddClaim stores claim, replacing any previous claim by the same issuer for
// the same topic.
func (i *Identity) AddClaim(_ context.Context, claim models.Claim) (domain.ClaimID, error) {
	if claim.Issuer.IsZero() {
		return domain.ClaimID{}, dErrors.New(dErrors.CodeZeroAddress, "claim issuer is required")
	}
	id := domain.ComputeClaimID(claim.Issuer, claim.Topic)
	claim.Signature = bytes.Clone(claim.Signature)
	claim.Data = bytes.Clone(claim.Data)
	i.mu.Lock()
	defer i.mu.Unlock()
	i.claims[id] = claim
	return id, nil
}

func (i *Identity) RemoveClaim(_ context.Context, id domain.ClaimID) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.claims[id]; !ok {
		return fmt.Errorf("claim %s: %w", id, sentinel.ErrNotFound)
	}
	delete(i.claims, id)
	return nil
}

func (i *Identity) GetClaim(_ context.Context, id domain.ClaimID) (models.Claim, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	claim, ok := i.claims[id]
	if !ok {
		return models.Claim{}, fmt.Errorf("claim %s: %w", id, sentinel.ErrNotFound)
	}
	return claim, nil
}
