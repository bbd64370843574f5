package onchainid

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"

	"golang.org/x/crypto/sha3"

	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
)

// Issuer signs claims with an ed25519 key and can revoke them later. An
// issuer built from a public key alone verifies and revokes but cannot sign.
type Issuer struct {
	mu      sync.RWMutex
	ref     domain.Address
	key     ed25519.PrivateKey
	pub     ed25519.PublicKey
	revoked map[string]struct{}
}

// NewIssuer creates an issuer with a fresh key.
func NewIssuer(ref domain.Address) (*Issuer, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate issuer key: %w", err)
	}
	return NewIssuerWithKey(ref, key), nil
}

func NewIssuerWithKey(ref domain.Address, key ed25519.PrivateKey) *Issuer {
	return &Issuer{
		ref:     ref,
		key:     key,
		pub:     key.Public().(ed25519.PublicKey),
		revoked: make(map[string]struct{}),
	}
}

// NewVerifier tracks an issuer whose signing key is held elsewhere.
func NewVerifier(ref domain.Address, pub ed25519.PublicKey) (*Issuer, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, dErrors.Newf(dErrors.CodeValidation, "issuer public key must be %d bytes", ed25519.PublicKeySize)
	}
	return &Issuer{ref: ref, pub: bytes.Clone(pub), revoked: make(map[string]struct{})}, nil
}

func (i *Issuer) Ref() domain.Address {
	return i.ref
}

func (i *Issuer) PublicKey() ed25519.PublicKey {
	return i.pub
}

// claimDigest is keccak256(identity || uint256(topic) || data).
func claimDigest(identity domain.Address, topic domain.ClaimTopic, data []byte) []byte {
	var topicWord [32]byte
	binary.BigEndian.PutUint64(topicWord[24:], uint64(topic))
	h := sha3.NewLegacyKeccak256()
	h.Write(identity[:])
	h.Write(topicWord[:])
	h.Write(data)
	return h.Sum(nil)
}

// Sign produces the signature an identity stores alongside a claim. It
// returns nil for a verify-only issuer.
func (i *Issuer) Sign(identity domain.Address, topic domain.ClaimTopic, data []byte) []byte {
	if i.key == nil {
		return nil
	}
	return ed25519.Sign(i.key, claimDigest(identity, topic, data))
}

// Issue signs a claim for holder and stores it there.
func (i *Issuer) Issue(ctx context.Context, holder *Identity, topic domain.ClaimTopic, data []byte, uri string) (domain.ClaimID, error) {
	if i.key == nil {
		return domain.ClaimID{}, dErrors.Newf(dErrors.CodeInvalidRequest, "issuer %s has no signing key", i.ref)
	}
	claim := models.Claim{
		Topic:     topic,
		Scheme:    1,
		Issuer:    i.ref,
		Signature: i.Sign(holder.Ref(), topic, data),
		Data:      data,
		URI:       uri,
	}
	return holder.AddClaim(ctx, claim)
}

// Revoke invalidates every claim carrying signature.
func (i *Issuer) Revoke(signature []byte) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.revoked[string(signature)] = struct{}{}
}

func (i *Issuer) IsRevoked(signature []byte) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.revoked[string(signature)]
	return ok
}

// IsClaimValid reports whether signature is this issuer's unrevoked
// signature over (identity, topic, data).
func (i *Issuer) IsClaimValid(_ context.Context, identity domain.Address, topic domain.ClaimTopic, signature, data []byte) (bool, error) {
	if i.IsRevoked(signature) {
		return false, nil
	}
	return ed25519.Verify(i.pub, claimDigest(identity, topic, data), signature), nil
}
