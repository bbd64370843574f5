package onchainid

import (
	"context"
	"fmt"
	"sync"

	"tokenguard/internal/identity/ports"
	"tokenguard/pkg/domain"
	"tokenguard/pkg/platform/sentinel"
)

// Directory resolves references to the in-process identities and issuers
// published in it.
type Directory struct {
	mu         sync.RWMutex
	identities map[domain.Address]*Identity
	issuers    map[domain.Address]*Issuer
}

func NewDirectory() *Directory {
	return &Directory{
		identities: make(map[domain.Address]*Identity),
		issuers:    make(map[domain.Address]*Issuer),
	}
}

func (d *Directory) PublishIdentity(identity *Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.identities[identity.Ref()] = identity
}

func (d *Directory) PublishIssuer(issuer *Issuer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.issuers[issuer.Ref()] = issuer
}

// EnsureIdentity returns the identity published under ref, publishing an
// empty one first if there is none.
func (d *Directory) EnsureIdentity(ref domain.Address) *Identity {
	d.mu.Lock()
	defer d.mu.Unlock()
	identity, ok := d.identities[ref]
	if !ok {
		identity = NewIdentity(ref)
		d.identities[ref] = identity
	}
	return identity
}

// RemoveIssuer unpublishes the issuer under ref.
func (d *Directory) RemoveIssuer(ref domain.Address) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.issuers, ref)
}

// Issuer returns the concrete issuer for ref.
func (d *Directory) Issuer(ref domain.Address) (*Issuer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	issuer, ok := d.issuers[ref]
	if !ok {
		return nil, fmt.Errorf("issuer %s: %w", ref, sentinel.ErrNotFound)
	}
	return issuer, nil
}

// Identity returns the concrete identity for ref.
func (d *Directory) Identity(ref domain.Address) (*Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	identity, ok := d.identities[ref]
	if !ok {
		return nil, fmt.Errorf("identity %s: %w", ref, sentinel.ErrNotFound)
	}
	return identity, nil
}

func (d *Directory) ClaimHolder(_ context.Context, ref domain.Address) (ports.ClaimHolder, error) {
	identity, err := d.Identity(ref)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

func (d *Directory) ClaimIssuer(_ context.Context, ref domain.Address) (ports.ClaimIssuer, error) {
	issuer, err := d.Issuer(ref)
	if err != nil {
		return nil, err
	}
	return issuer, nil
}
