// Package store persists compliance module chains. Each backend implements
// compliance.ChainStore and saves a chain as a whole, replacing the previous
// one for the same compliance instance.
package store

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"tokenguard/internal/compliance"
	"tokenguard/pkg/domain"
)

// InMemory keeps chains for the lifetime of the process.
type InMemory struct {
	mu     sync.RWMutex
	chains map[domain.Address][]compliance.ModuleEntry
}

func NewInMemory() *InMemory {
	return &InMemory{chains: make(map[domain.Address][]compliance.ModuleEntry)}
}

func (s *InMemory) LoadChain(_ context.Context, c domain.Address) ([]compliance.ModuleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.chains[c]), nil
}

func (s *InMemory) SaveChain(_ context.Context, c domain.Address, entries []compliance.ModuleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chains[c] = cloneEntries(entries)
	return nil
}

func cloneEntries(entries []compliance.ModuleEntry) []compliance.ModuleEntry {
	out := slices.Clone(entries)
	for i := range out {
		out[i].Params = bytes.Clone(out[i].Params)
	}
	return out
}
