package store

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
	"tokenguard/pkg/platform/sentinel"
)

// InMemory keeps identity state in maps guarded by one lock.
type InMemory struct {
	mu    sync.RWMutex
	state memoryState
}

type memoryState struct {
	records map[domain.Address]models.IdentityRecord
	lost    map[domain.Address]models.LostWalletLink
}

func NewInMemory() *InMemory {
	return &InMemory{state: memoryState{
		records: make(map[domain.Address]models.IdentityRecord),
		lost:    make(map[domain.Address]models.LostWalletLink),
	}}
}

func (s *InMemory) FindByWallet(ctx context.Context, wallet domain.Address) (models.IdentityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.FindByWallet(ctx, wallet)
}

func (s *InMemory) Save(ctx context.Context, record models.IdentityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Save(ctx, record)
}

func (s *InMemory) Delete(ctx context.Context, wallet domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Delete(ctx, wallet)
}

func (s *InMemory) MarkLost(ctx context.Context, link models.LostWalletLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.MarkLost(ctx, link)
}

func (s *InMemory) ClearLost(ctx context.Context, lost domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ClearLost(ctx, lost)
}

func (s *InMemory) IsLost(ctx context.Context, wallet domain.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsLost(ctx, wallet)
}

func (s *InMemory) LostWalletLink(ctx context.Context, lost domain.Address) (models.LostWalletLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.LostWalletLink(ctx, lost)
}

// RunInTx hands fn a copy of the state and swaps it in only if fn succeeds.
func (s *InMemory) RunInTx(_ context.Context, fn func(Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := &memoryState{
		records: maps.Clone(s.state.records),
		lost:    maps.Clone(s.state.lost),
	}
	if err := fn(view); err != nil {
		return err
	}
	s.state = *view
	return nil
}

// memoryState implements Store without locking; InMemory holds the lock.
func (m *memoryState) FindByWallet(_ context.Context, wallet domain.Address) (models.IdentityRecord, error) {
	record, ok := m.records[wallet]
	if !ok {
		return models.IdentityRecord{}, fmt.Errorf("identity for %s: %w", wallet, sentinel.ErrNotFound)
	}
	return record, nil
}

func (m *memoryState) Save(_ context.Context, record models.IdentityRecord) error {
	m.records[record.Wallet] = record
	return nil
}

func (m *memoryState) Delete(_ context.Context, wallet domain.Address) error {
	if _, ok := m.records[wallet]; !ok {
		return fmt.Errorf("identity for %s: %w", wallet, sentinel.ErrNotFound)
	}
	delete(m.records, wallet)
	return nil
}

func (m *memoryState) MarkLost(_ context.Context, link models.LostWalletLink) error {
	if _, ok := m.lost[link.Lost]; ok {
		return fmt.Errorf("wallet %s already lost: %w", link.Lost, sentinel.ErrConflict)
	}
	m.lost[link.Lost] = link
	return nil
}

func (m *memoryState) ClearLost(_ context.Context, lost domain.Address) error {
	if _, ok := m.lost[lost]; !ok {
		return fmt.Errorf("lost wallet %s: %w", lost, sentinel.ErrNotFound)
	}
	delete(m.lost, lost)
	return nil
}

func (m *memoryState) IsLost(_ context.Context, wallet domain.Address) (bool, error) {
	_, ok := m.lost[wallet]
	return ok, nil
}

func (m *memoryState) LostWalletLink(_ context.Context, lost domain.Address) (models.LostWalletLink, error) {
	link, ok := m.lost[lost]
	if !ok {
		return models.LostWalletLink{}, fmt.Errorf("lost wallet %s: %w", lost, sentinel.ErrNotFound)
	}
	return link, nil
}
