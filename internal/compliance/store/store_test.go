package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"tokenguard/internal/compliance"
	"tokenguard/pkg/domain"
)

// ChainStoreSuite exercises behaviour every backend shares. Backends plug in
// through newStore; reset runs before each test.
type ChainStoreSuite struct {
	suite.Suite
	ctx      context.Context
	newStore func() compliance.ChainStore
	reset    func()
	store    compliance.ChainStore
}

var (
	complianceA = domain.BytesToAddress([]byte{0xcc, 0x01})
	complianceB = domain.BytesToAddress([]byte{0xcc, 0x02})
	moduleX     = domain.BytesToAddress([]byte{0xc1})
	moduleY     = domain.BytesToAddress([]byte{0xc2})
)

func TestInMemoryChainStore(t *testing.T) {
	suite.Run(t, &ChainStoreSuite{newStore: func() compliance.ChainStore { return NewInMemory() }})
}

func (s *ChainStoreSuite) SetupTest() {
	s.ctx = context.Background()
	if s.reset != nil {
		s.reset()
	}
	s.store = s.newStore()
}

func (s *ChainStoreSuite) TestEmptyChain() {
	entries, err := s.store.LoadChain(s.ctx, complianceA)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *ChainStoreSuite) TestSaveReplacesChainInOrder() {
	first := []compliance.ModuleEntry{
		{Ref: moduleX, Params: []byte(`{"limit":"10"}`)},
		{Ref: moduleY, Params: []byte(`{"max":"5"}`)},
	}
	s.Require().NoError(s.store.SaveChain(s.ctx, complianceA, first))
	loaded, err := s.store.LoadChain(s.ctx, complianceA)
	s.Require().NoError(err)
	s.Equal(first, loaded)

	second := []compliance.ModuleEntry{{Ref: moduleY, Params: []byte(`{"max":"7"}`)}}
	s.Require().NoError(s.store.SaveChain(s.ctx, complianceA, second))
	loaded, err = s.store.LoadChain(s.ctx, complianceA)
	s.Require().NoError(err)
	s.Equal(second, loaded)

	s.Require().NoError(s.store.SaveChain(s.ctx, complianceA, nil))
	loaded, err = s.store.LoadChain(s.ctx, complianceA)
	s.Require().NoError(err)
	s.Empty(loaded)
}

func (s *ChainStoreSuite) TestChainsAreKeptPerInstance() {
	s.Require().NoError(s.store.SaveChain(s.ctx, complianceA, []compliance.ModuleEntry{{Ref: moduleX, Params: []byte("a")}}))
	s.Require().NoError(s.store.SaveChain(s.ctx, complianceB, []compliance.ModuleEntry{{Ref: moduleY, Params: []byte("b")}}))

	loaded, err := s.store.LoadChain(s.ctx, complianceA)
	s.Require().NoError(err)
	s.Require().Len(loaded, 1)
	s.Equal(moduleX, loaded[0].Ref)
}
