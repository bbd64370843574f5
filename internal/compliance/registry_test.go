package compliance

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	audit "tokenguard/pkg/platform/audit"
)

// recordingModule counts hook calls and can be told to veto or fail.
type recordingModule struct {
	name        string
	veto        bool
	failPost    bool
	created     int
	transferred int
	destroyed   int
	lastParams  []byte
	bound       []Binding
	failBind    bool
}

func (m *recordingModule) Name() string { return m.name }

func (m *recordingModule) ValidateParameters(params []byte) error {
	if string(params) == "invalid" {
		return errors.New("invalid parameters")
	}
	return nil
}

func (m *recordingModule) CanTransfer(_ context.Context, b Binding, _ Transfer) (bool, error) {
	m.lastParams = b.Params
	return !m.veto, nil
}

func (m *recordingModule) Created(context.Context, Binding, domain.Address, decimal.Decimal) error {
	if m.failPost {
		return errors.New("created hook failed")
	}
	m.created++
	return nil
}

func (m *recordingModule) Transferred(context.Context, Binding, Transfer) error {
	if m.failPost {
		return errors.New("transferred hook failed")
	}
	m.transferred++
	return nil
}

func (m *recordingModule) Destroyed(context.Context, Binding, domain.Address, decimal.Decimal) error {
	m.destroyed++
	return nil
}

func (m *recordingModule) Checkpoint(domain.Address) func() {
	c, t, d := m.created, m.transferred, m.destroyed
	return func() { m.created, m.transferred, m.destroyed = c, t, d }
}

func (m *recordingModule) Bound(_ context.Context, b Binding) error {
	if m.failBind {
		return errors.New("holdings unavailable")
	}
	m.bound = append(m.bound, b)
	return nil
}

type RegistrySuite struct {
	suite.Suite
	ctx      context.Context
	catalog  *Catalog
	registry *Registry
	refA     domain.Address
	refB     domain.Address
	refC     domain.Address
	modA     *recordingModule
	modB     *recordingModule
	modC     *recordingModule
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.ctx = context.Background()
	s.catalog = NewCatalog()
	s.refA = domain.BytesToAddress([]byte{0x0a})
	s.refB = domain.BytesToAddress([]byte{0x0b})
	s.refC = domain.BytesToAddress([]byte{0x0c})
	s.modA = &recordingModule{name: "a"}
	s.modB = &recordingModule{name: "b"}
	s.modC = &recordingModule{name: "c"}
	s.Require().NoError(s.catalog.Register(s.refA, s.modA))
	s.Require().NoError(s.catalog.Register(s.refB, s.modB))
	s.Require().NoError(s.catalog.Register(s.refC, s.modC))
	s.registry = NewRegistry(domain.BytesToAddress([]byte{0xcc}), s.catalog)
}

func (s *RegistrySuite) refs() []domain.Address {
	var out []domain.Address
	for _, e := range s.registry.ListModules() {
		out = append(out, e.Ref)
	}
	return out
}

func (s *RegistrySuite) TestAddModule() {
	s.Run("binds module with parameters", func() {
		s.Require().NoError(s.registry.AddModule(s.ctx, s.refA, []byte(`{"x":1}`)))
		s.True(s.registry.IsModuleBound(s.refA))
		params, err := s.registry.ModuleParameters(s.refA)
		s.Require().NoError(err)
		s.Equal(`{"x":1}`, string(params))
	})

	s.Run("second add fails and list length stays one", func() {
		err := s.registry.AddModule(s.ctx, s.refA, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeModuleAlreadyAdded))
		s.Len(s.registry.ListModules(), 1)
	})

	s.Run("rejects parameters the module refuses", func() {
		err := s.registry.AddModule(s.ctx, s.refB, []byte("invalid"))
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidModule))
		s.False(s.registry.IsModuleBound(s.refB))
	})

	s.Run("rejects unpublished module", func() {
		err := s.registry.AddModule(s.ctx, domain.BytesToAddress([]byte{0xee}), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidModule))
	})

	s.Run("rejects zero reference", func() {
		err := s.registry.AddModule(s.ctx, domain.ZeroAddress, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeZeroAddress))
	})
}

func (s *RegistrySuite) TestAddModulesIsAllOrNothing() {
	s.Require().NoError(s.registry.AddModule(s.ctx, s.refA, nil))

	err := s.registry.AddModules(s.ctx, []ModuleEntry{{Ref: s.refB}, {Ref: s.refA}})
	s.True(dErrors.HasCode(err, dErrors.CodeModuleAlreadyAdded))
	s.Equal([]domain.Address{s.refA}, s.refs())

	err = s.registry.AddModules(s.ctx, []ModuleEntry{{Ref: s.refB}, {Ref: s.refC, Params: []byte("invalid")}})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidModule))
	s.Equal([]domain.Address{s.refA}, s.refs())

	s.Require().NoError(s.registry.AddModules(s.ctx, []ModuleEntry{{Ref: s.refB}, {Ref: s.refC}}))
	s.Equal([]domain.Address{s.refA, s.refB, s.refC}, s.refs())
}

func (s *RegistrySuite) TestRemoveModule() {
	s.Require().NoError(s.registry.AddModules(s.ctx, []ModuleEntry{{Ref: s.refA}, {Ref: s.refB}, {Ref: s.refC}}))

	s.Run("swaps last entry into removed slot", func() {
		s.Require().NoError(s.registry.RemoveModule(s.ctx, s.refA))
		s.Equal([]domain.Address{s.refC, s.refB}, s.refs())
		s.False(s.registry.IsModuleBound(s.refA))
		_, err := s.registry.ModuleParameters(s.refA)
		s.True(dErrors.HasCode(err, dErrors.CodeModuleNotFound))
	})

	s.Run("moved entry stays removable", func() {
		s.Require().NoError(s.registry.RemoveModule(s.ctx, s.refC))
		s.Equal([]domain.Address{s.refB}, s.refs())
	})

	s.Run("absent module", func() {
		err := s.registry.RemoveModule(s.ctx, s.refA)
		s.True(dErrors.HasCode(err, dErrors.CodeModuleNotFound))
	})

	s.Run("add then remove returns membership to absent", func() {
		s.Require().NoError(s.registry.AddModule(s.ctx, s.refA, nil))
		s.Require().NoError(s.registry.RemoveModule(s.ctx, s.refA))
		s.False(s.registry.IsModuleBound(s.refA))
		s.Require().NoError(s.registry.AddModule(s.ctx, s.refA, nil))
		s.True(s.registry.IsModuleBound(s.refA))
	})
}

func (s *RegistrySuite) TestSetModuleParameters() {
	err := s.registry.SetModuleParameters(s.ctx, s.refA, []byte("{}"))
	s.True(dErrors.HasCode(err, dErrors.CodeModuleNotFound))

	s.Require().NoError(s.registry.AddModule(s.ctx, s.refA, []byte("v1")))
	err = s.registry.SetModuleParameters(s.ctx, s.refA, []byte("invalid"))
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidModule))

	s.Require().NoError(s.registry.SetModuleParameters(s.ctx, s.refA, []byte("v2")))
	ok, err := s.registry.CanTransfer(s.ctx, s.refB, s.refC, decimal.NewFromInt(1))
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("v2", string(s.modA.lastParams))
}

func (s *RegistrySuite) TestHooks() {
	s.Require().NoError(s.registry.AddModules(s.ctx, []ModuleEntry{{Ref: s.refA}, {Ref: s.refB}}))
	wallet := domain.BytesToAddress([]byte{0x01})
	amount := decimal.NewFromInt(1000)

	s.Run("veto from any module rejects", func() {
		s.modB.veto = true
		defer func() { s.modB.veto = false }()
		ok, err := s.registry.CanTransfer(s.ctx, domain.ZeroAddress, wallet, amount)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("post-effect reaches every module", func() {
		s.Require().NoError(s.registry.Created(s.ctx, wallet, amount))
		s.Equal(1, s.modA.created)
		s.Equal(1, s.modB.created)
	})

	s.Run("post-effect failure is returned and checkpoint restores counters", func() {
		_, restore := s.registry.Checkpoint(s.ctx)
		s.modB.failPost = true
		err := s.registry.Transferred(s.ctx, wallet, s.refC, amount)
		s.Require().Error(err)
		s.Equal(1, s.modA.transferred)
		restore()
		s.Equal(0, s.modA.transferred)
		s.Equal(1, s.modA.created)
		s.modB.failPost = false
	})
}

func (s *RegistrySuite) TestModuleLimit() {
	for i := 0; i < MaxModules; i++ {
		ref := domain.BytesToAddress([]byte{0x10, byte(i)})
		s.Require().NoError(s.catalog.Register(ref, &recordingModule{name: "bulk"}))
		s.Require().NoError(s.registry.AddModule(s.ctx, ref, nil))
	}
	err := s.registry.AddModule(s.ctx, s.refA, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeLimitExceeded))
}

type recordingAuditor struct {
	events []audit.Event
	fail   bool
}

func (a *recordingAuditor) Emit(_ context.Context, e audit.Event) error {
	if a.fail {
		return errors.New("outbox unavailable")
	}
	a.events = append(a.events, e)
	return nil
}

func (s *RegistrySuite) TestChainChangesAreAudited() {
	auditor := &recordingAuditor{}
	r := NewRegistry(domain.BytesToAddress([]byte{0xcc}), s.catalog, WithAuditPublisher(auditor))

	s.Require().NoError(r.AddModule(s.ctx, s.refA, nil))
	s.Require().NoError(r.SetModuleParameters(s.ctx, s.refA, []byte(`{"x":2}`)))
	s.Require().NoError(r.AddModules(s.ctx, []ModuleEntry{{Ref: s.refB}, {Ref: s.refC}}))
	s.Require().NoError(r.RemoveModule(s.ctx, s.refA))

	s.Require().Len(auditor.events, 4)
	s.Equal(string(audit.EventModuleAdded), auditor.events[0].Action)
	s.Equal(s.refA.String(), auditor.events[0].Subject)
	s.Equal(`{"x":2}`, auditor.events[1].Detail)
	s.Equal(s.refB.String()+","+s.refC.String(), auditor.events[2].Detail)
	s.Equal(string(audit.EventModuleRemoved), auditor.events[3].Action)

	s.Run("unrecorded changes are not applied", func() {
		auditor.fail = true
		err := r.RemoveModule(s.ctx, s.refB)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.True(r.IsModuleBound(s.refB))

		err = r.AddModule(s.ctx, s.refA, nil)
		s.Require().Error(err)
		s.False(r.IsModuleBound(s.refA))
	})
}

func (s *RegistrySuite) TestCheckpointPinsModuleList() {
	wallet := domain.BytesToAddress([]byte{0x01})
	amount := decimal.NewFromInt(5)
	s.Require().NoError(s.registry.AddModule(s.ctx, s.refA, nil))

	pinned, restore := s.registry.Checkpoint(s.ctx)
	s.Require().NoError(s.registry.AddModule(s.ctx, s.refB, nil))

	s.Run("module bound after the checkpoint is not notified through the pinned context", func() {
		s.Require().NoError(s.registry.Created(pinned, wallet, amount))
		s.Equal(1, s.modA.created)
		s.Equal(0, s.modB.created)
	})

	s.Run("module removed after the checkpoint still sees the pinned operation", func() {
		s.Require().NoError(s.registry.RemoveModule(s.ctx, s.refA))
		ok, err := s.registry.CanTransfer(pinned, wallet, s.refC, amount)
		s.Require().NoError(err)
		s.True(ok)
		s.Require().NoError(s.registry.Transferred(pinned, wallet, s.refC, amount))
		s.Equal(1, s.modA.transferred)
	})

	s.Run("restore covers exactly the pinned modules", func() {
		restore()
		s.Equal(0, s.modA.created)
		s.Equal(0, s.modA.transferred)
	})

	s.Run("unpinned context follows the live list", func() {
		s.Require().NoError(s.registry.Created(s.ctx, wallet, amount))
		s.Equal(0, s.modA.created)
		s.Equal(1, s.modB.created)
	})
}

// mapChainStore keeps saved chains in memory and can be told to fail.
type mapChainStore struct {
	chains map[domain.Address][]ModuleEntry
	fail   bool
}

func (m *mapChainStore) LoadChain(_ context.Context, c domain.Address) ([]ModuleEntry, error) {
	return m.chains[c], nil
}

func (m *mapChainStore) SaveChain(_ context.Context, c domain.Address, entries []ModuleEntry) error {
	if m.fail {
		return errors.New("database unavailable")
	}
	m.chains[c] = entries
	return nil
}

func (s *RegistrySuite) TestChainStore() {
	self := domain.BytesToAddress([]byte{0xcc})
	store := &mapChainStore{chains: make(map[domain.Address][]ModuleEntry)}
	r := NewRegistry(self, s.catalog, WithChainStore(store))

	s.Require().NoError(r.AddModules(s.ctx, []ModuleEntry{{Ref: s.refA, Params: []byte("a")}, {Ref: s.refB}, {Ref: s.refC}}))
	s.Require().NoError(r.RemoveModule(s.ctx, s.refA))
	s.Require().NoError(r.SetModuleParameters(s.ctx, s.refB, []byte("b2")))
	s.Equal(r.ListModules(), store.chains[self])
	s.Equal([]ModuleEntry{{Ref: s.refC, Params: nil}, {Ref: s.refB, Params: []byte("b2")}}, store.chains[self])

	s.Run("restore rebinds the saved chain in order", func() {
		restored := NewRegistry(self, s.catalog, WithChainStore(store))
		s.Require().NoError(restored.Restore(s.ctx))
		s.Equal(r.ListModules(), restored.ListModules())
		s.True(dErrors.HasCode(restored.Restore(s.ctx), dErrors.CodeInvariantViolation))
	})

	s.Run("binders are initialised on add and on restore", func() {
		s.Require().Len(s.modB.bound, 2)
		s.Equal(self, s.modB.bound[1].Compliance)
	})

	s.Run("unpersisted changes are not applied", func() {
		store.fail = true
		defer func() { store.fail = false }()
		err := r.AddModule(s.ctx, s.refA, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.False(r.IsModuleBound(s.refA))
	})

	s.Run("failed audit keeps the previously persisted chain", func() {
		auditor := &recordingAuditor{fail: true}
		audited := NewRegistry(self, s.catalog, WithChainStore(store), WithAuditPublisher(auditor))
		s.Require().NoError(audited.Restore(s.ctx))
		s.Require().Error(audited.RemoveModule(s.ctx, s.refC))
		s.Equal(r.ListModules(), store.chains[self])
	})

	s.Run("binder failure aborts the binding", func() {
		s.modA.failBind = true
		defer func() { s.modA.failBind = false }()
		s.True(dErrors.HasCode(r.AddModule(s.ctx, s.refA, nil), dErrors.CodeInternal))
		s.False(r.IsModuleBound(s.refA))
	})

	s.Run("restore rejects modules the authority no longer publishes", func() {
		unknown := domain.BytesToAddress([]byte{0xee})
		store.chains[unknown] = []ModuleEntry{{Ref: domain.BytesToAddress([]byte{0xef})}}
		err := NewRegistry(unknown, s.catalog, WithChainStore(store)).Restore(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidModule))
	})
}
