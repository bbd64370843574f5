package compliance

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	audit "tokenguard/pkg/platform/audit"
)

// MaxModules bounds the active list so hook propagation stays bounded.
const MaxModules = 25

// AuditPublisher records changes to the module chain. A failed Emit aborts
// the change.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type boundModule struct {
	ref    domain.Address
	module Module
}

// chain is the ordered module list with its index and parameters.
//
// Invariants:
//   - a reference appears at most once in modules
//   - index[ref] == position+1 for every bound ref; absent refs map to 0
//   - params has an entry exactly for bound refs
type chain struct {
	modules []boundModule
	index   map[domain.Address]int
	params  map[domain.Address][]byte
}

func newChain() chain {
	return chain{
		index:  make(map[domain.Address]int),
		params: make(map[domain.Address][]byte),
	}
}

func (c chain) clone() chain {
	return chain{
		modules: slices.Clone(c.modules),
		index:   maps.Clone(c.index),
		params:  maps.Clone(c.params),
	}
}

func (c *chain) bind(ref domain.Address, m Module, params []byte) {
	c.modules = append(c.modules, boundModule{ref: ref, module: m})
	c.index[ref] = len(c.modules)
	c.params[ref] = bytes.Clone(params)
}

// unbind moves the last entry into ref's slot and truncates.
func (c *chain) unbind(ref domain.Address) {
	pos, last := c.index[ref]-1, len(c.modules)-1
	if pos != last {
		moved := c.modules[last]
		c.modules[pos] = moved
		c.index[moved.ref] = pos + 1
	}
	c.modules = c.modules[:last]
	delete(c.index, ref)
	delete(c.params, ref)
}

func (c chain) entries() []ModuleEntry {
	out := make([]ModuleEntry, len(c.modules))
	for i, b := range c.modules {
		out[i] = ModuleEntry{Ref: b.ref, Params: bytes.Clone(c.params[b.ref])}
	}
	return out
}

// Registry is the ordered, mutable set of modules bound to one ledger.
//
// Every change is built on a copy of the chain, persisted and audited, and
// only then swapped in. Removal swaps the entry with the last one, so list
// order is stable between reads but not semantically significant.
type Registry struct {
	mu        sync.RWMutex
	self      domain.Address
	authority Authority
	chain     chain
	store     ChainStore
	logger    *slog.Logger
	auditor   AuditPublisher
}

type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(r *Registry) {
		r.auditor = p
	}
}

// WithChainStore persists the module list on every change. Restore reloads it.
func WithChainStore(store ChainStore) Option {
	return func(r *Registry) {
		r.store = store
	}
}

// NewRegistry creates an empty registry identified by self. Modules see self
// as Binding.Compliance.
func NewRegistry(self domain.Address, authority Authority, opts ...Option) *Registry {
	r := &Registry{
		self:      self,
		authority: authority,
		chain:     newChain(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ref returns the reference modules see as their compliance instance.
func (r *Registry) Ref() domain.Address {
	return r.self
}

// Restore binds the chain saved in the chain store. It is meant for startup:
// the registry must be empty and no audit events are recorded.
func (r *Registry) Restore(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	entries, err := r.store.LoadChain(ctx, r.self)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load module chain")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.chain.modules) > 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "module chain already populated")
	}
	next := newChain()
	for _, e := range entries {
		valid, err := r.authority.IsValidModule(ctx, e.Ref, e.Params)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate module")
		}
		if !valid {
			return dErrors.Newf(dErrors.CodeInvalidModule, "stored module %s rejected by compliance authority", e.Ref)
		}
		m, err := r.resolve(ctx, e.Ref, e.Params)
		if err != nil {
			return err
		}
		next.bind(e.Ref, m, e.Params)
	}
	r.chain = next
	r.log(ctx, "module_chain_restored", "modules", len(entries))
	return nil
}

// AddModule validates ref and params with the authority and appends the
// module to the active list.
func (r *Registry) AddModule(ctx context.Context, ref domain.Address, params []byte) error {
	if ref.IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "module reference is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	valid, err := r.authority.IsValidModule(ctx, ref, params)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate module")
	}
	if !valid {
		return dErrors.Newf(dErrors.CodeInvalidModule, "module %s rejected by compliance authority", ref)
	}
	if r.chain.index[ref] != 0 {
		return dErrors.Newf(dErrors.CodeModuleAlreadyAdded, "module %s already added", ref)
	}
	if len(r.chain.modules) >= MaxModules {
		return dErrors.Newf(dErrors.CodeLimitExceeded, "cannot bind more than %d modules", MaxModules)
	}
	m, err := r.resolve(ctx, ref, params)
	if err != nil {
		return err
	}
	next := r.chain.clone()
	next.bind(ref, m, params)
	if err := r.apply(ctx, next, audit.EventModuleAdded, ref.String(), m.Name()); err != nil {
		return err
	}
	r.log(ctx, "module_added", "module", ref.String(), "name", m.Name())
	return nil
}

// AddModules binds several modules at once. Nothing is bound unless every
// entry is new, distinct and accepted by the authority.
func (r *Registry) AddModules(ctx context.Context, entries []ModuleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[domain.Address]struct{}, len(entries))
	for _, e := range entries {
		if e.Ref.IsZero() {
			return dErrors.New(dErrors.CodeZeroAddress, "module reference is required")
		}
		if _, dup := seen[e.Ref]; dup || r.chain.index[e.Ref] != 0 {
			return dErrors.Newf(dErrors.CodeModuleAlreadyAdded, "module %s already added", e.Ref)
		}
		seen[e.Ref] = struct{}{}
	}
	if len(r.chain.modules)+len(entries) > MaxModules {
		return dErrors.Newf(dErrors.CodeLimitExceeded, "cannot bind more than %d modules", MaxModules)
	}
	valid, err := r.authority.AreValidModules(ctx, entries)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate modules")
	}
	if !valid {
		return dErrors.New(dErrors.CodeInvalidModule, "modules rejected by compliance authority")
	}
	next := r.chain.clone()
	refs := make([]string, len(entries))
	names := make([]string, len(entries))
	for i, e := range entries {
		m, err := r.resolve(ctx, e.Ref, e.Params)
		if err != nil {
			return err
		}
		next.bind(e.Ref, m, e.Params)
		refs[i], names[i] = e.Ref.String(), m.Name()
	}
	if err := r.apply(ctx, next, audit.EventModuleAdded, r.self.String(), strings.Join(refs, ",")); err != nil {
		return err
	}
	for i := range entries {
		r.log(ctx, "module_added", "module", refs[i], "name", names[i])
	}
	return nil
}

// resolve looks ref up and lets a Binder initialise its state for this
// registry.
func (r *Registry) resolve(ctx context.Context, ref domain.Address, params []byte) (Module, error) {
	m, err := r.authority.Resolve(ctx, ref)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidModule, "failed to resolve module")
	}
	if b, ok := m.(Binder); ok {
		if err := b.Bound(ctx, Binding{Compliance: r.self, Params: params}); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to initialise module "+ref.String())
		}
	}
	return m, nil
}

// RemoveModule unbinds ref by moving the last entry into its slot.
func (r *Registry) RemoveModule(ctx context.Context, ref domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.chain.index[ref]
	if idx == 0 {
		return dErrors.Newf(dErrors.CodeModuleNotFound, "module %s not bound", ref)
	}
	name := r.chain.modules[idx-1].module.Name()
	next := r.chain.clone()
	next.unbind(ref)
	if err := r.apply(ctx, next, audit.EventModuleRemoved, ref.String(), name); err != nil {
		return err
	}
	r.log(ctx, "module_removed", "module", ref.String())
	return nil
}

// SetModuleParameters re-validates and overwrites the parameters of a bound module.
func (r *Registry) SetModuleParameters(ctx context.Context, ref domain.Address, params []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.chain.index[ref] == 0 {
		return dErrors.Newf(dErrors.CodeModuleNotFound, "module %s not bound", ref)
	}
	valid, err := r.authority.IsValidModule(ctx, ref, params)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate module")
	}
	if !valid {
		return dErrors.Newf(dErrors.CodeInvalidModule, "parameters rejected for module %s", ref)
	}
	next := r.chain.clone()
	next.params[ref] = bytes.Clone(params)
	if err := r.apply(ctx, next, audit.EventModuleParametersSet, ref.String(), string(params)); err != nil {
		return err
	}
	r.log(ctx, "module_parameters_set", "module", ref.String())
	return nil
}

// apply persists next, records the change and swaps next in. If the audit
// record fails, the previous chain is persisted again. Callers hold r.mu.
func (r *Registry) apply(ctx context.Context, next chain, event audit.AuditEvent, subject, detail string) error {
	if err := r.persist(ctx, next); err != nil {
		return err
	}
	if err := r.record(ctx, event, subject, detail); err != nil {
		if perr := r.persist(ctx, r.chain); perr != nil && r.logger != nil {
			r.logger.ErrorContext(ctx, "failed to restore persisted module chain",
				"compliance", r.self.String(),
				"error", perr,
			)
		}
		return err
	}
	r.chain = next
	return nil
}

func (r *Registry) persist(ctx context.Context, c chain) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.SaveChain(ctx, r.self, c.entries()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist module chain")
	}
	return nil
}

// ListModules returns the bound modules in list order.
func (r *Registry) ListModules() []ModuleEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.chain.entries()
}

func (r *Registry) IsModuleBound(ref domain.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.chain.index[ref] != 0
}

// ModuleParameters returns the parameters for ref.
func (r *Registry) ModuleParameters(ref domain.Address) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.chain.index[ref] == 0 {
		return nil, dErrors.Newf(dErrors.CodeModuleNotFound, "module %s not bound", ref)
	}
	return bytes.Clone(r.chain.params[ref]), nil
}

type call struct {
	ref     domain.Address
	module  Module
	binding Binding
}

// pinKey carries the module list pinned by Checkpoint for one registry.
type pinKey struct{ r *Registry }

// active copies the list so hooks run without holding the lock.
func (r *Registry) active() []call {
	r.mu.RLock()
	defer r.mu.RUnlock()
	calls := make([]call, len(r.chain.modules))
	for i, b := range r.chain.modules {
		calls[i] = call{
			ref:     b.ref,
			module:  b.module,
			binding: Binding{Compliance: r.self, Params: r.chain.params[b.ref]},
		}
	}
	return calls
}

// calls returns the list pinned in ctx, or the current list.
func (r *Registry) calls(ctx context.Context) []call {
	if pinned, ok := ctx.Value(pinKey{r}).([]call); ok {
		return pinned
	}
	return r.active()
}

// CanTransfer asks every bound module in order. The first veto or module
// error ends the check.
func (r *Registry) CanTransfer(ctx context.Context, from, to domain.Address, amount decimal.Decimal) (bool, error) {
	t := Transfer{From: from, To: to, Amount: amount}
	for _, c := range r.calls(ctx) {
		ok, err := c.module.CanTransfer(ctx, c.binding, t)
		if err != nil {
			return false, fmt.Errorf("module %s (%s) pre-check: %w", c.ref, c.module.Name(), err)
		}
		if !ok {
			if r.logger != nil {
				r.logger.DebugContext(ctx, "compliance module vetoed transfer",
					"module", c.ref.String(),
					"name", c.module.Name(),
					"from", from.String(),
					"to", to.String(),
					"amount", amount.String(),
				)
			}
			return false, nil
		}
	}
	return true, nil
}

// Created notifies every module of a completed mint.
func (r *Registry) Created(ctx context.Context, to domain.Address, amount decimal.Decimal) error {
	for _, c := range r.calls(ctx) {
		if err := c.module.Created(ctx, c.binding, to, amount); err != nil {
			return fmt.Errorf("module %s (%s) created hook: %w", c.ref, c.module.Name(), err)
		}
	}
	return nil
}

// Transferred notifies every module of a completed transfer.
func (r *Registry) Transferred(ctx context.Context, from, to domain.Address, amount decimal.Decimal) error {
	t := Transfer{From: from, To: to, Amount: amount}
	for _, c := range r.calls(ctx) {
		if err := c.module.Transferred(ctx, c.binding, t); err != nil {
			return fmt.Errorf("module %s (%s) transferred hook: %w", c.ref, c.module.Name(), err)
		}
	}
	return nil
}

// Destroyed notifies every module of a completed burn.
func (r *Registry) Destroyed(ctx context.Context, from domain.Address, amount decimal.Decimal) error {
	for _, c := range r.calls(ctx) {
		if err := c.module.Destroyed(ctx, c.binding, from, amount); err != nil {
			return fmt.Errorf("module %s (%s) destroyed hook: %w", c.ref, c.module.Name(), err)
		}
	}
	return nil
}

// Checkpoint pins the current module list into the returned context and
// captures the state every stateful module keeps for this registry. Hooks
// called with that context use the pinned list, so a module bound or removed
// meanwhile neither receives nor misses notifications the restore would not
// cover. The returned function restores module state, newest first.
func (r *Registry) Checkpoint(ctx context.Context) (context.Context, func()) {
	pinned := r.active()
	var restores []func()
	for _, c := range pinned {
		if cp, ok := c.module.(Checkpointer); ok {
			restores = append(restores, cp.Checkpoint(r.self))
		}
	}
	return context.WithValue(ctx, pinKey{r}, pinned), func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}
}

func (r *Registry) log(ctx context.Context, event string, attributes ...any) {
	if r.logger == nil {
		return
	}
	args := append(attributes, "event", event, "log_type", "audit", "compliance", r.self.String())
	r.logger.InfoContext(ctx, event, args...)
}

// record persists a chain change before it is applied.
func (r *Registry) record(ctx context.Context, event audit.AuditEvent, subject, detail string) error {
	if r.auditor == nil {
		return nil
	}
	err := r.auditor.Emit(ctx, audit.Event{
		Action:       string(event),
		Subject:      subject,
		Counterparty: r.self.String(),
		Detail:       detail,
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record module change")
	}
	return nil
}
