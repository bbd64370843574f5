package compliance

import (
	"context"
	"fmt"
	"sync"

	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/platform/sentinel"
)

// Authority decides which module references and parameters a registry may
// bind, and resolves a reference to its implementation.
type Authority interface {
	IsValidModule(ctx context.Context, ref domain.Address, params []byte) (bool, error)
	AreValidModules(ctx context.Context, entries []ModuleEntry) (bool, error)
	Resolve(ctx context.Context, ref domain.Address) (Module, error)
}

// Catalog is an in-process Authority: a fixed directory of deployable
// modules keyed by reference.
type Catalog struct {
	mu      sync.RWMutex
	modules map[domain.Address]Module
}

func NewCatalog() *Catalog {
	return &Catalog{modules: make(map[domain.Address]Module)}
}

// Register publishes m under ref.
func (c *Catalog) Register(ref domain.Address, m Module) error {
	if ref.IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "module reference is required")
	}
	if m == nil {
		return dErrors.New(dErrors.CodeInvalidModule, "module implementation is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.modules[ref]; exists {
		return dErrors.Newf(dErrors.CodeConflict, "module %s already published", ref)
	}
	c.modules[ref] = m
	return nil
}

func (c *Catalog) Resolve(_ context.Context, ref domain.Address) (Module, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[ref]
	if !ok {
		return nil, fmt.Errorf("module %s: %w", ref, sentinel.ErrNotFound)
	}
	return m, nil
}

// IsValidModule reports whether ref is published and accepts params.
func (c *Catalog) IsValidModule(ctx context.Context, ref domain.Address, params []byte) (bool, error) {
	m, err := c.Resolve(ctx, ref)
	if err != nil {
		return false, nil
	}
	return m.ValidateParameters(params) == nil, nil
}

func (c *Catalog) AreValidModules(ctx context.Context, entries []ModuleEntry) (bool, error) {
	for _, e := range entries {
		ok, err := c.IsValidModule(ctx, e.Ref, e.Params)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
