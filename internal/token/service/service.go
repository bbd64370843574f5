// Package service implements the lifecycle hook dispatcher: every balance
// change on the ledger passes through identity verification and the
// compliance module registry.
package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tokenguard/internal/token/ledger"
	"tokenguard/internal/token/metrics"
	"tokenguard/internal/token/models"
	"tokenguard/internal/token/ports"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	audit "tokenguard/pkg/platform/audit"
	"tokenguard/pkg/requestcontext"
)

// AuditPublisher records committed ledger operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service dispatches mints, burns and transfers for one ledger.
//
// Operations are serialized: a slot in sem is held for the whole unit of
// work, hooks included. A call made from inside a hook with the hook's
// context fails with CodeReentrantCall at once. A call that lost that
// context waits at most lockWait; it then fails with CodeReentrantCall if a
// hook is still running and CodeTimeout otherwise.
type Service struct {
	ledger   ledger.TxLedger
	foreign  ledger.ForeignAssets
	sem      chan struct{}
	lockWait time.Duration
	inHook   atomic.Bool

	settingsMu sync.RWMutex
	settings   models.Settings
	identities ports.IdentityRegistry
	compliance ports.Compliance

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = p
	}
}

// WithLockWait bounds how long an operation waits for the one in progress.
func WithLockWait(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lockWait = d
		}
	}
}

// WithForeignAssets enables RecoverForeignAsset.
func WithForeignAssets(f ledger.ForeignAssets) Option {
	return func(s *Service) {
		s.foreign = f
	}
}

func New(
	settings models.Settings,
	l ledger.TxLedger,
	identities ports.IdentityRegistry,
	compliance ports.Compliance,
	opts ...Option,
) (*Service, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		return nil, errors.New("ledger is required")
	}
	if identities == nil {
		return nil, errors.New("identity registry is required")
	}
	if compliance == nil {
		return nil, errors.New("compliance is required")
	}
	settings = settings.Clone()
	settings.Compliance = compliance.Ref()
	s := &Service{
		ledger:     l,
		sem:        make(chan struct{}, 1),
		lockWait:   defaultLockWait,
		settings:   settings,
		identities: identities,
		compliance: compliance,
		logger:     slog.Default(),
		tracer:     otel.Tracer("tokenguard/token"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Settings returns a copy of the current settings.
func (s *Service) Settings() models.Settings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return s.settings.Clone()
}

func (s *Service) BalanceOf(ctx context.Context, account domain.Address) (decimal.Decimal, error) {
	b, err := s.ledger.BalanceOf(ctx, account)
	if err != nil {
		return decimal.Zero, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load balance")
	}
	return b, nil
}

func (s *Service) TotalSupply(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.ledger.TotalSupply(ctx)
	if err != nil {
		return decimal.Zero, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load total supply")
	}
	return total, nil
}

// SetIdentityRegistry points the ledger at another identity registry.
func (s *Service) SetIdentityRegistry(ctx context.Context, ref domain.Address, registry ports.IdentityRegistry) error {
	if ref.IsZero() || registry == nil {
		return dErrors.New(dErrors.CodeZeroAddress, "identity registry is required")
	}
	s.updateSettings(ctx, "identity_registry", ref.String(), func(st *models.Settings) {
		st.IdentityRegistry = ref
		s.identities = registry
	})
	return nil
}

// SetCompliance binds the ledger to another module registry.
func (s *Service) SetCompliance(ctx context.Context, compliance ports.Compliance) error {
	if compliance == nil || compliance.Ref().IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "compliance is required")
	}
	s.updateSettings(ctx, "compliance", compliance.Ref().String(), func(st *models.Settings) {
		st.Compliance = compliance.Ref()
		s.compliance = compliance
	})
	return nil
}

func (s *Service) SetOnchainID(ctx context.Context, ref domain.Address) error {
	s.updateSettings(ctx, "onchain_id", ref.String(), func(st *models.Settings) {
		st.OnchainID = ref
	})
	return nil
}

// SetRequiredClaimTopics replaces the topics a recipient must satisfy.
func (s *Service) SetRequiredClaimTopics(ctx context.Context, topics []domain.ClaimTopic) error {
	s.updateSettings(ctx, "required_claim_topics", "", func(st *models.Settings) {
		st.RequiredClaimTopics = slices.Clone(topics)
	})
	return nil
}

func (s *Service) SetNameAndSymbol(ctx context.Context, name, symbol string) error {
	if name == "" || symbol == "" {
		return dErrors.New(dErrors.CodeValidation, "name and symbol are required")
	}
	s.updateSettings(ctx, "name_symbol", name+"/"+symbol, func(st *models.Settings) {
		st.Name, st.Symbol = name, symbol
	})
	return nil
}

func (s *Service) updateSettings(ctx context.Context, field, value string, apply func(*models.Settings)) {
	s.settingsMu.Lock()
	apply(&s.settings)
	self := s.settings.Self
	s.settingsMu.Unlock()

	s.emit(ctx, audit.Event{
		Action:  string(audit.EventSettingsUpdated),
		Subject: self.String(),
		Detail:  field + "=" + value,
	})
}

const defaultLockWait = 10 * time.Second

type dispatchKey struct{}

func dispatching(ctx context.Context) bool {
	v, _ := ctx.Value(dispatchKey{}).(bool)
	return v
}

// execute runs fn as one unit of work: a ledger transaction plus a
// compliance checkpoint. Either both commit or both are restored. Events
// collected by fn are published only after commit.
func (s *Service) execute(ctx context.Context, op string, fn func(context.Context, *unit) error) error {
	if dispatching(ctx) {
		s.metrics.IncrementRejection(string(dErrors.CodeReentrantCall))
		return dErrors.Newf(dErrors.CodeReentrantCall, "%s called while another ledger operation is in progress", op)
	}
	ctx, span := s.tracer.Start(ctx, "token."+op)
	defer span.End()
	start := time.Now()
	defer s.metrics.ObserveOperation(op, start)

	if err := s.acquire(ctx, op); err != nil {
		s.recordFailure(ctx, span, op, err)
		return err
	}
	defer func() { <-s.sem }()
	ctx = context.WithValue(ctx, dispatchKey{}, true)

	s.settingsMu.RLock()
	u := &unit{
		settings:   s.settings.Clone(),
		identities: s.identities,
		compliance: s.compliance,
		inHook:     &s.inHook,
	}
	s.settingsMu.RUnlock()

	// Modules bound while the unit runs are not consulted by it.
	ctx, restore := u.compliance.Checkpoint(ctx)
	err := s.ledger.RunInTx(ctx, func(tx ledger.Ledger) error {
		u.tx = tx
		u.events = u.events[:0]
		return fn(ctx, u)
	})
	if err != nil {
		restore()
		s.recordFailure(ctx, span, op, err)
		return err
	}

	s.metrics.IncrementOperation(op, "committed")
	span.SetAttributes(attribute.Int("events", len(u.events)))
	if total, err := s.ledger.TotalSupply(ctx); err == nil {
		s.metrics.SetTotalSupply(total.InexactFloat64())
	}
	for _, e := range u.events {
		s.emit(ctx, e)
	}
	return nil
}

func (s *Service) acquire(ctx context.Context, op string) error {
	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "gave up waiting for the ledger")
	case <-timer.C:
		if s.inHook.Load() {
			return dErrors.Newf(dErrors.CodeReentrantCall, "%s waited on a ledger operation whose hook is still running", op)
		}
		return dErrors.Newf(dErrors.CodeTimeout, "%s gave up waiting for the ledger after %s", op, s.lockWait)
	}
}

func (s *Service) recordFailure(ctx context.Context, span trace.Span, op string, err error) {
	code := dErrors.CodeOf(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, string(code))
	if code == dErrors.CodeInternal || code == "" {
		s.metrics.IncrementOperation(op, "failed")
		s.logger.ErrorContext(ctx, "ledger operation failed", "op", op, "error", err)
		return
	}
	s.metrics.IncrementOperation(op, "rejected")
	s.metrics.IncrementRejection(string(code))
	s.logger.InfoContext(ctx, "ledger operation rejected", "op", op, "code", string(code), "error", err)
}

func (s *Service) emit(ctx context.Context, e audit.Event) {
	actor := requestcontext.Caller(ctx)
	if !actor.IsZero() {
		e.ActorID = actor.String()
	}
	s.logger.InfoContext(ctx, e.Action,
		"event", e.Action,
		"log_type", "audit",
		"subject", e.Subject,
		"counterparty", e.Counterparty,
		"amount", e.Amount,
		"actor", e.ActorID,
	)
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", e.Action, "error", err)
	}
}
