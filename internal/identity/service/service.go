// Package service implements the identity registry: wallet to identity
// records, claim-based verification and lost-wallet recovery.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"tokenguard/internal/identity/metrics"
	"tokenguard/internal/identity/models"
	"tokenguard/internal/identity/ports"
	"tokenguard/internal/identity/store"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	audit "tokenguard/pkg/platform/audit"
	"tokenguard/pkg/platform/sentinel"
	"tokenguard/pkg/requestcontext"
)

// AuditPublisher records identity lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the identity registry. It owns identity records and lost-wallet
// links and consults the topic and trusted-issuer catalogues to decide
// verification.
type Service struct {
	store     store.TxStore
	topics    ports.TopicRegistry
	issuers   ports.TrustedIssuerRegistry
	directory ports.IdentityDirectory

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

func New(
	st store.TxStore,
	topics ports.TopicRegistry,
	issuers ports.TrustedIssuerRegistry,
	directory ports.IdentityDirectory,
	opts ...Option,
) (*Service, error) {
	if st == nil {
		return nil, errors.New("identity store is required")
	}
	if topics == nil {
		return nil, errors.New("topic registry is required")
	}
	if issuers == nil {
		return nil, errors.New("trusted issuer registry is required")
	}
	if directory == nil {
		return nil, errors.New("identity directory is required")
	}
	s := &Service{
		store:     st,
		topics:    topics,
		issuers:   issuers,
		directory: directory,
		logger:    slog.Default(),
		tracer:    otel.Tracer("tokenguard/identity"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RegisterIdentity binds wallet to identity with a country of record.
func (s *Service) RegisterIdentity(ctx context.Context, wallet, identity domain.Address, country domain.CountryCode) error {
	return s.BatchRegisterIdentity(ctx,
		[]domain.Address{wallet},
		[]domain.Address{identity},
		[]domain.CountryCode{country},
	)
}

// BatchRegisterIdentity registers every element or none. Lists must have the
// same length; a wallet may appear once.
func (s *Service) BatchRegisterIdentity(ctx context.Context, wallets, identities []domain.Address, countries []domain.CountryCode) error {
	if len(wallets) != len(identities) || len(wallets) != len(countries) {
		return dErrors.Newf(dErrors.CodeArrayLengthMismatch,
			"wallets (%d), identities (%d) and countries (%d) must have the same length",
			len(wallets), len(identities), len(countries))
	}
	seen := make(map[domain.Address]struct{}, len(wallets))
	for i, wallet := range wallets {
		if wallet.IsZero() || identities[i].IsZero() {
			return dErrors.New(dErrors.CodeZeroAddress, "wallet and identity are required")
		}
		if _, dup := seen[wallet]; dup {
			return dErrors.Newf(dErrors.CodeIdentityAlreadyRegistered, "wallet %s listed twice", wallet)
		}
		seen[wallet] = struct{}{}
	}

	err := s.store.RunInTx(ctx, func(tx store.Store) error {
		for _, wallet := range wallets {
			exists, err := s.exists(ctx, tx, wallet)
			if err != nil {
				return err
			}
			if exists {
				return dErrors.Newf(dErrors.CodeIdentityAlreadyRegistered, "wallet %s already registered", wallet)
			}
		}
		for i, wallet := range wallets {
			record := models.IdentityRecord{Wallet: wallet, Identity: identities[i], Country: countries[i]}
			if err := tx.Save(ctx, record); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save identity")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for i, wallet := range wallets {
		s.metrics.IncrementMutation("register")
		s.emit(ctx, audit.EventIdentityRegistered, wallet, identities[i].String(), "")
		s.emit(ctx, audit.EventCountryUpdated, wallet, "", strconv.Itoa(int(countries[i])))
	}
	return nil
}

// UpdateIdentity points an existing wallet at a different identity.
func (s *Service) UpdateIdentity(ctx context.Context, wallet, identity domain.Address) error {
	if identity.IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "identity is required")
	}
	err := s.mutate(ctx, wallet, func(r *models.IdentityRecord) { r.Identity = identity })
	if err != nil {
		return err
	}
	s.metrics.IncrementMutation("update_identity")
	s.emit(ctx, audit.EventIdentityUpdated, wallet, identity.String(), "")
	return nil
}

// UpdateCountry changes an existing wallet's country of record.
func (s *Service) UpdateCountry(ctx context.Context, wallet domain.Address, country domain.CountryCode) error {
	err := s.mutate(ctx, wallet, func(r *models.IdentityRecord) { r.Country = country })
	if err != nil {
		return err
	}
	s.metrics.IncrementMutation("update_country")
	s.emit(ctx, audit.EventCountryUpdated, wallet, "", strconv.Itoa(int(country)))
	return nil
}

func (s *Service) mutate(ctx context.Context, wallet domain.Address, apply func(*models.IdentityRecord)) error {
	return s.store.RunInTx(ctx, func(tx store.Store) error {
		record, err := s.find(ctx, tx, wallet)
		if err != nil {
			return err
		}
		apply(&record)
		if err := tx.Save(ctx, record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save identity")
		}
		return nil
	})
}

// DeleteIdentity removes a wallet's record.
func (s *Service) DeleteIdentity(ctx context.Context, wallet domain.Address) error {
	var removed models.IdentityRecord
	err := s.store.RunInTx(ctx, func(tx store.Store) error {
		record, err := s.find(ctx, tx, wallet)
		if err != nil {
			return err
		}
		removed = record
		if err := tx.Delete(ctx, wallet); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete identity")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.IncrementMutation("delete")
	s.emit(ctx, audit.EventIdentityRemoved, wallet, removed.Identity.String(), "")
	return nil
}

// Contains reports whether wallet has an identity record.
func (s *Service) Contains(ctx context.Context, wallet domain.Address) (bool, error) {
	return s.exists(ctx, s.store, wallet)
}

// Identity returns the identity a wallet is bound to.
func (s *Service) Identity(ctx context.Context, wallet domain.Address) (domain.Address, error) {
	record, err := s.find(ctx, s.store, wallet)
	if err != nil {
		return domain.ZeroAddress, err
	}
	return record.Identity, nil
}

// Country returns a wallet's country of record.
func (s *Service) Country(ctx context.Context, wallet domain.Address) (domain.CountryCode, error) {
	record, err := s.find(ctx, s.store, wallet)
	if err != nil {
		return 0, err
	}
	return record.Country, nil
}

// Record returns the full identity record for wallet.
func (s *Service) Record(ctx context.Context, wallet domain.Address) (models.IdentityRecord, error) {
	return s.find(ctx, s.store, wallet)
}

func (s *Service) find(ctx context.Context, st store.Store, wallet domain.Address) (models.IdentityRecord, error) {
	record, err := st.FindByWallet(ctx, wallet)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.IdentityRecord{}, dErrors.Newf(dErrors.CodeIdentityNotRegistered, "wallet %s not registered", wallet)
		}
		return models.IdentityRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
	}
	return record, nil
}

func (s *Service) exists(ctx context.Context, st store.Store, wallet domain.Address) (bool, error) {
	_, err := st.FindByWallet(ctx, wallet)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
}

// emit logs the event and forwards it to the audit publisher. Audit failures
// are logged; the state change has already committed.
func (s *Service) emit(ctx context.Context, event audit.AuditEvent, wallet domain.Address, counterparty, detail string) {
	actor := requestcontext.Caller(ctx)
	s.logger.InfoContext(ctx, string(event),
		"event", string(event),
		"log_type", "audit",
		"wallet", wallet.String(),
		"counterparty", counterparty,
		"detail", detail,
	)
	if s.auditPublisher == nil {
		return
	}
	e := audit.Event{
		Action:       string(event),
		Subject:      wallet.String(),
		Counterparty: counterparty,
		Detail:       detail,
	}
	if !actor.IsZero() {
		e.ActorID = actor.String()
	}
	if err := s.auditPublisher.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", string(event), "error", err)
	}
}
