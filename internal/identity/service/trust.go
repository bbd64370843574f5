package service

import (
	"context"
	"crypto/ed25519"
	"errors"
	"log/slog"
	"strconv"

	"tokenguard/internal/identity/catalog"
	"tokenguard/internal/identity/models"
	"tokenguard/internal/identity/onchainid"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	audit "tokenguard/pkg/platform/audit"
	"tokenguard/pkg/platform/sentinel"
	"tokenguard/pkg/requestcontext"
)

// Trust administers what verification consults: the claim topics with a
// registered scheme, the issuers trusted per topic and the claims held by
// in-process identities. It shares its catalogues with the Service it feeds.
type Trust struct {
	topics    *catalog.TopicSchemes
	issuers   *catalog.TrustedIssuers
	directory *onchainid.Directory

	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type TrustOption func(*Trust)

func WithTrustLogger(logger *slog.Logger) TrustOption {
	return func(t *Trust) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func WithTrustAuditPublisher(p AuditPublisher) TrustOption {
	return func(t *Trust) {
		t.auditPublisher = p
	}
}

func NewTrust(topics *catalog.TopicSchemes, issuers *catalog.TrustedIssuers, directory *onchainid.Directory, opts ...TrustOption) (*Trust, error) {
	if topics == nil || issuers == nil || directory == nil {
		return nil, errors.New("topic schemes, trusted issuers and directory are required")
	}
	t := &Trust{
		topics:    topics,
		issuers:   issuers,
		directory: directory,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Trust) Topics() []domain.ClaimTopic {
	return t.topics.Topics()
}

func (t *Trust) AddTopic(ctx context.Context, topic domain.ClaimTopic) error {
	if err := t.topics.AddTopic(ctx, topic); err != nil {
		return err
	}
	t.emit(ctx, audit.EventClaimTopicAdded, strconv.FormatUint(uint64(topic), 10), "")
	return nil
}

func (t *Trust) RemoveTopic(ctx context.Context, topic domain.ClaimTopic) error {
	if err := t.topics.RemoveTopic(ctx, topic); err != nil {
		return err
	}
	t.emit(ctx, audit.EventClaimTopicRemoved, strconv.FormatUint(uint64(topic), 10), "")
	return nil
}

func (t *Trust) TrustedIssuers() []models.TrustedIssuer {
	return t.issuers.List()
}

// AddTrustedIssuer trusts issuer for topics and publishes a verifier for its
// public key, so claims it signed elsewhere can be checked here.
func (t *Trust) AddTrustedIssuer(ctx context.Context, issuer domain.Address, pub ed25519.PublicKey, topics []domain.ClaimTopic) error {
	verifier, err := onchainid.NewVerifier(issuer, pub)
	if err != nil {
		return err
	}
	if err := t.issuers.AddTrustedIssuer(ctx, issuer, topics); err != nil {
		return err
	}
	t.directory.PublishIssuer(verifier)
	t.emit(ctx, audit.EventTrustedIssuerAdded, issuer.String(), topicList(topics))
	return nil
}

func (t *Trust) UpdateIssuerClaimTopics(ctx context.Context, issuer domain.Address, topics []domain.ClaimTopic) error {
	if err := t.issuers.UpdateIssuerClaimTopics(ctx, issuer, topics); err != nil {
		return err
	}
	t.emit(ctx, audit.EventTrustedIssuerUpdated, issuer.String(), topicList(topics))
	return nil
}

func (t *Trust) RemoveTrustedIssuer(ctx context.Context, issuer domain.Address) error {
	if err := t.issuers.RemoveTrustedIssuer(ctx, issuer); err != nil {
		return err
	}
	t.directory.RemoveIssuer(issuer)
	t.emit(ctx, audit.EventTrustedIssuerRemoved, issuer.String(), "")
	return nil
}

// RevokeClaim invalidates every claim issuer signed with signature.
func (t *Trust) RevokeClaim(ctx context.Context, issuer domain.Address, signature []byte) error {
	if len(signature) == 0 {
		return dErrors.New(dErrors.CodeValidation, "signature is required")
	}
	iss, err := t.directory.Issuer(issuer)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "issuer is not published")
	}
	iss.Revoke(signature)
	t.emit(ctx, audit.EventClaimRevoked, issuer.String(), "")
	return nil
}

// AddClaim stores claim on identity, publishing the identity if it is new.
func (t *Trust) AddClaim(ctx context.Context, identity domain.Address, claim models.Claim) (domain.ClaimID, error) {
	if identity.IsZero() {
		return domain.ClaimID{}, dErrors.New(dErrors.CodeZeroAddress, "identity is required")
	}
	id, err := t.directory.EnsureIdentity(identity).AddClaim(ctx, claim)
	if err != nil {
		return domain.ClaimID{}, err
	}
	t.emit(ctx, audit.EventClaimAdded, identity.String(), id.String())
	return id, nil
}

func (t *Trust) RemoveClaim(ctx context.Context, identity, issuer domain.Address, topic domain.ClaimTopic) error {
	holder, err := t.directory.Identity(identity)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "identity is not published")
	}
	id := domain.ComputeClaimID(issuer, topic)
	if err := holder.RemoveClaim(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "claim not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove claim")
	}
	t.emit(ctx, audit.EventClaimRemoved, identity.String(), id.String())
	return nil
}

func topicList(topics []domain.ClaimTopic) string {
	var b []byte
	for i, topic := range topics {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendUint(b, uint64(topic), 10)
	}
	return string(b)
}

func (t *Trust) emit(ctx context.Context, event audit.AuditEvent, subject, detail string) {
	t.logger.InfoContext(ctx, string(event),
		"event", string(event),
		"log_type", "audit",
		"subject", subject,
		"detail", detail,
	)
	if t.auditPublisher == nil {
		return
	}
	e := audit.Event{Action: string(event), Subject: subject, Detail: detail}
	if actor := requestcontext.Caller(ctx); !actor.IsZero() {
		e.ActorID = actor.String()
	}
	if err := t.auditPublisher.Emit(ctx, e); err != nil {
		t.logger.WarnContext(ctx, "failed to emit audit event", "action", string(event), "error", err)
	}
}
