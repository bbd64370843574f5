package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	"tokenguard/pkg/platform/sentinel"
)

// IsVerified reports whether wallet's identity holds a valid claim from a
// trusted issuer for every required topic.
//
// Lost or unregistered wallets are never verified. Topic 0 is always
// satisfied. An unregistered topic fails the whole check. A claim lookup or
// attestation that fails for one issuer moves on to the next issuer. Only
// store faults are returned as errors.
func (s *Service) IsVerified(ctx context.Context, wallet domain.Address, topics []domain.ClaimTopic) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "identity.IsVerified")
	defer span.End()
	span.SetAttributes(
		attribute.String("wallet", wallet.String()),
		attribute.Int("topics", len(topics)),
	)
	start := time.Now()
	defer s.metrics.ObserveVerify(start)

	outcome, err := s.verify(ctx, wallet, topics)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "verification failed")
		s.metrics.IncrementOutcome("error")
		return false, err
	}
	span.SetAttributes(attribute.String("outcome", outcome))
	s.metrics.IncrementOutcome(outcome)
	return outcome == "verified", nil
}

func (s *Service) verify(ctx context.Context, wallet domain.Address, topics []domain.ClaimTopic) (string, error) {
	lost, err := s.store.IsLost(ctx, wallet)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to check lost wallet")
	}
	if lost {
		return "lost", nil
	}
	record, err := s.store.FindByWallet(ctx, wallet)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "unregistered", nil
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
	}
	if len(topics) == 0 {
		return "verified", nil
	}

	checked := make(map[domain.ClaimTopic]struct{}, len(topics))
	for _, topic := range topics {
		if topic.IsWildcard() {
			continue
		}
		if _, done := checked[topic]; done {
			continue
		}
		checked[topic] = struct{}{}

		known, err := s.topics.HasTopicScheme(ctx, topic)
		if err != nil || !known {
			s.logger.DebugContext(ctx, "required topic has no scheme",
				"wallet", wallet.String(), "topic", uint64(topic), "error", err)
			return "unknown_topic", nil
		}
		if !s.topicSatisfied(ctx, record, topic) {
			return "unsatisfied", nil
		}
	}
	return "verified", nil
}

// topicSatisfied tries each trusted issuer in catalogue order and stops at
// the first that attests a matching claim.
func (s *Service) topicSatisfied(ctx context.Context, record models.IdentityRecord, topic domain.ClaimTopic) bool {
	issuers, err := s.issuers.TrustedIssuersForTopic(ctx, topic)
	if err != nil {
		s.logger.DebugContext(ctx, "trusted issuer lookup failed", "topic", uint64(topic), "error", err)
		return false
	}
	if len(issuers) == 0 {
		return false
	}
	holder, err := s.directory.ClaimHolder(ctx, record.Identity)
	if err != nil {
		s.logger.DebugContext(ctx, "identity not resolvable",
			"identity", record.Identity.String(), "error", err)
		return false
	}

	for _, issuerRef := range issuers {
		claim, err := holder.GetClaim(ctx, domain.ComputeClaimID(issuerRef, topic))
		if err != nil {
			s.metrics.IncrementIssuerFailure("claim")
			continue
		}
		if claim.Issuer != issuerRef || claim.Topic != topic {
			continue
		}
		issuer, err := s.directory.ClaimIssuer(ctx, issuerRef)
		if err != nil {
			s.metrics.IncrementIssuerFailure("issuer")
			continue
		}
		valid, err := issuer.IsClaimValid(ctx, record.Identity, topic, claim.Signature, claim.Data)
		if err != nil {
			s.metrics.IncrementIssuerFailure("attest")
			continue
		}
		if valid {
			return true
		}
	}
	return false
}
