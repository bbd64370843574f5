// Package ports declares the collaborators the identity registry consults
// while deciding whether a wallet is verified.
package ports

import (
	"context"

	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
)

// TopicRegistry answers whether a claim topic has a registered scheme.
type TopicRegistry interface {
	HasTopicScheme(ctx context.Context, topic domain.ClaimTopic) (bool, error)
}

// TrustedIssuerRegistry lists the issuers trusted to attest a topic.
type TrustedIssuerRegistry interface {
	TrustedIssuersForTopic(ctx context.Context, topic domain.ClaimTopic) ([]domain.Address, error)
}

// ClaimHolder is an identity that stores claims.
type ClaimHolder interface {
	GetClaim(ctx context.Context, id domain.ClaimID) (models.Claim, error)
}

// ClaimIssuer attests whether a claim it issued is currently valid.
type ClaimIssuer interface {
	IsClaimValid(ctx context.Context, identity domain.Address, topic domain.ClaimTopic, signature, data []byte) (bool, error)
}

// IdentityDirectory resolves references to the claim holders and issuers
// they name.
type IdentityDirectory interface {
	ClaimHolder(ctx context.Context, ref domain.Address) (ClaimHolder, error)
	ClaimIssuer(ctx context.Context, ref domain.Address) (ClaimIssuer, error)
}
