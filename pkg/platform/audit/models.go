package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing.
type EventCategory string

const (
	// CategoryCompliance covers balance changes and identity lifecycle events
	// regulators may ask for.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers administrative overrides and recovery.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers configuration changes.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic after a state change commits. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID     `json:"id"`
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Action    string        `json:"action"`
	// Subject is the wallet or reference the event is about.
	Subject string `json:"subject"`
	// Counterparty is the other side of a two-party action, such as the
	// recipient of a transfer or the replacement wallet of a recovery.
	Counterparty string `json:"counterparty,omitempty"`
	Amount       string `json:"amount,omitempty"`
	Detail       string `json:"detail,omitempty"`
	// ActorID is the authenticated caller that initiated the action.
	ActorID   string `json:"actor_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	// Ledger events
	EventTokenMinted         AuditEvent = "token_minted"
	EventTokenBurned         AuditEvent = "token_burned"
	EventTokenTransferred    AuditEvent = "token_transferred"
	EventTokenForcedTransfer AuditEvent = "token_forced_transfer"
	EventWalletRecovered     AuditEvent = "wallet_recovered"
	EventAssetRecovered      AuditEvent = "asset_recovered"
	EventSettingsUpdated     AuditEvent = "settings_updated"

	// Identity events
	EventIdentityRegistered AuditEvent = "identity_registered"
	EventCountryUpdated     AuditEvent = "country_updated"
	EventIdentityUpdated    AuditEvent = "identity_updated"
	EventIdentityRemoved    AuditEvent = "identity_removed"
	EventIdentityRecovered  AuditEvent = "identity_recovered"
	EventRecoveryReverted   AuditEvent = "identity_recovery_reverted"

	// Trust catalogue events
	EventClaimTopicAdded      AuditEvent = "claim_topic_added"
	EventClaimTopicRemoved    AuditEvent = "claim_topic_removed"
	EventTrustedIssuerAdded   AuditEvent = "trusted_issuer_added"
	EventTrustedIssuerUpdated AuditEvent = "trusted_issuer_updated"
	EventTrustedIssuerRemoved AuditEvent = "trusted_issuer_removed"
	EventClaimAdded           AuditEvent = "claim_added"
	EventClaimRemoved         AuditEvent = "claim_removed"
	EventClaimRevoked         AuditEvent = "claim_revoked"

	// Compliance registry events
	EventModuleAdded         AuditEvent = "module_added"
	EventModuleRemoved       AuditEvent = "module_removed"
	EventModuleParametersSet AuditEvent = "module_parameters_set"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventTokenMinted:        CategoryCompliance,
	EventTokenBurned:        CategoryCompliance,
	EventTokenTransferred:   CategoryCompliance,
	EventIdentityRegistered: CategoryCompliance,
	EventCountryUpdated:     CategoryCompliance,
	EventIdentityUpdated:    CategoryCompliance,
	EventIdentityRemoved:    CategoryCompliance,

	EventTokenForcedTransfer: CategorySecurity,
	EventWalletRecovered:     CategorySecurity,
	EventAssetRecovered:      CategorySecurity,
	EventIdentityRecovered:   CategorySecurity,
	EventRecoveryReverted:    CategorySecurity,

	EventClaimTopicAdded:      CategoryCompliance,
	EventClaimTopicRemoved:    CategoryCompliance,
	EventTrustedIssuerAdded:   CategoryCompliance,
	EventTrustedIssuerUpdated: CategoryCompliance,
	EventTrustedIssuerRemoved: CategoryCompliance,
	EventClaimAdded:           CategoryCompliance,
	EventClaimRemoved:         CategoryCompliance,
	EventClaimRevoked:         CategoryCompliance,

	EventSettingsUpdated:     CategoryOperations,
	EventModuleAdded:         CategoryOperations,
	EventModuleRemoved:       CategoryOperations,
	EventModuleParametersSet: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}

// OutboxEntry is a persisted event awaiting relay to the event stream.
type OutboxEntry struct {
	ID        uuid.UUID
	Key       string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}
