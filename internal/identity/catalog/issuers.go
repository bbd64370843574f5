package catalog

import (
	"context"
	"slices"
	"sync"

	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
)

const (
	// MaxIssuers bounds the trusted issuer list.
	MaxIssuers = 50
	// MaxTopicsPerIssuer bounds the topics one issuer may attest.
	MaxTopicsPerIssuer = 15
)

// TrustedIssuers maps issuers to the claim topics they are trusted for.
// Issuers are kept in registration order; the per-topic index follows it.
type TrustedIssuers struct {
	mu      sync.RWMutex
	issuers []domain.Address
	topics  map[domain.Address][]domain.ClaimTopic
	byTopic map[domain.ClaimTopic][]domain.Address
}

func NewTrustedIssuers() *TrustedIssuers {
	return &TrustedIssuers{
		topics:  make(map[domain.Address][]domain.ClaimTopic),
		byTopic: make(map[domain.ClaimTopic][]domain.Address),
	}
}

func validateIssuerTopics(issuer domain.Address, topics []domain.ClaimTopic) error {
	if issuer.IsZero() {
		return dErrors.New(dErrors.CodeZeroAddress, "issuer reference is required")
	}
	if len(topics) == 0 {
		return dErrors.New(dErrors.CodeValidation, "trusted issuer needs at least one claim topic")
	}
	if len(topics) > MaxTopicsPerIssuer {
		return dErrors.Newf(dErrors.CodeLimitExceeded, "issuer cannot attest more than %d claim topics", MaxTopicsPerIssuer)
	}
	return nil
}

// AddTrustedIssuer trusts issuer for topics.
func (t *TrustedIssuers) AddTrustedIssuer(_ context.Context, issuer domain.Address, topics []domain.ClaimTopic) error {
	if err := validateIssuerTopics(issuer, topics); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.topics[issuer]; exists {
		return dErrors.Newf(dErrors.CodeConflict, "issuer %s already trusted", issuer)
	}
	if len(t.issuers) >= MaxIssuers {
		return dErrors.Newf(dErrors.CodeLimitExceeded, "cannot trust more than %d issuers", MaxIssuers)
	}
	t.issuers = append(t.issuers, issuer)
	t.setTopics(issuer, topics)
	return nil
}

// RemoveTrustedIssuer revokes trust in issuer for every topic.
func (t *TrustedIssuers) RemoveTrustedIssuer(_ context.Context, issuer domain.Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.topics[issuer]; !exists {
		return dErrors.Newf(dErrors.CodeNotFound, "issuer %s is not trusted", issuer)
	}
	t.clearTopics(issuer)
	delete(t.topics, issuer)
	t.issuers = slices.DeleteFunc(t.issuers, func(a domain.Address) bool { return a == issuer })
	return nil
}

// UpdateIssuerClaimTopics replaces the topics issuer is trusted for.
func (t *TrustedIssuers) UpdateIssuerClaimTopics(_ context.Context, issuer domain.Address, topics []domain.ClaimTopic) error {
	if err := validateIssuerTopics(issuer, topics); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.topics[issuer]; !exists {
		return dErrors.Newf(dErrors.CodeNotFound, "issuer %s is not trusted", issuer)
	}
	t.clearTopics(issuer)
	t.setTopics(issuer, topics)
	return nil
}

func (t *TrustedIssuers) setTopics(issuer domain.Address, topics []domain.ClaimTopic) {
	var distinct []domain.ClaimTopic
	for _, topic := range topics {
		if slices.Contains(distinct, topic) {
			continue
		}
		distinct = append(distinct, topic)
		t.byTopic[topic] = t.insertOrdered(t.byTopic[topic], issuer)
	}
	t.topics[issuer] = distinct
}

// insertOrdered keeps per-topic lists in issuer registration order.
func (t *TrustedIssuers) insertOrdered(list []domain.Address, issuer domain.Address) []domain.Address {
	list = append(list, issuer)
	rank := func(a domain.Address) int { return slices.Index(t.issuers, a) }
	slices.SortStableFunc(list, func(a, b domain.Address) int { return rank(a) - rank(b) })
	return list
}

func (t *TrustedIssuers) clearTopics(issuer domain.Address) {
	for _, topic := range t.topics[issuer] {
		remaining := slices.DeleteFunc(t.byTopic[topic], func(a domain.Address) bool { return a == issuer })
		if len(remaining) == 0 {
			delete(t.byTopic, topic)
			continue
		}
		t.byTopic[topic] = remaining
	}
}

func (t *TrustedIssuers) TrustedIssuersForTopic(_ context.Context, topic domain.ClaimTopic) ([]domain.Address, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.byTopic[topic]), nil
}

func (t *TrustedIssuers) IsTrustedIssuer(issuer domain.Address) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.topics[issuer]
	return ok
}

// HasClaimTopic reports whether issuer is trusted for topic.
func (t *TrustedIssuers) HasClaimTopic(issuer domain.Address, topic domain.ClaimTopic) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Contains(t.topics[issuer], topic)
}

// List returns every trusted issuer with its topics, in registration order.
func (t *TrustedIssuers) List() []models.TrustedIssuer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.TrustedIssuer, len(t.issuers))
	for i, issuer := range t.issuers {
		out[i] = models.TrustedIssuer{Issuer: issuer, Topics: slices.Clone(t.topics[issuer])}
	}
	return out
}
