// Package catalog provides in-process topic-scheme and trusted-issuer
// catalogues for the identity registry.
package catalog

import (
	"context"
	"slices"
	"sync"

	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
)

// MaxTopics bounds the number of topic schemes a catalogue holds.
const MaxTopics = 15

// TopicSchemes is the set of claim topics a registry recognises.
type TopicSchemes struct {
	mu     sync.RWMutex
	topics []domain.ClaimTopic
}

func NewTopicSchemes(topics ...domain.ClaimTopic) (*TopicSchemes, error) {
	t := &TopicSchemes{}
	for _, topic := range topics {
		if err := t.AddTopic(context.Background(), topic); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *TopicSchemes) AddTopic(_ context.Context, topic domain.ClaimTopic) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if slices.Contains(t.topics, topic) {
		return dErrors.Newf(dErrors.CodeConflict, "claim topic %d already exists", topic)
	}
	if len(t.topics) >= MaxTopics {
		return dErrors.Newf(dErrors.CodeLimitExceeded, "cannot register more than %d claim topics", MaxTopics)
	}
	t.topics = append(t.topics, topic)
	return nil
}

func (t *TopicSchemes) RemoveTopic(_ context.Context, topic domain.ClaimTopic) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := slices.Index(t.topics, topic)
	if i < 0 {
		return dErrors.Newf(dErrors.CodeNotFound, "claim topic %d not registered", topic)
	}
	t.topics = slices.Delete(t.topics, i, i+1)
	return nil
}

func (t *TopicSchemes) Topics() []domain.ClaimTopic {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.topics)
}

func (t *TopicSchemes) HasTopicScheme(_ context.Context, topic domain.ClaimTopic) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Contains(t.topics, topic), nil
}
