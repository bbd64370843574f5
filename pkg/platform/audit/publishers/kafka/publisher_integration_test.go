//go:build integration

package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "tokenguard/pkg/platform/audit"
	"tokenguard/pkg/testutil/containers"
)

// Justification for these tests: topic creation and keyed produce only
// behave like production against a real broker.
type PublisherIntegrationSuite struct {
	suite.Suite
	broker string
	client *kgo.Client
}

func TestPublisherIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PublisherIntegrationSuite))
}

func (s *PublisherIntegrationSuite) SetupSuite() {
	s.broker = containers.GetManager().GetRedpanda(s.T()).Broker
	client, err := NewClient([]string{s.broker})
	s.Require().NoError(err)
	s.client = client
}

func (s *PublisherIntegrationSuite) TearDownSuite() {
	s.client.Close()
}

func (s *PublisherIntegrationSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	topic := TopicSpec{Name: "audit-" + uuid.NewString(), Partitions: 2, ReplicationFactor: 1}

	s.Require().NoError(EnsureTopic(ctx, s.client, topic))
	s.Require().NoError(EnsureTopic(ctx, s.client, topic))
}

func (s *PublisherIntegrationSuite) TestPublishedEntriesAreConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topic := "audit-" + uuid.NewString()
	s.Require().NoError(EnsureTopic(ctx, s.client, TopicSpec{Name: topic, Partitions: 1, ReplicationFactor: 1}))

	entries := []audit.OutboxEntry{
		{ID: uuid.New(), Key: "0xa1", EventType: string(audit.EventTokenMinted), Payload: []byte(`{"n":1}`), CreatedAt: time.Now()},
		{ID: uuid.New(), Key: "0xa1", EventType: string(audit.EventTokenBurned), Payload: []byte(`{"n":2}`), CreatedAt: time.Now()},
	}
	s.Require().NoError(New(s.client, topic).Publish(ctx, entries))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var got []*kgo.Record
	for len(got) < len(entries) {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(ctx.Err())
		fetches.EachRecord(func(r *kgo.Record) {
			got = append(got, r)
		})
	}
	s.Equal(`{"n":1}`, string(got[0].Value))
	s.Equal(`{"n":2}`, string(got[1].Value))
	s.Equal("0xa1", string(got[1].Key))
}
