package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "tokenguard/pkg/platform/audit"
)

type recordingProducer struct {
	records []*kgo.Record
	err     error
}

func (p *recordingProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, len(rs))
	for i, r := range rs {
		results[i] = kgo.ProduceResult{Record: r, Err: p.err}
		if p.err == nil {
			p.records = append(p.records, r)
		}
	}
	return results
}

func TestPublish(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entry := audit.OutboxEntry{
		ID:        uuid.New(),
		Key:       "0x00000000000000000000000000000000000000a1",
		EventType: string(audit.EventTokenTransferred),
		Payload:   []byte(`{"action":"token_transferred"}`),
		CreatedAt: created,
	}

	t.Run("one keyed record per entry", func(t *testing.T) {
		producer := &recordingProducer{}
		pub := New(producer, "ledger.audit")

		require.NoError(t, pub.Publish(context.Background(), []audit.OutboxEntry{entry}))
		require.Len(t, producer.records, 1)
		rec := producer.records[0]
		assert.Equal(t, "ledger.audit", rec.Topic)
		assert.Equal(t, entry.Key, string(rec.Key))
		assert.Equal(t, entry.Payload, rec.Value)
		assert.Equal(t, created, rec.Timestamp)
		require.Len(t, rec.Headers, 2)
		assert.Equal(t, "event_type", rec.Headers[0].Key)
		assert.Equal(t, string(audit.EventTokenTransferred), string(rec.Headers[0].Value))
	})

	t.Run("produce error surfaces", func(t *testing.T) {
		producer := &recordingProducer{err: errors.New("not leader")}
		pub := New(producer, "ledger.audit")
		err := pub.Publish(context.Background(), []audit.OutboxEntry{entry})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not leader")
	})

	t.Run("empty batch skips the producer", func(t *testing.T) {
		producer := &recordingProducer{err: errors.New("unused")}
		require.NoError(t, New(producer, "t").Publish(context.Background(), nil))
	})
}
