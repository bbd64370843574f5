package compliance

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenguard/pkg/domain"
	audit "tokenguard/pkg/platform/audit"
	"tokenguard/pkg/platform/audit/store/memory"
	"tokenguard/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("disk full")
}

func (failingStore) ListBySubject(context.Context, string) ([]audit.Event, error) {
	return nil, nil
}

func TestEmit(t *testing.T) {
	agent := domain.BytesToAddress([]byte{0xaa})
	ctx := requestcontext.WithCaller(context.Background(), agent)
	ctx = requestcontext.WithRequestID(ctx, "req-1")

	t.Run("persists with defaults filled in", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		m := NewMetrics(prometheus.NewRegistry())
		p := New(store, WithMetrics(m))

		require.NoError(t, p.Emit(ctx, audit.Event{
			Action:  string(audit.EventModuleAdded),
			Subject: "0xc1",
		}))

		events, err := store.ListBySubject(ctx, "0xc1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.CategoryOperations, events[0].Category)
		assert.Equal(t, agent.String(), events[0].ActorID)
		assert.Equal(t, "req-1", events[0].RequestID)
		assert.False(t, events[0].Timestamp.IsZero())
		assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsEmitted))
	})

	t.Run("store failure is returned", func(t *testing.T) {
		m := NewMetrics(prometheus.NewRegistry())
		p := New(failingStore{}, WithMetrics(m))

		err := p.Emit(ctx, audit.Event{Action: string(audit.EventModuleRemoved), Subject: "0xc1"})
		require.Error(t, err)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.persistFailures))
	})

	t.Run("incomplete events are refused", func(t *testing.T) {
		p := New(memory.NewInMemoryStore())
		assert.Error(t, p.Emit(ctx, audit.Event{Subject: "0xc1"}))
		assert.Error(t, p.Emit(ctx, audit.Event{Action: string(audit.EventModuleAdded)}))
	})
}
