package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "portal/pkg/platform/audit"
	"portal/pkg/platform/audit/store/memory"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("disk full")
}

func completedEvent() audit.Event {
	return audit.Event{
		Action:        audit.ActionRegistrationCompleted,
		Subject:       "20-****5977-5",
		SubjectIDHash: audit.HashSubjectID("20206159775"),
	}
}

func TestEmit(t *testing.T) {
	t.Run("persists with defaults filled in", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		metrics := NewMetrics(prometheus.NewRegistry())
		pub := New(store, WithMetrics(metrics))

		require.NoError(t, pub.Emit(context.Background(), completedEvent()))

		events, err := store.ListBySubject(context.Background(), audit.HashSubjectID("20206159775"))
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.NotEmpty(t, events[0].ID)
		assert.False(t, events[0].Timestamp.IsZero())
		assert.Equal(t, audit.CategoryCompliance, events[0].Category)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EventsEmitted))
	})

	t.Run("keeps caller timestamp", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		event := completedEvent()
		event.Timestamp = ts

		require.NoError(t, New(store).Emit(context.Background(), event))
		events, _ := store.ListRecent(context.Background(), 10)
		require.Len(t, events, 1)
		assert.Equal(t, ts, events[0].Timestamp)
	})

	t.Run("requires action and subject", func(t *testing.T) {
		pub := New(memory.NewInMemoryStore())

		event := completedEvent()
		event.Action = ""
		assert.ErrorIs(t, pub.Emit(context.Background(), event), errMissingAction)

		event = completedEvent()
		event.SubjectIDHash = ""
		assert.ErrorIs(t, pub.Emit(context.Background(), event), errMissingSubject)
	})

	t.Run("fails closed when the store fails", func(t *testing.T) {
		metrics := NewMetrics(prometheus.NewRegistry())
		pub := New(failingStore{}, WithMetrics(metrics))

		err := pub.Emit(context.Background(), completedEvent())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PersistFailures))
		assert.Equal(t, 0.0, testutil.ToFloat64(metrics.EventsEmitted))
	})
}
