package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/time-tracker/models"
)

func receive(t *testing.T, ch <-chan models.ChangeEvent) models.ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return models.ChangeEvent{}
}

func TestBroker_FanOut(t *testing.T) {
	b := NewBroker(4)
	first, cancelFirst := b.Subscribe()
	second, cancelSecond := b.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	b.Publish(models.ChangeEvent{Table: models.TableTimeLogs, Type: models.ChangeInsert, Record: "x"})

	ev1 := receive(t, first)
	ev2 := receive(t, second)
	assert.Equal(t, models.TableTimeLogs, ev1.Table)
	assert.Equal(t, models.ChangeInsert, ev2.Type)
	assert.False(t, ev1.At.IsZero(), "publish should stamp the event")
}

func TestBroker_CancelUnsubscribes(t *testing.T) {
	b := NewBroker(1)
	ch, cancel := b.Subscribe()
	assert.Equal(t, 1, b.SubscriberCount())

	cancel()
	cancel() // idempotent
	assert.Equal(t, 0, b.SubscriberCount())

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after cancel")

	// publishing with no subscribers must not panic
	b.Publish(models.ChangeEvent{Table: models.TableEmployees})
}

func TestBroker_DropsWhenBufferFull(t *testing.T) {
	b := NewBroker(1)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(models.ChangeEvent{Record: 1})
	b.Publish(models.ChangeEvent{Record: 2}) // dropped, must not block

	ev := receive(t, ch)
	assert.Equal(t, 1, ev.Record)
	select {
	case <-ch:
		t.Fatal("expected the second event to be dropped")
	default:
	}
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker(1)
	ch, cancel := b.Subscribe()
	b.Close()
	b.Close()
	cancel() // after Close must not double close

	_, ok := <-ch
	assert.False(t, ok)

	late, _ := b.Subscribe()
	_, ok = <-late
	assert.False(t, ok, "subscribing after close yields a closed channel")
}
