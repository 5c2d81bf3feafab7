package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"github.com/blogem/time-tracker/events"
	"github.com/blogem/time-tracker/models"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	to   []string
	err  error
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.to = append(f.to, to.Recipient())
	f.sent = append(f.sent, what.(string))
	return &tele.Message{}, f.err
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

type inlineRunner struct{}

func (inlineRunner) Go(fn func(ctx context.Context) error) error {
	return fn(context.Background())
}

func checkIn() models.ChangeEvent {
	return models.ChangeEvent{
		Table: models.TableTimeLogs,
		Type:  models.ChangeInsert,
		Record: models.TimeLog{
			EmployeeName: "Alice",
			Type:         models.LogCheckIn,
			Timestamp:    "09:00:00 AM",
			Date:         "2026-10-16",
		},
	}
}

func TestMessage(t *testing.T) {
	text, ok := Message(checkIn())
	require.True(t, ok)
	assert.Contains(t, text, "Alice")
	assert.Contains(t, text, "09:00:00 AM")
	assert.Contains(t, text, "Fri, Oct 16, 2026")

	_, ok = Message(models.ChangeEvent{Table: models.TableEmployees, Type: models.ChangeInsert, Record: models.Employee{}})
	assert.False(t, ok)

	_, ok = Message(models.ChangeEvent{Table: models.TableTimeLogs, Type: models.ChangeDelete})
	assert.False(t, ok)
}

func TestNotifierRun(t *testing.T) {
	broker := events.NewBroker(4)
	sender := &fakeSender{}
	n := New(sender, 42, inlineRunner{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.Run(ctx, broker)
		close(done)
	}()

	require.Eventually(t, func() bool { return broker.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	broker.Publish(models.ChangeEvent{Table: models.TableEmployees, Type: models.ChangeInsert, Record: models.Employee{Name: "Bob"}})
	broker.Publish(checkIn())

	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, time.Second, 5*time.Millisecond)
	sender.mu.Lock()
	assert.Equal(t, []string{"42"}, sender.to)
	sender.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notifier did not stop")
	}
	assert.Equal(t, 0, broker.SubscriberCount())
}

func TestNotifierSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("chat not found")}
	n := New(sender, 1, inlineRunner{})

	assert.Error(t, n.send("hello"))
}

func TestNewTelegramBotOffline(t *testing.T) {
	bot, err := NewTelegramBot("123:abc")
	require.NoError(t, err)
	assert.NotNil(t, bot)
}
