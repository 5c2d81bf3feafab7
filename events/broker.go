// Package events is the in-process change feed: services publish row
// changes and subscribers (SSE clients, the notifier) receive them.
package events

import (
	"sync"
	"time"

	"github.com/blogem/time-tracker/models"
)

// Publisher is what services need from the change feed
type Publisher interface {
	Publish(event models.ChangeEvent)
}

// Broker fans change events out to subscribers.
// A subscriber whose buffer is full misses the event.
type Broker struct {
	mu         sync.RWMutex
	subs       map[int]chan models.ChangeEvent
	nextID     int
	bufferSize int
	closed     bool
}

// NewBroker creates a broker whose subscriber channels hold bufferSize events
func NewBroker(bufferSize int) *Broker {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Broker{
		subs:       make(map[int]chan models.ChangeEvent),
		bufferSize: bufferSize,
	}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe() (<-chan models.ChangeEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan models.ChangeEvent, b.bufferSize)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Publish delivers event to every subscriber without blocking
func (b *Broker) Publish(event models.ChangeEvent) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscriber channel; later subscribers get a closed channel
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
