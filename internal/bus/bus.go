// Package bus implements the process-wide publish/subscribe channel used
// for low-frequency structural notifications. Subsystems listen to topics
// without depending on the store or coordinator types directly.
package bus

import (
	"reflect"
	"sync"
	"time"
)

// Well-known topics.
const (
	TopicPanelShown      = "panel:shown"
	TopicSidebarToggled  = "sidebar:toggled"
	TopicContentReloaded = "content:reloaded"
)

// SubscriberBuffer is the channel buffer size per subscriber. A slow
// subscriber drops events rather than blocking publishers.
const SubscriberBuffer = 16

// Event is one published notification.
type Event struct {
	Topic     string
	Payload   interface{}
	Timestamp time.Time
}

// Bus dispatches events to per-topic subscriber channels.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]chan Event
	closed bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]chan Event)}
}

// Subscribe returns a buffered channel receiving events for the topic.
// The channel is closed by Unsubscribe or Close.
func (b *Bus) Subscribe(topic string) <-chan Event {
	ch := make(chan Event, SubscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[topic] = append(b.subs[topic], ch)
	return ch
}

// Unsubscribe removes a subscriber channel from a topic and closes it.
func (b *Bus) Unsubscribe(topic string, ch <-chan Event) {
	if ch == nil {
		return
	}
	target := reflect.ValueOf(ch).Pointer()
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[topic]
	for i, sub := range subs {
		if reflect.ValueOf(sub).Pointer() == target {
			b.subs[topic] = append(subs[:i], subs[i+1:]...)
			close(sub)
			break
		}
	}
}

// Publish sends an event to every subscriber of the topic. Safe to call
// from any goroutine and never blocks: events to a full subscriber channel
// are dropped.
func (b *Bus) Publish(topic string, payload interface{}) {
	event := Event{Topic: topic, Payload: payload, Timestamp: time.Now()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs[topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close closes every subscriber channel and rejects further publishes.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, subs := range b.subs {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subs = make(map[string][]chan Event)
}
