package events

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Publisher is the mutation-side interface: fire-and-forget fan-out of a
// change event to a topic's current subscribers. Publish never fails the
// originating mutation.
type Publisher interface {
	Publish(topic string, event ChangeEvent)
}

// Subscriber receives events for topics it is registered on. Send must
// not block; implementations buffer and report an error when they cannot
// keep up, at which point the hub drops them.
type Subscriber interface {
	ID() string
	Send(event ChangeEvent) error
}

// Hub is the subscriber registry and fan-out point. The registry is the
// one shared mutable resource in this core: the mutex guards only the
// brief registry reads and mutations, never the sends themselves.
type Hub struct {
	mu     sync.RWMutex
	topics map[string][]Subscriber
	closed bool
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		topics: make(map[string][]Subscriber),
		logger: logger,
	}
}

// Subscribe registers the subscriber on a topic. The topic comes into
// existence on first subscribe.
func (h *Hub) Subscribe(topic string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, existing := range h.topics[topic] {
		if existing.ID() == sub.ID() {
			return
		}
	}
	h.topics[topic] = append(h.topics[topic], sub)
}

// Unsubscribe removes the subscriber from a topic. Empty topics are
// deleted; they have no existence beyond their subscriber set.
func (h *Hub) Unsubscribe(topic string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.topics[topic]
	for i, existing := range subs {
		if existing.ID() == sub.ID() {
			h.topics[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(h.topics[topic]) == 0 {
		delete(h.topics, topic)
	}
}

// Publish fans the event out to every subscriber currently registered on
// the topic. Delivery is best-effort, at-most-once: a subscriber whose
// Send fails is logged and dropped, never retried, and the error never
// propagates to the caller.
func (h *Hub) Publish(topic string, event ChangeEvent) {
	h.mu.RLock()
	subs := append([]Subscriber(nil), h.topics[topic]...)
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.Send(event); err != nil {
			h.logger.Warn("dropping subscriber",
				zap.String("topic", topic),
				zap.String("subscriber", sub.ID()),
				zap.Error(err))
			h.Unsubscribe(topic, sub)
		}
	}
}

// SubscriberCount reports how many subscribers a topic currently has.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Close drops all subscribers and rejects further registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for topic := range h.topics {
		delete(h.topics, topic)
	}
}

// ErrSubscriberBacklogged reports a subscriber whose outbound buffer is
// full.
var ErrSubscriberBacklogged = errors.New("subscriber backlogged")

// ChannelSubscriber buffers events on a channel for a consumer goroutine
// to drain. Events arrive in publish order per topic; a full buffer marks
// the subscriber as backlogged so the hub drops it.
type ChannelSubscriber struct {
	id  string
	out chan ChangeEvent
}

// NewChannelSubscriber creates a subscriber with the given buffer size.
func NewChannelSubscriber(id string, buffer int) *ChannelSubscriber {
	if buffer <= 0 {
		buffer = 16
	}
	return &ChannelSubscriber{id: id, out: make(chan ChangeEvent, buffer)}
}

// ID returns the subscriber identity used for registry bookkeeping.
func (s *ChannelSubscriber) ID() string { return s.id }

// Send enqueues without blocking.
func (s *ChannelSubscriber) Send(event ChangeEvent) error {
	select {
	case s.out <- event:
		return nil
	default:
		return ErrSubscriberBacklogged
	}
}

// Events exposes the outbound stream for the consumer.
func (s *ChannelSubscriber) Events() <-chan ChangeEvent { return s.out }
