package subscription

import (
	"sync"

	"go.uber.org/zap"
)

const DefaultBuffer = 16

type SubscriptionManager[T any] struct {
	mu     sync.Mutex
	subs   map[string][]chan T // topic -> subscriber channels
	buffer int
	log    *zap.Logger
}

func NewSubscriptionManager[T any](buffer int, log *zap.Logger) *SubscriptionManager[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SubscriptionManager[T]{
		subs:   make(map[string][]chan T),
		buffer: buffer,
		log:    log.Named("subscription"),
	}
}

// Subscribe registers a subscriber on topic. The returned function removes
// the subscriber and closes its channel; calling it more than once is safe.
func (m *SubscriptionManager[T]) Subscribe(topic string) (<-chan T, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan T, m.buffer)
	m.subs[topic] = append(m.subs[topic], ch)

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		subscribers := m.subs[topic]
		for i, sub := range subscribers {
			if sub == ch {
				subscribers = append(subscribers[:i], subscribers[i+1:]...)
				close(ch)
				break
			}
		}
		if len(subscribers) == 0 {
			delete(m.subs, topic)
			return
		}
		m.subs[topic] = subscribers
	}

	return ch, cancel
}

// Publish hands msg to every current subscriber of topic without blocking.
// A subscriber whose buffer is full misses the message.
func (m *SubscriptionManager[T]) Publish(topic string, msg T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[topic] {
		select {
		case sub <- msg:
		default:
			m.log.Warn("subscriber is not keeping up, message dropped", zap.String("topic", topic))
		}
	}
}

// Subscribers returns the number of subscribers on topic.
func (m *SubscriptionManager[T]) Subscribers(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[topic])
}
