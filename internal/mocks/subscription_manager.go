package mocks

import (
	"sync"
)

// MockSubscriptionManager implements subscription.Manager and records every
// published message per topic for assertions.
type MockSubscriptionManager[T any] struct {
	mu            sync.Mutex
	subs          map[string][]chan T
	notifications map[string][]T
}

func NewMockSubscriptionManager[T any]() *MockSubscriptionManager[T] {
	return &MockSubscriptionManager[T]{
		subs:          make(map[string][]chan T),
		notifications: make(map[string][]T),
	}
}

func (m *MockSubscriptionManager[T]) Subscribe(topic string) (<-chan T, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan T, 1)
	m.subs[topic] = append(m.subs[topic], ch)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			subscribers := m.subs[topic]
			for i, sub := range subscribers {
				if sub == ch {
					m.subs[topic] = append(subscribers[:i], subscribers[i+1:]...)
					close(ch)
					break
				}
			}
		})
	}

	return ch, cancel
}

func (m *MockSubscriptionManager[T]) Publish(topic string, msg T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[topic] {
		select {
		case sub <- msg:
		default:
		}
	}

	m.notifications[topic] = append(m.notifications[topic], msg)
}

// GetNotifications returns everything published on topic so far.
func (m *MockSubscriptionManager[T]) GetNotifications(topic string) []T {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]T(nil), m.notifications[topic]...)
}

// Topics returns how many messages were published per topic.
func (m *MockSubscriptionManager[T]) Topics() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[string]int, len(m.notifications))
	for topic, msgs := range m.notifications {
		counts[topic] = len(msgs)
	}
	return counts
}
