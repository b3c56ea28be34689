// Package pubsub provides topic-based fanout of node events to UI
// consumers. Publishing never blocks: a subscriber that cannot keep up
// loses messages rather than stalling the event pump.
package pubsub

import (
	"context"
	"sync"
)

// subscriberBuffer is each subscription's channel capacity.
const subscriberBuffer = 100

// PubSub fans messages of type T out to per-topic subscribers.
type PubSub[T any] struct {
	subscribers map[string]map[*Subscription[T]]struct{}
	mu          sync.RWMutex
	shutdown    chan struct{}
	closeOnce   sync.Once
}

// Subscription is one subscriber's view of a topic.
type Subscription[T any] struct {
	topic     string
	channel   chan T
	ps        *PubSub[T]
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New creates an empty PubSub.
func New[T any]() *PubSub[T] {
	return &PubSub[T]{
		subscribers: make(map[string]map[*Subscription[T]]struct{}),
		shutdown:    make(chan struct{}),
	}
}

// Subscribe registers a new subscription to topic. The subscription is
// removed when ctx is cancelled, Unsubscribe is called, or the PubSub
// shuts down. Returns nil after shutdown.
func (ps *PubSub[T]) Subscribe(ctx context.Context, topic string) *Subscription[T] {
	select {
	case <-ps.shutdown:
		return nil
	default:
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		topic:   topic,
		channel: make(chan T, subscriberBuffer),
		ps:      ps,
		cancel:  cancel,
	}

	ps.mu.Lock()
	if ps.subscribers[topic] == nil {
		ps.subscribers[topic] = make(map[*Subscription[T]]struct{})
	}
	ps.subscribers[topic][sub] = struct{}{}
	ps.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-ps.shutdown:
			sub.close()
		}
	}()

	return sub
}

// Publish delivers message to every subscriber of topic. Slow
// subscribers are skipped, never awaited.
func (ps *PubSub[T]) Publish(topic string, message T) {
	select {
	case <-ps.shutdown:
		return
	default:
	}

	// Snapshot under the read lock so a concurrent Unsubscribe cannot
	// mutate the set mid-iteration.
	ps.mu.RLock()
	topicSubs := ps.subscribers[topic]
	subs := make([]*Subscription[T], 0, len(topicSubs))
	for sub := range topicSubs {
		subs = append(subs, sub)
	}
	ps.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.channel <- message:
		default:
		}
	}
}

// SubscriberCount returns the number of subscribers of topic.
func (ps *PubSub[T]) SubscriberCount(topic string) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers[topic])
}

// Shutdown closes every subscription. Idempotent.
func (ps *PubSub[T]) Shutdown() {
	ps.closeOnce.Do(func() { close(ps.shutdown) })

	ps.mu.Lock()
	defer ps.mu.Unlock()
	for topic, subs := range ps.subscribers {
		for sub := range subs {
			sub.close()
		}
		delete(ps.subscribers, topic)
	}
}

// Channel returns the subscription's message channel. It is closed on
// unsubscribe and on shutdown.
func (s *Subscription[T]) Channel() <-chan T {
	return s.channel
}

// Unsubscribe removes the subscription and closes its channel.
func (s *Subscription[T]) Unsubscribe() {
	s.cancel()

	s.ps.mu.Lock()
	if subs := s.ps.subscribers[s.topic]; subs != nil {
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.ps.subscribers, s.topic)
		}
	}
	s.ps.mu.Unlock()

	s.close()
}

func (s *Subscription[T]) close() {
	s.closeOnce.Do(func() { close(s.channel) })
}
