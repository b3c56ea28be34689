package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"
)

// TestBasicPubSub tests basic publish/subscribe functionality
func TestBasicPubSub(t *testing.T) {
	ps := New[string]()
	defer ps.Shutdown()

	ctx := context.Background()
	sub := ps.Subscribe(ctx, "test-topic")
	if sub == nil {
		t.Fatal("Subscribe returned nil before shutdown")
	}
	defer sub.Unsubscribe()

	ps.Publish("test-topic", "Hello, World!")

	select {
	case msg := <-sub.Channel():
		if msg != "Hello, World!" {
			t.Errorf("Expected 'Hello, World!', got %v", msg)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

// TestMultipleSubscribers tests that every subscriber of a topic
// receives a published message
func TestMultipleSubscribers(t *testing.T) {
	ps := New[string]()
	defer ps.Shutdown()

	ctx := context.Background()
	numSubscribers := 5
	subs := make([]*Subscription[string], numSubscribers)
	for i := range subs {
		subs[i] = ps.Subscribe(ctx, "broadcast-topic")
		defer subs[i].Unsubscribe()
	}

	if n := ps.SubscriberCount("broadcast-topic"); n != numSubscribers {
		t.Fatalf("SubscriberCount = %d, want %d", n, numSubscribers)
	}

	ps.Publish("broadcast-topic", "Broadcast message")

	for i, sub := range subs {
		select {
		case msg := <-sub.Channel():
			if msg != "Broadcast message" {
				t.Errorf("Subscriber %d: got %v", i, msg)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("Subscriber %d: timeout waiting for message", i)
		}
	}
}

// TestTopicIsolation tests that messages are isolated by topic
func TestTopicIsolation(t *testing.T) {
	ps := New[int]()
	defer ps.Shutdown()

	ctx := context.Background()
	sub1 := ps.Subscribe(ctx, "topic-1")
	sub2 := ps.Subscribe(ctx, "topic-2")
	defer sub1.Unsubscribe()
	defer sub2.Unsubscribe()

	ps.Publish("topic-1", 42)

	select {
	case msg := <-sub1.Channel():
		if msg != 42 {
			t.Errorf("Expected 42, got %v", msg)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for message on topic-1")
	}

	select {
	case msg := <-sub2.Channel():
		t.Errorf("topic-2 subscriber received %v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

// TestUnsubscribe tests that unsubscribed channels close and stop
// receiving
func TestUnsubscribe(t *testing.T) {
	ps := New[string]()
	defer ps.Shutdown()

	sub := ps.Subscribe(context.Background(), "topic")
	sub.Unsubscribe()

	if n := ps.SubscriberCount("topic"); n != 0 {
		t.Errorf("SubscriberCount after Unsubscribe = %d, want 0", n)
	}

	// The channel must be closed.
	select {
	case _, ok := <-sub.Channel():
		if ok {
			t.Error("expected a closed channel")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for channel close")
	}

	// Publishing afterwards must not panic.
	ps.Publish("topic", "late message")
}

// TestContextCancellation tests that cancelling the context removes
// the subscription
func TestContextCancellation(t *testing.T) {
	ps := New[string]()
	defer ps.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	sub := ps.Subscribe(ctx, "topic")

	cancel()

	deadline := time.Now().Add(1 * time.Second)
	for ps.SubscriberCount("topic") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription not removed after context cancellation")
		}
		time.Sleep(time.Millisecond)
	}

	select {
	case _, ok := <-sub.Channel():
		if ok {
			t.Error("expected a closed channel")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for channel close")
	}
}

// TestShutdown tests that shutdown closes every subscription and stops
// new ones
func TestShutdown(t *testing.T) {
	ps := New[string]()

	sub1 := ps.Subscribe(context.Background(), "a")
	sub2 := ps.Subscribe(context.Background(), "b")

	ps.Shutdown()
	ps.Shutdown() // idempotent

	for _, sub := range []*Subscription[string]{sub1, sub2} {
		select {
		case _, ok := <-sub.Channel():
			if ok {
				t.Error("expected a closed channel after shutdown")
			}
		case <-time.After(1 * time.Second):
			t.Fatal("Timeout waiting for channel close")
		}
	}

	if sub := ps.Subscribe(context.Background(), "a"); sub != nil {
		t.Error("Subscribe after shutdown should return nil")
	}

	// Publishing after shutdown is a no-op, not a panic.
	ps.Publish("a", "ignored")
}

// TestSlowSubscriberDoesNotBlock tests that a full subscriber buffer
// never stalls Publish
func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	ps := New[int]()
	defer ps.Shutdown()

	sub := ps.Subscribe(context.Background(), "firehose")
	defer sub.Unsubscribe()

	done := make(chan struct{})
	go func() {
		// Publish far more than the buffer without anyone reading.
		for i := 0; i < subscriberBuffer*3; i++ {
			ps.Publish("firehose", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

// TestConcurrentPublishSubscribe exercises the lock paths under
// concurrent use
func TestConcurrentPublishSubscribe(t *testing.T) {
	ps := New[int]()
	defer ps.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sub := ps.Subscribe(context.Background(), "contended")
				ps.Publish("contended", j)
				sub.Unsubscribe()
			}
		}()
	}
	wg.Wait()

	if n := ps.SubscriberCount("contended"); n != 0 {
		t.Errorf("SubscriberCount = %d, want 0", n)
	}
}
