package broker

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// subscriberBuffer is the channel capacity of each in-memory subscriber.
const subscriberBuffer = 100

type subscriber struct {
	ch   chan Message
	done chan struct{}
	// sends counts publishers that may still write to ch. It is only
	// incremented under the broker lock while the subscriber is registered.
	sends    sync.WaitGroup
	stopOnce sync.Once
}

func newSubscriber() *subscriber {
	return &subscriber{
		ch:   make(chan Message, subscriberBuffer),
		done: make(chan struct{}),
	}
}

// stop releases publishers blocked on this subscriber, waits for them to
// leave, then closes ch. Safe to call more than once.
func (s *subscriber) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.sends.Wait()
		close(s.ch)
	})
}

// InMemoryBroker delivers messages to subscribers in the same process.
// Every subscriber of a topic receives every message published after it
// subscribed; there is no replay. Used for local mode and tests.
type InMemoryBroker struct {
	mu      sync.Mutex
	subs    map[string][]*subscriber
	offsets map[string]int64
	closed  bool
}

// NewInMemoryBroker creates a new InMemoryBroker instance.
func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		subs:    make(map[string][]*subscriber),
		offsets: make(map[string]int64),
	}
}

// Publish delivers value to every current subscriber of topic. It blocks while
// a subscriber's buffer is full, until that subscriber goes away or ctx is
// done. The broker lock is not held while waiting.
func (b *InMemoryBroker) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	offset := b.offsets[topic]
	b.offsets[topic]++
	subs := append([]*subscriber(nil), b.subs[topic]...)
	for _, sub := range subs {
		sub.sends.Add(1)
	}
	b.mu.Unlock()

	msg := Message{
		Topic:     topic,
		Key:       key,
		Value:     value,
		Offset:    offset,
		Timestamp: time.Now().UnixMilli(),
	}

	var err error
	for _, sub := range subs {
		if err == nil {
			select {
			case sub.ch <- msg:
			case <-sub.done:
			case <-ctx.Done():
				err = fmt.Errorf("publish to %s: %w", topic, ctx.Err())
			}
		}
		sub.sends.Done()
	}
	return err
}

// Subscribe registers a subscriber. groupID is ignored: every subscriber sees
// every message. The channel closes when ctx is done or the broker is closed.
func (b *InMemoryBroker) Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	sub := newSubscriber()
	b.subs[topic] = append(b.subs[topic], sub)

	go func() {
		select {
		case <-ctx.Done():
			b.unsubscribe(topic, sub)
		case <-sub.done:
		}
	}()

	return sub.ch, nil
}

// Tail is Subscribe without a group. Nothing is replayed, so since is ignored.
func (b *InMemoryBroker) Tail(ctx context.Context, topic string, since time.Time) (<-chan Message, error) {
	return b.Subscribe(ctx, topic, "")
}

func (b *InMemoryBroker) unsubscribe(topic string, sub *subscriber) {
	b.mu.Lock()
	subs := b.subs[topic]
	for i, s := range subs {
		if s == sub {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	b.mu.Unlock()

	sub.stop()
}

// Close closes every subscriber channel. Further calls are no-ops.
func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true

	var all []*subscriber
	for topic, subs := range b.subs {
		all = append(all, subs...)
		delete(b.subs, topic)
	}
	b.mu.Unlock()

	for _, sub := range all {
		sub.stop()
	}
	return nil
}
