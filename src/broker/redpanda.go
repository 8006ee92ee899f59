// Package broker provides Redpanda/Kafka broker implementation.
package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"runselect/src/logger"
)

// RedpandaBroker is a Kafka-compatible broker implementation using franz-go.
type RedpandaBroker struct {
	client    *kgo.Client
	brokers   []string
	mu        sync.RWMutex
	consumers map[string]*kgo.Client // topic:groupID or topic:tail-N -> consumer client
	tails     int
	closed    bool
	log       logger.Logger
}

// NewRedpandaBroker creates a new RedpandaBroker instance.
// brokers is a slice of broker addresses (e.g., ["localhost:19092"]).
// Fetch errors are reported to log; a nil log discards them.
func NewRedpandaBroker(brokers []string, log logger.Logger) (*RedpandaBroker, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker address is required")
	}

	// Create producer client
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka client: %w", err)
	}

	if log == nil {
		log = logger.NewSilentLogger()
	}

	return &RedpandaBroker{
		client:    client,
		brokers:   brokers,
		consumers: make(map[string]*kgo.Client),
		closed:    false,
		log:       log,
	}, nil
}

// Ping checks that at least one seed broker answers.
func (b *RedpandaBroker) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx); err != nil {
		return fmt.Errorf("no Redpanda broker reachable at %v: %w", b.brokers, err)
	}
	return nil
}

// Publish sends a message to a topic with the specified key.
// Implements the Broker interface.
func (b *RedpandaBroker) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}

	// Synchronous produce for simplicity
	results := b.client.ProduceSync(ctx, record)
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	return nil
}

// Subscribe joins groupID on topic. A group with no committed offsets starts
// from the beginning of the topic, so a new agent picks up requests sent
// while none was running.
func (b *RedpandaBroker) Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error) {
	key := fmt.Sprintf("%s:%s", topic, groupID)
	return b.consume(ctx, key,
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
}

// Tail consumes topic directly, without a group, from the first record
// timestamped at or after since. Nothing is committed and no group is left
// behind on the cluster.
func (b *RedpandaBroker) Tail(ctx context.Context, topic string, since time.Time) (<-chan Message, error) {
	b.mu.Lock()
	b.tails++
	key := fmt.Sprintf("%s:tail-%d", topic, b.tails)
	b.mu.Unlock()

	return b.consume(ctx, key,
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AfterMilli(since.UnixMilli())),
	)
}

// consume starts a consumer client registered under key. The client is
// closed when ctx is done or the broker is closed.
func (b *RedpandaBroker) consume(ctx context.Context, key string, opts ...kgo.Opt) (<-chan Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	if _, exists := b.consumers[key]; exists {
		return nil, fmt.Errorf("consumer already exists for %s", key)
	}

	consumer, err := kgo.NewClient(append([]kgo.Opt{kgo.SeedBrokers(b.brokers...)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	b.consumers[key] = consumer

	msgChan := make(chan Message, 100)
	go func() {
		b.consumeLoop(ctx, consumer, msgChan)
		b.release(key)
	}()

	return msgChan, nil
}

// release closes the consumer under key unless Close already did.
func (b *RedpandaBroker) release(key string) {
	b.mu.Lock()
	consumer, ok := b.consumers[key]
	delete(b.consumers, key)
	b.mu.Unlock()

	if ok {
		consumer.Close()
	}
}

// consumeLoop continuously polls for messages and sends them to the channel.
func (b *RedpandaBroker) consumeLoop(ctx context.Context, consumer *kgo.Client, msgChan chan<- Message) {
	defer close(msgChan)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			fetches := consumer.PollFetches(ctx)
			if fetches.IsClientClosed() || ctx.Err() != nil {
				return
			}

			// Handle any errors
			if errs := fetches.Errors(); len(errs) > 0 {
				// Log errors but continue
				for _, err := range errs {
					b.log.Error("[RedpandaBroker] Fetch error on %s/%d: %v", err.Topic, err.Partition, err.Err)
				}
				continue
			}

			// Process records
			fetches.EachRecord(func(record *kgo.Record) {
				msg := Message{
					Topic:     record.Topic,
					Key:       string(record.Key),
					Value:     record.Value,
					Offset:    record.Offset,
					Partition: record.Partition,
					Timestamp: record.Timestamp.UnixMilli(),
				}

				select {
				case msgChan <- msg:
				case <-ctx.Done():
					return
				}
			})
		}
	}
}

// Close shuts down the broker and all consumer connections.
func (b *RedpandaBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true

	// Close all consumers
	for _, consumer := range b.consumers {
		consumer.Close()
	}
	b.consumers = make(map[string]*kgo.Client)

	// Close producer client
	b.client.Close()

	return nil
}
