// Package broker defines the interface for message brokers and provides implementations.
package broker

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a closed broker.
var ErrClosed = errors.New("broker is closed")

// Broker abstracts message publishing and consumption.
// This interface supports both in-memory (local) and distributed (Redpanda/Kafka) implementations.
type Broker interface {
	// Publish sends a message to a topic with an optional key for partitioning.
	// For in-memory broker, key is carried but not used for routing.
	// For Redpanda/Kafka, key is used for partition assignment.
	Publish(ctx context.Context, topic string, key string, value []byte) error

	// Subscribe returns a channel for consuming messages from a topic.
	// groupID is used for consumer group coordination in Kafka.
	// The channel is closed when ctx is done or the broker is closed.
	Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error)

	// Tail returns a channel of messages on topic produced at or after since,
	// outside any consumer group. Used for request/reply, where a caller only
	// wants the answers to requests it is about to send.
	// The channel is closed when ctx is done or the broker is closed.
	Tail(ctx context.Context, topic string, since time.Time) (<-chan Message, error)

	// Close shuts down the broker connection gracefully.
	Close() error
}

// Message represents a consumed message from a broker.
type Message struct {
	Topic     string
	Key       string
	Value     []byte
	Offset    int64
	Partition int32
	Timestamp int64
}
