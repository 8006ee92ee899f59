package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"runselect/src/broker"
	"runselect/src/contracts"
)

// replyClockSkew widens the results window to cover agents whose clocks run
// behind the client's.
const replyClockSkew = 30 * time.Second

// Client submits selection requests and waits for their results.
type Client struct {
	broker  broker.Broker
	results <-chan broker.Message
}

// NewClient tails the results topic from now on. Create the client before
// submitting so no result can be produced ahead of it.
func NewClient(ctx context.Context, brk broker.Broker) (*Client, error) {
	results, err := brk.Tail(ctx, contracts.TopicSelectionResults, time.Now().Add(-replyClockSkew))
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", contracts.TopicSelectionResults, err)
	}
	return &Client{
		broker:  brk,
		results: results,
	}, nil
}

// Submit publishes req and returns its request ID, generating one if unset.
func (c *Client) Submit(ctx context.Context, req contracts.SelectionRequest) (string, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}

	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := c.broker.Publish(ctx, contracts.TopicSelectionRequests, req.RequestID, data); err != nil {
		return "", fmt.Errorf("failed to publish request: %w", err)
	}

	return req.RequestID, nil
}

// Await blocks until the result for requestID arrives. Results for other
// requests are skipped.
func (c *Client) Await(ctx context.Context, requestID string) (contracts.SelectionResult, error) {
	for {
		select {
		case msg, ok := <-c.results:
			if !ok {
				return contracts.SelectionResult{}, fmt.Errorf("result stream closed before %s completed", requestID)
			}
			if msg.Key != "" && msg.Key != requestID {
				continue
			}

			var result contracts.SelectionResult
			if err := json.Unmarshal(msg.Value, &result); err != nil {
				continue
			}
			if result.RequestID == requestID {
				return result, nil
			}

		case <-ctx.Done():
			return contracts.SelectionResult{}, fmt.Errorf("waiting for %s: %w", requestID, ctx.Err())
		}
	}
}
