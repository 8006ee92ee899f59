package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"runselect/src/broker"
	"runselect/src/contracts"
	"runselect/src/logger"
	"runselect/src/selector"
	"runselect/src/store"
)

// ConsumerGroup is the broker consumer group of selection agents.
const ConsumerGroup = "runselect-agent"

// Agent consumes selection requests and publishes selection results.
type Agent struct {
	broker  broker.Broker
	store   store.Store
	service *Service
	logger  logger.Logger
}

// NewAgent creates a new selection agent. st records the audit log; it may be nil.
func NewAgent(brk broker.Broker, st store.Store, svc *Service, log logger.Logger) *Agent {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Agent{
		broker:  brk,
		store:   st,
		service: svc,
		logger:  log,
	}
}

// Run starts the agent's main loop.
// It subscribes to runselect.requests and answers every request on runselect.results.
func (a *Agent) Run(ctx context.Context) error {
	msgChan, err := a.Listen(ctx)
	if err != nil {
		return err
	}
	return a.Serve(ctx, msgChan)
}

// Listen subscribes to the requests topic. Requests published after Listen
// returns are delivered to Serve.
func (a *Agent) Listen(ctx context.Context) (<-chan broker.Message, error) {
	a.logger.Info("[SelectAgent] Starting...")

	msgChan, err := a.broker.Subscribe(ctx, contracts.TopicSelectionRequests, ConsumerGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", contracts.TopicSelectionRequests, err)
	}

	a.logger.Info("[SelectAgent] Listening for requests on '%s' topic...", contracts.TopicSelectionRequests)
	return msgChan, nil
}

// Serve processes messages until msgChan closes or ctx is done.
func (a *Agent) Serve(ctx context.Context, msgChan <-chan broker.Message) error {
	for {
		select {
		case msg, ok := <-msgChan:
			if !ok {
				a.logger.Info("[SelectAgent] Message channel closed, shutting down")
				return nil
			}

			if err := a.processRequest(ctx, msg); err != nil {
				a.logger.Error("[SelectAgent] Error processing request: %v", err)
			}

		case <-ctx.Done():
			a.logger.Info("[SelectAgent] Context cancelled, shutting down")
			return ctx.Err()
		}
	}
}

// processRequest handles one selection request.
func (a *Agent) processRequest(ctx context.Context, msg broker.Message) error {
	request, err := contracts.DecodeSelectionRequest(msg.Value)
	if err != nil && !errors.Is(err, selector.ErrInvalidConfig) {
		return err
	}

	if request.RequestID == "" {
		request.RequestID = uuid.NewString()
	}

	a.logger.Info("[SelectAgent] Processing request %s for %s", request.RequestID, request.JobURL)

	var result contracts.SelectionResult
	if err != nil {
		result = a.service.Reject(request, err)
	} else {
		result = a.service.Handle(ctx, request)
	}

	switch result.Outcome {
	case contracts.OutcomeSelected:
		a.logger.Info("[SelectAgent] Request %s selected run #%d (%s)", result.RequestID, result.Run.Number, result.Run.Status)
	case contracts.OutcomeNoCandidate:
		a.logger.Info("[SelectAgent] Request %s: no run matched", result.RequestID)
	default:
		a.logger.Error("[SelectAgent] Request %s failed (%s): %s", result.RequestID, result.Outcome, result.Error)
	}

	if a.store != nil {
		if err := a.store.SaveSelection(ctx, result); err != nil {
			a.logger.Error("[SelectAgent] Failed to record selection %s: %v", result.RequestID, err)
		}
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := a.broker.Publish(ctx, contracts.TopicSelectionResults, result.RequestID, data); err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}

	return nil
}
