// Package agent runs selection requests, either directly or as a long-lived
// agent consuming runselect.requests from the broker.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"runselect/src/contracts"
	"runselect/src/logger"
	"runselect/src/provider"
	"runselect/src/selector"
)

// TokenSource returns the API token for a provider name.
// *config.Config satisfies it.
type TokenSource interface {
	TokenFor(provider string) (string, error)
}

// Service resolves a job URL to its host, builds the policy and selects.
type Service struct {
	registry *selector.Registry
	tokens   TokenSource
	logger   logger.Logger
}

// NewService creates a selection service. A nil registry uses selector.Default.
func NewService(reg *selector.Registry, tokens TokenSource, log logger.Logger) *Service {
	if reg == nil {
		reg = selector.Default
	}
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Service{registry: reg, tokens: tokens, logger: log}
}

// Select runs one request. ok is false when no run matched. Errors wrap
// provider.ErrHostUnavailable when the host could not be read; every other
// error is a configuration problem.
func (s *Service) Select(ctx context.Context, req contracts.SelectionRequest) (provider.Run, bool, error) {
	sel, filter, err := s.registry.BuildPolicy(req.Policy)
	if err != nil {
		return provider.Run{}, false, err
	}

	ref, src, err := s.Resolve(req.JobURL)
	if err != nil {
		return provider.Run{}, false, err
	}

	sc := selector.NewContext(req.Invoker(), s.logger)
	return selector.Select(ctx, src, ref, sel, filter, sc)
}

// Resolve parses a job URL and returns the provider serving it.
func (s *Service) Resolve(jobURL string) (*provider.JobRef, provider.Provider, error) {
	ref, err := provider.ParseURL(jobURL)
	if err != nil {
		return nil, nil, err
	}

	var token string
	if s.tokens != nil {
		if token, err = s.tokens.TokenFor(ref.Provider); err != nil {
			return nil, nil, err
		}
	}

	src, err := provider.GetProvider(ref, token)
	if err != nil {
		return nil, nil, err
	}
	return ref, src, nil
}

// History reads a job's runs, newest first.
func (s *Service) History(ctx context.Context, jobURL string) (*provider.JobRef, selector.History, error) {
	ref, src, err := s.Resolve(jobURL)
	if err != nil {
		return nil, nil, err
	}

	runs, err := src.ListRuns(ctx, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: listing runs of %s: %w", provider.ErrHostUnavailable, ref, err)
	}
	return ref, selector.NewHistory(runs), nil
}

// Registry returns the registry policies are built from.
func (s *Service) Registry() *selector.Registry {
	return s.registry
}

// Handle runs one request and reports the outcome as a result message.
func (s *Service) Handle(ctx context.Context, req contracts.SelectionRequest) contracts.SelectionResult {
	result := contracts.SelectionResult{
		RequestID: req.RequestID,
		JobURL:    req.JobURL,
	}

	run, ok, err := s.Select(ctx, req)
	switch {
	case err != nil:
		result.Outcome = Outcome(err)
		result.Error = err.Error()
	case !ok:
		result.Outcome = contracts.OutcomeNoCandidate
	default:
		result.Outcome = contracts.OutcomeSelected
		result.Run = contracts.NewRunRecord(run)
	}

	result.CompletedAt = time.Now().UTC()
	return result
}

// Reject reports a request that could not be run at all, such as one whose
// policy failed to decode.
func (s *Service) Reject(req contracts.SelectionRequest, err error) contracts.SelectionResult {
	return contracts.SelectionResult{
		RequestID:   req.RequestID,
		JobURL:      req.JobURL,
		Outcome:     Outcome(err),
		Error:       err.Error(),
		CompletedAt: time.Now().UTC(),
	}
}

// Outcome classifies a selection error.
func Outcome(err error) string {
	if errors.Is(err, provider.ErrHostUnavailable) {
		return contracts.OutcomeHostError
	}
	return contracts.OutcomeConfigError
}

// ResultError turns a failed result back into an error, or nil.
func ResultError(result contracts.SelectionResult) error {
	switch result.Outcome {
	case contracts.OutcomeHostError:
		return fmt.Errorf("%w: %s", provider.ErrHostUnavailable, result.Error)
	case contracts.OutcomeConfigError:
		return fmt.Errorf("%w: %s", selector.ErrInvalidConfig, result.Error)
	default:
		return nil
	}
}
