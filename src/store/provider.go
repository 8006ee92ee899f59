package store

import (
	"context"
	"fmt"

	"runselect/src/provider"
)

// Provider serves job histories recorded in a Store as the "local" CI host.
type Provider struct {
	store Store
}

// NewProvider wraps st.
func NewProvider(st Store) *Provider {
	return &Provider{store: st}
}

// Name returns "local"
func (p *Provider) Name() string {
	return "local"
}

// ParseURL delegates to provider.ParseURL
func (p *Provider) ParseURL(url string) (*provider.JobRef, error) {
	return provider.ParseURL(url)
}

// ListRuns reads the job's recorded runs.
func (p *Provider) ListRuns(ctx context.Context, ref *provider.JobRef) ([]provider.Run, error) {
	if ref.Name == "" {
		return nil, fmt.Errorf("%w: %s has no job name", provider.ErrInvalidURL, ref)
	}
	return p.store.ListRuns(ctx, ref.Name)
}

// Register makes st available as the "local" provider.
func Register(st Store) {
	provider.RegisterProvider("local", func(string) provider.Provider {
		return NewProvider(st)
	})
}
