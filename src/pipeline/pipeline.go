// Package pipeline wires the broker, store and selection agent together.
// It is used by the CLI (local and distributed mode) and the MCP server.
package pipeline

import (
	"context"
	"fmt"

	"runselect/src/agent"
	"runselect/src/broker"
	"runselect/src/config"
	"runselect/src/logger"
	"runselect/src/store"
)

// Mode selects where requests are processed.
type Mode int

const (
	// LocalMode runs the agent in-process over an in-memory broker.
	LocalMode Mode = iota
	// DistributedMode talks to agents over Redpanda with a Postgres store.
	DistributedMode
)

func (m Mode) String() string {
	switch m {
	case LocalMode:
		return "local"
	case DistributedMode:
		return "distributed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// DetectMode picks DistributedMode when Redpanda brokers are configured.
func DetectMode(cfg *config.Config) Mode {
	if len(cfg.RedpandaBrokers) > 0 {
		return DistributedMode
	}
	return LocalMode
}

// Pipeline owns a broker and a store.
type Pipeline struct {
	Mode   Mode
	Broker broker.Broker
	Store  store.Store
}

// New opens the broker and store for the configured mode.
//
// Local mode uses an in-memory broker, and Postgres when POSTGRES_DSN is set
// or an in-memory store otherwise. Distributed mode requires both Redpanda
// and Postgres.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*Pipeline, error) {
	mode := DetectMode(cfg)

	st, err := OpenStore(ctx, cfg, mode)
	if err != nil {
		return nil, err
	}

	var brk broker.Broker
	switch mode {
	case DistributedMode:
		rp, err := broker.NewRedpandaBroker(cfg.RedpandaBrokers, log)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to create Redpanda broker: %w", err)
		}
		if err := rp.Ping(ctx); err != nil {
			rp.Close()
			st.Close()
			return nil, err
		}
		brk = rp
	default:
		brk = broker.NewInMemoryBroker()
	}

	return &Pipeline{Mode: mode, Broker: brk, Store: st}, nil
}

// OpenStore opens Postgres when a DSN is configured. Without one, local mode
// falls back to memory and distributed mode fails.
func OpenStore(ctx context.Context, cfg *config.Config, mode Mode) (store.Store, error) {
	if cfg.PostgresDSN == "" {
		if mode == DistributedMode {
			return nil, fmt.Errorf("POSTGRES_DSN is required when REDPANDA_BROKERS is set")
		}
		return store.NewMemoryStore(), nil
	}

	pg, err := store.NewPostgresStore(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create Postgres store: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}

// Start subscribes an in-process agent to the pipeline's broker and serves
// requests in a goroutine until ctx is done. Requests published after Start
// returns are answered.
func (p *Pipeline) Start(ctx context.Context, svc *agent.Service, log logger.Logger) error {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	a := agent.NewAgent(p.Broker, p.Store, svc, log)

	msgs, err := a.Listen(ctx)
	if err != nil {
		return err
	}

	go func() {
		if err := a.Serve(ctx, msgs); err != nil && err != context.Canceled {
			log.Error("[Pipeline] Selection agent error: %v", err)
		}
	}()
	return nil
}

// Close shuts down the pipeline.
func (p *Pipeline) Close() error {
	if err := p.Broker.Close(); err != nil {
		return err
	}
	return p.Store.Close()
}
