package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"runselect/src/agent"
	"runselect/src/logger"
	"runselect/src/mcp"
	"runselect/src/pipeline"
)

// agentCmd runs a long-lived selection agent
var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run a selection agent (Distributed Mode)",
	Long: `Consume selection requests from Redpanda, answer them on the results topic
and record every outcome in Postgres.

Requires REDPANDA_BROKERS and POSTGRES_DSN.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pipeline.DetectMode(appConfig) != pipeline.DistributedMode {
			return errors.New("REDPANDA_BROKERS environment variable is required for the selection agent (e.g. REDPANDA_BROKERS=localhost:19092)")
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			log.Info("Shutdown signal received, stopping agent...")
			cancel()
		}()

		log.Info("Starting runselect agent")
		log.Info("Redpanda brokers: %v", appConfig.RedpandaBrokers)

		p, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		a := agent.NewAgent(p.Broker, p.Store, newService(log), log)
		if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return failure("Agent error", err)
		}

		log.Info("Selection agent stopped")
		return nil
	},
}

// mcpCmd serves the MCP tools on stdio
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve run selection as MCP tools over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing the
select_run, list_runs, list_kinds and recent_selections tools.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		// stdout carries the protocol
		server := mcp.NewServer(newService(logger.NewSilentLogger()), st)
		if err := server.Run(); err != nil {
			return failure("MCP server error", err)
		}
		return nil
	},
}
