// Package main provides the MCP server entry point for runselect.
// It serves the select_run, list_runs, list_kinds and recent_selections tools
// over stdio for MCP clients that launch a dedicated binary.
package main

import (
	"context"
	"fmt"
	"os"

	_ "runselect/src/buildkite"
	_ "runselect/src/githubactions"

	"runselect/src/agent"
	"runselect/src/config"
	"runselect/src/logger"
	"runselect/src/mcp"
	"runselect/src/pipeline"
	"runselect/src/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	st, err := pipeline.OpenStore(context.Background(), cfg, pipeline.LocalMode)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()
	store.Register(st)

	// stdout carries the protocol
	svc := agent.NewService(nil, cfg, logger.NewSilentLogger())
	if err := mcp.NewServer(svc, st).Run(); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
