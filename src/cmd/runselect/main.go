// Package main provides the runselect CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"runselect/src/agent"
	// Host adapters register themselves with the provider registry.
	_ "runselect/src/buildkite"
	_ "runselect/src/githubactions"

	"runselect/src/config"
	"runselect/src/logger"
	"runselect/src/pipeline"
	"runselect/src/provider"
	"runselect/src/store"
)

var (
	appConfig *config.Config
	log       logger.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "runselect",
	Short: "runselect - pick a run from a CI job's history",
	Long: `runselect applies a selection policy to the history of a CI job
(a Buildkite pipeline, a GitHub Actions workflow, or a locally recorded job)
and picks at most one run: the newest stable build, the last kept build, a
specific build number, or the first match of a fallback chain.

It supports two modes:
- Local Mode: in-process agent over an in-memory broker (default)
- Distributed Mode: requests go to runselect agents over Redpanda, results and
  recorded histories live in Postgres

Mode is auto-detected based on the REDPANDA_BROKERS environment variable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		appConfig, err = config.LoadFromEnv()
		if err != nil {
			return failure("Configuration error", err)
		}
		log = logger.FromConfig(appConfig.LogLevel, appConfig.LogFormat)
		return nil
	},
}

// errNoCandidate makes the process exit 1 after the outcome was printed.
var errNoCandidate = errors.New("no run matched")

// commandError prefixes err with what failed and adds a user-facing hint
// where one exists.
type commandError struct {
	what string
	err  error
}

func (e *commandError) Error() string {
	return fmt.Sprintf("%s: %v", e.what, provider.WrapError(e.err))
}

func (e *commandError) Unwrap() error {
	return e.err
}

func failure(what string, err error) error {
	return &commandError{what: what, err: err}
}

// openPipeline opens the broker and store for the detected mode and serves
// the store's histories as the "local" provider.
func openPipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	p, err := pipeline.New(ctx, appConfig, log)
	if err != nil {
		return nil, failure("Failed to create pipeline", err)
	}
	store.Register(p.Store)
	return p, nil
}

// openStore opens the store alone, for commands that need no broker.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := pipeline.OpenStore(ctx, appConfig, pipeline.LocalMode)
	if err != nil {
		return nil, failure("Failed to open store", err)
	}
	store.Register(st)
	return st, nil
}

// newService builds a selection service that reads tokens from the environment.
func newService(l logger.Logger) *agent.Service {
	return agent.NewService(nil, appConfig, l)
}

func init() {
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(keepCmd)
	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(mcpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNoCandidate) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
