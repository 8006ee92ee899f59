package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"runselect/src/agent"
	"runselect/src/contracts"
	"runselect/src/logger"
	"runselect/src/pipeline"
)

var selectOpts struct {
	policy       policyFlags
	invokerJob   string
	invokerBuild string
	optional     bool
	detach       bool
	jsonOutput   bool
	timeout      time.Duration
}

// selectCmd picks a run of a job
var selectCmd = &cobra.Command{
	Use:   "select [job-url]",
	Short: "Pick one run of a job",
	Long: `Apply a selection policy to a job's run history and print the run it picks.

The policy comes from --config (YAML or JSON) or from the shortcut flags:
  --status UNSTABLE,STABLE   newest unstable run, else newest stable run
  --number 42                run #42
  --permalink lastKeptBuild  the newest run marked keep-forever
  --saved / --param / --only narrow every candidate

Local Mode: the request is answered by an in-process agent.
Distributed Mode: the request goes to runselect agents over Redpanda. With
--detach the request ID is printed and the command returns immediately.

Exits 1 when no run matches, unless --optional is set.

Example:
  runselect select https://buildkite.com/acme/widgets --status STABLE
  runselect select local:nightly --config policy.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSelect(cmd.Context(), args[0])
	},
}

func runSelect(ctx context.Context, jobURL string) error {
	policy, err := selectOpts.policy.policy()
	if err != nil {
		return failure("Invalid policy", err)
	}

	ctx, cancel := context.WithTimeout(ctx, selectOpts.timeout)
	defer cancel()

	// JSON output owns stdout. The in-process agent only logs when
	// structured logging to stderr is configured.
	l, agentLog := log, log
	if appConfig.LogFormat == "" {
		agentLog = logger.NewSilentLogger()
		if selectOpts.jsonOutput {
			l = agentLog
		}
	}

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	if p.Mode == pipeline.LocalMode {
		if selectOpts.detach {
			return failure("Cannot detach", fmt.Errorf("--detach needs a persistent broker; set REDPANDA_BROKERS"))
		}
		if err := p.Start(ctx, newService(l), agentLog); err != nil {
			return failure("Failed to start selection agent", err)
		}
	}

	client, err := pipeline.NewClient(ctx, p.Broker)
	if err != nil {
		return failure("Failed to subscribe to results", err)
	}

	requestID, err := client.Submit(ctx, contracts.SelectionRequest{
		JobURL:       jobURL,
		Policy:       policy,
		InvokerJob:   selectOpts.invokerJob,
		InvokerBuild: selectOpts.invokerBuild,
	})
	if err != nil {
		return failure("Failed to submit request", err)
	}

	if selectOpts.detach {
		fmt.Printf("✅ Submitted selection request %s\n", requestID)
		fmt.Printf("   Job URL: %s\n", jobURL)
		fmt.Println()
		fmt.Println("Results will be recorded by the agent; see 'runselect audit'.")
		return nil
	}

	result, err := client.Await(ctx, requestID)
	if err != nil {
		return failure("No result", err)
	}

	if selectOpts.jsonOutput {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printResult(result)
	}

	if err := agent.ResultError(result); err != nil {
		return failure("Selection failed", err)
	}
	if result.Outcome == contracts.OutcomeNoCandidate && !selectOpts.optional {
		return errNoCandidate
	}
	return nil
}

func printResult(result contracts.SelectionResult) {
	switch result.Outcome {
	case contracts.OutcomeSelected:
		run := result.Run
		fmt.Printf("✅ Selected #%d (%s) of %s\n", run.Number, statusLabel(run.Status, run.Building), result.JobURL)
		if run.DisplayName != "" {
			fmt.Printf("   Name: %s\n", run.DisplayName)
		}
		if run.URL != "" {
			fmt.Printf("   URL:  %s\n", run.URL)
		}
		if run.KeepForever {
			fmt.Println("   Kept forever")
		}
	case contracts.OutcomeNoCandidate:
		fmt.Printf("⚠️  No run of %s matched the policy\n", result.JobURL)
	}
}

func init() {
	selectOpts.policy.register(selectCmd)
	flags := selectCmd.Flags()
	flags.StringVar(&selectOpts.invokerJob, "invoker-job", "runselect", "Name of the job asking for the run (logged)")
	flags.StringVar(&selectOpts.invokerBuild, "invoker-build", "", "Build of the job asking for the run (logged)")
	flags.BoolVar(&selectOpts.optional, "optional", false, "Exit 0 when no run matches")
	flags.BoolVarP(&selectOpts.detach, "detach", "d", false, "Submit and exit without waiting (Distributed Mode only)")
	flags.BoolVar(&selectOpts.jsonOutput, "json", false, "Print the result as JSON")
	flags.DurationVar(&selectOpts.timeout, "timeout", 2*time.Minute, "How long to wait for the result")
}
