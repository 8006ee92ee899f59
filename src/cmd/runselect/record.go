package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"runselect/src/provider"
	"runselect/src/selector"
)

var recordOpts struct {
	status   string
	building bool
	keep     bool
	name     string
	url      string
	params   []string
}

// recordCmd adds a run to a local job history
var recordCmd = &cobra.Command{
	Use:   "record [job] [number]",
	Short: "Record a run of a local job",
	Long: `Record a run in a locally kept job history, addressed as local:<job>.
Recording a number that already exists replaces that run.

Histories persist in Postgres when POSTGRES_DSN is set.

Example:
  runselect record nightly 42 --status SUCCESS --param BRANCH=main --keep`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		job := args[0]
		number, err := parseRunNumber(args[1])
		if err != nil {
			return failure("Invalid run number", err)
		}

		run := provider.Run{
			ID:          fmt.Sprintf("%s-%d", job, number),
			Number:      number,
			Job:         job,
			DisplayName: recordOpts.name,
			URL:         recordOpts.url,
			Building:    recordOpts.building,
			KeepForever: recordOpts.keep,
			StartedAt:   time.Now().UTC(),
		}
		if !run.Building {
			status, err := provider.ParseStatus(recordOpts.status)
			if err != nil {
				return failure("Invalid status", err)
			}
			run.Status = status
			run.FinishedAt = run.StartedAt
		}
		if len(recordOpts.params) > 0 {
			if run.Parameters, err = selector.ParseParameters(recordOpts.params...); err != nil {
				return failure("Invalid parameter", err)
			}
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		warnEphemeral()

		if err := st.SaveRun(ctx, job, run); err != nil {
			return failure("Failed to record run", err)
		}
		fmt.Printf("✅ Recorded local:%s #%d (%s)\n", job, number, statusLabel(run.Status, run.Building))
		return nil
	},
}

var keepOpts struct {
	off bool
}

// keepCmd toggles keep-forever on a local run
var keepCmd = &cobra.Command{
	Use:   "keep [job] [number]",
	Short: "Mark a local run keep-forever (or clear it with --off)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		job := args[0]
		number, err := parseRunNumber(args[1])
		if err != nil {
			return failure("Invalid run number", err)
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		warnEphemeral()

		if err := st.SetKeepForever(ctx, job, number, !keepOpts.off); err != nil {
			return failure("Failed to update run", err)
		}

		if keepOpts.off {
			fmt.Printf("local:%s #%d is no longer kept\n", job, number)
		} else {
			fmt.Printf("📌 local:%s #%d will be kept forever\n", job, number)
		}
		return nil
	},
}

// parseRunNumber accepts "42" or "#42".
func parseRunNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q is not a positive run number", s)
	}
	return n, nil
}

func warnEphemeral() {
	if appConfig.PostgresDSN == "" {
		fmt.Fprintln(os.Stderr, "⚠️  POSTGRES_DSN is not set: recorded runs only live for this process")
	}
}

func init() {
	flags := recordCmd.Flags()
	flags.StringVarP(&recordOpts.status, "status", "s", "SUCCESS", "Result: SUCCESS, UNSTABLE, FAILURE, NOT_BUILT or ABORTED")
	flags.BoolVar(&recordOpts.building, "building", false, "The run is still in progress")
	flags.BoolVarP(&recordOpts.keep, "keep", "k", false, "Mark the run keep-forever")
	flags.StringVar(&recordOpts.name, "name", "", "Display name")
	flags.StringVar(&recordOpts.url, "url", "", "Link to the run")
	flags.StringArrayVarP(&recordOpts.params, "param", "p", nil, "Build parameter NAME=value (repeatable)")

	keepCmd.Flags().BoolVar(&keepOpts.off, "off", false, "Clear keep-forever instead")
}
