package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"runselect/src/contracts"
	"runselect/src/logger"
	"runselect/src/provider"
	"runselect/src/selector"
	"runselect/src/tui"
)

var historyOpts struct {
	limit      int
	jsonOutput bool
}

// historyCmd lists a job's runs
var historyCmd = &cobra.Command{
	Use:   "history [job-url]",
	Short: "List a job's runs, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		ref, history, err := newService(logger.NewSilentLogger()).History(ctx, args[0])
		if err != nil {
			return failure("Failed to read history", err)
		}

		runs := []provider.Run(history)
		if historyOpts.limit > 0 && len(runs) > historyOpts.limit {
			runs = runs[:historyOpts.limit]
		}

		if historyOpts.jsonOutput {
			records := make([]*contracts.RunRecord, len(runs))
			for i, r := range runs {
				records[i] = contracts.NewRunRecord(r)
			}
			return printJSON(records)
		}

		fmt.Printf("%s: %d runs\n", ref, len(history))
		if len(runs) > 0 {
			fmt.Println(runTable(runs))
		}
		return nil
	},
}

var browseOpts struct {
	policy policyFlags
}

// browseCmd opens the history browser
var browseCmd = &cobra.Command{
	Use:   "browse [job-url]",
	Short: "Browse a job's runs with the selected run highlighted",
	Long: `Open an interactive view of a job's run history. The run picked by the
policy (same flags as 'select') is highlighted and the cursor starts on it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		policy, err := browseOpts.policy.policy()
		if err != nil {
			return failure("Invalid policy", err)
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		// the TUI owns the terminal
		svc := newService(logger.NewSilentLogger())
		sel, filter, err := svc.Registry().BuildPolicy(policy)
		if err != nil {
			return failure("Invalid policy", err)
		}

		ref, history, err := svc.History(ctx, args[0])
		if err != nil {
			return failure("Failed to read history", err)
		}

		browse := tui.Browse{
			Job:    ref.String(),
			Policy: describePolicy(svc.Registry(), policy),
			Runs:   history,
		}
		sc := selector.NewContext(provider.Invoker{Job: "runselect browse"}, logger.NewSilentLogger())
		if run, ok := sel.Select(history, filter, sc); ok {
			browse.Picked = &run
		}

		if err := tui.Start(browse); err != nil {
			return failure("TUI error", err)
		}
		return nil
	},
}

// kindsCmd lists the registered selector and filter kinds
var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the selector and filter kinds a policy may use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(kindTable("Selector", selector.Default.Selectors()))
		fmt.Println(kindTable("Filter", selector.Default.Filters()))
	},
}

var auditOpts struct {
	limit      int
	jsonOutput bool
}

// auditCmd shows recent selection outcomes
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent selection outcomes",
	Long: `List the most recent selection results recorded by agents.

Results are only kept across processes when POSTGRES_DSN is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		selections, err := st.ListSelections(ctx, auditOpts.limit)
		if err != nil {
			return failure("Failed to read selections", err)
		}

		if auditOpts.jsonOutput {
			return printJSON(selections)
		}
		if len(selections) == 0 {
			fmt.Println("No selections recorded.")
			return nil
		}
		fmt.Println(auditTable(selections))
		return nil
	},
}

func runTable(runs []provider.Run) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		kept := ""
		if r.KeepForever {
			kept = "K"
		}
		started := "-"
		if !r.StartedAt.IsZero() {
			started = r.StartedAt.Local().Format("2006-01-02 15:04")
		}
		rows[i] = []string{
			"#" + strconv.Itoa(r.Number),
			statusLabel(r.Status, r.Building),
			kept,
			started,
			tui.Truncate(tui.CleanText(r.DisplayName), 50, true),
		}
	}

	return newTable("Run", "Result", "K", "Started", "Name").Rows(rows...).Render()
}

func kindTable(title string, kinds []selector.Descriptor) string {
	t := newTable(title, "Description")
	for _, k := range kinds {
		t.Row(k.Symbol, k.DisplayName)
	}
	return t.Render()
}

func auditTable(selections []contracts.SelectionResult) string {
	t := newTable("Completed", "Job", "Outcome", "Run", "Request")
	for _, s := range selections {
		run := "-"
		if s.Run != nil {
			run = "#" + strconv.Itoa(s.Run.Number)
		}
		t.Row(
			s.CompletedAt.Local().Format("2006-01-02 15:04:05"),
			tui.Truncate(s.JobURL, 50, true),
			s.Outcome,
			run,
			s.RequestID,
		)
	}
	return t.Render()
}

func newTable(headers ...string) *table.Table {
	styles := tui.DefaultStyles()
	headerStyle := lipgloss.NewStyle().Foreground(styles.PrimaryBlue).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.BorderColor)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func statusLabel(status provider.Status, building bool) string {
	if building {
		return "BUILDING"
	}
	if status == "" {
		return "-"
	}
	return string(status)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return failure("Failed to encode output", err)
	}
	return nil
}

func init() {
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 20, "Max runs to list (0 for all)")
	historyCmd.Flags().BoolVar(&historyOpts.jsonOutput, "json", false, "Print runs as JSON")

	browseOpts.policy.register(browseCmd)

	auditCmd.Flags().IntVarP(&auditOpts.limit, "limit", "n", 20, "Max entries to list")
	auditCmd.Flags().BoolVar(&auditOpts.jsonOutput, "json", false, "Print entries as JSON")
}
