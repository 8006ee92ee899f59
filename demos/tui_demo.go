// Demo program to showcase the history browser with a realistic job history.
package main

import (
	"fmt"
	"os"
	"time"

	"runselect/src/logger"
	"runselect/src/provider"
	"runselect/src/selector"
	"runselect/src/tui"
)

func main() {
	fmt.Println("Generating sample run history...")
	history := selector.NewHistory(generateSampleRuns())

	// newest kept unstable run, else newest stable run
	policy := selector.Policy{
		Selector: selector.SelectorSpec{
			Kind: "fallback",
			Entries: []selector.FallbackEntrySpec{
				{
					Selector: selector.SelectorSpec{Kind: "status", Status: "UNSTABLE"},
					Filter:   &selector.FilterSpec{Kind: "saved"},
				},
				{Selector: selector.SelectorSpec{Kind: "status", Status: "STABLE"}},
			},
		},
		Filter: &selector.FilterSpec{Kind: "parameters", Parameters: map[string]string{"BRANCH": "main"}},
	}

	sel, filter, err := selector.Default.BuildPolicy(policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid policy: %v\n", err)
		os.Exit(1)
	}

	browse := tui.Browse{
		Job:    "local:nightly-release",
		Policy: fmt.Sprintf("%v where %v", sel, filter),
		Runs:   history,
	}
	sc := selector.NewContext(provider.Invoker{Job: "tui-demo"}, logger.NewSilentLogger())
	if run, ok := sel.Select(history, filter, sc); ok {
		browse.Picked = &run
		fmt.Printf("Policy picked #%d of %d runs.\n", run.Number, len(history))
	}

	fmt.Println("Launching TUI...")
	time.Sleep(500 * time.Millisecond)

	if err := tui.Start(browse); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func generateSampleRuns() []provider.Run {
	base := time.Now().Add(-72 * time.Hour).Truncate(time.Minute)
	messages := []string{
		"Bump golang.org/x/net to v0.38.0",
		"Fix flaky TestScheduler_Retry on arm64",
		"Merge pull request #412 from acme/release-notes",
		"Revert \"Enable HTTP/3 for the edge proxy\"",
		"Add retention settings to the nightly job",
		"Update integration fixtures for Postgres 16",
		"Tune GC for the ingest workers",
		"Speed up docs build",
	}
	results := []provider.Status{
		provider.StatusSuccess,
		provider.StatusFailure,
		provider.StatusSuccess,
		provider.StatusUnstable,
		provider.StatusAborted,
		provider.StatusSuccess,
		provider.StatusUnstable,
		provider.StatusFailure,
	}

	var runs []provider.Run
	for i := 0; i < 24; i++ {
		number := 100 + i
		started := base.Add(time.Duration(i) * 3 * time.Hour)
		branch := "main"
		if i%5 == 3 {
			branch = "release/2.4"
		}

		run := provider.Run{
			ID:          fmt.Sprintf("nightly-release-%d", number),
			Number:      number,
			Job:         "nightly-release",
			DisplayName: messages[i%len(messages)],
			URL:         fmt.Sprintf("https://ci.example.com/nightly-release/%d", number),
			Status:      results[i%len(results)],
			KeepForever: i%7 == 3,
			Parameters: map[string]string{
				"BRANCH": branch,
				"COMMIT": fmt.Sprintf("%07x", 0xa1b2c3d+i*7919),
			},
			StartedAt:  started,
			FinishedAt: started.Add(time.Duration(8+i%5) * time.Minute),
		}
		runs = append(runs, run)
	}

	// the newest run is still going
	runs[len(runs)-1].Building = true
	runs[len(runs)-1].Status = ""
	runs[len(runs)-1].FinishedAt = time.Time{}

	return runs
}
