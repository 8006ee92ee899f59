//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"runselect/src/contracts"
	"runselect/src/provider"
	"runselect/src/store"
)

func TestPostgresStoreIntegration(t *testing.T) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set, skipping integration test")
	}

	ctx := context.Background()
	st, err := store.NewPostgresStore(dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore failed: %v", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	job := fmt.Sprintf("it-%d", time.Now().UnixNano())
	runs := []provider.Run{
		{ID: "a", Number: 1, Status: provider.StatusFailure},
		{ID: "b", Number: 2, Status: provider.StatusSuccess, Parameters: map[string]string{"BRANCH": "main"}},
		{ID: "c", Number: 3, Status: provider.StatusUnstable},
	}
	for _, r := range runs {
		if err := st.SaveRun(ctx, job, r); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}
	if err := st.SetKeepForever(ctx, job, 3, true); err != nil {
		t.Fatalf("SetKeepForever failed: %v", err)
	}

	got, err := st.ListRuns(ctx, job)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(got) != 3 || got[0].Number != 3 || !got[0].KeepForever {
		t.Fatalf("ListRuns = %+v, want #3 (kept) first", got)
	}
	if got[1].Parameters["BRANCH"] != "main" {
		t.Errorf("parameters not round-tripped: %+v", got[1].Parameters)
	}

	result := contracts.SelectionResult{
		RequestID:   job,
		JobURL:      "local:" + job,
		Outcome:     contracts.OutcomeSelected,
		Run:         contracts.NewRunRecord(got[0]),
		CompletedAt: time.Now().UTC(),
	}
	if err := st.SaveSelection(ctx, result); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}

	selections, err := st.ListSelections(ctx, 1)
	if err != nil {
		t.Fatalf("ListSelections failed: %v", err)
	}
	if len(selections) != 1 || selections[0].RequestID != job {
		t.Errorf("ListSelections = %+v, want %s", selections, job)
	}
}
