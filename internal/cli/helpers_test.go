package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/harbour/internal/backend"
	"github.com/rcliao/harbour/internal/domain"
)

var testNow = time.Date(2025, 12, 5, 9, 30, 0, 0, time.UTC)

// resetFlags puts every flag back to its default so one test's flags do not
// leak into the next Execute.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

type testEnv struct {
	dir     string
	backend string
}

// newTestEnv runs the test in an empty working directory with a fake
// scoring service.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Chdir(t.TempDir())

	old := now
	now = func() time.Time { return testNow }
	t.Cleanup(func() { now = old })

	srv := httptest.NewServer(fakeScoring())
	t.Cleanup(srv.Close)

	return &testEnv{dir: t.TempDir(), backend: srv.URL}
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(append(append([]string{}, args...), "--dir", e.dir, "--backend", e.backend))

	err := RootCmd.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

// fakeScoring scores tasks by importance and recommends the first open task.
func fakeScoring() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(backend.AnalyzePath, func(w http.ResponseWriter, r *http.Request) {
		var req backend.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out := make([]domain.AnalysisEntry, 0, len(req.Tasks))
		for _, t := range req.Tasks {
			out = append(out, domain.AnalysisEntry{
				ID:           t.ID,
				Title:        t.Title,
				FinalScore:   float64(t.Importance),
				UrgencyScore: 5,
				EffortScore:  5,
				Strategy:     req.Strategy,
				Explanations: []string{"importance " + t.Title},
			})
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc(backend.SuggestPath, func(w http.ResponseWriter, r *http.Request) {
		var req backend.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]any{"recommended_task": nil}
		for _, t := range req.Tasks {
			if !t.Completed {
				resp["recommended_task"] = domain.SuggestedTask{ID: t.ID, Title: t.Title, FinalScore: 6, Strategy: req.Strategy}
				break
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	return mux
}
