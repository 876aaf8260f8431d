package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/harbour/internal/backend"
	"github.com/rcliao/harbour/internal/rpc"
	"github.com/rcliao/harbour/internal/service"
	"github.com/rcliao/harbour/internal/storage"
)

func newShellServer(t *testing.T) *rpc.Server {
	t.Helper()
	srv := httptest.NewServer(fakeScoring())
	t.Cleanup(srv.Close)

	client, err := backend.New(backend.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	svc := service.NewTaskService(storage.NewMemoryStorage(), client, nil)
	require.NoError(t, svc.Load(context.Background()))
	return rpc.NewServer(svc, nil)
}

func TestShell_SessionStateSurvivesCommands(t *testing.T) {
	server := newShellServer(t)
	in := strings.Join([]string{
		`help`,
		`harbour.task.add {"title":"Design","importance":6,"estimated_hours":2,"due_date":"2025-12-08"}`,
		`harbour.task.add {"title":"Build","importance":8,"estimated_hours":5,"due_date":"2025-12-12"}`,
		`harbour.task.toggle {"id":"T1"}`,
		`harbour.flow`,
		`harbour.task.get {"id":`,
		`harbour.task.delete {"id":"T9"}`,
		`quit`,
		`harbour.task.list`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, runShell(context.Background(), server, strings.NewReader(in), &out))

	got := out.String()
	assert.Contains(t, got, "Available commands:")
	assert.Contains(t, got, "harbour.task.toggle")
	assert.Contains(t, got, `"id": "T2"`)
	assert.Contains(t, got, `"kind": "completed"`)
	assert.Contains(t, got, `"kind": "suggested"`)
	assert.Contains(t, got, "Error: Invalid JSON parameters")
	assert.Contains(t, got, "task not found")
	assert.Contains(t, got, "Goodbye!")
	assert.Equal(t, 8, strings.Count(got, "harbour> "))
}

func TestShell_EOF(t *testing.T) {
	server := newShellServer(t)

	var out bytes.Buffer
	require.NoError(t, runShell(context.Background(), server, strings.NewReader("harbour.task.list\n"), &out))
	assert.Contains(t, out.String(), "[]")
}

// flakyHandler delegates to a real server but panics on harbour.flow.
type flakyHandler struct {
	*rpc.Server
}

func (h flakyHandler) HandleCommand(ctx context.Context, method string, params json.RawMessage) (any, error) {
	if method == "harbour.flow" {
		panic("flow history corrupted")
	}
	return h.Server.HandleCommand(ctx, method, params)
}

func TestShell_PanicKeepsSession(t *testing.T) {
	handler := flakyHandler{Server: newShellServer(t)}
	in := strings.Join([]string{
		`harbour.task.add {"title":"Design","importance":6,"estimated_hours":2,"due_date":"2025-12-08"}`,
		`harbour.flow`,
		`harbour.task.list`,
		`quit`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, runShell(context.Background(), handler, strings.NewReader(in), &out))

	got := out.String()
	assert.Contains(t, got, "Error: internal error: flow history corrupted")
	assert.Equal(t, 2, strings.Count(got, `"title": "Design"`))
	assert.Contains(t, got, "Goodbye!")
}
