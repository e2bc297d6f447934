package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/seating-lobby/internal/httpapi"
	"github.com/DoyleJ11/seating-lobby/internal/hub"
	"github.com/DoyleJ11/seating-lobby/internal/lobby"
	"github.com/DoyleJ11/seating-lobby/internal/registry"
	"github.com/DoyleJ11/seating-lobby/internal/ws"
)

func startServer(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	reg := registry.New(zap.NewNop())
	h := hub.NewHub(ctx, lobby.Deps{Sender: reg})
	srv := httptest.NewServer(httpapi.SetupRoutes(h, reg, ws.DefaultOptions(), zap.NewNop()))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestJoinCommand_PrintsWelcomeAndState(t *testing.T) {
	url := startServer(t)

	out := run(t, "--server", url, "--wait", "300ms", "join", "T1")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Welcome player_"))
	assert.True(t, strings.HasPrefix(lines[1], "Table state: player_"))
	assert.True(t, strings.HasSuffix(lines[1], " is sitting at seat1"))

	out = run(t, "--server", url, "tables")
	assert.Contains(t, out, "T1 (5 free)")
	assert.Contains(t, out, "seat1: player_")
}

func TestSendCommand_UnknownCommand(t *testing.T) {
	url := startServer(t)

	out := run(t, "--server", url, "--wait", "300ms", "send", "foo", "bar")
	assert.Contains(t, out, "Unknown command.")
}

func TestTablesURL(t *testing.T) {
	cases := map[string]string{
		"ws://localhost:8080/ws":       "http://localhost:8080/tables",
		"wss://lobby.example.com/ws":   "https://lobby.example.com/tables",
		"ws://127.0.0.1:1/prefix/ws?x": "http://127.0.0.1:1/prefix/tables",
	}
	for in, want := range cases {
		got, err := tablesURL(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
