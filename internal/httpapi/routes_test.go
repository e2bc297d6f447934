package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/seating-lobby/internal/engine"
	"github.com/DoyleJ11/seating-lobby/internal/hub"
	"github.com/DoyleJ11/seating-lobby/internal/lobby"
	"github.com/DoyleJ11/seating-lobby/internal/registry"
	"github.com/DoyleJ11/seating-lobby/internal/types"
	"github.com/DoyleJ11/seating-lobby/internal/ws"
)

func newTestRouter(t *testing.T) (http.Handler, *hub.Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reg := registry.New(zap.NewNop())
	h := hub.NewHub(ctx, lobby.Deps{Sender: reg})
	return SetupRoutes(h, reg, ws.DefaultOptions(), zap.NewNop()), h
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListTables(t *testing.T) {
	router, h := newTestRouter(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	lb, err := h.Ensure(ctx, "T1")
	require.NoError(t, err)
	require.NoError(t, lb.Join(ctx, types.NewPlayer("P1")))
	_, err = h.Ensure(ctx, "T2")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tables", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Tables []tableView `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Tables, 2)

	assert.Equal(t, "T1", body.Tables[0].TableID)
	assert.Equal(t, []engine.Assignment{{PlayerID: "P1", Seat: engine.Seat1}}, body.Tables[0].Seating)
	assert.Len(t, body.Tables[0].FreeSeats, 5)

	assert.Equal(t, "T2", body.Tables[1].TableID)
	assert.Empty(t, body.Tables[1].Seating)
	assert.Len(t, body.Tables[1].FreeSeats, 6)
}
