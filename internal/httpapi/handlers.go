package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/DoyleJ11/seating-lobby/internal/engine"
	"github.com/DoyleJ11/seating-lobby/internal/hub"
)

type tableView struct {
	TableID   string              `json:"table_id"`
	Version   int                 `json:"version"`
	Seating   []engine.Assignment `json:"seating"`
	FreeSeats []engine.Seat       `json:"free_seats"`
}

// ListTables is a read-only operator view of every table's seat map.
func ListTables(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables, err := h.List(r.Context())
		if err != nil {
			logger.Warn("list tables", zap.Error(err))
			http.Error(w, "tables unavailable", http.StatusServiceUnavailable)
			return
		}

		out := make([]tableView, 0, len(tables))
		for _, lb := range tables {
			v, err := lb.View(r.Context())
			if err != nil {
				logger.Warn("table view", zap.String("table_id", lb.ID()), zap.Error(err))
				continue
			}
			out = append(out, tableView{
				TableID:   v.State.TableID,
				Version:   v.Version,
				Seating:   v.State.Seating,
				FreeSeats: engine.FreeSeats(v.State),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(struct {
			Tables []tableView `json:"tables"`
		}{Tables: out})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
