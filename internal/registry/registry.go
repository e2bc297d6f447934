// Package registry maps player ids to the send handle of their connection.
package registry

import (
	"sync"

	"go.uber.org/zap"
)

type Registry struct {
	mu      sync.RWMutex
	handles map[string]*Handle
	logger  *zap.Logger
}

func New(logger *zap.Logger) *Registry {
	return &Registry{
		handles: make(map[string]*Handle),
		logger:  logger.Named("registry"),
	}
}

// Register inserts or replaces the handle for playerID.
func (r *Registry) Register(playerID string, h *Handle) {
	r.mu.Lock()
	r.handles[playerID] = h
	total := len(r.handles)
	r.mu.Unlock()

	r.logger.Debug("player registered", zap.String("player_id", playerID), zap.Int("total", total))
}

// Unregister drops playerID. Only sessions configured to release seats on
// disconnect call it.
func (r *Registry) Unregister(playerID string) {
	r.mu.Lock()
	delete(r.handles, playerID)
	total := len(r.handles)
	r.mu.Unlock()

	r.logger.Debug("player unregistered", zap.String("player_id", playerID), zap.Int("total", total))
}

// Send delivers text to playerID. Unknown ids, closed handles and full
// buffers are all silent no-ops for the caller.
func (r *Registry) Send(playerID, text string) {
	r.mu.RLock()
	h, ok := r.handles[playerID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	if !h.Deliver(text) {
		select {
		case <-h.Done():
			// connection already gone
		default:
			r.logger.Warn("message dropped - outbox full", zap.String("player_id", playerID))
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}
