package hub

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/seating-lobby/internal/lobby"
)

var ErrHubClosed = errors.New("hub closed")

type HubMsg interface{ isHubMsg() }

// EnsureTable returns the table with ID, creating it on first reference.
type EnsureTable struct {
	ID    string
	Reply chan *lobby.Lobby
}

type GetTable struct {
	ID    string
	Reply chan *lobby.Lobby
}

// ListTables replies with every table in creation order.
type ListTables struct {
	Reply chan []*lobby.Lobby
}

type ShutdownHub struct{}

func (EnsureTable) isHubMsg() {}
func (GetTable) isHubMsg()    {}
func (ListTables) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// Hub is the table directory. Tables are only ever added; check-and-create
// runs on the loop goroutine so one id never yields two tables.
type Hub struct {
	inbox  chan HubMsg
	tables map[string]*lobby.Lobby
	order  []string
	deps   lobby.Deps
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, deps lobby.Deps) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		tables: make(map[string]*lobby.Lobby),
		deps:   deps,
		logger: deps.Logger.Named("hub"),
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureTable:
				if lb := h.tables[msg.ID]; lb != nil {
					msg.Reply <- lb
					break
				}

				lb := lobby.NewLobby(h.ctx, msg.ID, h.deps)
				h.tables[msg.ID] = lb
				h.order = append(h.order, msg.ID)
				h.logger.Info("table created", zap.String("table_id", msg.ID), zap.Int("tables", len(h.order)))
				msg.Reply <- lb

			case GetTable:
				msg.Reply <- h.tables[msg.ID] // May be nil

			case ListTables:
				out := make([]*lobby.Lobby, 0, len(h.order))
				for _, id := range h.order {
					out = append(out, h.tables[id])
				}
				msg.Reply <- out

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, lb := range h.tables {
		lb.Close()
	}
	h.logger.Info("hub stopped", zap.Int("tables", len(h.tables)))
	clear(h.tables)
	h.order = nil
	h.cancel()
}

// Ensure is the blocking form of EnsureTable.
func (h *Hub) Ensure(ctx context.Context, id string) (*lobby.Lobby, error) {
	reply := make(chan *lobby.Lobby, 1)
	if err := h.send(ctx, EnsureTable{ID: id, Reply: reply}); err != nil {
		return nil, err
	}
	return await(ctx, h.ctx, reply)
}

// Get returns nil when no table has id.
func (h *Hub) Get(ctx context.Context, id string) (*lobby.Lobby, error) {
	reply := make(chan *lobby.Lobby, 1)
	if err := h.send(ctx, GetTable{ID: id, Reply: reply}); err != nil {
		return nil, err
	}
	return await(ctx, h.ctx, reply)
}

func (h *Hub) List(ctx context.Context) ([]*lobby.Lobby, error) {
	reply := make(chan []*lobby.Lobby, 1)
	if err := h.send(ctx, ListTables{Reply: reply}); err != nil {
		return nil, err
	}
	return await(ctx, h.ctx, reply)
}

func (h *Hub) send(ctx context.Context, m HubMsg) error {
	select {
	case h.inbox <- m:
		return nil
	case <-h.ctx.Done():
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func await[T any](ctx, hubCtx context.Context, reply <-chan T) (T, error) {
	var zero T
	select {
	case v := <-reply:
		return v, nil
	case <-hubCtx.Done():
		return zero, ErrHubClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
