package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/seating-lobby/internal/engine"
	"github.com/DoyleJ11/seating-lobby/internal/hub"
	"github.com/DoyleJ11/seating-lobby/internal/lobby"
	"github.com/DoyleJ11/seating-lobby/internal/protocol"
	"github.com/DoyleJ11/seating-lobby/internal/registry"
	"github.com/DoyleJ11/seating-lobby/internal/types"
)

// TransportError is a read, write or ping failure on one connection. It
// ends that session only.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

type Options struct {
	PingInterval time.Duration
	// IdleTimeout bounds how long a ping may wait for its pong.
	IdleTimeout  time.Duration
	WriteTimeout time.Duration
	MaxFrameSize int64
	OutboxSize   int
	// ReleaseSeatsOnDisconnect unregisters the player and frees their
	// seats when the session ends. Off by default: seats stay taken.
	ReleaseSeatsOnDisconnect bool
	OriginPatterns           []string
	NewPlayerID              func() string
}

func DefaultOptions() Options {
	return Options{
		PingInterval: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxFrameSize: 32 << 10,
		OutboxSize:   16,
		NewPlayerID:  NewPlayerID,
	}
}

func NewPlayerID() string {
	return "player_" + uuid.NewString()
}

func Handler(h *hub.Hub, reg *registry.Registry, opts Options, logger *zap.Logger) http.HandlerFunc {
	if opts.NewPlayerID == nil {
		opts.NewPlayerID = NewPlayerID
	}
	logger = logger.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			logger.Warn("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")
		conn.SetReadLimit(opts.MaxFrameSize)

		player := types.NewPlayer(opts.NewPlayerID())
		s := &session{
			conn:   conn,
			player: player,
			handle: registry.NewHandle(opts.OutboxSize),
			hub:    h,
			reg:    reg,
			opts:   opts,
			joined: make(map[string]*lobby.Lobby),
			logger: logger.With(zap.String("player_id", player.ID)),
		}
		s.run(r.Context())
	}
}

type session struct {
	conn   *websocket.Conn
	player types.Player
	handle *registry.Handle
	hub    *hub.Hub
	reg    *registry.Registry
	opts   Options
	joined map[string]*lobby.Lobby // only touched by the reader goroutine
	logger *zap.Logger
}

func (s *session) run(parent context.Context) {
	started := time.Now()
	s.reg.Register(s.player.ID, s.handle)
	s.handle.Deliver(protocol.Welcome(s.player.ID))
	s.logger.Info("session started")

	g, ctx := errgroup.WithContext(parent)
	g.Go(func() error { return s.readLoop(ctx) })
	g.Go(func() error { return s.writeLoop(ctx) })
	g.Go(func() error { return s.pingLoop(ctx) })
	err := g.Wait()

	s.close()
	s.logEnd(err, time.Since(started))
}

// readLoop only returns with an error; a clean close is reported as a
// TransportError carrying the close status.
func (s *session) readLoop(ctx context.Context) error {
	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			return &TransportError{Op: "read", Err: err}
		}
		if typ != websocket.MessageText {
			continue
		}
		s.handleLine(ctx, string(data))
	}
}

func (s *session) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-s.handle.Outbox():
			wctx, cancel := context.WithTimeout(ctx, s.opts.WriteTimeout)
			err := s.conn.Write(wctx, websocket.MessageText, []byte(msg))
			cancel()
			if err != nil {
				return &TransportError{Op: "write", Err: err}
			}
		}
	}
}

func (s *session) pingLoop(ctx context.Context) error {
	if s.opts.PingInterval <= 0 {
		return nil
	}
	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, s.opts.IdleTimeout)
			err := s.conn.Ping(pctx)
			cancel()
			if err != nil {
				return &TransportError{Op: "ping", Err: err}
			}
		}
	}
}

func (s *session) handleLine(ctx context.Context, line string) {
	cmd, err := protocol.Parse(line)
	if err != nil {
		s.handle.Deliver(protocol.UnknownCommand)
		return
	}

	switch cmd.Type {
	case protocol.CmdJoin:
		s.join(ctx, cmd.TableID)
	}
}

func (s *session) join(ctx context.Context, tableID string) {
	lb, err := s.hub.Ensure(ctx, tableID)
	if err != nil {
		s.logger.Warn("table lookup failed", zap.String("table_id", tableID), zap.Error(err))
		return
	}

	err = lb.Join(ctx, s.player)
	switch {
	case err == nil:
		s.joined[lb.ID()] = lb
	case errors.Is(err, engine.ErrTableFull):
		s.handle.Deliver(protocol.TableFull)
	default:
		s.logger.Warn("join failed", zap.String("table_id", tableID), zap.Error(err))
	}
}

// close stops delivery to this connection. The registry entry and the
// player's seats are kept unless ReleaseSeatsOnDisconnect is set.
func (s *session) close() {
	s.handle.Close()
	if !s.opts.ReleaseSeatsOnDisconnect {
		return
	}

	s.reg.Unregister(s.player.ID)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for id, lb := range s.joined {
		if err := lb.Leave(ctx, s.player.ID); err != nil && !errors.Is(err, engine.ErrNotSeated) {
			s.logger.Warn("release seat failed", zap.String("table_id", id), zap.Error(err))
		}
	}
}

func (s *session) logEnd(err error, d time.Duration) {
	fields := []zap.Field{zap.Duration("duration", d), zap.Int("tables", len(s.joined))}

	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		s.logger.Info("session closed", fields...)
		return
	}
	if errors.Is(err, context.Canceled) {
		s.logger.Info("session cancelled", fields...)
		return
	}
	s.logger.Warn("session ended", append(fields, zap.Error(fmt.Errorf("session %s: %w", s.player.ID, err)))...)
}
