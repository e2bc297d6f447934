package lobby

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/seating-lobby/internal/engine"
	"github.com/DoyleJ11/seating-lobby/internal/journal"
	"github.com/DoyleJ11/seating-lobby/internal/types"
)

var ErrClosed = errors.New("table closed")

type Msg interface{ isLobbyMsg() }

// Join seats Player at the first free seat. Reply gets nil or
// engine.ErrTableFull. Reply must be buffered.
type Join struct {
	Player types.Player
	Reply  chan error
}

func (Join) isLobbyMsg() {}

// Leave frees the player's seat. Reply may be nil.
type Leave struct {
	PlayerID string
	Reply    chan error
}

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type View struct {
	Version int
	State   engine.State
}

// Sender delivers text to a player by id. It must not block.
type Sender interface {
	Send(playerID, text string)
}

type Deps struct {
	Sender  Sender
	Journal journal.Journal
	Logger  *zap.Logger
}

// Lobby owns one table. Every mutation of the seat map happens on the
// loop goroutine, so joins to the same table are totally ordered.
type Lobby struct {
	id       string
	inbox    chan Msg
	state    engine.State
	version  int
	notifier Sender
	journal  journal.Journal
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewLobby(parent context.Context, tableID string, deps Deps) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	j := deps.Journal
	if j == nil {
		j = journal.Nop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Lobby{
		id:       tableID,
		inbox:    make(chan Msg, 64), // Small buffer
		state:    engine.NewEmptyState(tableID),
		notifier: deps.Sender,
		journal:  j,
		logger:   logger.Named("lobby").With(zap.String("table_id", tableID)),
		ctx:      ctx,
		cancel:   cancel,
	}

	go l.loop()
	return l
}

func (l *Lobby) ID() string { return l.id }

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				msg.Reply <- l.apply(engine.Command{Type: engine.CmdTakeSeat, PlayerID: msg.Player.ID})

			case Leave:
				err := l.apply(engine.Command{Type: engine.CmdLeaveSeat, PlayerID: msg.PlayerID})
				if msg.Reply != nil {
					msg.Reply <- err
				}

			case GetState:
				msg.Reply <- View{Version: l.version, State: l.state}

			case Shutdown:
				l.cancel()
				return
			}
		}
	}
}

// apply commits cmd and broadcasts the committed seat map.
func (l *Lobby) apply(cmd engine.Command) error {
	events, newState, err := engine.Apply(l.state, cmd)
	if err != nil {
		l.logger.Debug("command rejected", zap.String("cmd", string(cmd.Type)),
			zap.String("player_id", cmd.PlayerID), zap.Error(err))
		return err
	}

	l.state = newState
	l.version++
	l.journal.Record(events)

	for _, e := range events {
		l.logger.Info("seat event", zap.String("event", string(e.Type)),
			zap.String("player_id", e.PlayerID), zap.String("seat", string(e.Seat)))
	}

	l.broadcast(l.state)
	return nil
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Join asks the table for a seat and waits for the outcome.
func (l *Lobby) Join(ctx context.Context, p types.Player) error {
	reply := make(chan error, 1)
	if err := l.send(ctx, Join{Player: p, Reply: reply}); err != nil {
		return err
	}
	return l.wait(ctx, reply)
}

func (l *Lobby) Leave(ctx context.Context, playerID string) error {
	reply := make(chan error, 1)
	if err := l.send(ctx, Leave{PlayerID: playerID, Reply: reply}); err != nil {
		return err
	}
	return l.wait(ctx, reply)
}

func (l *Lobby) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := l.send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-l.ctx.Done():
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

func (l *Lobby) Close() { l.cancel() }

func (l *Lobby) send(ctx context.Context, m Msg) error {
	select {
	case l.inbox <- m:
		return nil
	case <-l.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Lobby) wait(ctx context.Context, reply <-chan error) error {
	select {
	case err := <-reply:
		return err
	case <-l.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
