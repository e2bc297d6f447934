package engine

import (
	"errors"
	"slices"
)

var ErrTableFull = errors.New("table is full")
var ErrNotSeated = errors.New("player is not seated")
var ErrMissingPlayer = errors.New("missing player id")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Seat string

const (
	Seat1 Seat = "seat1"
	Seat2 Seat = "seat2"
	Seat3 Seat = "seat3"
	Seat4 Seat = "seat4"
	Seat5 Seat = "seat5"
	Seat6 Seat = "seat6"
)

// Assignment is one entry of a table's seat map.
type Assignment struct {
	PlayerID string `json:"player_id"`
	Seat     Seat   `json:"seat"`
}

// State is a table's seat map. Seating keeps the order in which players
// first sat down; a player moving seats keeps their position.
type State struct {
	TableID string       `json:"table_id"`
	Seating []Assignment `json:"seating"`
}

type CommandType string

const (
	CmdTakeSeat  CommandType = "TakeSeat"
	CmdLeaveSeat CommandType = "LeaveSeat"
)

/*
	CmdTakeSeat  -> EvtPlayerSeated (+ EvtTableFilled when the last seat goes)
	CmdLeaveSeat -> EvtPlayerLeft
*/

type Command struct {
	Type     CommandType
	PlayerID string
}

type EventType string

const (
	EvtPlayerSeated EventType = "PlayerSeated"
	EvtPlayerLeft   EventType = "PlayerLeft"
	EvtTableFilled  EventType = "TableFilled"
)

type Event struct {
	Type     EventType
	TableID  string
	PlayerID string
	Seat     Seat
	FromSeat Seat // set when a seated player was moved
}

// Apply validates cmd against s and returns the resulting events and state.
// s is never modified; on error the original state is returned unchanged.
func Apply(s State, cmd Command) ([]Event, State, error) {
	if cmd.PlayerID == "" {
		return nil, s, ErrMissingPlayer
	}

	switch cmd.Type {
	case CmdTakeSeat:
		seat, ok := firstFreeSeat(s)
		if !ok {
			return nil, s, ErrTableFull
		}

		newState := State{TableID: s.TableID, Seating: slices.Clone(s.Seating)}
		evt := Event{Type: EvtPlayerSeated, TableID: s.TableID, PlayerID: cmd.PlayerID, Seat: seat}

		if i := indexOf(newState, cmd.PlayerID); i >= 0 {
			evt.FromSeat = newState.Seating[i].Seat
			newState.Seating[i].Seat = seat
		} else {
			newState.Seating = append(newState.Seating, Assignment{PlayerID: cmd.PlayerID, Seat: seat})
		}

		events := []Event{evt}
		if len(newState.Seating) == len(SeatOrder) {
			events = append(events, Event{Type: EvtTableFilled, TableID: s.TableID})
		}
		return events, newState, nil

	case CmdLeaveSeat:
		i := indexOf(s, cmd.PlayerID)
		if i < 0 {
			return nil, s, ErrNotSeated
		}
		seat := s.Seating[i].Seat
		newState := State{TableID: s.TableID, Seating: slices.Delete(slices.Clone(s.Seating), i, i+1)}
		return []Event{{Type: EvtPlayerLeft, TableID: s.TableID, PlayerID: cmd.PlayerID, Seat: seat}}, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// firstFreeSeat walks SeatOrder and returns the lowest seat nobody holds.
func firstFreeSeat(s State) (Seat, bool) {
	for _, seat := range SeatOrder {
		if !isTaken(s, seat) {
			return seat, true
		}
	}
	return "", false
}

func isTaken(s State, seat Seat) bool {
	return slices.ContainsFunc(s.Seating, func(a Assignment) bool { return a.Seat == seat })
}

func indexOf(s State, playerID string) int {
	return slices.IndexFunc(s.Seating, func(a Assignment) bool { return a.PlayerID == playerID })
}
