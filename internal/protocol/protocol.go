// Package protocol holds the line-based text protocol spoken over a session:
// the inbound command dispatcher and the literal outbound messages.
package protocol

import (
	"errors"
	"strings"
	"unicode"

	"github.com/DoyleJ11/seating-lobby/internal/engine"
)

var ErrUnknownCommand = errors.New("unknown command")

const joinToken = "join"

type CommandType string

const (
	CmdJoin CommandType = "join"
)

type Command struct {
	Type    CommandType
	TableID string
}

// Parse classifies one inbound text frame. "join" must be the first token
// and be followed by whitespace; the rest of the line, trimmed, is the
// table id. Anything else is ErrUnknownCommand.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)

	rest, ok := strings.CutPrefix(line, joinToken)
	if !ok {
		return Command{}, ErrUnknownCommand
	}
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		return Command{}, ErrUnknownCommand
	}

	tableID := strings.TrimSpace(rest)
	if tableID == "" {
		return Command{}, ErrUnknownCommand
	}
	return Command{Type: CmdJoin, TableID: tableID}, nil
}

const (
	UnknownCommand = "Unknown command."
	TableFull      = "Table is full!"
)

func Welcome(playerID string) string {
	return "Welcome " + playerID + "! Use 'join <tableId>' to join a table."
}

// TableState renders the broadcast sent to every seated player.
func TableState(seating []engine.Assignment) string {
	entries := make([]string, 0, len(seating))
	for _, a := range seating {
		entries = append(entries, a.PlayerID+" is sitting at "+string(a.Seat))
	}
	return "Table state: " + strings.Join(entries, ", ")
}
