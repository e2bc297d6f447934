package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/seating-lobby/internal/engine"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		line    string
		want    Command
		wantErr bool
	}{
		{name: "plain join", line: "join T1", want: Command{Type: CmdJoin, TableID: "T1"}},
		{name: "extra whitespace is trimmed", line: "  join   T1  \n", want: Command{Type: CmdJoin, TableID: "T1"}},
		{name: "table id may contain spaces", line: "join high rollers", want: Command{Type: CmdJoin, TableID: "high rollers"}},
		{name: "tab separator", line: "join\tT2", want: Command{Type: CmdJoin, TableID: "T2"}},
		{name: "token glued to id", line: "joinT1", wantErr: true},
		{name: "missing table id", line: "join", wantErr: true},
		{name: "blank table id", line: "join    ", wantErr: true},
		{name: "case sensitive", line: "JOIN T1", wantErr: true},
		{name: "other command", line: "foo bar", wantErr: true},
		{name: "empty line", line: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.line)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnknownCommand)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Welcome player_1! Use 'join <tableId>' to join a table.", Welcome("player_1"))
	assert.Equal(t, "Unknown command.", UnknownCommand)
	assert.Equal(t, "Table is full!", TableFull)

	seating := []engine.Assignment{
		{PlayerID: "P1", Seat: engine.Seat1},
		{PlayerID: "P2", Seat: engine.Seat2},
	}
	assert.Equal(t, "Table state: P1 is sitting at seat1, P2 is sitting at seat2", TableState(seating))
	assert.Equal(t, "Table state: P1 is sitting at seat1", TableState(seating[:1]))
}
