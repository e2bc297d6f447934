package lobby

import (
	"github.com/DoyleJ11/seating-lobby/internal/engine"
	"github.com/DoyleJ11/seating-lobby/internal/protocol"
)

// broadcast sends the same table summary to every seated player. Players
// without a live connection are skipped by the Sender.
func (l *Lobby) broadcast(s engine.State) {
	if l.notifier == nil || len(s.Seating) == 0 {
		return
	}
	text := protocol.TableState(s.Seating)
	for _, a := range s.Seating {
		l.notifier.Send(a.PlayerID, text)
	}
}
