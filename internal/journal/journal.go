// Package journal records seat events to an append-only log. Nothing in the
// lobby reads the log back; tables always start empty.
package journal

import "github.com/DoyleJ11/seating-lobby/internal/engine"

type Journal interface {
	// Record must not block the caller.
	Record(events []engine.Event)
	Close() error
}

type Nop struct{}

func (Nop) Record([]engine.Event) {}
func (Nop) Close() error          { return nil }
