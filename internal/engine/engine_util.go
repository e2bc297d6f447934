package engine

func NewEmptyState(tableID string) State {
	return State{
		TableID: tableID,
		Seating: []Assignment{},
	}
}

// SeatOf reports the seat playerID holds, if any.
func SeatOf(s State, playerID string) (Seat, bool) {
	if i := indexOf(s, playerID); i >= 0 {
		return s.Seating[i].Seat, true
	}
	return "", false
}

func FreeSeats(s State) []Seat {
	free := make([]Seat, 0, len(SeatOrder))
	for _, seat := range SeatOrder {
		if !isTaken(s, seat) {
			free = append(free, seat)
		}
	}
	return free
}

func IsFull(s State) bool {
	return len(FreeSeats(s)) == 0
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
