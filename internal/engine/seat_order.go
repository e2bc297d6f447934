package engine

// SeatOrder is the fixed seat list. Free seats are handed out front to back.
var SeatOrder = []Seat{
	Seat1,
	Seat2,
	Seat3,
	Seat4,
	Seat5,
	Seat6,
}
