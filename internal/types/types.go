package types

// Player is created once per accepted connection. ID is unique among live
// connections.
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

func NewPlayer(id string) Player {
	return Player{ID: id, DisplayName: "Player " + id}
}
