package narrator

// TurnInput is one player message for the AI Keeper
type TurnInput struct {
	PlayerID   string
	RoomID     string
	PlayerName string
	Text       string
}

// KickoffInput asks for the opening scene. Checks the model requests in it
// are rolled for the player who started the session.
type KickoffInput struct {
	PlayerID   string
	RoomID     string
	PlayerName string
}

// TurnOutput lists messages for the room in delivery order
type TurnOutput struct {
	Messages []string
	// Failed is set when inference gave up part way through the turn
	Failed bool
}
