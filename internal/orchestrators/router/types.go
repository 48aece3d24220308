package router

// HandleInput is one inbound chat line
type HandleInput struct {
	PlayerID   string
	RoomID     string
	PlayerName string
	Text       string
}

// Response is what the chat should see. Group goes to the room and Private to
// the sender only. Kickoff asks the caller to run the AI Keeper's opening
// turn after delivering Group.
type Response struct {
	Group   string
	Private string
	Kickoff bool
}

func group(text string) *Response {
	return &Response{Group: text}
}
