package message

import "time"

// Outgoing is one wire unit pushed to a client: either a Text message or a
// RoomState roster snapshot. Values are immutable once constructed.
type Outgoing interface {
	outgoing()
}

// Text is a chat, system or dice-result message. Name is null for system
// messages. DiceResults is null for plain chat; for dice messages it is a
// non-empty array, with a single -666 signalling an unparseable expression.
type Text struct {
	Message     string  `json:"message"`
	Name        *string `json:"name"`
	DiceResults []int32 `json:"dice_results"`
	Time        int64   `json:"time"`
}

// RoomState is a best-effort roster snapshot for one room.
type RoomState struct {
	RoomName string   `json:"room_name"`
	Members  []string `json:"members"`
}

func (*Text) outgoing()      {}
func (*RoomState) outgoing() {}

func Chat(text, sender string) *Text {
	return &Text{
		Message: text,
		Name:    &sender,
		Time:    time.Now().UnixMilli(),
	}
}

func DiceResult(text, sender string, results []int32) *Text {
	return &Text{
		Message:     text,
		Name:        &sender,
		DiceResults: results,
		Time:        time.Now().UnixMilli(),
	}
}

func System(text string) *Text {
	return &Text{
		Message: text,
		Time:    time.Now().UnixMilli(),
	}
}

func Roster(room string, members []string) *RoomState {
	if members == nil {
		members = []string{}
	}
	return &RoomState{
		RoomName: room,
		Members:  members,
	}
}
