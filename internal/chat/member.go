package chat

import "dice-chat-backend/internal/message"

// member is the contact handle a session hands to a room: a pair of
// non-owning channels. A room never owns a session's lifecycle, only this
// revocable handle.
type member struct {
	id      string
	deliver chan<- message.Outgoing
	queries chan<- nameQuery
}

// nameQuery asks a member for its current display name during a roster
// gather. seq ties the reply back to the gather that issued it.
type nameQuery struct {
	seq   int
	reply chan<- nameReply
}

type nameReply struct {
	seq  int
	name string
}
