package chat

import (
	"dice-chat-backend/internal/message"
)

// unknownMemberName stands in for a member that stopped answering name
// queries before a roster gather completed.
const unknownMemberName = "(unknown)"

// Room owns the membership of one named room. All state is mutated only by
// the run goroutine; other goroutines talk to it through one ordered inbox,
// so operations are processed strictly in arrival order. Gather replies
// travel on their own channel: they are seq-tagged and order-independent.
type Room struct {
	name string

	inbox   chan roomEvent
	replies chan nameReply

	members map[string]member

	// roster gather in progress; replies for an older seq are stale
	gatherSeq   int
	gatherWant  int
	gatherNames []string
}

type roomEvent interface {
	roomEvent()
}

type postEvent struct {
	msg message.Outgoing
}

type joinEvent struct {
	member member
	name   string
}

type leaveEvent struct {
	id   string
	name string
}

type nameChangedEvent struct{}

func (postEvent) roomEvent()        {}
func (joinEvent) roomEvent()        {}
func (leaveEvent) roomEvent()       {}
func (nameChangedEvent) roomEvent() {}

func newRoom(name string) *Room {
	r := &Room{
		name:    name,
		inbox:   make(chan roomEvent, 32),
		replies: make(chan nameReply, 32),
		members: make(map[string]member),
	}
	go r.run()
	return r
}

func (r *Room) Name() string {
	return r.name
}

// Post broadcasts a message to every current member, best-effort.
func (r *Room) Post(msg message.Outgoing) {
	r.inbox <- postEvent{msg: msg}
}

func (r *Room) Join(m member, name string) {
	r.inbox <- joinEvent{member: m, name: name}
}

func (r *Room) Leave(id, name string) {
	r.inbox <- leaveEvent{id: id, name: name}
}

// NameChanged triggers a roster refresh without a join/leave notice.
func (r *Room) NameChanged() {
	r.inbox <- nameChangedEvent{}
}

func (r *Room) run() {
	for {
		select {
		case ev := <-r.inbox:
			switch ev := ev.(type) {
			case postEvent:
				r.broadcast(ev.msg)

			case joinEvent:
				r.broadcast(message.System("'" + ev.name + "' joined the room"))
				r.members[ev.member.id] = ev.member
				r.startGather()

			case leaveEvent:
				delete(r.members, ev.id)
				r.broadcast(message.System("'" + ev.name + "' left the room"))
				r.startGather()

			case nameChangedEvent:
				r.startGather()
			}

		case reply := <-r.replies:
			if reply.seq != r.gatherSeq || r.gatherWant == 0 {
				continue
			}
			r.gatherNames = append(r.gatherNames, reply.name)
			r.maybeFinishGather()
		}
	}
}

// broadcast enumerates the membership once; a member whose push does not go
// through is skipped, not removed. Removal only happens via Leave.
func (r *Room) broadcast(msg message.Outgoing) {
	delivered := 0
	for _, m := range r.members {
		select {
		case m.deliver <- msg:
			delivered++
		default:
		}
	}
	if delivered > 0 {
		addDelivered(delivered)
	}
}

// startGather snapshots the current member count and queries every member
// for its name. Membership may change while replies are outstanding; a
// newer gather supersedes the running one, so the roster may trail the live
// set by the in-flight delta and converges once churn stops.
func (r *Room) startGather() {
	r.gatherSeq++
	r.gatherWant = len(r.members)
	r.gatherNames = nil
	if r.gatherWant == 0 {
		return
	}

	for _, m := range r.members {
		select {
		case m.queries <- nameQuery{seq: r.gatherSeq, reply: r.replies}:
		default:
			// member no longer draining queries; count it anyway
			r.gatherNames = append(r.gatherNames, unknownMemberName)
		}
	}
	r.maybeFinishGather()
}

func (r *Room) maybeFinishGather() {
	if len(r.gatherNames) < r.gatherWant {
		return
	}
	names := append([]string(nil), r.gatherNames...)
	r.broadcast(message.Roster(r.name, names))
	r.gatherWant = 0
	r.gatherNames = nil
}
