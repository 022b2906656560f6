package chat

import (
	"log"

	"github.com/google/uuid"

	"dice-chat-backend/internal/message"
)

// DefaultRoom always exists; a fresh server starts with only this room.
const DefaultRoom = "Main"

// Directory is the process-wide registry mapping session ids to push
// handles and room names to rooms. One instance lives for the process
// lifetime; its maps are owned exclusively by the Run goroutine.
type Directory struct {
	sessions map[string]chan<- message.Outgoing
	rooms    map[string]*Room

	connects     chan connectRequest
	disconnects  chan string
	roomRequests chan roomRequest
	roomLists    chan chan []string
}

type connectRequest struct {
	deliver chan<- message.Outgoing
	reply   chan<- string
}

type roomRequest struct {
	name  string
	reply chan<- *Room
}

func NewDirectory() *Directory {
	d := &Directory{
		sessions:     make(map[string]chan<- message.Outgoing),
		rooms:        make(map[string]*Room),
		connects:     make(chan connectRequest),
		disconnects:  make(chan string, 16),
		roomRequests: make(chan roomRequest),
		roomLists:    make(chan chan []string),
	}
	d.rooms[DefaultRoom] = newRoom(DefaultRoom)
	setRooms(len(d.rooms))
	return d
}

func (d *Directory) Run() {
	for {
		select {
		case req := <-d.connects:
			id := uuid.NewString()
			d.sessions[id] = req.deliver
			incConnections()
			log.Printf("Session %s registered", id)

			select {
			case req.deliver <- message.System(WelcomeMessage()):
			default:
			}
			req.reply <- id

		case id := <-d.disconnects:
			if _, ok := d.sessions[id]; ok {
				delete(d.sessions, id)
				decConnections()
				log.Printf("Session %s deregistered", id)
			}

		case req := <-d.roomRequests:
			room, ok := d.rooms[req.name]
			if !ok {
				room = newRoom(req.name)
				d.rooms[req.name] = room
				setRooms(len(d.rooms))
				log.Printf("Room %q created", req.name)
			}
			req.reply <- room

		case reply := <-d.roomLists:
			names := make([]string, 0, len(d.rooms))
			for name := range d.rooms {
				names = append(names, name)
			}
			reply <- names
		}
	}
}

// Connect allocates a fresh session id, stores the push handle and greets
// the new client through it. It never fails.
func (d *Directory) Connect(deliver chan<- message.Outgoing) string {
	reply := make(chan string, 1)
	d.connects <- connectRequest{deliver: deliver, reply: reply}
	return <-reply
}

// Disconnect removes the stored handle; idempotent.
func (d *Directory) Disconnect(id string) {
	d.disconnects <- id
}

// RequestRoom returns the room for name, creating and registering an empty
// one on first reference. Concurrent first-time callers resolve to the same
// room.
func (d *Directory) RequestRoom(name string) *Room {
	reply := make(chan *Room, 1)
	d.roomRequests <- roomRequest{name: name, reply: reply}
	return <-reply
}

// ListRooms returns all known room names in arbitrary order.
func (d *Directory) ListRooms() []string {
	reply := make(chan []string, 1)
	d.roomLists <- reply
	return <-reply
}
