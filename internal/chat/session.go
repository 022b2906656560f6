package chat

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dice-chat-backend/internal/dice"
	"dice-chat-backend/internal/message"
)

const (
	// heartbeatInterval is how often liveness probes are sent.
	heartbeatInterval = 5 * time.Second
	// clientTimeout drops the connection when no liveness signal arrived
	// within this window.
	clientTimeout = 10 * time.Second

	controlWriteWait = 10 * time.Second
	maxFrameSize     = 512 * 1024
)

// Session owns one client connection: its protocol state machine, liveness
// timer and room membership. Inbound frames are processed strictly in
// arrival order by the read loop; outbound pushes and name-query replies go
// through the write loop.
type Session struct {
	conn      *websocket.Conn
	directory *Directory
	roller    *dice.Roller

	outbound chan message.Outgoing
	queries  chan nameQuery
	done     chan struct{}

	hbInterval time.Duration
	hbTimeout  time.Duration

	id string

	mu         sync.Mutex // guards conn writes, closed, name, room, lastSignal
	closed     bool
	name       string
	room       *Room
	lastSignal time.Time
}

func newSession(conn *websocket.Conn, directory *Directory, hbInterval, hbTimeout time.Duration) *Session {
	return &Session{
		conn:       conn,
		directory:  directory,
		roller:     dice.New(),
		outbound:   make(chan message.Outgoing, 16),
		queries:    make(chan nameQuery, 4),
		done:       make(chan struct{}),
		hbInterval: hbInterval,
		hbTimeout:  hbTimeout,
		lastSignal: time.Now(),
	}
}

// start registers the session with the directory and launches its pumps.
func (s *Session) start() {
	s.id = s.directory.Connect(s.outbound)

	go s.keepAlive()
	go s.writePump()
	go s.readPump()
}

func (s *Session) keepAlive() {
	ticker := time.NewTicker(s.hbInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				return
			}
			stale := time.Since(s.lastSignal) > s.hbTimeout
			var err error
			if !stale {
				err = s.conn.WriteMessage(websocket.PingMessage, nil)
			}
			s.mu.Unlock()

			if stale {
				log.Printf("Session %s heartbeat timed out, disconnecting", s.id)
				s.cleanup()
				return
			}
			if err != nil {
				log.Printf("Ping error for session %s: %v", s.id, err)
				s.cleanup()
				return
			}
		}
	}
}

func (s *Session) writePump() {
	for {
		select {
		case <-s.done:
			return

		case q := <-s.queries:
			// only room members are queried, and members always carry a name
			q.reply <- nameReply{seq: q.seq, name: s.displayName()}

		case msg := <-s.outbound:
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				return
			}
			err := s.conn.WriteJSON(msg)
			s.mu.Unlock()

			if err != nil {
				log.Printf("Error sending message to session %s: %v", s.id, err)
				s.cleanup()
				return
			}
		}
	}
}

func (s *Session) readPump() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in session %s read loop: %v", s.id, r)
		}
		s.cleanup()
	}()

	s.conn.SetReadLimit(maxFrameSize)
	s.conn.SetPongHandler(func(string) error {
		s.refreshLiveness()
		return nil
	})
	s.conn.SetPingHandler(func(appData string) error {
		s.refreshLiveness()
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return nil
		}
		return s.conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(controlWriteWait))
	})

	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			if closeErr, ok := err.(*websocket.CloseError); ok {
				if closeErr.Code == websocket.CloseNormalClosure ||
					closeErr.Code == websocket.CloseGoingAway ||
					closeErr.Code == websocket.CloseNoStatusReceived {
					break
				}
			}
			log.Printf("Error reading from session %s: %v", s.id, err)
			break
		}
		if kind == websocket.BinaryMessage {
			log.Printf("Session %s sent an unexpected binary frame", s.id)
			continue
		}

		s.handleLine(string(data))
	}
}

// handleLine processes one inbound text line. It runs only on the read
// goroutine, so lines from one client are handled strictly in send order;
// the synchronous directory round trips in /list and /join deliberately
// defer further frames until the reply lands.
func (s *Session) handleLine(raw string) {
	m := strings.TrimSpace(raw)
	if m == "" {
		return
	}

	if strings.HasPrefix(m, "/") {
		s.handleCommand(m)
		return
	}

	// fetch the room once; cleanup may clear it concurrently
	room := s.currentRoom()
	switch {
	case s.displayName() == "":
		s.push(message.System("!!! set a name first: /name <name>"))
	case room == nil:
		s.push(message.System("!!! join a room first: /join <room>"))
	case strings.HasPrefix(m, "!"):
		s.handleRoll(room, m)
	default:
		room.Post(message.Chat(m, s.displayName()))
	}
}

func (s *Session) handleCommand(m string) {
	parts := strings.SplitN(m, " ", 2)

	if s.displayName() == "" && parts[0] != "/name" {
		s.push(message.System("!!! set a name first: /name <name>"))
		return
	}

	switch parts[0] {
	case "/name":
		if len(parts) != 2 || parts[1] == "" {
			s.push(message.System("!!! name is required"))
			return
		}
		s.setName(parts[1])
		if room := s.currentRoom(); room != nil {
			room.NameChanged()
		}
		s.push(message.System("You are now known as: " + parts[1]))

	case "/join":
		if len(parts) != 2 || parts[1] == "" {
			s.push(message.System("!!! room name is required"))
			return
		}
		s.join(parts[1])

	case "/list":
		for _, name := range s.directory.ListRooms() {
			s.push(message.System(name))
		}

	default:
		s.push(message.System(fmt.Sprintf("!!! unknown command: %q", m)))
	}
}

func (s *Session) join(name string) {
	if old := s.currentRoom(); old != nil {
		old.Leave(s.id, s.displayName())
	}

	room := s.directory.RequestRoom(name)
	s.setRoom(room)
	room.Join(member{id: s.id, deliver: s.outbound, queries: s.queries}, s.displayName())
	s.push(message.System("You joined room " + name))
}

// handleRoll evaluates a dice line. The first whitespace-delimited token is
// the rollable expression; a trailing '*' marks the roll hidden and is
// stripped. The leading '!' sigil is stripped before evaluation, so a
// doubled "!!" puts the evaluator in exploding mode.
func (s *Session) handleRoll(room *Room, m string) {
	expr := m
	if i := strings.IndexByte(m, ' '); i >= 0 {
		expr = m[:i]
	}
	hidden := strings.HasSuffix(expr, "*")
	expr = strings.TrimSuffix(expr, "*")

	results := s.roller.Results(expr[1:])
	incDiceRolls()

	name := s.displayName()
	if hidden {
		// the roller alone sees the numbers; the room sees plain chat
		s.push(message.DiceResult(m, name, results))
		room.Post(message.Chat(m, name))
		return
	}
	room.Post(message.DiceResult(m, name, results))
}

// push queues a message for this session's own connection, best-effort.
func (s *Session) push(msg message.Outgoing) {
	select {
	case s.outbound <- msg:
	case <-s.done:
	}
}

func (s *Session) refreshLiveness() {
	s.mu.Lock()
	s.lastSignal = time.Now()
	s.mu.Unlock()
}

func (s *Session) displayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *Session) setName(name string) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
}

func (s *Session) currentRoom() *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

func (s *Session) setRoom(room *Room) {
	s.mu.Lock()
	s.room = room
	s.mu.Unlock()
}

// cleanup tears the session down exactly once: deregister from the
// directory, leave the current room and close the transport. Reached from
// read errors, write errors and heartbeat timeouts alike.
func (s *Session) cleanup() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	room, name := s.room, s.name
	s.room = nil
	s.mu.Unlock()

	s.directory.Disconnect(s.id)
	if room != nil {
		room.Leave(s.id, name)
	}
	close(s.done)
	s.conn.Close()
	log.Printf("Session %s disconnected", s.id)
}
