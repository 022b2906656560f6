package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wireMessage covers both outbound wire shapes for decoding in tests.
type wireMessage struct {
	Message     string   `json:"message"`
	Name        *string  `json:"name"`
	DiceResults []int32  `json:"dice_results"`
	RoomName    string   `json:"room_name"`
	Members     []string `json:"members"`
}

func startChatServer(t *testing.T) *httptest.Server {
	t.Helper()

	d := NewDirectory()
	go d.Run()

	h := NewHandler(d)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.ServeWS(w, r); err != nil {
			t.Errorf("ServeWS: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialChat(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readWire(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wireMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// readUntil discards messages until pred matches one.
func readUntil(t *testing.T, conn *websocket.Conn, what string, pred func(wireMessage) bool) wireMessage {
	t.Helper()

	for i := 0; i < 50; i++ {
		msg := readWire(t, conn)
		if pred(msg) {
			return msg
		}
	}
	t.Fatalf("never received %s", what)
	return wireMessage{}
}

func sendLine(t *testing.T, conn *websocket.Conn, line string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
		t.Fatalf("write %q: %v", line, err)
	}
}

func joinAs(t *testing.T, conn *websocket.Conn, name, room string) {
	t.Helper()
	sendLine(t, conn, "/name "+name)
	readUntil(t, conn, "name confirmation", func(m wireMessage) bool {
		return m.Message == "You are now known as: "+name
	})
	sendLine(t, conn, "/join "+room)
	readUntil(t, conn, "join confirmation", func(m wireMessage) bool {
		return m.Message == "You joined room "+room
	})
}

func TestEndToEndChat(t *testing.T) {
	srv := startChatServer(t)

	a := dialChat(t, srv)
	welcome := readWire(t, a)
	if welcome.Name != nil || !strings.Contains(welcome.Message, "Welcome") {
		t.Fatalf("first message should be the welcome banner, got %+v", welcome)
	}

	joinAs(t, a, "A", "Main")
	readUntil(t, a, "initial roster", func(m wireMessage) bool {
		return m.RoomName == "Main" && len(m.Members) == 1 && m.Members[0] == "A"
	})

	b := dialChat(t, srv)
	joinAs(t, b, "B", "Main")

	readUntil(t, a, "join notice for B", func(m wireMessage) bool {
		return m.Message == "'B' joined the room" && m.Name == nil
	})
	readUntil(t, a, "two-member roster", func(m wireMessage) bool {
		return m.RoomName == "Main" && len(m.Members) == 2
	})

	sendLine(t, a, "hello")
	got := readUntil(t, b, "chat from A", func(m wireMessage) bool {
		return m.Message == "hello"
	})
	if got.Name == nil || *got.Name != "A" || got.DiceResults != nil {
		t.Fatalf("unexpected chat message: %+v", got)
	}

	// self-echo: the sender receives its own broadcast too
	readUntil(t, a, "own chat echo", func(m wireMessage) bool {
		return m.Message == "hello" && m.Name != nil && *m.Name == "A"
	})

	sendLine(t, a, "!1d1")
	roll := readUntil(t, b, "dice result", func(m wireMessage) bool {
		return m.Message == "!1d1"
	})
	if len(roll.DiceResults) != 1 || roll.DiceResults[0] != 1 {
		t.Fatalf("dice results = %v, want [1]", roll.DiceResults)
	}
}

func TestDisconnectNotifiesRoom(t *testing.T) {
	srv := startChatServer(t)

	a := dialChat(t, srv)
	readWire(t, a) // welcome
	joinAs(t, a, "A", "Main")

	b := dialChat(t, srv)
	joinAs(t, b, "B", "Main")

	readUntil(t, a, "join notice for B", func(m wireMessage) bool {
		return m.Message == "'B' joined the room"
	})

	b.Close()

	readUntil(t, a, "leave notice for B", func(m wireMessage) bool {
		return m.Message == "'B' left the room"
	})
	readUntil(t, a, "roster without B", func(m wireMessage) bool {
		return m.RoomName == "Main" && len(m.Members) == 1 && m.Members[0] == "A"
	})
}

func TestHeartbeatTimeoutDropsSilentClient(t *testing.T) {
	d := NewDirectory()
	go d.Run()

	h := NewHandler(d)
	h.HeartbeatInterval = 20 * time.Millisecond
	h.ClientTimeout = 60 * time.Millisecond

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// swallow server pings so no pong ever goes back
	conn.SetPingHandler(func(string) error { return nil })

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			// server closed the connection after the liveness window
			return
		}
	}
}
