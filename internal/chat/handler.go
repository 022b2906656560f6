package chat

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"dice-chat-backend/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP requests to chat sessions.
type Handler struct {
	directory *Directory

	// overridable before serving; defaults match the protocol constants
	HeartbeatInterval time.Duration
	ClientTimeout     time.Duration
}

func NewHandler(d *Directory) *Handler {
	return &Handler{
		directory:         d,
		HeartbeatInterval: heartbeatInterval,
		ClientTimeout:     clientTimeout,
	}
}

func (h *Handler) Directory() *Directory {
	return h.directory
}

// ServeWS upgrades the connection and starts a session for it. The session
// owns the connection from here on.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		log.Printf("Websocket upgrade failed for %s: %v", utils.RealClientIP(r), err)
		return nil
	}

	s := newSession(conn, h.directory, h.HeartbeatInterval, h.ClientTimeout)
	s.start()
	log.Printf("Session %s connected from %s", s.id, utils.RealClientIP(r))
	return nil
}
