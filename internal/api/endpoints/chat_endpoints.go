package endpoints

import (
	"net/http"

	"dice-chat-backend/internal/chat"
)

type RoomRes struct {
	Name string `json:"name"`
}

type ChatEndpoints interface {
	Rooms(http.ResponseWriter, *http.Request) error
}

type chatEndpoints struct {
	directory *chat.Directory
}

func NewChatEndpoints(directory *chat.Directory) ChatEndpoints {
	return &chatEndpoints{directory: directory}
}

// Rooms lists the currently known room names.
func (h *chatEndpoints) Rooms(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) error {
			names := h.directory.ListRooms()
			rooms := make([]RoomRes, 0, len(names))
			for _, name := range names {
				rooms = append(rooms, RoomRes{Name: name})
			}
			return WriteJSON(w, http.StatusOK, rooms)
		},
	})
}
