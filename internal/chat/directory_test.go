package chat

import (
	"strings"
	"sync"
	"testing"
	"time"

	"dice-chat-backend/internal/message"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	d := NewDirectory()
	go d.Run()
	return d
}

func recvOutgoing(t *testing.T, ch <-chan message.Outgoing) message.Outgoing {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
		return nil
	}
}

func TestConnectAssignsUniqueIDs(t *testing.T) {
	d := newTestDirectory(t)

	deliver := make(chan message.Outgoing, 4)
	id1 := d.Connect(deliver)
	id2 := d.Connect(deliver)

	if id1 == "" || id2 == "" {
		t.Fatal("connect returned an empty session id")
	}
	if id1 == id2 {
		t.Fatalf("connect returned duplicate session ids: %s", id1)
	}
}

func TestConnectGreetsTheClient(t *testing.T) {
	d := newTestDirectory(t)

	deliver := make(chan message.Outgoing, 4)
	d.Connect(deliver)

	raw := recvOutgoing(t, deliver)
	msg, ok := raw.(*message.Text)
	if !ok {
		t.Fatalf("welcome should be a text message, got %T", raw)
	}
	if msg.Name != nil {
		t.Fatalf("welcome should be a system message, got sender %q", *msg.Name)
	}
	if !strings.HasPrefix(msg.Message, "Welcome to the Earthdawn Dice Roll Chat.<br>") {
		t.Fatalf("unexpected welcome text: %q", msg.Message)
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	d := newTestDirectory(t)

	deliver := make(chan message.Outgoing, 4)
	id := d.Connect(deliver)

	d.Disconnect(id)
	d.Disconnect(id)
	d.Disconnect("never-connected")

	// the registry must still be usable afterwards
	if again := d.Connect(deliver); again == "" {
		t.Fatal("directory stopped handling connects")
	}
}

func TestListRoomsStartsWithDefaultRoom(t *testing.T) {
	d := newTestDirectory(t)

	names := d.ListRooms()
	if len(names) != 1 || names[0] != DefaultRoom {
		t.Fatalf("fresh directory rooms = %v, want [%s]", names, DefaultRoom)
	}

	d.RequestRoom("arena")
	names = d.ListRooms()
	if len(names) != 2 {
		t.Fatalf("rooms after create = %v, want 2 entries", names)
	}
}

func TestRequestRoomReturnsSameInstance(t *testing.T) {
	d := newTestDirectory(t)

	if d.RequestRoom(DefaultRoom) != d.RequestRoom(DefaultRoom) {
		t.Fatal("requesting an existing room returned a different instance")
	}
}

func TestConcurrentRequestRoomResolvesToOneRoom(t *testing.T) {
	d := newTestDirectory(t)

	const callers = 20
	rooms := make(chan *Room, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rooms <- d.RequestRoom("contested")
		}()
	}
	wg.Wait()
	close(rooms)

	first := <-rooms
	for room := range rooms {
		if room != first {
			t.Fatal("concurrent first-time requests created distinct rooms")
		}
	}
}
