package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestRegisterUnregister(t *testing.T) {
	h := NewHub(nil)

	a := h.Register(1, nil)
	b := h.Register(1, nil)
	if a == b {
		t.Fatalf("connection ids must be unique, got %q twice", a)
	}
	if n := len(h.conns[1]); n != 2 {
		t.Fatalf("want 2 connections for user 1, got %d", n)
	}

	h.Unregister(1, a)
	if n := len(h.conns[1]); n != 1 {
		t.Fatalf("want 1 connection after unregister, got %d", n)
	}

	h.Unregister(1, b)
	if _, ok := h.conns[1]; ok {
		t.Fatal("user entry should be removed with the last connection")
	}
}

func TestUnregisterUnknownIsNoop(t *testing.T) {
	h := NewHub(nil)
	h.Unregister(42, "missing")

	id := h.Register(7, nil)
	h.Unregister(7, "wrong-id")
	if _, ok := h.conns[7][id]; !ok {
		t.Fatal("unrelated unregister must not drop the connection")
	}
}

func TestSendToUserWithoutConnections(t *testing.T) {
	h := NewHub(nil)
	// Must not panic or create map entries.
	h.SendToUser(99, Event{Type: "pickup:update"})
	if len(h.conns) != 0 {
		t.Fatalf("send to absent user must not register anything, got %d entries", len(h.conns))
	}
}

// Concurrent pushes to the same user must all land on the wire intact: the
// per-connection lock serializes writers sharing one socket.
func TestSendToUserConcurrent(t *testing.T) {
	const userID, writers = 7, 32

	h := NewHub(nil)
	up := websocket.Upgrader{}
	registered := make(chan struct{})
	hold := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		h.Register(userID, conn)
		close(registered)
		<-hold
	}))
	defer srv.Close()
	defer close(hold)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer peer.Close()

	select {
	case <-registered:
	case <-time.After(5 * time.Second):
		t.Fatal("connection never registered")
	}

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.SendToUser(userID, Event{Type: "pickup:update", Data: map[string]any{"pickup_id": 1}})
		}()
	}

	_ = peer.SetReadDeadline(time.Now().Add(5 * time.Second))
	for got := 0; got < writers; got++ {
		var ev Event
		if err := peer.ReadJSON(&ev); err != nil {
			t.Fatalf("read %d/%d: %v", got, writers, err)
		}
		if ev.Type != "pickup:update" {
			t.Fatalf("event type = %q, want pickup:update", ev.Type)
		}
	}
	wg.Wait()

	if n := len(h.conns[userID]); n != 1 {
		t.Fatalf("connection should survive concurrent sends, got %d entries", n)
	}
}
