package ws

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitForConns(t *testing.T, hub *Hub, userID int64, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.userConns[userID]) == want
	}, time.Second, time.Millisecond)
}

func TestSendToUserDeliversToAllConnections(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := &Client{UserID: 7, Hub: hub, Send: make(chan []byte, 1)}
	c2 := &Client{UserID: 7, Hub: hub, Send: make(chan []byte, 1)}
	hub.register <- c1
	hub.register <- c2
	waitForConns(t, hub, 7, 2)

	hub.SendToUser(7, "friend_request.received", map[string]any{"request_id": 5})

	for _, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.Send:
			require.Contains(t, string(msg), `"event":"friend_request.received"`)
		case <-time.After(time.Second):
			t.Fatal("no event delivered")
		}
	}
}

func TestSendToUserSkipsOtherUsers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{UserID: 7, Hub: hub, Send: make(chan []byte, 1)}
	hub.register <- c
	waitForConns(t, hub, 7, 1)

	hub.SendToUser(8, "dating.matched", nil)

	select {
	case msg := <-c.Send:
		t.Fatalf("unexpected event for other user: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSendToUserDropsSlowConsumer(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{UserID: 7, Hub: hub, Send: make(chan []byte, 1)}
	hub.register <- c
	waitForConns(t, hub, 7, 1)

	hub.SendToUser(7, "message.received", 1)
	// buffer is now full; the next send cannot be delivered
	hub.SendToUser(7, "message.received", 2)

	waitForConns(t, hub, 7, 0)
}

func TestSendToUserConcurrentWithConnectionChurn(t *testing.T) {
	// Registration, unregistration, and fan-out all touch the same
	// connection set; hammering them together must not corrupt it.
	hub := NewHub()
	go hub.Run()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			c := &Client{UserID: 1, Hub: hub, Send: make(chan []byte, 1)}
			hub.register <- c
			hub.unregister <- c
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.SendToUser(1, "message.received", i)
		}
	}()

	wg.Wait()
	waitForConns(t, hub, 1, 0)
}
