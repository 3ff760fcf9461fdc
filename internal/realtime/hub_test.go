package realtime

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// dialPair returns the server side and client side of a live websocket
// connection backed by a loopback HTTP server.
func dialPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case server := <-serverConns:
		return server, client
	case <-time.After(time.Second):
		t.Fatal("no server connection arrived")
		return nil, nil
	}
}

type hubMessage struct {
	Event string `json:"event"`
}

func TestReconnectSurvivesOldConnectionCleanup(t *testing.T) {
	hub := NewHub(newTestLogger())

	oldServer, _ := dialPair(t)
	newServer, newClient := dialPair(t)

	hub.RegisterCustomer("c1", oldServer)
	// Reconnect replaces the subscription and closes the old connection,
	// which triggers the old read loop's deferred cleanup.
	hub.RegisterCustomer("c1", newServer)
	hub.UnregisterCustomer("c1", oldServer)

	hub.NotifyCustomer("c1", EventRideAccepted, map[string]string{"ride_id": "ride-1"})

	newClient.SetReadDeadline(time.Now().Add(time.Second))
	var msg hubMessage
	if err := newClient.ReadJSON(&msg); err != nil {
		t.Fatalf("new subscription was torn down: %v", err)
	}
	if msg.Event != EventRideAccepted {
		t.Errorf("expected event %s, got %s", EventRideAccepted, msg.Event)
	}
}

func TestUnregisterDropsOwnSubscription(t *testing.T) {
	hub := NewHub(newTestLogger())

	server, client := dialPair(t)
	hub.RegisterDriver("d1", server)
	hub.UnregisterDriver("d1", server)

	client.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := client.ReadMessage(); err == nil {
		t.Error("expected the connection to be closed")
	}

	// Notifies after unregister are dropped, not delivered or retried.
	hub.NotifyDriver("d1", EventCandidates, nil)
}
