// Package realtime implements the push half of the ride store: clients
// subscribe over websocket and receive ride status transitions as they
// are committed. Delivery is best effort; the database row remains the
// source of truth and clients re-read it on reconnect.
package realtime

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event names pushed to subscribers, one per lifecycle transition.
const (
	EventRideRequested = "ride.requested"
	EventRideAccepted  = "ride.accepted"
	EventRideOngoing   = "ride.ongoing"
	EventRideCompleted = "ride.completed"
	EventRideCancelled = "ride.cancelled"
	EventCandidates    = "candidates.updated"
)

// Hub tracks subscriber connections keyed by user ID and role.
type Hub struct {
	mu         sync.RWMutex
	byCustomer map[string]*wsConn
	byDriver   map[string]*wsConn
	log        *logrus.Logger
}

// NewHub creates a new Hub.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		byCustomer: make(map[string]*wsConn),
		byDriver:   make(map[string]*wsConn),
		log:        log,
	}
}

// wsConn wraps a websocket connection with a write mutex to serialize writes.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// RegisterCustomer subscribes a customer connection, replacing any
// previous one for the same ID.
func (h *Hub) RegisterCustomer(customerID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.byCustomer[customerID]; ok {
		old.conn.Close()
	}
	h.byCustomer[customerID] = &wsConn{conn: conn}
}

// UnregisterCustomer drops a customer subscription. The conn argument
// scopes the removal: if the ID has since been re-registered with a
// newer connection, that subscription is left alone. Without the scope,
// the dying connection's cleanup would tear down its replacement.
func (h *Hub) UnregisterCustomer(customerID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.byCustomer[customerID]; ok && c.conn == conn {
		c.conn.Close()
		delete(h.byCustomer, customerID)
	}
}

// RegisterDriver subscribes a driver connection, replacing any previous
// one for the same ID.
func (h *Hub) RegisterDriver(driverID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.byDriver[driverID]; ok {
		old.conn.Close()
	}
	h.byDriver[driverID] = &wsConn{conn: conn}
}

// UnregisterDriver drops a driver subscription, scoped to conn the same
// way UnregisterCustomer is.
func (h *Hub) UnregisterDriver(driverID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.byDriver[driverID]; ok && c.conn == conn {
		c.conn.Close()
		delete(h.byDriver, driverID)
	}
}

// NotifyCustomer sends an event to the customer if connected.
func (h *Hub) NotifyCustomer(customerID, event string, payload any) {
	h.mu.RLock()
	wc, ok := h.byCustomer[customerID]
	h.mu.RUnlock()
	h.send(wc, ok, "customer", customerID, event, payload)
}

// NotifyDriver sends an event to the driver if connected.
func (h *Hub) NotifyDriver(driverID, event string, payload any) {
	h.mu.RLock()
	wc, ok := h.byDriver[driverID]
	h.mu.RUnlock()
	h.send(wc, ok, "driver", driverID, event, payload)
}

func (h *Hub) send(wc *wsConn, ok bool, role, id, event string, payload any) {
	if !ok {
		return // not subscribed, nothing to deliver
	}

	msg := map[string]any{"event": event, "data": payload}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	if err := wc.conn.WriteJSON(msg); err != nil {
		h.log.WithFields(logrus.Fields{
			"role":  role,
			"id":    id,
			"event": event,
		}).WithError(err).Warn("websocket write failed")
	}
}
