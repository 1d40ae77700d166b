package tracking

import (
	"context"
	"sync"
	"time"

	"food_marketplace/internal/logger"
	"food_marketplace/internal/model"

	"github.com/gorilla/websocket"
)

const (
	subscriberBuffer = 16
	writeWait        = 10 * time.Second
	pingPeriod       = 30 * time.Second
	pongWait         = pingPeriod + 10*time.Second
)

type subscriber struct {
	events chan model.OrderEvent
}

// Hub relays order events to the websocket clients watching that order.
// It is fed through the same Publish call as the event bus.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
	log         *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]map[*subscriber]struct{}),
		log:         log,
	}
}

// Publish forwards OrderEvent payloads keyed by order id. Other payloads
// are ignored. A subscriber whose buffer is full misses the event.
func (h *Hub) Publish(ctx context.Context, topic, key string, payload any) bool {
	var event model.OrderEvent
	switch p := payload.(type) {
	case model.OrderEvent:
		event = p
	case *model.OrderEvent:
		if p == nil {
			return false
		}
		event = *p
	default:
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers[key] {
		select {
		case sub.events <- event:
		default:
			h.log.Warn(ctx, "tracking_event_dropped", "Subscriber too slow, event dropped", "order_id", key, "topic", topic)
		}
	}
	return true
}

// Subscribe registers interest in orderID. The returned func must be
// called to release the subscription.
func (h *Hub) Subscribe(orderID string) (<-chan model.OrderEvent, func()) {
	sub := &subscriber{events: make(chan model.OrderEvent, subscriberBuffer)}

	h.mu.Lock()
	if h.subscribers[orderID] == nil {
		h.subscribers[orderID] = make(map[*subscriber]struct{})
	}
	h.subscribers[orderID][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.events, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers[orderID], sub)
			if len(h.subscribers[orderID]) == 0 {
				delete(h.subscribers, orderID)
			}
			h.mu.Unlock()
		})
	}
}

func (h *Hub) SubscriberCount(orderID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[orderID])
}

// Stream writes every event for orderID to conn until the client goes
// away or ctx is done. It closes conn before returning.
//
// When snapshot is set, its result is written first. It is taken after
// the subscription exists, so no change between the two is lost; a
// change may arrive both in the snapshot and as an event.
func (h *Hub) Stream(ctx context.Context, conn *websocket.Conn, orderID string, snapshot func(context.Context) (any, error)) {
	events, unsubscribe := h.Subscribe(orderID)
	defer unsubscribe()
	defer conn.Close()

	if snapshot != nil {
		current, err := snapshot(ctx)
		if err != nil {
			h.log.Warn(ctx, "tracking_snapshot_failed", "Could not load order snapshot", "order_id", orderID, "error", err.Error())
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "order unavailable"), time.Now().Add(writeWait))
			return
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(current); err != nil {
			return
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Clients never send anything meaningful; reading is only how a
	// close frame or dropped connection is noticed.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case event := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				h.log.Debug(ctx, "tracking_write_failed", "Websocket write failed", "order_id", orderID, "error", err.Error())
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
