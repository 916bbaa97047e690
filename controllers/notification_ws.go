package controller

import (
	"log"
	"sync"

	"estatedesk/models"

	"github.com/gofiber/websocket/v2"
)

// NotificationHub pushes stored notifications to connected backoffice
// sessions so the bell icon updates without polling. Subscribers that fall
// behind are dropped rather than blocking the publisher.
type NotificationHub struct {
	mu          sync.Mutex
	subscribers map[uint]map[*websocket.Conn]chan models.Notification
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		subscribers: make(map[uint]map[*websocket.Conn]chan models.Notification),
	}
}

// Publish offers the notification to every live connection of its recipient
func (h *NotificationHub) Publish(n models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subscribers[n.RecipientID] {
		select {
		case ch <- n:
		default:
			// Slow consumer, skip this event
		}
	}
}

func (h *NotificationHub) subscribe(userID uint, conn *websocket.Conn) chan models.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan models.Notification, 16)
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[*websocket.Conn]chan models.Notification)
	}
	h.subscribers[userID][conn] = ch
	return ch
}

func (h *NotificationHub) unsubscribe(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns := h.subscribers[userID]; conns != nil {
		if ch, ok := conns[conn]; ok {
			close(ch)
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(h.subscribers, userID)
		}
	}
}

// HandleNotificationWS streams new notifications to one authenticated
// connection until the client disconnects
func (h *NotificationHub) HandleNotificationWS(c *websocket.Conn) {
	defer c.Close()

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		log.Printf("Notification WS without user context, closing")
		return
	}

	ch := h.subscribe(userID, c)
	defer h.unsubscribe(userID, c)

	// Reader goroutine: we never expect client messages, but reading is what
	// surfaces the close frame
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := c.WriteJSON(n); err != nil {
				log.Printf("Error writing notification to WS: %v", err)
				return
			}
		}
	}
}
