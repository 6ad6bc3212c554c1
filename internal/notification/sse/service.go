// Package sse provides Server-Sent Events support so the dashboard hears
// about new bookings and confirmations between its polling cycles.
package sse

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType represents different types of SSE events
type EventType string

const (
	EventBookingReceived EventType = "booking_received"
	EventQuoteConfirmed  EventType = "quote_confirmed"
	EventQuoteUpdated    EventType = "quote_updated"
)

// Event represents an SSE event payload
type Event struct {
	Type    EventType   `json:"type"`
	QuoteID uuid.UUID   `json:"quoteId,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// client represents a connected SSE client
type client struct {
	userID uuid.UUID
	events chan Event
}

// Service manages SSE connections and event broadcasting. Client channels
// are never closed; readers leave via their request context or the
// service-wide done channel, so a late Broadcast can never hit a closed
// channel.
type Service struct {
	mu        sync.RWMutex
	clients   []*client
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a new SSE service
func New() *Service {
	return &Service{done: make(chan struct{})}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, c)
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cl := range s.clients {
		if cl == c {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			break
		}
	}
}

// Broadcast sends an event to every connected dashboard client. Slow
// clients get dropped events rather than blocking the publisher.
func (s *Service) Broadcast(event Event) {
	s.mu.RLock()
	clients := make([]*client, len(s.clients))
	copy(clients, s.clients)
	s.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.events <- event:
		default:
			log.Printf("SSE: Event buffer full for user %s", c.userID)
		}
	}
}

// Handler returns a Gin handler for SSE connections
func (s *Service) Handler(getUserID func(*gin.Context) (uuid.UUID, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			userID: userID,
			events: make(chan Event, 32),
		}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"userId": userID})
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case <-s.done:
				return
			case event := <-cl.events:
				data, _ := json.Marshal(event)
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close shuts down the SSE service, disconnecting all clients.
func (s *Service) Close() {
	s.mu.Lock()
	s.clients = nil
	s.mu.Unlock()
	s.closeOnce.Do(func() { close(s.done) })
}
