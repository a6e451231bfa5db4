// Package feed pushes inventory day changes to websocket subscribers.
package feed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/model"
	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/obs"
)

// DayNotice is sent to every subscriber after a day is advanced.
type DayNotice struct {
	Type  string            `json:"type"`
	Day   int               `json:"day"`
	Items []model.StockItem `json:"items"`
}

// Hub maintains the set of active subscribers and broadcasts messages to them.
type Hub struct {
	register   chan *subscriber
	unregister chan *subscriber
	broadcast  chan []byte
	bufSize    int

	mu   sync.Mutex
	subs map[*subscriber]struct{}
	done chan struct{}
}

// NewHub creates a Hub whose subscribers buffer up to bufSize messages.
// Slow subscribers that fill their buffer are dropped.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Hub{
		register:   make(chan *subscriber),
		unregister: make(chan *subscriber),
		broadcast:  make(chan []byte, bufSize),
		bufSize:    bufSize,
		subs:       make(map[*subscriber]struct{}),
		done:       make(chan struct{}),
	}
}

// Run handles registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for s := range h.subs {
				delete(h.subs, s)
				close(s.send)
			}
			h.mu.Unlock()
			obs.Logger.Info("feed_hub_stopped")
			return
		case s := <-h.register:
			h.mu.Lock()
			h.subs[s] = struct{}{}
			n := len(h.subs)
			h.mu.Unlock()
			obs.Logger.Info("feed_subscriber_joined", "subscribers", n)
		case s := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subs[s]; ok {
				delete(h.subs, s)
				close(s.send)
			}
			n := len(h.subs)
			h.mu.Unlock()
			obs.Logger.Info("feed_subscriber_left", "subscribers", n)
		case msg := <-h.broadcast:
			h.mu.Lock()
			for s := range h.subs {
				select {
				case s.send <- msg:
				default:
					delete(h.subs, s)
					close(s.send)
					obs.Logger.Warn("feed_subscriber_dropped")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// PublishDay broadcasts a day notice. It never blocks the caller once the
// hub has stopped.
func (h *Hub) PublishDay(day int, items []model.StockItem) {
	payload, err := json.Marshal(DayNotice{Type: "day_advanced", Day: day, Items: items})
	if err != nil {
		obs.Logger.Error("feed_encode_error", "error", err)
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

func (h *Hub) join(s *subscriber) bool {
	select {
	case h.register <- s:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(s *subscriber) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}
