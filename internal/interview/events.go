package interview

import (
	"sync"

	"prepcoach/internal/models"
)

type EventType string

const (
	EventMessage   EventType = "message"
	EventPhase     EventType = "phase"
	EventTick      EventType = "tick"
	EventCompleted EventType = "completed"
)

// Event is pushed to live subscribers of a machine.
type Event struct {
	Type      EventType               `json:"type"`
	Phase     models.Phase            `json:"phase,omitempty"`
	Message   *models.Message         `json:"message,omitempty"`
	Remaining int                     `json:"remaining,omitempty"`
	Warning   bool                    `json:"warning,omitempty"`
	Progress  *Progress               `json:"progress,omitempty"`
	Result    *models.CompletedResult `json:"result,omitempty"`
}

// Hub fans machine events out to subscribers, keyed by owner.
// Slow subscribers drop events instead of blocking the machine.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[chan Event]struct{}
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 32
	}
	return &Hub{subs: make(map[string]map[chan Event]struct{}), buffer: buffer}
}

// Subscribe returns a channel of events for owner and a func that ends the
// subscription and closes the channel.
func (h *Hub) Subscribe(owner string) (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)
	h.mu.Lock()
	if h.subs[owner] == nil {
		h.subs[owner] = make(map[chan Event]struct{})
	}
	h.subs[owner][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[owner], ch)
			if len(h.subs[owner]) == 0 {
				delete(h.subs, owner)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Publish(owner string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[owner] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *Hub) Subscribers(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[owner])
}
