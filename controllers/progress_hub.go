package controller

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// ProgressEvent is one upload progress report pushed to subscribers.
type ProgressEvent struct {
	CampaignID uint   `json:"campaign_id"`
	Percent    int    `json:"percent"`
	Stage      string `json:"stage,omitempty"`
}

// ProgressHub fans upload progress out to websocket subscribers. Each
// subscriber gets a small buffered channel; a subscriber that falls
// behind loses events rather than blocking the upload.
type ProgressHub struct {
	mu   sync.RWMutex
	subs map[uint]map[chan ProgressEvent]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		subs: make(map[uint]map[chan ProgressEvent]struct{}),
	}
}

func (h *ProgressHub) Subscribe(campaignID uint) chan ProgressEvent {
	ch := make(chan ProgressEvent, 16)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[campaignID] == nil {
		h.subs[campaignID] = make(map[chan ProgressEvent]struct{})
	}
	h.subs[campaignID][ch] = struct{}{}
	return ch
}

func (h *ProgressHub) Unsubscribe(campaignID uint, ch chan ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[campaignID]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(h.subs, campaignID)
		}
	}
}

func (h *ProgressHub) Publish(event ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[event.CampaignID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Handler streams progress events for one campaign over a websocket
// until the client disconnects.
func (h *ProgressHub) Handler(campaignID uint) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		defer conn.Close()

		events := h.Subscribe(campaignID)
		defer h.Unsubscribe(campaignID, events)

		// Drain the read side so close frames are noticed
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case event := <-events:
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			}
		}
	}
}
