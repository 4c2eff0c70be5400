package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"prepcoach/internal/interview"
	"prepcoach/internal/middleware"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// StreamHandler pushes a user's interview events over a websocket.
type StreamHandler struct {
	Registry *interview.Registry
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewStreamHandler(registry *interview.Registry, logger *zap.Logger) *StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandler{
		Registry: registry,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:   logger,
	}
}

func (h *StreamHandler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserIDFrom(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("owner", ownerID), zap.Error(err))
		return
	}
	defer conn.Close()

	events, stop := h.Registry.Subscribe(ownerID)
	defer stop()

	// the client only sends control frames; reads detect disconnects
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	m := h.Registry.Get(ownerID)
	progress := m.Progress()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(interview.Event{Type: interview.EventPhase, Phase: progress.Phase, Progress: &progress}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("websocket write failed", zap.String("owner", ownerID), zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
