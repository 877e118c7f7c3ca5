package handlers

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tickerlab/research/backend/internal/contracts"
	"github.com/tickerlab/research/backend/pkg/logger"
)

const progressWriteWait = 5 * time.Second

// ProgressHub fans stage events out to websocket subscribers, keyed by
// symbol. It implements contracts.ProgressSink, so it can be attached
// to the orchestrator directly. Publishing never blocks the run: a
// subscriber that cannot keep up is dropped.
type ProgressHub struct {
	mu     sync.RWMutex
	subs   map[string]map[*websocket.Conn]bool
	logger *logger.Logger
}

func NewProgressHub(log *logger.Logger) *ProgressHub {
	return &ProgressHub{
		subs:   make(map[string]map[*websocket.Conn]bool),
		logger: log,
	}
}

// Publish sends the event to every subscriber of its symbol.
func (h *ProgressHub) Publish(event contracts.StageEvent) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subs[event.Symbol]))
	for conn := range h.subs[event.Symbol] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(progressWriteWait))
		if err := conn.WriteJSON(event); err != nil {
			h.logger.WithError(err).WithField("symbol", event.Symbol).Debug("Dropping slow progress subscriber")
			h.remove(event.Symbol, conn)
			conn.Close()
		}
	}
}

// Subscribe registers conn for events about symbol until the peer
// disconnects. Blocks while the subscription is live.
func (h *ProgressHub) Subscribe(symbol string, conn *websocket.Conn) {
	h.mu.Lock()
	if h.subs[symbol] == nil {
		h.subs[symbol] = make(map[*websocket.Conn]bool)
	}
	h.subs[symbol][conn] = true
	h.mu.Unlock()

	defer func() {
		h.remove(symbol, conn)
		conn.Close()
	}()

	// Drain control frames; exit when the peer goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *ProgressHub) remove(symbol string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.subs[symbol]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subs, symbol)
		}
	}
}
