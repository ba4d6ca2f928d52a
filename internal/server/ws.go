package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// RegionsHandler broadcasts per-frame region output over WebSocket. It
// is registered as an engine listener; frames a slow client cannot keep
// up with are dropped for that client.
type RegionsHandler struct {
	clients map[*websocket.Conn]chan []byte
	mu      sync.RWMutex
}

// NewRegionsHandler creates a RegionsHandler with no clients.
func NewRegionsHandler() *RegionsHandler {
	return &RegionsHandler{
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Publish implements engine.Listener. It runs on the frame loop
// goroutine and must not block.
func (h *RegionsHandler) Publish(out engine.FrameOutput) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(out)
	if err != nil {
		log.Printf("regions feed: marshal failed: %v", err)
		return
	}

	for _, ch := range h.clients {
		select {
		case ch <- msg:
		default: // drop the frame for this client
		}
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *RegionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch := make(chan []byte, 8)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	// Closing the channel under the exclusive lock ends the writer
	// goroutine; Publish holds the read lock while sending, so no send
	// can race the close.
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		close(ch)
		h.mu.Unlock()
	}()

	go func() {
		for msg := range ch {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Keep the connection open by reading until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
