// Command collab is a demo-only collaboration server: every WebSocket
// client gets its own collaborator id, and every history increment is
// broadcast to all of them as a JSON Patch document. It exists to
// exercise wire.go and broadcast.go against a real transport; it is not
// a production sync protocol.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	history "github.com/driftcanvas/history"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1 << 20,
	WriteBufferSize: 1 << 20,
}

type server struct {
	store       *history.Store
	broadcaster *history.Broadcaster[string]
	conns       map[string]*websocket.Conn
	elements    *history.ElementsMap
	appState    history.ObservedAppState
	nonce       int64
}

func newServer() *server {
	s := &server{
		store:    history.NewStore(history.Config{}),
		conns:    make(map[string]*websocket.Conn),
		elements: history.NewElementsMap(),
	}
	s.broadcaster = history.NewBroadcaster[string](s.store)
	s.broadcaster.SetBroadcastCallback(s.deliver)
	s.store.ResumeRecording()
	n := s.nonce
	s.store.Capture(s.elements, s.appState, &n, "")
	return s
}

func (s *server) deliver(patches map[string]history.Patch) {
	for id, patch := range patches {
		conn, ok := s.conns[id]
		if !ok {
			continue
		}
		data, err := patch.JSON()
		if err != nil {
			slog.Warn("encode patch failed", "collaborator", id, "error", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Warn("write patch failed", "collaborator", id, "error", err)
		}
	}
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id := uuid.New().String()
	s.conns[id] = conn
	s.broadcaster.Connect(id, nil)
	slog.Info("collaborator connected", "id", id)

	defer func() {
		delete(s.conns, id)
		s.broadcaster.Disconnect(id)
		slog.Info("collaborator disconnected", "id", id)
	}()

	// Initial sync: a single "add" per live element.
	full := history.CalculateElementsChange(history.NewElementsMap(), s.elements)
	if !full.IsEmpty() {
		patch := history.EncodeElementsChange(full)
		data, _ := patch.JSON()
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func main() {
	s := newServer()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	addr := ":8080"
	slog.Info("collab demo listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
