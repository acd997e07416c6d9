package ws

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/metrics"
)

// Conn is the minimal connection surface the hub needs. *Client satisfies it;
// tests substitute fakes.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Hub tracks connected dispatcher and worker clients and fans events out to
// them. A connection that fails a write is dropped from the registry so one
// dead client never blocks the rest of a broadcast.
type Hub struct {
	mu          sync.Mutex
	dispatchers map[Conn]struct{}
	workers     map[Conn]uuid.UUID
	teams       map[uuid.UUID]map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		dispatchers: make(map[Conn]struct{}),
		workers:     make(map[Conn]uuid.UUID),
		teams:       make(map[uuid.UUID]map[Conn]struct{}),
	}
}

func (h *Hub) RegisterDispatcher(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.dispatchers[conn]; ok {
		return
	}
	h.dispatchers[conn] = struct{}{}
	metrics.ConnectedClients.WithLabelValues("dispatcher").Set(float64(len(h.dispatchers)))
}

func (h *Hub) UnregisterDispatcher(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unregisterDispatcherLocked(conn)
}

func (h *Hub) RegisterWorker(conn Conn, teamID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.workers[conn]; ok {
		return
	}
	h.workers[conn] = teamID
	if h.teams[teamID] == nil {
		h.teams[teamID] = make(map[Conn]struct{})
	}
	h.teams[teamID][conn] = struct{}{}
	metrics.ConnectedClients.WithLabelValues("worker").Set(float64(len(h.workers)))
}

func (h *Hub) UnregisterWorker(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unregisterWorkerLocked(conn)
}

// BroadcastToDispatchers pushes the event to every connected dispatcher.
// Writes happen outside the registry lock so one slow client cannot stall
// the fan-out; Client serializes concurrent writes per connection.
func (h *Hub) BroadcastToDispatchers(event any) {
	h.mu.Lock()
	conns := make([]Conn, 0, len(h.dispatchers))
	for conn := range h.dispatchers {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			slog.Warn("dispatcher push failed, dropping connection", slog.String("error", err.Error()))
			h.UnregisterDispatcher(conn)
			continue
		}
		metrics.EventsSent.WithLabelValues(eventName(event)).Inc()
	}
}

// BroadcastToTeam pushes the event to every worker connection of the team.
func (h *Hub) BroadcastToTeam(teamID uuid.UUID, event any) {
	h.mu.Lock()
	conns := make([]Conn, 0, len(h.teams[teamID]))
	for conn := range h.teams[teamID] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			slog.Warn("worker push failed, dropping connection",
				slog.String("team_id", teamID.String()),
				slog.String("error", err.Error()))
			h.UnregisterWorker(conn)
			continue
		}
		metrics.EventsSent.WithLabelValues(eventName(event)).Inc()
	}
}

func (h *Hub) unregisterDispatcherLocked(conn Conn) {
	if _, ok := h.dispatchers[conn]; !ok {
		return
	}
	delete(h.dispatchers, conn)
	_ = conn.Close()
	metrics.ConnectedClients.WithLabelValues("dispatcher").Set(float64(len(h.dispatchers)))
}

func (h *Hub) unregisterWorkerLocked(conn Conn) {
	teamID, ok := h.workers[conn]
	if !ok {
		return
	}
	delete(h.workers, conn)
	if conns := h.teams[teamID]; conns != nil {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.teams, teamID)
		}
	}
	_ = conn.Close()
	metrics.ConnectedClients.WithLabelValues("worker").Set(float64(len(h.workers)))
}
