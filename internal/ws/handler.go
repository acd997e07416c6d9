package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/pkg/apperrors"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/team"
)

// TeamResolver maps a worker to their team at connection time (implemented by
// team.Service).
type TeamResolver interface {
	GetByWorkerID(ctx context.Context, workerID uuid.UUID) (*team.Team, error)
}

type Handler struct {
	hub      *Hub
	teams    TeamResolver
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, teams TeamResolver) *Handler {
	return &Handler{
		hub:   hub,
		teams: teams,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth already gates the endpoint.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Dispatcher upgrades the connection and subscribes it to the dispatcher feed.
func (h *Handler) Dispatcher(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(conn)
	h.hub.RegisterDispatcher(client)
	slog.InfoContext(c.Request.Context(), "dispatcher connected")

	go func() {
		defer h.hub.UnregisterDispatcher(client)
		readUntilClosed(conn)
	}()
}

// Worker upgrades the connection and subscribes it to the feed of the worker's
// team. A worker without a team cannot hold a realtime session.
func (h *Handler) Worker(c *gin.Context) {
	workerID, err := uuid.Parse(c.GetString("sub"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "invalid subject claim"}})
		return
	}

	t, err := h.teams.GetByWorkerID(c.Request.Context(), workerID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(conn)
	h.hub.RegisterWorker(client, t.ID)
	slog.InfoContext(c.Request.Context(), "worker connected",
		slog.String("worker_id", workerID.String()),
		slog.String("team_id", t.ID.String()))

	go func() {
		defer h.hub.UnregisterWorker(client)
		readUntilClosed(conn)
	}()
}

// readUntilClosed drains inbound frames so control messages are processed;
// clients are push-only and any payload is discarded.
func readUntilClosed(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
