package dispatch

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/pkg/apperrors"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type acceptRequest struct {
	TeamID uuid.UUID `json:"team_id" binding:"required"`
}

func (h *Handler) Accept(c *gin.Context) {
	callID, ok := callIDParam(c)
	if !ok {
		return
	}

	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	accepted, err := h.service.Accept(c.Request.Context(), callID, req.TeamID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, accepted)
}

func (h *Handler) Reject(c *gin.Context) {
	callID, ok := callIDParam(c)
	if !ok {
		return
	}

	rejected, err := h.service.Reject(c.Request.Context(), callID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, rejected)
}

func (h *Handler) Complete(c *gin.Context) {
	callID, ok := callIDParam(c)
	if !ok {
		return
	}

	completed, err := h.service.Complete(c.Request.Context(), callID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, completed)
}

type troubleRequest struct {
	Kind TroubleKind `json:"kind" binding:"required"`
}

func (h *Handler) ReportTrouble(c *gin.Context) {
	callID, ok := callIDParam(c)
	if !ok {
		return
	}

	var req troubleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	reset, err := h.service.ReportTrouble(c.Request.Context(), callID, req.Kind)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, reset)
}

func (h *Handler) GetRoute(c *gin.Context) {
	callID, ok := callIDParam(c)
	if !ok {
		return
	}

	route, err := h.service.GetRoute(c.Request.Context(), callID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": route})
}

type startMoveRequest struct {
	TeamID uuid.UUID `json:"team_id" binding:"required"`
}

func (h *Handler) StartMove(c *gin.Context) {
	var req startMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	if err := h.service.StartMove(c.Request.Context(), req.TeamID); err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func callIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "invalid call id"}})
		return uuid.Nil, false
	}
	return id, true
}
