package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ouvidoria-agenda-backend/config"
	"ouvidoria-agenda-backend/internal/agenda"
	"ouvidoria-agenda-backend/internal/model"
	"ouvidoria-agenda-backend/internal/remote"
	"ouvidoria-agenda-backend/internal/store"
)

// Handler holds dependencies for the API handlers.
type Handler struct {
	coord *agenda.Coordinator
	store store.Store
	push  config.PushConfig
}

// NewHandler creates a new API handler.
func NewHandler(coord *agenda.Coordinator, st store.Store, push config.PushConfig) *Handler {
	return &Handler{coord: coord, store: st, push: push}
}

// writeError maps a flow error onto an HTTP status. Local validation is the
// caller's fault; everything else reflects the webhook's state.
func writeError(c *gin.Context, err error) {
	var (
		validation *agenda.ValidationError
		conflict   *remote.ConflictError
		timeout    *remote.TimeoutError
		server     *remote.ServerError
		network    *remote.NetworkError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Message, "conflicts": conflict.Conflicts})
	case errors.As(err, &timeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": timeout.Error()})
	case errors.As(err, &server), errors.As(err, &network):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro interno"})
	}
}

// GetSlots returns the current slot collection, soft-deleted rows excluded.
func (h *Handler) GetSlots(c *gin.Context) {
	slots, _ := h.coord.Snapshot()
	c.JSON(http.StatusOK, slots)
}

// GetEvents returns the current calendar window.
func (h *Handler) GetEvents(c *gin.Context) {
	_, events := h.coord.Snapshot()
	c.JSON(http.StatusOK, events)
}

// Refresh refetches both collections from the webhook.
func (h *Handler) Refresh(c *gin.Context) {
	if err := h.coord.Refresh(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	slots, events := h.coord.Snapshot()
	c.JSON(http.StatusOK, gin.H{"vagas": slots, "agendamentos": events})
}

// GetAttendants returns the distinct attendant names seen in the slots.
func (h *Handler) GetAttendants(c *gin.Context) {
	c.JSON(http.StatusOK, h.coord.Attendants())
}

// BookSlot books a free slot for a client.
func (h *Handler) BookSlot(c *gin.Context) {
	var client agenda.ClientInfo
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}
	if err := h.coord.BookSlot(c.Request.Context(), remote.ID(c.Param("id")), client); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmado"})
}

// CreateSlots generates slots for every date, time and attendant combination.
func (h *Handler) CreateSlots(c *gin.Context) {
	var req agenda.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}
	result, err := h.coord.CreateSlotsBatch(c.Request.Context(), req, nil)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateAttendant renames the attendant of a slot.
func (h *Handler) UpdateAttendant(c *gin.Context) {
	var body struct {
		Attendant string `json:"atendente"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}
	if err := h.coord.UpdateAttendant(c.Request.Context(), remote.ID(c.Param("id")), body.Attendant); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "atualizado"})
}

// DeleteSlot frees an occupied slot or soft-deletes a free one.
func (h *Handler) DeleteSlot(c *gin.Context) {
	if err := h.coord.DeleteSlot(c.Request.Context(), remote.ID(c.Param("id"))); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removido"})
}

// CancelEvent deletes a calendar event and frees its paired slot.
func (h *Handler) CancelEvent(c *gin.Context) {
	if err := h.coord.CancelEvent(c.Request.Context(), remote.ID(c.Param("id"))); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelado"})
}

// BeginReschedule arms the reschedule context from an existing event.
func (h *Handler) BeginReschedule(c *gin.Context) {
	state, err := h.coord.BeginReschedule(remote.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetReschedule returns the pending reschedule context, if any.
func (h *Handler) GetReschedule(c *gin.Context) {
	c.JSON(http.StatusOK, h.coord.RescheduleState())
}

// CancelReschedule disarms a pending reschedule.
func (h *Handler) CancelReschedule(c *gin.Context) {
	h.coord.CancelReschedule()
	c.JSON(http.StatusOK, gin.H{"status": "cancelado"})
}

// GetVAPIDPublicKey exposes the public key browsers need to subscribe.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"key": h.push.PublicKey})
}

type subscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256DH string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

// Subscribe registers a browser push subscription.
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assinatura inválida"})
		return
	}
	sub := model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.Keys.P256DH,
		Auth:     req.Keys.Auth,
	}
	if err := h.store.SaveSubscription(c.Request.Context(), sub); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "inscrito"})
}

// Unsubscribe removes a browser push subscription.
func (h *Handler) Unsubscribe(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}
	if err := h.store.DeleteSubscription(c.Request.Context(), req.Endpoint); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removido"})
}

// GetSetting returns one persisted UI preference.
func (h *Handler) GetSetting(c *gin.Context) {
	value, err := h.store.Setting(c.Request.Context(), c.Param("key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
}

// PutSetting persists one UI preference.
func (h *Handler) PutSetting(c *gin.Context) {
	var body struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}
	if err := h.store.SaveSetting(c.Request.Context(), c.Param("key"), body.Value); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "salvo"})
}

// GetCallLogs returns the most recent webhook calls, newest first.
func (h *Handler) GetCallLogs(c *gin.Context) {
	entries, err := h.store.RecentCallLogs(c.Request.Context(), 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
