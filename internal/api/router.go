package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"ouvidoria-agenda-backend/config"
	"ouvidoria-agenda-backend/internal/mw"
)

// NewRouter builds the gin engine with all routes and middleware wired.
func NewRouter(h *Handler, cfg config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), mw.RequestID())

	rps := rate.Limit(cfg.RateLimitPerSec)
	if rps <= 0 {
		rps = 10
	}
	r.Use(mw.RateLimiter(rps, int(rps)*2))

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/vagas", h.GetSlots)
		api.POST("/vagas", h.CreateSlots)
		api.POST("/vagas/:id/agendamento", h.BookSlot)
		api.PUT("/vagas/:id/atendente", h.UpdateAttendant)
		api.DELETE("/vagas/:id", h.DeleteSlot)

		api.GET("/agendamentos", h.GetEvents)
		api.DELETE("/agendamentos/:id", h.CancelEvent)
		api.POST("/agendamentos/:id/remarcar", h.BeginReschedule)

		api.GET("/remarcacao", h.GetReschedule)
		api.DELETE("/remarcacao", h.CancelReschedule)

		api.POST("/refresh", h.Refresh)
		api.GET("/atendentes", mw.Cache(cacheTTL), h.GetAttendants)

		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
		api.POST("/subscriptions", h.Subscribe)
		api.DELETE("/subscriptions", h.Unsubscribe)

		api.GET("/settings/:key", h.GetSetting)
		api.PUT("/settings/:key", h.PutSetting)

		api.GET("/logs", h.GetCallLogs)
	}

	return r
}
