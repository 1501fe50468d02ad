package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mdx-cms/pkg/services"
)

// Cron exposes the publish-day social dispatch over HTTP so an external
// scheduler can drive it. The in-process cron calls the dispatcher
// directly.
type Cron struct {
	Dispatcher *services.SocialDispatcher
	Secret     string
	Log        *zap.Logger
}

// TriggerSocial runs the social dispatch for today, or for an explicit
// ?date=YYYY-MM-DD. Requests must carry the shared cron secret.
func (h *Cron) TriggerSocial(c *gin.Context) {
	if h.Secret == "" || c.Query("secret") != h.Secret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	result, err := h.Dispatcher.Dispatch(date)
	if err != nil {
		h.Log.Error("social dispatch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Dispatch failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "date": date, "results": result})
}
