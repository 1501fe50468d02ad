package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const previewSessionKey = "preview"

// previewActive reports whether the current session has preview mode on.
func previewActive(c *gin.Context) bool {
	session := sessions.Default(c)
	v := session.Get(previewSessionKey)
	enabled, ok := v.(bool)
	return ok && enabled
}

// Preview toggles the session flag that lets production requests see
// unpublished content. Activation requires the shared preview secret.
type Preview struct {
	Secret string
}

// Enable turns preview mode on for this session, so production listings
// include drafts and scheduled content. Requests must carry the preview
// secret; with no secret configured activation is refused outright.
func (h *Preview) Enable(c *gin.Context) {
	if h.Secret == "" || c.Query("secret") != h.Secret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session := sessions.Default(c)
	session.Set(previewSessionKey, true)
	session.Save()

	redirect := c.Query("redirect")
	if redirect == "" {
		redirect = "/"
	}
	c.Redirect(http.StatusFound, redirect)
}

// Disable clears the preview session.
func (h *Preview) Disable(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(previewSessionKey)
	session.Save()

	redirect := c.Query("redirect")
	if redirect == "" {
		redirect = "/"
	}
	c.Redirect(http.StatusFound, redirect)
}
