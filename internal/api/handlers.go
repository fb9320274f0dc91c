// Package api contains the HTTP API handlers for the checklist service
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aethra/sitecheck/internal/auth"
	"github.com/aethra/sitecheck/internal/checklist"
	svcerr "github.com/aethra/sitecheck/internal/errors"
	"github.com/aethra/sitecheck/internal/seed"
)

// Handler contains all API handlers
type Handler struct {
	checklists *checklist.Service
	importer   *seed.Importer
	identity   *auth.IdentityService
	seedSource string
}

// NewHandler creates a new API handler
func NewHandler(checklists *checklist.Service, importer *seed.Importer, identity *auth.IdentityService, seedSource string) *Handler {
	return &Handler{
		checklists: checklists,
		importer:   importer,
		identity:   identity,
		seedSource: seedSource,
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// UserMiddleware extracts the caller's identity from a Bearer token,
// falling back to the X-User-ID header for trusted internal callers
func (h *Handler) UserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			claims, err := h.identity.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				c.Abort()
				return
			}
			c.Set("user_id", claims.UserID)
			c.Next()
			return
		}

		if userIDStr := c.GetHeader("X-User-ID"); userIDStr != "" {
			if userID, err := uuid.Parse(userIDStr); err == nil {
				c.Set("user_id", userID)
			}
		}
		c.Next()
	}
}

// RequireAuthMiddleware rejects requests without an authenticated identity
func (h *Handler) RequireAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user_id"); !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// =============================================================================
// HEALTH
// =============================================================================

// Health returns service health
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "sitecheck",
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// respondError translates service errors to HTTP responses
func respondError(c *gin.Context, err error) {
	status, body := svcerr.ToHTTPError(err)
	c.JSON(status, body)
}

// userID returns the authenticated caller, or uuid.Nil when anonymous
func userID(c *gin.Context) uuid.UUID {
	if uid, exists := c.Get("user_id"); exists {
		return uid.(uuid.UUID)
	}
	return uuid.Nil
}

// parseUUIDParam parses a UUID path parameter
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func parseIntParam(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return v
}
