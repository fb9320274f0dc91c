// Package api - Router setup
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aethra/sitecheck/internal/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(handler *Handler, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// CORS configuration - when credentials are used, specific origins
	// must be provided (not *)
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-ID", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		// Development defaults - in production, set CORS_ALLOWED_ORIGINS
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		}
	}
	r.Use(cors.New(corsConfig))

	// Health check (no auth required)
	r.GET("/api/health", handler.Health)

	// ==========================================================================
	// CATALOGUE API - Read access to templates and projects
	// ==========================================================================
	api := r.Group("/api")
	api.Use(handler.UserMiddleware())
	{
		api.GET("/templates", handler.ListTemplates)
		api.GET("/templates/:id", handler.GetTemplate)

		api.GET("/projects", handler.ListProjects)
		api.GET("/projects/:id", handler.GetProject)
		api.GET("/projects/:id/instances", handler.ListInstances)

		api.GET("/instances/:id", handler.GetInstance)
		api.GET("/instances/:id/events", handler.InstanceEvents)
	}

	// ==========================================================================
	// MUTATING API - Requires an authenticated identity
	// ==========================================================================
	mutating := r.Group("/api")
	mutating.Use(handler.UserMiddleware())
	mutating.Use(handler.RequireAuthMiddleware())
	{
		// Template authoring
		mutating.POST("/templates", handler.CreateTemplate)
		mutating.PUT("/templates/:id", handler.UpdateTemplate)
		mutating.DELETE("/templates/:id", handler.DeleteTemplate)
		mutating.POST("/templates/:id/sub-sections", handler.CreateSubSection)
		mutating.DELETE("/sub-sections/:id", handler.DeleteSubSection)
		mutating.POST("/sub-sections/:id/items", handler.CreateItem)
		mutating.DELETE("/items/:id", handler.DeleteItem)

		// Projects and areas
		mutating.POST("/projects", handler.CreateProject)
		mutating.DELETE("/projects/:id", handler.DeleteProject)
		mutating.POST("/projects/:id/areas", handler.CreateArea)
		mutating.DELETE("/areas/:id", handler.DeleteArea)

		// Instance lifecycle
		mutating.POST("/instances", handler.CreateInstance)
		mutating.POST("/instances/:id/status", handler.TransitionStatus)
		mutating.PUT("/instances/:id/responses/:itemTemplateId", handler.RecordResponse)
		mutating.DELETE("/instances/:id", handler.DeleteInstance)
	}

	// ==========================================================================
	// ADMIN API - Catalogue maintenance
	// ==========================================================================
	admin := r.Group("/admin")
	admin.Use(handler.UserMiddleware())
	admin.Use(handler.RequireAuthMiddleware())
	{
		admin.POST("/seed", handler.RunSeedImport)
	}

	return r
}
