// Package api - Project and construction area endpoints
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aethra/sitecheck/internal/checklist"
)

// ListProjects returns all projects
// GET /api/projects
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.checklists.ListProjects()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": projects})
}

// GetProject returns one project with its construction areas
// GET /api/projects/:id
func (h *Handler) GetProject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.checklists.GetProject(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// CreateProject creates a new project
// POST /api/projects
func (h *Handler) CreateProject(c *gin.Context) {
	var input checklist.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	project, err := h.checklists.CreateProject(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// DeleteProject removes a project with its instances and responses
// DELETE /api/projects/:id
func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.checklists.DeleteProject(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

// CreateArea adds a construction area to a project
// POST /api/projects/:id/areas
func (h *Handler) CreateArea(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input checklist.AreaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	area, err := h.checklists.CreateArea(projectID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, area)
}

// DeleteArea removes a construction area, detaching its instances
// DELETE /api/areas/:id
func (h *Handler) DeleteArea(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.checklists.DeleteArea(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "area deleted"})
}
