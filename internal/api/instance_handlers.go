// Package api - Checklist instance endpoints
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aethra/sitecheck/internal/models"
)

// CreateInstance binds a template to a project as a fillable checklist
// POST /api/instances
func (h *Handler) CreateInstance(c *gin.Context) {
	var input struct {
		ProjectID  uuid.UUID  `json:"projectId" binding:"required"`
		TemplateID uuid.UUID  `json:"templateId" binding:"required"`
		AreaID     *uuid.UUID `json:"areaId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId and templateId are required"})
		return
	}

	instance, err := h.checklists.CreateInstance(input.ProjectID, input.TemplateID, input.AreaID, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, instance)
}

// GetInstance returns one instance with its template hierarchy and responses
// GET /api/instances/:id
func (h *Handler) GetInstance(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	instance, err := h.checklists.GetInstance(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, instance)
}

// ListInstances returns all instances of a project
// GET /api/projects/:id/instances
func (h *Handler) ListInstances(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	instances, err := h.checklists.ListInstances(projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": instances})
}

// TransitionStatus moves an instance through its status machine
// POST /api/instances/:id/status
func (h *Handler) TransitionStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	instance, err := h.checklists.TransitionStatus(id, models.InstanceStatus(input.Status), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, instance)
}

// RecordResponse upserts the response for one item of an instance
// PUT /api/instances/:id/responses/:itemTemplateId
func (h *Handler) RecordResponse(c *gin.Context) {
	instanceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemTemplateID, ok := parseUUIDParam(c, "itemTemplateId")
	if !ok {
		return
	}

	var input struct {
		Value     string       `json:"value"`
		Completed bool         `json:"completed"`
		Metadata  models.JSONB `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	response, err := h.checklists.RecordResponse(instanceID, itemTemplateID, input.Value, input.Completed, input.Metadata, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// InstanceEvents returns the audit trail of an instance
// GET /api/instances/:id/events
func (h *Handler) InstanceEvents(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	events, err := h.checklists.InstanceEvents(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}

// DeleteInstance removes an instance and its responses
// DELETE /api/instances/:id
func (h *Handler) DeleteInstance(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.checklists.DeleteInstance(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "instance deleted"})
}
