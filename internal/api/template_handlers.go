// Package api - Template catalogue endpoints
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aethra/sitecheck/internal/checklist"
)

// ListTemplates returns a paginated template catalogue
// GET /api/templates
func (h *Handler) ListTemplates(c *gin.Context) {
	params := checklist.ListParams{
		Page:     parseIntParam(c.Query("page"), 1),
		PageSize: parseIntParam(c.Query("page_size"), 25),
		Sort:     c.Query("sort"),
		SortDir:  c.Query("sort_dir"),
		Search:   c.Query("search"),
		Level:    c.Query("level"),
	}

	result, err := h.checklists.ListTemplates(params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTemplate returns one template with its full ordered hierarchy
// GET /api/templates/:id
func (h *Handler) GetTemplate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	template, err := h.checklists.GetTemplate(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// CreateTemplate authors a new template with nested sub-sections and items
// POST /api/templates
func (h *Handler) CreateTemplate(c *gin.Context) {
	var input checklist.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	template, err := h.checklists.CreateTemplate(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

// UpdateTemplate applies a partial update to a template header
// PUT /api/templates/:id
func (h *Handler) UpdateTemplate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var patch checklist.TemplatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	template, err := h.checklists.UpdateTemplate(id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// DeleteTemplate removes a template and its whole hierarchy
// DELETE /api/templates/:id
func (h *Handler) DeleteTemplate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.checklists.DeleteTemplate(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "template deleted",
		"rowsDeleted": deleted,
	})
}

// CreateSubSection appends a sub-section to an existing template
// POST /api/templates/:id/sub-sections
func (h *Handler) CreateSubSection(c *gin.Context) {
	templateID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input checklist.SubSectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	section, err := h.checklists.CreateSubSection(templateID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, section)
}

// DeleteSubSection removes a sub-section and its items
// DELETE /api/sub-sections/:id
func (h *Handler) DeleteSubSection(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.checklists.DeleteSubSection(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "sub-section deleted"})
}

// CreateItem appends an item template to an existing sub-section
// POST /api/sub-sections/:id/items
func (h *Handler) CreateItem(c *gin.Context) {
	subSectionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input checklist.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.checklists.CreateItem(subSectionID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// DeleteItem removes an item template
// DELETE /api/items/:id
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.checklists.DeleteItem(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}
