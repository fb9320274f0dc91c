// Package api - Admin endpoints for catalogue maintenance
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aethra/sitecheck/internal/seed"
)

// RunSeedImport imports the checklist catalogue from the configured workbook
// POST /admin/seed
func (h *Handler) RunSeedImport(c *gin.Context) {
	var input struct {
		SourcePath string `json:"sourcePath"`
		DryRun     bool   `json:"dryRun"`
	}
	// Body is optional; defaults come from configuration
	_ = c.ShouldBindJSON(&input)

	source := input.SourcePath
	if source == "" {
		source = h.seedSource
	}

	report, err := h.importer.Run(source, seed.Options{DryRun: input.DryRun})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
