// Package checklist implements the checklist template hierarchy, instance
// lifecycle and response recording on top of the relational store.
package checklist

import (
	"errors"

	"gorm.io/gorm"

	svcerr "github.com/aethra/sitecheck/internal/errors"
	"github.com/aethra/sitecheck/internal/models"
)

// Service handles all checklist operations
type Service struct {
	db *gorm.DB
}

// NewService creates a new checklist service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// =============================================================================
// QUERY TYPES
// =============================================================================

// ListParams represents parameters for listing templates
type ListParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Sort     string `json:"sort"`
	SortDir  string `json:"sort_dir"`
	Search   string `json:"search"`
	Level    string `json:"level"`
}

// ListResult represents a paginated list result
type ListResult struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

func clampPaging(params *ListParams) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 25
	}
	if params.PageSize > 100 {
		params.PageSize = 100
	}
}

// =============================================================================
// SERIALIZATION HELPERS
// =============================================================================

// normalizeTemplate guarantees the nested collections are emitted as empty
// arrays rather than null when a level has no children.
func normalizeTemplate(t *models.ChecklistTemplate) {
	if t.SubSections == nil {
		t.SubSections = []models.ChecklistSubSection{}
	}
	for i := range t.SubSections {
		if t.SubSections[i].Items == nil {
			t.SubSections[i].Items = []models.ChecklistItemTemplate{}
		}
	}
}

func normalizeInstance(inst *models.ChecklistInstance) {
	if inst.Responses == nil {
		inst.Responses = []models.ChecklistItemResponse{}
	}
	if inst.Template != nil {
		normalizeTemplate(inst.Template)
	}
}

// byOrder sorts a preloaded collection by its order sort key
func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order(`"order" ASC`)
}

// orderedSubSections preloads the template hierarchy sorted by the order
// sort key at both levels.
func orderedSubSections(db *gorm.DB) *gorm.DB {
	return db.
		Preload("SubSections", byOrder).
		Preload("SubSections.Items", byOrder)
}

func notFoundOr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcerr.NewNotFoundError(resource)
	}
	return svcerr.NewInternalError(err)
}
