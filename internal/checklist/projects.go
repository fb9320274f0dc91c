package checklist

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	svcerr "github.com/aethra/sitecheck/internal/errors"
	"github.com/aethra/sitecheck/internal/models"
)

// =============================================================================
// PROJECT OPERATIONS
// =============================================================================

// ProjectInput describes a project to create
type ProjectInput struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CreateProject creates a new project
func (s *Service) CreateProject(in ProjectInput) (*models.Project, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, svcerr.NewValidationError("code", "code must not be empty")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, svcerr.NewValidationError("name", "name must not be empty")
	}

	var clash int64
	s.db.Model(&models.Project{}).Where("code = ?", in.Code).Count(&clash)
	if clash > 0 {
		return nil, svcerr.NewConflictError("project", "project code already exists")
	}

	project := models.Project{
		ID:       uuid.New(),
		Code:     in.Code,
		Name:     in.Name,
		IsActive: true,
	}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, svcerr.NewInternalError(err)
	}
	return &project, nil
}

// GetProject returns a project with its areas
func (s *Service) GetProject(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := s.db.Preload("Areas").First(&project, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "project")
	}
	if project.Areas == nil {
		project.Areas = []models.ConstructionArea{}
	}
	return &project, nil
}

// ListProjects returns all projects
func (s *Service) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, svcerr.NewInternalError(err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// DeleteProject removes a project and cascades to its areas, instances and
// everything the instances own. Templates are left untouched.
func (s *Service) DeleteProject(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "project")
		}

		instanceIDs := tx.Model(&models.ChecklistInstance{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("instance_id IN (?)", instanceIDs).Delete(&models.ChecklistItemResponse{}).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		if err := tx.Where("instance_id IN (?)", instanceIDs).Delete(&models.InstanceEvent{}).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ChecklistInstance{}).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ConstructionArea{}).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		if err := tx.Delete(&models.Project{}, "id = ?", id).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		return nil
	})
}

// =============================================================================
// AREA OPERATIONS
// =============================================================================

// AreaInput describes a construction area to create
type AreaInput struct {
	Name          string `json:"name"`
	NameLocalized string `json:"nameLocalized"`
}

// CreateArea adds a construction area to a project
func (s *Service) CreateArea(projectID uuid.UUID, in AreaInput) (*models.ConstructionArea, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, svcerr.NewValidationError("name", "name must not be empty")
	}

	var project models.Project
	if err := s.db.First(&project, "id = ?", projectID).Error; err != nil {
		return nil, svcerr.NewValidationError("projectId", "project does not exist")
	}

	area := models.ConstructionArea{
		ID:            uuid.New(),
		ProjectID:     projectID,
		Name:          in.Name,
		NameLocalized: in.NameLocalized,
	}
	if err := s.db.Create(&area).Error; err != nil {
		return nil, svcerr.NewInternalError(err)
	}
	return &area, nil
}

// DeleteArea removes an area. Instances bound to it keep running with the
// area reference cleared.
func (s *Service) DeleteArea(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var area models.ConstructionArea
		if err := tx.First(&area, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "area")
		}

		err := tx.Model(&models.ChecklistInstance{}).
			Where("area_id = ?", id).
			Update("area_id", nil).Error
		if err != nil {
			return svcerr.NewInternalError(err)
		}
		if err := tx.Delete(&models.ConstructionArea{}, "id = ?", id).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		return nil
	})
}
