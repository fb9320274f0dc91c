package checklist

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	svcerr "github.com/aethra/sitecheck/internal/errors"
	"github.com/aethra/sitecheck/internal/models"
)

// =============================================================================
// INSTANCE LIFECYCLE
// =============================================================================

// CreateInstance binds a template to a project, optionally scoped to an
// area, starting in draft
func (s *Service) CreateInstance(projectID, templateID uuid.UUID, areaID *uuid.UUID, createdBy uuid.UUID) (*models.ChecklistInstance, error) {
	if createdBy == uuid.Nil {
		return nil, svcerr.NewValidationError("createdBy", "caller identity is required")
	}

	var project models.Project
	if err := s.db.First(&project, "id = ?", projectID).Error; err != nil {
		return nil, svcerr.NewValidationError("projectId", "project does not exist")
	}

	var tpl models.ChecklistTemplate
	if err := s.db.First(&tpl, "id = ?", templateID).Error; err != nil {
		return nil, svcerr.NewValidationError("templateId", "template does not exist")
	}

	if areaID != nil {
		var area models.ConstructionArea
		if err := s.db.First(&area, "id = ?", *areaID).Error; err != nil {
			return nil, svcerr.NewValidationError("areaId", "area does not exist")
		}
		if area.ProjectID != projectID {
			return nil, svcerr.NewValidationError("areaId", "area belongs to a different project")
		}
	}

	inst := models.ChecklistInstance{
		ID:         uuid.New(),
		ProjectID:  projectID,
		TemplateID: templateID,
		AreaID:     areaID,
		Status:     models.StatusDraft,
		CreatedBy:  createdBy,
	}
	if err := s.db.Create(&inst).Error; err != nil {
		return nil, svcerr.NewInternalError(err)
	}

	return s.GetInstance(inst.ID)
}

// GetInstance returns an instance with its template hierarchy and all
// recorded responses joined to their item templates. The instance reflects
// the current template shape at read time.
func (s *Service) GetInstance(id uuid.UUID) (*models.ChecklistInstance, error) {
	var inst models.ChecklistInstance
	err := s.db.
		Preload("Template").
		Preload("Template.SubSections", byOrder).
		Preload("Template.SubSections.Items", byOrder).
		Preload("Area").
		Preload("Responses.ItemTemplate").
		First(&inst, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "instance")
	}

	// Responses whose item template no longer resolves are dropped from the
	// payload rather than failing the read.
	kept := inst.Responses[:0]
	for _, r := range inst.Responses {
		if r.ItemTemplate != nil {
			kept = append(kept, r)
		}
	}
	inst.Responses = kept

	normalizeInstance(&inst)
	return &inst, nil
}

// ListInstances returns the instances of a project, newest first
func (s *Service) ListInstances(projectID uuid.UUID) ([]models.ChecklistInstance, error) {
	var instances []models.ChecklistInstance
	err := s.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&instances).Error
	if err != nil {
		return nil, svcerr.NewInternalError(err)
	}
	if instances == nil {
		instances = []models.ChecklistInstance{}
	}
	return instances, nil
}

// TransitionStatus moves an instance through its workflow. Only forward
// moves allowed by the state machine are accepted; completion stamps
// completed_at. Completion is operator-declared and never derived from
// response completeness.
func (s *Service) TransitionStatus(id uuid.UUID, to models.InstanceStatus, userID uuid.UUID) (*models.ChecklistInstance, error) {
	if !models.ValidStatus(to) {
		return nil, svcerr.NewValidationError("status", "unknown status")
	}
	if userID == uuid.Nil {
		return nil, svcerr.NewValidationError("userId", "caller identity is required")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var inst models.ChecklistInstance
		if err := tx.First(&inst, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "instance")
		}

		if !models.CanTransition(inst.Status, to) {
			return svcerr.NewValidationError("status", "cannot transition from "+string(inst.Status)+" to "+string(to))
		}

		from := inst.Status
		inst.Status = to
		changed := []string{"status"}
		if to == models.StatusCompleted {
			now := time.Now()
			inst.CompletedAt = &now
			changed = append(changed, "completed_at")
		}
		if err := tx.Save(&inst).Error; err != nil {
			return svcerr.NewInternalError(err)
		}

		event := models.InstanceEvent{
			ID:            uuid.New(),
			InstanceID:    inst.ID,
			Actor:         userID,
			Action:        models.EventStatusChanged,
			FromStatus:    string(from),
			ToStatus:      string(to),
			ChangedFields: changed,
		}
		if err := tx.Create(&event).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetInstance(id)
}

// DeleteInstance removes an instance together with its responses and events
func (s *Service) DeleteInstance(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var inst models.ChecklistInstance
		if err := tx.First(&inst, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "instance")
		}

		if err := tx.Where("instance_id = ?", id).Delete(&models.ChecklistItemResponse{}).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		if err := tx.Where("instance_id = ?", id).Delete(&models.InstanceEvent{}).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		if err := tx.Delete(&models.ChecklistInstance{}, "id = ?", id).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		return nil
	})
}

// InstanceEvents returns the audit trail of an instance, oldest first
func (s *Service) InstanceEvents(id uuid.UUID) ([]models.InstanceEvent, error) {
	var inst models.ChecklistInstance
	if err := s.db.First(&inst, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "instance")
	}

	var events []models.InstanceEvent
	if err := s.db.Where("instance_id = ?", id).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, svcerr.NewInternalError(err)
	}
	if events == nil {
		events = []models.InstanceEvent{}
	}
	return events, nil
}
