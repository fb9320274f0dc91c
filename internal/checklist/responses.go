package checklist

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	svcerr "github.com/aethra/sitecheck/internal/errors"
	"github.com/aethra/sitecheck/internal/models"
)

// RecordResponse upserts the single response for an (instance, item
// template) pair. The first write creates the row; every later write
// overwrites it in place. The write is an atomic insert-on-conflict-update
// so two racing first answers cannot surface a duplicate-key failure.
func (s *Service) RecordResponse(instanceID, itemTemplateID uuid.UUID, value string, completed bool, metadata models.JSONB, userID uuid.UUID) (*models.ChecklistItemResponse, error) {
	if userID == uuid.Nil {
		return nil, svcerr.NewValidationError("userId", "caller identity is required")
	}

	var inst models.ChecklistInstance
	if err := s.db.First(&inst, "id = ?", instanceID).Error; err != nil {
		return nil, notFoundOr(err, "instance")
	}

	// The item must resolve through sub_section -> template to the same
	// template the instance was created from.
	var owningTemplate uuid.UUID
	err := s.db.Model(&models.ChecklistItemTemplate{}).
		Select("checklist_sub_sections.template_id").
		Joins("JOIN checklist_sub_sections ON checklist_sub_sections.id = checklist_item_templates.sub_section_id").
		Where("checklist_item_templates.id = ?", itemTemplateID).
		Scan(&owningTemplate).Error
	if err != nil {
		return nil, svcerr.NewInternalError(err)
	}
	if owningTemplate == uuid.Nil {
		return nil, svcerr.NewNotFoundError("item template")
	}
	if owningTemplate != inst.TemplateID {
		return nil, svcerr.NewValidationError("itemTemplateId", "item does not belong to the instance's template")
	}

	resp := models.ChecklistItemResponse{
		ID:             uuid.New(),
		InstanceID:     instanceID,
		ItemTemplateID: itemTemplateID,
		ResponseValue:  value,
		Completed:      completed,
		Metadata:       metadata,
		RespondedBy:    userID,
		RespondedAt:    time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "instance_id"}, {Name: "item_template_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"response_value", "completed", "metadata", "responded_by", "responded_at",
			}),
		}).Create(&resp).Error
		if err != nil {
			return svcerr.NewInternalError(err)
		}

		event := models.InstanceEvent{
			ID:            uuid.New(),
			InstanceID:    instanceID,
			Actor:         userID,
			Action:        models.EventResponseRecorded,
			ChangedFields: []string{"response_value", "completed"},
		}
		if err := tx.Create(&event).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload by the pair: on the update path the freshly generated id of
	// the insert attempt is discarded in favor of the existing row's.
	var saved models.ChecklistItemResponse
	err = s.db.Preload("ItemTemplate").
		First(&saved, "instance_id = ? AND item_template_id = ?", instanceID, itemTemplateID).Error
	if err != nil {
		return nil, svcerr.NewInternalError(err)
	}
	return &saved, nil
}
