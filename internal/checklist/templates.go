package checklist

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	svcerr "github.com/aethra/sitecheck/internal/errors"
	"github.com/aethra/sitecheck/internal/models"
	"github.com/aethra/sitecheck/internal/security"
)

// =============================================================================
// INPUT TYPES
// =============================================================================

// ItemInput describes one item template within a sub-section
type ItemInput struct {
	Name          string  `json:"name"`
	NameLocalized string  `json:"nameLocalized"`
	Order         int     `json:"order"`
	ItemType      string  `json:"itemType"`
	IsRequired    bool    `json:"isRequired"`
	DefaultValue  *string `json:"defaultValue"`
	MustImage     bool    `json:"mustImage"`
	MustNote      bool    `json:"mustNote"`
	MustSignature bool    `json:"mustSignature"`
}

// SubSectionInput describes one sub-section within a template
type SubSectionInput struct {
	Name          string      `json:"name"`
	NameLocalized string      `json:"nameLocalized"`
	Order         int         `json:"order"`
	Items         []ItemInput `json:"items"`
}

// TemplateInput describes a full template to author in one call
type TemplateInput struct {
	Name          string            `json:"name"`
	NameLocalized string            `json:"nameLocalized"`
	Level         string            `json:"level"`
	GroupName     string            `json:"groupName"`
	Description   string            `json:"description"`
	SubSections   []SubSectionInput `json:"subSections"`
}

// TemplatePatch carries partial template header updates
type TemplatePatch struct {
	Name          *string `json:"name"`
	NameLocalized *string `json:"nameLocalized"`
	Level         *string `json:"level"`
	GroupName     *string `json:"groupName"`
	Description   *string `json:"description"`
}

func validateTemplateInput(in *TemplateInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return svcerr.NewValidationError("name", "name must not be empty")
	}
	if strings.TrimSpace(in.NameLocalized) == "" {
		return svcerr.NewValidationError("nameLocalized", "nameLocalized must not be empty")
	}
	if !models.ValidLevel(in.Level) {
		return svcerr.NewValidationError("level", "level must be one of: project, area, activity")
	}

	seenSection := make(map[int]bool, len(in.SubSections))
	for _, sec := range in.SubSections {
		if strings.TrimSpace(sec.Name) == "" {
			return svcerr.NewValidationError("subSections.name", "sub-section name must not be empty")
		}
		if seenSection[sec.Order] {
			return svcerr.NewValidationError("subSections.order", "duplicate sub-section order within template")
		}
		seenSection[sec.Order] = true

		seenItem := make(map[int]bool, len(sec.Items))
		for _, item := range sec.Items {
			if strings.TrimSpace(item.Name) == "" {
				return svcerr.NewValidationError("items.name", "item name must not be empty")
			}
			if seenItem[item.Order] {
				return svcerr.NewValidationError("items.order", "duplicate item order within sub-section")
			}
			seenItem[item.Order] = true
		}
	}
	return nil
}

// =============================================================================
// TEMPLATE OPERATIONS
// =============================================================================

// allowed sort columns for template listing
var templateSortColumns = map[string]bool{
	"name":       true,
	"level":      true,
	"group_name": true,
	"created_at": true,
	"updated_at": true,
}

// CreateTemplate authors a template with its full hierarchy in one transaction
func (s *Service) CreateTemplate(in TemplateInput) (*models.ChecklistTemplate, error) {
	if err := validateTemplateInput(&in); err != nil {
		return nil, err
	}

	tpl := models.ChecklistTemplate{
		ID:            uuid.New(),
		Name:          in.Name,
		NameLocalized: in.NameLocalized,
		Level:         in.Level,
		GroupName:     in.GroupName,
		Description:   in.Description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tpl).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		for _, secIn := range in.SubSections {
			sec := models.ChecklistSubSection{
				ID:            uuid.New(),
				TemplateID:    tpl.ID,
				Name:          secIn.Name,
				NameLocalized: secIn.NameLocalized,
				Order:         secIn.Order,
			}
			if err := tx.Create(&sec).Error; err != nil {
				return svcerr.NewInternalError(err)
			}
			for _, itemIn := range secIn.Items {
				item := models.ChecklistItemTemplate{
					ID:            uuid.New(),
					SubSectionID:  sec.ID,
					Name:          itemIn.Name,
					NameLocalized: itemIn.NameLocalized,
					Order:         itemIn.Order,
					ItemType:      itemIn.ItemType,
					IsRequired:    itemIn.IsRequired,
					DefaultValue:  itemIn.DefaultValue,
					MustImage:     itemIn.MustImage,
					MustNote:      itemIn.MustNote,
					MustSignature: itemIn.MustSignature,
				}
				if item.ItemType == "" {
					item.ItemType = "checkbox"
				}
				if err := tx.Create(&item).Error; err != nil {
					return svcerr.NewInternalError(err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTemplate(tpl.ID)
}

// GetTemplate returns a template with its ordered sub-sections and items
func (s *Service) GetTemplate(id uuid.UUID) (*models.ChecklistTemplate, error) {
	var tpl models.ChecklistTemplate
	if err := orderedSubSections(s.db).First(&tpl, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "template")
	}
	normalizeTemplate(&tpl)
	return &tpl, nil
}

// ListTemplates returns a paginated template listing. The sort column is
// validated against an allowlist before reaching the query.
func (s *Service) ListTemplates(params ListParams) (*ListResult, error) {
	clampPaging(&params)

	query := s.db.Model(&models.ChecklistTemplate{})
	if params.Level != "" {
		if !models.ValidLevel(params.Level) {
			return nil, svcerr.NewValidationError("level", "unknown level")
		}
		query = query.Where("level = ?", params.Level)
	}
	if params.Search != "" {
		pattern := security.SearchPattern(strings.ToLower(params.Search))
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(name_localized) LIKE ? ESCAPE '\'`,
			pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, svcerr.NewInternalError(err)
	}

	order := security.OrderClause(params.Sort, params.SortDir, "created_at", templateSortColumns)

	var templates []models.ChecklistTemplate
	offset := (params.Page - 1) * params.PageSize
	if err := query.Order(order).Offset(offset).Limit(params.PageSize).Find(&templates).Error; err != nil {
		return nil, svcerr.NewInternalError(err)
	}
	if templates == nil {
		templates = []models.ChecklistTemplate{}
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize > 0 {
		totalPages++
	}

	return &ListResult{
		Data:       templates,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateTemplate applies a partial update to a template header
func (s *Service) UpdateTemplate(id uuid.UUID, patch TemplatePatch) (*models.ChecklistTemplate, error) {
	var tpl models.ChecklistTemplate
	if err := s.db.First(&tpl, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "template")
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, svcerr.NewValidationError("name", "name must not be empty")
		}
		tpl.Name = *patch.Name
	}
	if patch.NameLocalized != nil {
		if strings.TrimSpace(*patch.NameLocalized) == "" {
			return nil, svcerr.NewValidationError("nameLocalized", "nameLocalized must not be empty")
		}
		tpl.NameLocalized = *patch.NameLocalized
	}
	if patch.Level != nil {
		if !models.ValidLevel(*patch.Level) {
			return nil, svcerr.NewValidationError("level", "level must be one of: project, area, activity")
		}
		tpl.Level = *patch.Level
	}
	if patch.GroupName != nil {
		tpl.GroupName = *patch.GroupName
	}
	if patch.Description != nil {
		tpl.Description = *patch.Description
	}
	tpl.UpdatedAt = time.Now()

	if err := s.db.Save(&tpl).Error; err != nil {
		return nil, svcerr.NewInternalError(err)
	}
	return s.GetTemplate(id)
}

// DeleteTemplate removes a template and everything beneath it. The delete is
// refused while any instance still references the template. Returns the
// number of rows removed across all three levels.
func (s *Service) DeleteTemplate(id uuid.UUID) (int64, error) {
	var removed int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var tpl models.ChecklistTemplate
		if err := tx.First(&tpl, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "template")
		}

		var inUse int64
		if err := tx.Model(&models.ChecklistInstance{}).Where("template_id = ?", id).Count(&inUse).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		if inUse > 0 {
			return svcerr.NewConflictError("template", "template is referenced by existing instances")
		}

		items := tx.Where(
			"sub_section_id IN (?)",
			tx.Model(&models.ChecklistSubSection{}).Select("id").Where("template_id = ?", id),
		).Delete(&models.ChecklistItemTemplate{})
		if items.Error != nil {
			return svcerr.NewInternalError(items.Error)
		}
		removed += items.RowsAffected

		sections := tx.Where("template_id = ?", id).Delete(&models.ChecklistSubSection{})
		if sections.Error != nil {
			return svcerr.NewInternalError(sections.Error)
		}
		removed += sections.RowsAffected

		root := tx.Delete(&models.ChecklistTemplate{}, "id = ?", id)
		if root.Error != nil {
			return svcerr.NewInternalError(root.Error)
		}
		removed += root.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// =============================================================================
// SUB-SECTION OPERATIONS
// =============================================================================

// CreateSubSection appends a sub-section to a template
func (s *Service) CreateSubSection(templateID uuid.UUID, in SubSectionInput) (*models.ChecklistSubSection, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, svcerr.NewValidationError("name", "sub-section name must not be empty")
	}

	var tpl models.ChecklistTemplate
	if err := s.db.First(&tpl, "id = ?", templateID).Error; err != nil {
		return nil, notFoundOr(err, "template")
	}

	var clash int64
	s.db.Model(&models.ChecklistSubSection{}).
		Where(`template_id = ? AND "order" = ?`, templateID, in.Order).
		Count(&clash)
	if clash > 0 {
		return nil, svcerr.NewValidationError("order", "order already used within this template")
	}

	sec := models.ChecklistSubSection{
		ID:            uuid.New(),
		TemplateID:    templateID,
		Name:          in.Name,
		NameLocalized: in.NameLocalized,
		Order:         in.Order,
	}
	if err := s.db.Create(&sec).Error; err != nil {
		return nil, svcerr.NewInternalError(err)
	}

	err := s.db.Preload("Items", byOrder).First(&sec, "id = ?", sec.ID).Error
	if err != nil {
		return nil, svcerr.NewInternalError(err)
	}
	if sec.Items == nil {
		sec.Items = []models.ChecklistItemTemplate{}
	}
	return &sec, nil
}

// DeleteSubSection removes a sub-section and its items. Order gaps left
// behind are fine; order is a sort key, not a contiguous index.
func (s *Service) DeleteSubSection(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var sec models.ChecklistSubSection
		if err := tx.First(&sec, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "sub-section")
		}

		var answered int64
		err := tx.Model(&models.ChecklistItemResponse{}).
			Where("item_template_id IN (?)",
				tx.Model(&models.ChecklistItemTemplate{}).Select("id").Where("sub_section_id = ?", id)).
			Count(&answered).Error
		if err != nil {
			return svcerr.NewInternalError(err)
		}
		if answered > 0 {
			return svcerr.NewConflictError("sub-section", "sub-section contains items with recorded responses")
		}

		if err := tx.Where("sub_section_id = ?", id).Delete(&models.ChecklistItemTemplate{}).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		if err := tx.Delete(&models.ChecklistSubSection{}, "id = ?", id).Error; err != nil {
			return svcerr.NewInternalError(err)
		}
		return nil
	})
}

// =============================================================================
// ITEM OPERATIONS
// =============================================================================

// CreateItem appends an item template to a sub-section
func (s *Service) CreateItem(subSectionID uuid.UUID, in ItemInput) (*models.ChecklistItemTemplate, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, svcerr.NewValidationError("name", "item name must not be empty")
	}

	var sec models.ChecklistSubSection
	if err := s.db.First(&sec, "id = ?", subSectionID).Error; err != nil {
		return nil, notFoundOr(err, "sub-section")
	}

	var clash int64
	s.db.Model(&models.ChecklistItemTemplate{}).
		Where(`sub_section_id = ? AND "order" = ?`, subSectionID, in.Order).
		Count(&clash)
	if clash > 0 {
		return nil, svcerr.NewValidationError("order", "order already used within this sub-section")
	}

	item := models.ChecklistItemTemplate{
		ID:            uuid.New(),
		SubSectionID:  subSectionID,
		Name:          in.Name,
		NameLocalized: in.NameLocalized,
		Order:         in.Order,
		ItemType:      in.ItemType,
		IsRequired:    in.IsRequired,
		DefaultValue:  in.DefaultValue,
		MustImage:     in.MustImage,
		MustNote:      in.MustNote,
		MustSignature: in.MustSignature,
	}
	if item.ItemType == "" {
		item.ItemType = "checkbox"
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, svcerr.NewInternalError(err)
	}
	return &item, nil
}

// DeleteItem removes an item template. The delete is refused while any
// response references the item.
func (s *Service) DeleteItem(id uuid.UUID) error {
	var item models.ChecklistItemTemplate
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		return notFoundOr(err, "item template")
	}

	var answered int64
	if err := s.db.Model(&models.ChecklistItemResponse{}).Where("item_template_id = ?", id).Count(&answered).Error; err != nil {
		return svcerr.NewInternalError(err)
	}
	if answered > 0 {
		return svcerr.NewConflictError("item template", "item template has recorded responses")
	}

	if err := s.db.Delete(&models.ChecklistItemTemplate{}, "id = ?", id).Error; err != nil {
		return svcerr.NewInternalError(err)
	}
	return nil
}
