// Package models contains the core sitecheck data structures
// These models cover the checklist template hierarchy, project-bound
// instances and their recorded responses
package models

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// COLLABORATOR MODELS
// =============================================================================

// Project represents a construction project that checklists are executed against
type Project struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null;size:50"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Areas     []ConstructionArea  `json:"areas,omitempty" gorm:"foreignKey:ProjectID"`
	Instances []ChecklistInstance `json:"instances,omitempty" gorm:"foreignKey:ProjectID"`
}

// TableName returns the table name for Project
func (Project) TableName() string {
	return "projects"
}

// ConstructionArea represents a physical sub-area of a project site.
// Instances may optionally be bound to an area; deleting the area clears
// that reference instead of removing the instance.
type ConstructionArea struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ProjectID     uuid.UUID `json:"projectId" gorm:"type:uuid;index;not null"`
	Name          string    `json:"name" gorm:"not null;size:255"`
	NameLocalized string    `json:"nameLocalized" gorm:"size:255"`
	CreatedAt     time.Time `json:"createdAt"`

	// Relations
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

// TableName returns the table name for ConstructionArea
func (ConstructionArea) TableName() string {
	return "construction_areas"
}

// =============================================================================
// TEMPLATE HIERARCHY MODELS
// =============================================================================

// Template level scopes
const (
	LevelProject  = "project"
	LevelArea     = "area"
	LevelActivity = "activity"
)

// ValidLevel reports whether level is one of the known template scopes
func ValidLevel(level string) bool {
	switch level {
	case LevelProject, LevelArea, LevelActivity:
		return true
	}
	return false
}

// ChecklistTemplate is the root of a reusable checklist definition.
// It strictly owns its sub-sections; deleting a template removes the
// whole hierarchy beneath it.
type ChecklistTemplate struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name          string    `json:"name" gorm:"not null;size:255"`
	NameLocalized string    `json:"nameLocalized" gorm:"not null;size:255"`
	Level         string    `json:"level" gorm:"not null;size:20;index"`
	GroupName     string    `json:"groupName" gorm:"size:100"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Relations
	SubSections []ChecklistSubSection `json:"subSections" gorm:"foreignKey:TemplateID"`
}

// TableName returns the table name for ChecklistTemplate
func (ChecklistTemplate) TableName() string {
	return "checklist_templates"
}

// ChecklistSubSection groups ordered items under a named section of a template
type ChecklistSubSection struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TemplateID    uuid.UUID `json:"templateId" gorm:"type:uuid;index;not null;uniqueIndex:idx_sub_sections_template_order"`
	Name          string    `json:"name" gorm:"not null;size:255"`
	NameLocalized string    `json:"nameLocalized" gorm:"not null;size:255"`
	Order         int       `json:"order" gorm:"column:order;not null;uniqueIndex:idx_sub_sections_template_order"`
	CreatedAt     time.Time `json:"createdAt"`

	// Relations
	Template *ChecklistTemplate      `json:"template,omitempty" gorm:"foreignKey:TemplateID"`
	Items    []ChecklistItemTemplate `json:"items" gorm:"foreignKey:SubSectionID"`
}

// TableName returns the table name for ChecklistSubSection
func (ChecklistSubSection) TableName() string {
	return "checklist_sub_sections"
}

// ChecklistItemTemplate is a single reusable question/line-item definition
type ChecklistItemTemplate struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	SubSectionID  uuid.UUID `json:"subSectionId" gorm:"type:uuid;index;not null;uniqueIndex:idx_item_templates_section_order"`
	Name          string    `json:"name" gorm:"not null;size:500"`
	NameLocalized string    `json:"nameLocalized" gorm:"not null;size:500"`
	Order         int       `json:"order" gorm:"column:order;not null;uniqueIndex:idx_item_templates_section_order"`
	ItemType      string    `json:"itemType" gorm:"size:50;default:'checkbox'"`
	IsRequired    bool      `json:"isRequired" gorm:"default:false"`
	DefaultValue  *string   `json:"defaultValue"`
	MustImage     bool      `json:"mustImage" gorm:"default:false"`
	MustNote      bool      `json:"mustNote" gorm:"default:false"`
	MustSignature bool      `json:"mustSignature" gorm:"default:false"`
	CreatedAt     time.Time `json:"createdAt"`

	// Relations
	SubSection *ChecklistSubSection `json:"subSection,omitempty" gorm:"foreignKey:SubSectionID"`
}

// TableName returns the table name for ChecklistItemTemplate
func (ChecklistItemTemplate) TableName() string {
	return "checklist_item_templates"
}

// =============================================================================
// INSTANCE MODELS
// =============================================================================

// InstanceStatus is the workflow state of a checklist instance
type InstanceStatus string

// Instance workflow states, linear
const (
	StatusDraft      InstanceStatus = "draft"
	StatusInProgress InstanceStatus = "in_progress"
	StatusCompleted  InstanceStatus = "completed"
)

// ValidStatus reports whether s is a known instance status
func ValidStatus(s InstanceStatus) bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether the workflow allows moving from one status
// to another. The machine is strictly forward: draft -> in_progress ->
// completed, with draft -> completed permitted as a shortcut.
func CanTransition(from, to InstanceStatus) bool {
	switch from {
	case StatusDraft:
		return to == StatusInProgress || to == StatusCompleted
	case StatusInProgress:
		return to == StatusCompleted
	}
	return false
}

// ChecklistInstance is a project-bound, stateful execution of a template.
// It references the template by id rather than copying it; the template
// must not be deleted while instances point at it.
type ChecklistInstance struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	ProjectID   uuid.UUID      `json:"projectId" gorm:"type:uuid;index;not null"`
	TemplateID  uuid.UUID      `json:"templateId" gorm:"type:uuid;index;not null"`
	AreaID      *uuid.UUID     `json:"areaId" gorm:"type:uuid;index"`
	Status      InstanceStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`
	CreatedBy   uuid.UUID      `json:"createdBy" gorm:"type:uuid;not null"`
	CreatedAt   time.Time      `json:"createdAt"`
	CompletedAt *time.Time     `json:"completedAt"`

	// Relations
	Project   *Project                `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Template  *ChecklistTemplate      `json:"template,omitempty" gorm:"foreignKey:TemplateID"`
	Area      *ConstructionArea       `json:"area,omitempty" gorm:"foreignKey:AreaID"`
	Responses []ChecklistItemResponse `json:"responses" gorm:"foreignKey:InstanceID"`
}

// TableName returns the table name for ChecklistInstance
func (ChecklistInstance) TableName() string {
	return "checklist_instances"
}

// ChecklistItemResponse is one user-entered answer per (instance, item
// template) pair. The pair is unique; answering the same item again
// overwrites the existing row.
type ChecklistItemResponse struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	InstanceID     uuid.UUID `json:"instanceId" gorm:"type:uuid;not null;uniqueIndex:idx_responses_instance_item"`
	ItemTemplateID uuid.UUID `json:"itemTemplateId" gorm:"type:uuid;not null;uniqueIndex:idx_responses_instance_item"`
	ResponseValue  string    `json:"responseValue"`
	Completed      bool      `json:"completed" gorm:"default:false"`
	Metadata       JSONB     `json:"metadata,omitempty" gorm:"type:jsonb"`
	RespondedBy    uuid.UUID `json:"respondedBy" gorm:"type:uuid;not null"`
	RespondedAt    time.Time `json:"respondedAt"`

	// Relations
	Instance     *ChecklistInstance     `json:"instance,omitempty" gorm:"foreignKey:InstanceID"`
	ItemTemplate *ChecklistItemTemplate `json:"itemTemplate,omitempty" gorm:"foreignKey:ItemTemplateID"`
}

// TableName returns the table name for ChecklistItemResponse
func (ChecklistItemResponse) TableName() string {
	return "checklist_item_responses"
}
