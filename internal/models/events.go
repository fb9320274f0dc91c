package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Event actions recorded against an instance
const (
	EventStatusChanged    = "status_changed"
	EventResponseRecorded = "response_recorded"
)

// InstanceEvent is an audit trail entry for a checklist instance. Rows are
// written alongside status transitions and response upserts and are removed
// together with the instance.
type InstanceEvent struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	InstanceID    uuid.UUID      `json:"instanceId" gorm:"type:uuid;index;not null"`
	Actor         uuid.UUID      `json:"actor" gorm:"type:uuid;not null"`
	Action        string         `json:"action" gorm:"not null;size:30"`
	FromStatus    string         `json:"fromStatus" gorm:"size:20"`
	ToStatus      string         `json:"toStatus" gorm:"size:20"`
	ChangedFields pq.StringArray `json:"changedFields" gorm:"type:text[]"`
	CreatedAt     time.Time      `json:"createdAt" gorm:"index"`
}

// TableName returns the table name for InstanceEvent
func (InstanceEvent) TableName() string {
	return "instance_events"
}
