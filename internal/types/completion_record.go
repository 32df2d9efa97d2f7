package types

import (
	"time"

	"github.com/google/uuid"
)

// CompletionRecord is the durable fact that one student finished one content
// item under one enrollment. Rows are only ever inserted; absence of a row is
// the only "incomplete" signal.
type CompletionRecord struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID     uuid.UUID    `gorm:"type:uuid;not null;index:idx_completion_key,unique" json:"student_id"`
	Student       *Student     `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	ContentItemID uuid.UUID    `gorm:"type:uuid;not null;index:idx_completion_key,unique" json:"content_item_id"`
	ContentItem   *ContentItem `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentItemID;references:ID" json:"content_item,omitempty"`
	EnrollmentID  uuid.UUID    `gorm:"type:uuid;not null;index:idx_completion_key,unique" json:"enrollment_id"`
	Enrollment    *Enrollment  `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
	CompletedAt   time.Time    `gorm:"not null;default:now()" json:"completed_at"`
}

func (CompletionRecord) TableName() string { return "completion_records" }
