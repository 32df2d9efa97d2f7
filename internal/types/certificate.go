package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActivityTypeModule = "module"
	ActivityTypeCourse = "course"
)

type CertificateTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Category  string    `gorm:"not null;index" json:"category"`
	Name      string    `gorm:"not null" json:"name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CertificateTemplate) TableName() string { return "certificate_templates" }

// Certificate is the issued proof that a student completed a module or a
// course. The unique index on (student_id, activity_type, activity_id) is the
// line of defense against double issuance under concurrent invocation; the
// application-level existence check only short-circuits the common case.
type Certificate struct {
	ID               uuid.UUID            `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID        uuid.UUID            `gorm:"type:uuid;not null;index:idx_student_activity,unique" json:"student_id"`
	Student          *Student             `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	ActivityType     string               `gorm:"not null;index:idx_student_activity,unique" json:"activity_type"`
	ActivityID       uuid.UUID            `gorm:"type:uuid;not null;index:idx_student_activity,unique" json:"activity_id"`
	TemplateID       uuid.UUID            `gorm:"type:uuid;not null" json:"template_id"`
	Template         *CertificateTemplate `gorm:"foreignKey:TemplateID;references:ID" json:"template,omitempty"`
	VerificationCode string               `gorm:"uniqueIndex;not null" json:"verification_code"`
	IssuedAt         time.Time            `gorm:"not null;default:now()" json:"issued_at"`
}

func (Certificate) TableName() string { return "certificates" }
