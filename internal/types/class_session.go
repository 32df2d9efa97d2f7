package types

import (
	"time"

	"github.com/google/uuid"
)

// ClassSession is one teaching session inside a module. ContentItem is the
// smallest unit of material a student can complete.
type ClassSession struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"module_id"`
	Module    *CourseModule `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Position  int           `gorm:"not null;default:0" json:"position"`
	Title     string        `gorm:"not null" json:"title"`
	CreatedAt time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (ClassSession) TableName() string { return "class_sessions" }

type ContentItem struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID uuid.UUID     `gorm:"type:uuid;not null;index" json:"session_id"`
	Session   *ClassSession `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	Position  int           `gorm:"not null;default:0" json:"position"`
	Title     string        `gorm:"not null" json:"title"`
	CreatedAt time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContentItem) TableName() string { return "content_items" }
