package types

import (
	"time"

	"github.com/google/uuid"
)

// XPTransaction is an append-only ledger of experience points. One row is
// written per certificate issuance; XP is a convenience derived from
// certificates, never the source of truth for completion.
type XPTransaction struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Student      *Student  `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	ActivityType string    `gorm:"not null" json:"activity_type"`
	ActivityID   uuid.UUID `gorm:"type:uuid;not null" json:"activity_id"`
	Points       int       `gorm:"not null" json:"points"`
	Reason       string    `gorm:"not null;default:''" json:"reason"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (XPTransaction) TableName() string { return "xp_transactions" }
