package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ScheduleSlot is a class's recurring weekday period. Slots normally come
// from timetable configuration; IsPlaceholder marks the synthetic slot the
// attendance recorder creates when the timetable has none for that weekday.
type ScheduleSlot struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClassID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"class_id"`
	Class         *SchoolClass `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClassID;references:ID" json:"class,omitempty"`
	Weekday       int          `gorm:"not null" json:"weekday"`
	Period        int          `gorm:"not null;default:1" json:"period"`
	Subject       string       `gorm:"not null" json:"subject"`
	IsPlaceholder bool         `gorm:"not null;default:false" json:"is_placeholder"`
	CreatedAt     time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (ScheduleSlot) TableName() string { return "schedule_slots" }

// AttendanceSnapshot is one row per (slot, date). It is a derived view over
// session completion, updated in place under last-write-wins; Statuses maps
// student id to "present" or "absent".
type AttendanceSnapshot struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SlotID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_slot_date,unique" json:"slot_id"`
	Slot         *ScheduleSlot  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SlotID;references:ID" json:"slot,omitempty"`
	Date         datatypes.Date `gorm:"not null;index:idx_slot_date,unique" json:"date"`
	SessionLabel string         `gorm:"not null;default:''" json:"session_label"`
	Statuses     datatypes.JSON `gorm:"type:jsonb;not null" json:"statuses"`
	PresentCount int            `gorm:"not null;default:0" json:"present_count"`
	AbsentCount  int            `gorm:"not null;default:0" json:"absent_count"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (AttendanceSnapshot) TableName() string { return "attendance_snapshots" }
