package types

import (
	"time"

	"github.com/google/uuid"
)

// Course and CourseModule are catalog entities. They are authored elsewhere;
// this service only reads them.
type Course struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InstitutionID uuid.UUID `gorm:"type:uuid;not null;index" json:"institution_id"`
	Title         string    `gorm:"not null" json:"title"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Course) TableName() string { return "courses" }

type CourseModule struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course    *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CourseModule) TableName() string { return "course_modules" }
