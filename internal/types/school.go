package types

import (
	"time"

	"github.com/google/uuid"
)

// SchoolClass is a concrete offering of a course at one institution.
type SchoolClass struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InstitutionID uuid.UUID `gorm:"type:uuid;not null;index" json:"institution_id"`
	CourseID      uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course        *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Name          string    `gorm:"not null" json:"name"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SchoolClass) TableName() string { return "school_classes" }

type Student struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FullName  string    `gorm:"not null" json:"full_name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Student) TableName() string { return "students" }

// Enrollment registers a student in one class offering. Completion records
// hang off the enrollment, not the student, so a re-take of the same course
// starts from a clean slate.
type Enrollment struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID uuid.UUID    `gorm:"type:uuid;not null;index:idx_student_class,unique" json:"student_id"`
	Student   *Student     `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	ClassID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_student_class,unique" json:"class_id"`
	Class     *SchoolClass `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClassID;references:ID" json:"class,omitempty"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollments" }
