package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/types"
)

type RosterRepo interface {
	GetActiveStudentsForClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID) ([]*types.Student, error)
	GetEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*types.Enrollment, error)
}

type rosterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRosterRepo(db *gorm.DB, baseLog *logger.Logger) RosterRepo {
	return &rosterRepo{db: db, log: baseLog.With("repo", "RosterRepo")}
}

func (r *rosterRepo) GetActiveStudentsForClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Student
	if classID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.student_id = students.id").
		Where("enrollments.class_id = ? AND enrollments.is_active AND students.is_active", classID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetEnrollment preloads the class so callers can reach the institution.
func (r *rosterRepo) GetEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Enrollment
	if err := transaction.WithContext(ctx).
		Preload("Class").
		Where("id = ?", enrollmentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}
