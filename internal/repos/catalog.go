package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/types"
)

// CatalogRepo reads the course catalog. The catalog is authored by another
// service; nothing here writes to it.
type CatalogRepo interface {
	GetContentItemsForSession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.ContentItem, error)
	GetSessionsForModule(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*types.ClassSession, error)
	GetModulesForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.CourseModule, error)
	GetModuleAndCourseTitles(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (string, string, error)
	SessionBelongsToModule(ctx context.Context, tx *gorm.DB, sessionID, moduleID uuid.UUID) (bool, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

func (r *catalogRepo) GetContentItemsForSession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.ContentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ContentItem
	if sessionID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) GetSessionsForModule(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*types.ClassSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ClassSession
	if moduleID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) GetModulesForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CourseModule
	if courseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *catalogRepo) GetModuleAndCourseTitles(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (string, string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var module types.CourseModule
	if err := transaction.WithContext(ctx).
		Preload("Course").
		Where("id = ?", moduleID).
		First(&module).Error; err != nil {
		return "", "", err
	}
	courseTitle := ""
	if module.Course != nil {
		courseTitle = module.Course.Title
	}
	return module.Title, courseTitle, nil
}

func (r *catalogRepo) SessionBelongsToModule(ctx context.Context, tx *gorm.DB, sessionID, moduleID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if sessionID == uuid.Nil || moduleID == uuid.Nil {
		return false, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ClassSession{}).
		Where("id = ? AND module_id = ?", sessionID, moduleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
