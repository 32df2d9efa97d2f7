package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/types"
)

type XPRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.XPTransaction) error
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.XPTransaction, error)
}

type xpRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewXPRepo(db *gorm.DB, baseLog *logger.Logger) XPRepo {
	return &xpRepo{db: db, log: baseLog.With("repo", "XPRepo")}
}

func (r *xpRepo) Create(ctx context.Context, tx *gorm.DB, row *types.XPTransaction) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *xpRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.XPTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.XPTransaction
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
