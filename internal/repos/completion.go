package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/types"
)

type CompletionRepo interface {
	// UpsertBatch writes the cross product of studentIDs x contentItemIDs as
	// completion records under one enrollment. Re-invocation with the same
	// arguments is a no-op; the returned count is the number of rows actually
	// inserted, not the size of the cross product.
	UpsertBatch(ctx context.Context, tx *gorm.DB, studentIDs, contentItemIDs []uuid.UUID, enrollmentID uuid.UUID) (int64, error)
	GetCompletedContentIDs(ctx context.Context, tx *gorm.DB, enrollmentID, studentID uuid.UUID, contentItemIDs []uuid.UUID) ([]uuid.UUID, error)
}

type completionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompletionRepo(db *gorm.DB, baseLog *logger.Logger) CompletionRepo {
	return &completionRepo{db: db, log: baseLog.With("repo", "CompletionRepo")}
}

func (r *completionRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, studentIDs, contentItemIDs []uuid.UUID, enrollmentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(studentIDs) == 0 || len(contentItemIDs) == 0 || enrollmentID == uuid.Nil {
		return 0, nil
	}

	now := time.Now()
	rows := make([]*types.CompletionRecord, 0, len(studentIDs)*len(contentItemIDs))
	for _, studentID := range studentIDs {
		for _, contentItemID := range contentItemIDs {
			rows = append(rows, &types.CompletionRecord{
				StudentID:     studentID,
				ContentItemID: contentItemID,
				EnrollmentID:  enrollmentID,
				CompletedAt:   now,
			})
		}
	}

	result := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "student_id"},
				{Name: "content_item_id"},
				{Name: "enrollment_id"},
			},
			DoNothing: true,
		}).
		Create(&rows)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *completionRepo) GetCompletedContentIDs(ctx context.Context, tx *gorm.DB, enrollmentID, studentID uuid.UUID, contentItemIDs []uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if len(contentItemIDs) == 0 {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.CompletionRecord{}).
		Where("enrollment_id = ? AND student_id = ? AND content_item_id IN ?", enrollmentID, studentID, contentItemIDs).
		Pluck("content_item_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
