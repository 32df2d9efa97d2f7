package repos

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/types"
)

type AttendanceRepo interface {
	// UpsertSnapshot overwrites the snapshot for (slot_id, date) in full.
	// Last write wins; snapshots are a derived view, never merged.
	UpsertSnapshot(ctx context.Context, tx *gorm.DB, snapshot *types.AttendanceSnapshot) error
}

type attendanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttendanceRepo(db *gorm.DB, baseLog *logger.Logger) AttendanceRepo {
	return &attendanceRepo{db: db, log: baseLog.With("repo", "AttendanceRepo")}
}

func (r *attendanceRepo) UpsertSnapshot(ctx context.Context, tx *gorm.DB, snapshot *types.AttendanceSnapshot) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if snapshot == nil {
		return nil
	}
	snapshot.UpdatedAt = time.Now()

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "slot_id"},
				{Name: "date"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"session_label",
				"statuses",
				"present_count",
				"absent_count",
				"updated_at",
			}),
		}).
		Create(snapshot).Error; err != nil {
		return err
	}
	return nil
}
