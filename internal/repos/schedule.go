package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/types"
)

const placeholderSubject = "General session"

type ScheduleRepo interface {
	GetSlotByID(ctx context.Context, tx *gorm.DB, slotID uuid.UUID) (*types.ScheduleSlot, error)
	// FindSlotForClassOnWeekday returns nil without error when the timetable
	// has no slot configured for that weekday.
	FindSlotForClassOnWeekday(ctx context.Context, tx *gorm.DB, classID uuid.UUID, weekday int) (*types.ScheduleSlot, error)
	CreatePlaceholderSlot(ctx context.Context, tx *gorm.DB, classID uuid.UUID, weekday int) (*types.ScheduleSlot, error)
}

type scheduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduleRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleRepo {
	return &scheduleRepo{db: db, log: baseLog.With("repo", "ScheduleRepo")}
}

func (r *scheduleRepo) GetSlotByID(ctx context.Context, tx *gorm.DB, slotID uuid.UUID) (*types.ScheduleSlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var slot types.ScheduleSlot
	if err := transaction.WithContext(ctx).
		Where("id = ?", slotID).
		First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *scheduleRepo) FindSlotForClassOnWeekday(ctx context.Context, tx *gorm.DB, classID uuid.UUID, weekday int) (*types.ScheduleSlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var slot types.ScheduleSlot
	err := transaction.WithContext(ctx).
		Where("class_id = ? AND weekday = ?", classID, weekday).
		Order("period ASC").
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// CreatePlaceholderSlot files attendance under a synthetic first-period slot
// so an unconfigured timetable never blocks the completion flow. Downstream
// timetable views filter on is_placeholder.
func (r *scheduleRepo) CreatePlaceholderSlot(ctx context.Context, tx *gorm.DB, classID uuid.UUID, weekday int) (*types.ScheduleSlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	slot := &types.ScheduleSlot{
		ClassID:       classID,
		Weekday:       weekday,
		Period:        1,
		Subject:       placeholderSubject,
		IsPlaceholder: true,
	}
	if err := transaction.WithContext(ctx).Create(slot).Error; err != nil {
		return nil, err
	}
	return slot, nil
}
