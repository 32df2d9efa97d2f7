package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/repos"
	"github.com/brightclass/academy-backend/internal/types"
)

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// AttendanceService derives a per-class, per-day attendance snapshot from a
// session completion event. It is best effort relative to completion
// correctness: the orchestrator logs and swallows its errors.
type AttendanceService interface {
	RecordAttendance(ctx context.Context, classID uuid.UUID, presentStudentIDs []uuid.UUID, sessionLabel string, slotID *uuid.UUID) error
}

type attendanceService struct {
	db             *gorm.DB
	log            *logger.Logger
	rosterRepo     repos.RosterRepo
	scheduleRepo   repos.ScheduleRepo
	attendanceRepo repos.AttendanceRepo
	now            func() time.Time
}

func NewAttendanceService(
	db *gorm.DB,
	baseLog *logger.Logger,
	rosterRepo repos.RosterRepo,
	scheduleRepo repos.ScheduleRepo,
	attendanceRepo repos.AttendanceRepo,
) AttendanceService {
	return &attendanceService{
		db:             db,
		log:            baseLog.With("service", "AttendanceService"),
		rosterRepo:     rosterRepo,
		scheduleRepo:   scheduleRepo,
		attendanceRepo: attendanceRepo,
		now:            time.Now,
	}
}

func (s *attendanceService) RecordAttendance(ctx context.Context, classID uuid.UUID, presentStudentIDs []uuid.UUID, sessionLabel string, slotID *uuid.UUID) error {
	roster, err := s.rosterRepo.GetActiveStudentsForClass(ctx, nil, classID)
	if err != nil {
		return fmt.Errorf("resolve roster: %w", err)
	}

	present := make(map[uuid.UUID]struct{}, len(presentStudentIDs))
	for _, id := range presentStudentIDs {
		present[id] = struct{}{}
	}

	// Roster members not in the present set are absent. No "late" state is
	// derivable from a completion event.
	statuses := make(map[string]string, len(roster))
	presentCount := 0
	for _, student := range roster {
		if _, ok := present[student.ID]; ok {
			statuses[student.ID.String()] = AttendancePresent
			presentCount++
		} else {
			statuses[student.ID.String()] = AttendanceAbsent
		}
	}

	slot, err := s.resolveSlot(ctx, classID, slotID)
	if err != nil {
		return fmt.Errorf("resolve slot: %w", err)
	}

	raw, err := json.Marshal(statuses)
	if err != nil {
		return fmt.Errorf("marshal statuses: %w", err)
	}

	snapshot := &types.AttendanceSnapshot{
		SlotID:       slot.ID,
		Date:         datatypes.Date(s.now()),
		SessionLabel: sessionLabel,
		Statuses:     datatypes.JSON(raw),
		PresentCount: presentCount,
		AbsentCount:  len(roster) - presentCount,
	}
	if err := s.attendanceRepo.UpsertSnapshot(ctx, nil, snapshot); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	s.log.Info("attendance snapshot recorded",
		"class_id", classID,
		"slot_id", slot.ID,
		"present", presentCount,
		"absent", len(roster)-presentCount,
		"placeholder_slot", slot.IsPlaceholder,
	)
	return nil
}

func (s *attendanceService) resolveSlot(ctx context.Context, classID uuid.UUID, slotID *uuid.UUID) (*types.ScheduleSlot, error) {
	if slotID != nil && *slotID != uuid.Nil {
		return s.scheduleRepo.GetSlotByID(ctx, nil, *slotID)
	}

	weekday := int(s.now().Weekday())
	slot, err := s.scheduleRepo.FindSlotForClassOnWeekday(ctx, nil, classID, weekday)
	if err != nil {
		return nil, err
	}
	if slot != nil {
		return slot, nil
	}

	// No timetable entry for today: file attendance under a synthetic slot
	// rather than blocking the completion flow on timetable configuration.
	s.log.Warn("no schedule slot for class today, creating placeholder",
		"class_id", classID, "weekday", weekday)
	return s.scheduleRepo.CreatePlaceholderSlot(ctx, nil, classID, weekday)
}
