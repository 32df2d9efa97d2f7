package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/repos"
)

var ErrNoStudentsSelected = errors.New("no students selected")

const issuanceConcurrency = 4

type CompleteSessionInput struct {
	SessionID    uuid.UUID
	StudentIDs   []uuid.UUID
	EnrollmentID uuid.UUID
	ClassID      uuid.UUID
	SessionLabel string
	SlotID       *uuid.UUID
	// ModuleID and CourseID opt the call into the credential chain. They are
	// validated against the session's actual ancestry before issuance runs.
	ModuleID *uuid.UUID
	CourseID *uuid.UUID
}

// StudentIssuance reports what the credential chain did for one student.
// Outcome and Err are mutually exclusive; an empty Outcome with an empty Err
// means the chain was not attempted for this call.
type StudentIssuance struct {
	StudentID uuid.UUID       `json:"student_id"`
	Outcome   IssuanceOutcome `json:"outcome,omitempty"`
	Err       string          `json:"error,omitempty"`
}

type CompleteSessionResult struct {
	ProcessedCount int               `json:"processed_count"`
	RecordsWritten int64             `json:"records_written"`
	Students       []StudentIssuance `json:"students"`
}

// SessionCompletionService is the entry point for an instructor marking a
// teaching session complete for a set of students. Completion records are the
// correctness-critical write; attendance is a best-effort side channel, and
// per-student credential issuance is isolated so one student's failure never
// blocks the rest.
type SessionCompletionService interface {
	CompleteSession(ctx context.Context, in CompleteSessionInput) (*CompleteSessionResult, error)
}

type sessionCompletionService struct {
	db         *gorm.DB
	log        *logger.Logger
	catalog    repos.CatalogRepo
	complRepo  repos.CompletionRepo
	attendance AttendanceService
	credential CredentialService
}

func NewSessionCompletionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	catalog repos.CatalogRepo,
	complRepo repos.CompletionRepo,
	attendance AttendanceService,
	credential CredentialService,
) SessionCompletionService {
	return &sessionCompletionService{
		db:         db,
		log:        baseLog.With("service", "SessionCompletionService"),
		catalog:    catalog,
		complRepo:  complRepo,
		attendance: attendance,
		credential: credential,
	}
}

func (s *sessionCompletionService) CompleteSession(ctx context.Context, in CompleteSessionInput) (*CompleteSessionResult, error) {
	items, err := s.catalog.GetContentItemsForSession(ctx, nil, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session content: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptySession
	}

	studentIDs := dedupe(in.StudentIDs)
	if len(studentIDs) == 0 {
		return nil, ErrNoStudentsSelected
	}

	contentIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		contentIDs = append(contentIDs, item.ID)
	}

	written, err := s.complRepo.UpsertBatch(ctx, nil, studentIDs, contentIDs, in.EnrollmentID)
	if err != nil {
		return nil, fmt.Errorf("write completion records: %w", err)
	}

	// Attendance must never abort the completion flow.
	if err := s.attendance.RecordAttendance(ctx, in.ClassID, studentIDs, in.SessionLabel, in.SlotID); err != nil {
		s.log.Warn("attendance recording failed, continuing",
			"session_id", in.SessionID, "class_id", in.ClassID, "error", err)
	}

	result := &CompleteSessionResult{
		ProcessedCount: len(studentIDs),
		RecordsWritten: written,
		Students:       make([]StudentIssuance, len(studentIDs)),
	}
	for i, id := range studentIDs {
		result.Students[i] = StudentIssuance{StudentID: id}
	}

	if in.ModuleID == nil || in.CourseID == nil {
		return result, nil
	}

	ok, err := s.catalog.SessionBelongsToModule(ctx, nil, in.SessionID, *in.ModuleID)
	if err != nil {
		return nil, fmt.Errorf("validate session ancestry: %w", err)
	}
	if !ok {
		// The caller supplied a module the session does not belong to. The
		// completion records stand; the credential chain is not run on
		// inconsistent ancestry.
		s.log.Warn("session does not belong to supplied module, skipping issuance",
			"session_id", in.SessionID, "module_id", *in.ModuleID)
		for i := range result.Students {
			result.Students[i].Err = "session does not belong to supplied module"
		}
		return result, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(issuanceConcurrency)
	for i, studentID := range studentIDs {
		g.Go(func() error {
			outcome, err := s.credential.IssueModuleCertificateIfEarned(gctx, ModuleIssuance{
				StudentID:    studentID,
				EnrollmentID: in.EnrollmentID,
				ModuleID:     *in.ModuleID,
				CourseID:     *in.CourseID,
			})
			if err != nil {
				s.log.Error("credential issuance failed",
					"student_id", studentID, "module_id", *in.ModuleID, "error", err)
				result.Students[i].Err = err.Error()
				return nil
			}
			result.Students[i].Outcome = outcome
			return nil
		})
	}
	// Goroutines report per-student failures in the result; Wait only
	// collects, it cannot fail.
	_ = g.Wait()

	return result, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
