package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/repos"
)

var ErrEmptySession = errors.New("session has no content items")

// CompletionService answers completion questions from stored completion
// records. Both predicates are pure reads; they never write.
type CompletionService interface {
	// IsModuleComplete reports whether every content item reachable from the
	// module has a completion record for the student's enrollment. A module
	// with no content is never complete.
	IsModuleComplete(ctx context.Context, enrollmentID, studentID, moduleID uuid.UUID) (bool, error)
	// SessionCompletionByStudent reports, per student, whether every content
	// item of the session has a completion record under the enrollment.
	SessionCompletionByStudent(ctx context.Context, sessionID, enrollmentID uuid.UUID, studentIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type completionService struct {
	db          *gorm.DB
	log         *logger.Logger
	catalogRepo repos.CatalogRepo
	complRepo   repos.CompletionRepo
}

func NewCompletionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	catalogRepo repos.CatalogRepo,
	complRepo repos.CompletionRepo,
) CompletionService {
	return &completionService{
		db:          db,
		log:         baseLog.With("service", "CompletionService"),
		catalogRepo: catalogRepo,
		complRepo:   complRepo,
	}
}

func (s *completionService) IsModuleComplete(ctx context.Context, enrollmentID, studentID, moduleID uuid.UUID) (bool, error) {
	sessions, err := s.catalogRepo.GetSessionsForModule(ctx, nil, moduleID)
	if err != nil {
		return false, err
	}

	contentIDs := make([]uuid.UUID, 0)
	for _, session := range sessions {
		items, err := s.catalogRepo.GetContentItemsForSession(ctx, nil, session.ID)
		if err != nil {
			return false, err
		}
		for _, item := range items {
			contentIDs = append(contentIDs, item.ID)
		}
	}
	// An empty module can never be complete, otherwise it would be certified
	// vacuously.
	if len(contentIDs) == 0 {
		return false, nil
	}

	completedIDs, err := s.complRepo.GetCompletedContentIDs(ctx, nil, enrollmentID, studentID, contentIDs)
	if err != nil {
		return false, err
	}

	// Set equality, not count equality: the completion key makes duplicates
	// impossible, but stray ids must not be able to mask a missing item.
	completed := make(map[uuid.UUID]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = struct{}{}
	}
	for _, id := range contentIDs {
		if _, ok := completed[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (s *completionService) SessionCompletionByStudent(ctx context.Context, sessionID, enrollmentID uuid.UUID, studentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	items, err := s.catalogRepo.GetContentItemsForSession(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptySession
	}

	contentIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		contentIDs = append(contentIDs, item.ID)
	}

	result := make(map[uuid.UUID]bool, len(studentIDs))
	for _, studentID := range studentIDs {
		completedIDs, err := s.complRepo.GetCompletedContentIDs(ctx, nil, enrollmentID, studentID, contentIDs)
		if err != nil {
			return nil, err
		}
		completed := make(map[uuid.UUID]struct{}, len(completedIDs))
		for _, id := range completedIDs {
			completed[id] = struct{}{}
		}
		done := true
		for _, id := range contentIDs {
			if _, ok := completed[id]; !ok {
				done = false
				break
			}
		}
		result[studentID] = done
	}
	return result, nil
}
