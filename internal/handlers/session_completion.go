package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightclass/academy-backend/internal/platform/apierr"
	"github.com/brightclass/academy-backend/internal/services"
)

type SessionCompletionHandler struct {
	completionSvc services.SessionCompletionService
	progressSvc   services.CompletionService
}

func NewSessionCompletionHandler(completionSvc services.SessionCompletionService, progressSvc services.CompletionService) *SessionCompletionHandler {
	return &SessionCompletionHandler{completionSvc: completionSvc, progressSvc: progressSvc}
}

// POST /api/sessions/:id/complete
func (h *SessionCompletionHandler) CompleteSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	var body struct {
		StudentIDs   []uuid.UUID `json:"student_ids" binding:"required"`
		EnrollmentID uuid.UUID   `json:"enrollment_id" binding:"required"`
		ClassID      uuid.UUID   `json:"class_id" binding:"required"`
		SessionLabel string      `json:"session_label"`
		SlotID       *uuid.UUID  `json:"slot_id"`
		ModuleID     *uuid.UUID  `json:"module_id"`
		CourseID     *uuid.UUID  `json:"course_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.completionSvc.CompleteSession(c.Request.Context(), services.CompleteSessionInput{
		SessionID:    sessionID,
		StudentIDs:   body.StudentIDs,
		EnrollmentID: body.EnrollmentID,
		ClassID:      body.ClassID,
		SessionLabel: body.SessionLabel,
		SlotID:       body.SlotID,
		ModuleID:     body.ModuleID,
		CourseID:     body.CourseID,
	})
	if err != nil {
		apiErr := toAPIError(err)
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Error(), "code": apiErr.Code})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// GET /api/sessions/:id/progress?enrollment_id=...&student_ids=a,b,c
func (h *SessionCompletionHandler) SessionProgress(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	enrollmentID, err := uuid.Parse(c.Query("enrollment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enrollment id"})
		return
	}
	studentIDs, err := parseUUIDList(c.Query("student_ids"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student ids"})
		return
	}

	completion, err := h.progressSvc.SessionCompletionByStudent(c.Request.Context(), sessionID, enrollmentID, studentIDs)
	if err != nil {
		apiErr := toAPIError(err)
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Error(), "code": apiErr.Code})
		return
	}

	c.JSON(http.StatusOK, gin.H{"completion": completion})
}

func toAPIError(err error) *apierr.Error {
	switch {
	case errors.Is(err, services.ErrEmptySession):
		return apierr.New(http.StatusUnprocessableEntity, "empty_session", err)
	case errors.Is(err, services.ErrNoStudentsSelected):
		return apierr.New(http.StatusBadRequest, "no_students", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal", err)
	}
}

func parseUUIDList(raw string) ([]uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
