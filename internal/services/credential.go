package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/repos"
	"github.com/brightclass/academy-backend/internal/types"
)

// ModuleIssuance identifies one student's claim on one module certificate.
type ModuleIssuance struct {
	StudentID    uuid.UUID
	EnrollmentID uuid.UUID
	ModuleID     uuid.UUID
	CourseID     uuid.UUID
}

// CredentialService issues module and course certificates exactly once per
// qualifying milestone. Course certification is defined over issued module
// certificates, not raw content completion, so the course check runs at the
// end of every module pass, including already-issued ones; that is what makes
// an interrupted pipeline resumable by re-running it.
type CredentialService interface {
	IssueModuleCertificateIfEarned(ctx context.Context, in ModuleIssuance) (IssuanceOutcome, error)
}

type credentialService struct {
	db         *gorm.DB
	log        *logger.Logger
	tracer     trace.Tracer
	catalog    repos.CatalogRepo
	completion CompletionService
	certRepo   repos.CertificateRepo
	xpRepo     repos.XPRepo
	moduleXP   int
	courseXP   int
}

func NewCredentialService(
	db *gorm.DB,
	baseLog *logger.Logger,
	catalog repos.CatalogRepo,
	completion CompletionService,
	certRepo repos.CertificateRepo,
	xpRepo repos.XPRepo,
	moduleXP, courseXP int,
) CredentialService {
	return &credentialService{
		db:         db,
		log:        baseLog.With("service", "CredentialService"),
		tracer:     otel.Tracer("credential-service"),
		catalog:    catalog,
		completion: completion,
		certRepo:   certRepo,
		xpRepo:     xpRepo,
		moduleXP:   moduleXP,
		courseXP:   courseXP,
	}
}

func (s *credentialService) IssueModuleCertificateIfEarned(ctx context.Context, in ModuleIssuance) (IssuanceOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "IssueModuleCertificate")
	defer span.End()

	complete, err := s.completion.IsModuleComplete(ctx, in.EnrollmentID, in.StudentID, in.ModuleID)
	if err != nil {
		return "", fmt.Errorf("module completion check: %w", err)
	}
	if !complete {
		return OutcomeNotYetEarned, nil
	}

	exists, err := s.certRepo.Exists(ctx, nil, in.StudentID, types.ActivityTypeModule, in.ModuleID)
	if err != nil {
		return "", fmt.Errorf("certificate existence check: %w", err)
	}
	if exists {
		// The module side converged earlier; the course side may not have.
		s.checkCourse(ctx, in)
		return OutcomeAlreadyIssued, nil
	}

	outcome, err := s.issue(ctx, in.StudentID, types.ActivityTypeModule, in.ModuleID, s.moduleXP, s.moduleXPReason(ctx, in.ModuleID))
	if err != nil {
		return "", err
	}
	s.checkCourse(ctx, in)
	return outcome, nil
}

func (s *credentialService) checkCourse(ctx context.Context, in ModuleIssuance) {
	outcome, err := s.issueCourseCertificateIfEarned(ctx, in)
	if err != nil {
		// The module certificate stands regardless; a re-run of the pipeline
		// picks the course issuance back up.
		s.log.Warn("course certificate check failed",
			"student_id", in.StudentID, "course_id", in.CourseID, "error", err)
		return
	}
	if outcome == OutcomeIssued {
		s.log.Info("course certificate issued",
			"student_id", in.StudentID, "course_id", in.CourseID)
	}
}

func (s *credentialService) issueCourseCertificateIfEarned(ctx context.Context, in ModuleIssuance) (IssuanceOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "IssueCourseCertificate")
	defer span.End()

	modules, err := s.catalog.GetModulesForCourse(ctx, nil, in.CourseID)
	if err != nil {
		return "", fmt.Errorf("load course modules: %w", err)
	}
	if len(modules) == 0 {
		return OutcomeNotYetEarned, nil
	}

	moduleIDs := make([]uuid.UUID, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
	}
	certifiedIDs, err := s.certRepo.GetCertifiedActivityIDs(ctx, nil, in.StudentID, types.ActivityTypeModule, moduleIDs)
	if err != nil {
		return "", fmt.Errorf("load module certificates: %w", err)
	}
	certified := make(map[uuid.UUID]struct{}, len(certifiedIDs))
	for _, id := range certifiedIDs {
		certified[id] = struct{}{}
	}
	for _, id := range moduleIDs {
		if _, ok := certified[id]; !ok {
			return OutcomeNotYetEarned, nil
		}
	}

	exists, err := s.certRepo.Exists(ctx, nil, in.StudentID, types.ActivityTypeCourse, in.CourseID)
	if err != nil {
		return "", fmt.Errorf("certificate existence check: %w", err)
	}
	if exists {
		return OutcomeAlreadyIssued, nil
	}

	return s.issue(ctx, in.StudentID, types.ActivityTypeCourse, in.CourseID, s.courseXP, "Completed course")
}

// issue runs the template guard, the certificate insert and the XP append.
// The insert maps the storage uniqueness constraint to AlreadyIssued, which
// closes the race the existence check alone cannot.
func (s *credentialService) issue(ctx context.Context, studentID uuid.UUID, activityType string, activityID uuid.UUID, points int, reason string) (IssuanceOutcome, error) {
	template, err := s.certRepo.GetActiveTemplate(ctx, nil, activityType)
	if err != nil {
		if err == repos.ErrTemplateNotFound {
			s.log.Warn("no active certificate template",
				"category", activityType, "activity_id", activityID)
			return OutcomeMissingTemplate, nil
		}
		return "", fmt.Errorf("load template: %w", err)
	}

	cert := &types.Certificate{
		StudentID:        studentID,
		ActivityType:     activityType,
		ActivityID:       activityID,
		TemplateID:       template.ID,
		VerificationCode: newVerificationCode(),
	}
	err = s.certRepo.Create(ctx, nil, cert)
	if err == repos.ErrDuplicateCertificate {
		exists, checkErr := s.certRepo.Exists(ctx, nil, studentID, activityType, activityID)
		if checkErr != nil {
			return "", fmt.Errorf("recheck after duplicate: %w", checkErr)
		}
		if exists {
			return OutcomeAlreadyIssued, nil
		}
		// The collision was on the verification code, not the activity key.
		cert.VerificationCode = newVerificationCode()
		if err := s.certRepo.Create(ctx, nil, cert); err != nil {
			return "", fmt.Errorf("insert certificate: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("insert certificate: %w", err)
	}

	if err := s.xpRepo.Create(ctx, nil, &types.XPTransaction{
		StudentID:    studentID,
		ActivityType: activityType,
		ActivityID:   activityID,
		Points:       points,
		Reason:       reason,
	}); err != nil {
		// XP is a derived convenience; the certificate is the source of truth.
		s.log.Warn("xp append failed after certificate insert",
			"student_id", studentID, "activity_type", activityType,
			"activity_id", activityID, "error", err)
	}

	s.log.Info("certificate issued",
		"student_id", studentID, "activity_type", activityType,
		"activity_id", activityID, "points", points)
	return OutcomeIssued, nil
}

func (s *credentialService) moduleXPReason(ctx context.Context, moduleID uuid.UUID) string {
	moduleTitle, courseTitle, err := s.catalog.GetModuleAndCourseTitles(ctx, nil, moduleID)
	if err != nil {
		s.log.Debug("module title lookup failed", "module_id", moduleID, "error", err)
		return "Completed module"
	}
	if courseTitle != "" {
		return fmt.Sprintf("Completed module %q of %q", moduleTitle, courseTitle)
	}
	return fmt.Sprintf("Completed module %q", moduleTitle)
}

func newVerificationCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:12])
}
