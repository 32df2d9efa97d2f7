package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/brightclass/academy-backend/internal/types"
)

type orchestratorFixture struct {
	catalog    *fakeCatalogRepo
	complRepo  *fakeCompletionRepo
	attendance *fakeAttendanceService
	credential *fakeCredentialService
	svc        SessionCompletionService
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	fx := &orchestratorFixture{
		catalog:    newFakeCatalogRepo(),
		complRepo:  newFakeCompletionRepo(),
		attendance: &fakeAttendanceService{},
		credential: newFakeCredentialService(OutcomeIssued),
	}
	fx.svc = NewSessionCompletionService(nil, testLogger(t), fx.catalog, fx.complRepo, fx.attendance, fx.credential)
	return fx
}

func TestCompleteSessionWritesRecordsForEveryStudent(t *testing.T) {
	fx := newOrchestratorFixture(t)
	moduleID := uuid.New()
	sessionID, _ := fx.catalog.addSession(moduleID, 3)
	students := []uuid.UUID{uuid.New(), uuid.New()}

	result, err := fx.svc.CompleteSession(context.Background(), CompleteSessionInput{
		SessionID:    sessionID,
		StudentIDs:   students,
		EnrollmentID: uuid.New(),
		ClassID:      uuid.New(),
		SessionLabel: "Session 1",
	})
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if result.ProcessedCount != 2 {
		t.Fatalf("processed count: want=2 got=%d", result.ProcessedCount)
	}
	if result.RecordsWritten != 6 {
		t.Fatalf("records written: want=6 got=%d", result.RecordsWritten)
	}
	if fx.attendance.calls != 1 {
		t.Fatalf("attendance calls: want=1 got=%d", fx.attendance.calls)
	}
	// Without module and course ancestry the credential chain stays off.
	if fx.credential.calls != 0 {
		t.Fatalf("credential calls: want=0 got=%d", fx.credential.calls)
	}
}

func TestCompleteSessionEmptySession(t *testing.T) {
	fx := newOrchestratorFixture(t)
	sessionID, _ := fx.catalog.addSession(uuid.New(), 0)

	_, err := fx.svc.CompleteSession(context.Background(), CompleteSessionInput{
		SessionID:  sessionID,
		StudentIDs: []uuid.UUID{uuid.New()},
	})
	if !errors.Is(err, ErrEmptySession) {
		t.Fatalf("error: want=ErrEmptySession got=%v", err)
	}
}

func TestCompleteSessionNoStudents(t *testing.T) {
	fx := newOrchestratorFixture(t)
	sessionID, _ := fx.catalog.addSession(uuid.New(), 1)

	_, err := fx.svc.CompleteSession(context.Background(), CompleteSessionInput{
		SessionID:  sessionID,
		StudentIDs: []uuid.UUID{uuid.Nil},
	})
	if !errors.Is(err, ErrNoStudentsSelected) {
		t.Fatalf("error: want=ErrNoStudentsSelected got=%v", err)
	}
}

func TestCompleteSessionDeduplicatesStudents(t *testing.T) {
	fx := newOrchestratorFixture(t)
	moduleID := uuid.New()
	sessionID, _ := fx.catalog.addSession(moduleID, 2)
	studentID := uuid.New()

	result, err := fx.svc.CompleteSession(context.Background(), CompleteSessionInput{
		SessionID:    sessionID,
		StudentIDs:   []uuid.UUID{studentID, studentID, studentID},
		EnrollmentID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if result.ProcessedCount != 1 {
		t.Fatalf("processed count: want=1 got=%d", result.ProcessedCount)
	}
	if result.RecordsWritten != 2 {
		t.Fatalf("records written: want=2 got=%d", result.RecordsWritten)
	}
}

// Replaying the same completion call changes nothing after the first run.
func TestCompleteSessionIdempotentReplay(t *testing.T) {
	fx := newOrchestratorFixture(t)
	moduleID := uuid.New()
	sessionID, _ := fx.catalog.addSession(moduleID, 2)
	input := CompleteSessionInput{
		SessionID:    sessionID,
		StudentIDs:   []uuid.UUID{uuid.New(), uuid.New()},
		EnrollmentID: uuid.New(),
	}

	first, err := fx.svc.CompleteSession(context.Background(), input)
	if err != nil {
		t.Fatalf("first CompleteSession: %v", err)
	}
	if first.RecordsWritten != 4 {
		t.Fatalf("first records written: want=4 got=%d", first.RecordsWritten)
	}

	second, err := fx.svc.CompleteSession(context.Background(), input)
	if err != nil {
		t.Fatalf("second CompleteSession: %v", err)
	}
	if second.RecordsWritten != 0 {
		t.Fatalf("second records written: want=0 got=%d", second.RecordsWritten)
	}
	if second.ProcessedCount != 2 {
		t.Fatalf("second processed count: want=2 got=%d", second.ProcessedCount)
	}
}

// The full pipeline against the real completion and credential services:
// finishing the module's only session must leave exactly one module
// certificate per student regardless of how many times the call repeats.
func TestCompleteSessionEndToEndIssuance(t *testing.T) {
	catalog := newFakeCatalogRepo()
	complRepo := newFakeCompletionRepo()
	certRepo := newFakeCertificateRepo(types.ActivityTypeModule, types.ActivityTypeCourse)
	xpRepo := &fakeXPRepo{}
	log := testLogger(t)

	completion := NewCompletionService(nil, log, catalog, complRepo)
	credential := NewCredentialService(nil, log, catalog, completion, certRepo, xpRepo, testModuleXP, testCourseXP)
	svc := NewSessionCompletionService(nil, log, catalog, complRepo, &fakeAttendanceService{}, credential)

	courseID := uuid.New()
	moduleID := catalog.addModule(courseID)
	catalog.addModule(courseID)
	sessionID, _ := catalog.addSession(moduleID, 2)

	students := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	input := CompleteSessionInput{
		SessionID:    sessionID,
		StudentIDs:   students,
		EnrollmentID: uuid.New(),
		ClassID:      uuid.New(),
		ModuleID:     &moduleID,
		CourseID:     &courseID,
	}

	first, err := svc.CompleteSession(context.Background(), input)
	if err != nil {
		t.Fatalf("first CompleteSession: %v", err)
	}
	for _, st := range first.Students {
		if st.Outcome != OutcomeIssued {
			t.Fatalf("student %s outcome: want=%q got=%q", st.StudentID, OutcomeIssued, st.Outcome)
		}
	}
	if certRepo.count() != len(students) {
		t.Fatalf("certificates: want=%d got=%d", len(students), certRepo.count())
	}

	second, err := svc.CompleteSession(context.Background(), input)
	if err != nil {
		t.Fatalf("second CompleteSession: %v", err)
	}
	for _, st := range second.Students {
		if st.Outcome != OutcomeAlreadyIssued {
			t.Fatalf("student %s outcome on replay: want=%q got=%q", st.StudentID, OutcomeAlreadyIssued, st.Outcome)
		}
	}
	if certRepo.count() != len(students) {
		t.Fatalf("certificates after replay: want=%d got=%d", len(students), certRepo.count())
	}
	if got := xpRepo.countByType(types.ActivityTypeModule); got != len(students) {
		t.Fatalf("module xp rows: want=%d got=%d", len(students), got)
	}
}

func TestCompleteSessionAttendanceFailureDoesNotAbort(t *testing.T) {
	fx := newOrchestratorFixture(t)
	moduleID := uuid.New()
	courseID := uuid.New()
	sessionID, _ := fx.catalog.addSession(moduleID, 1)
	fx.attendance.err = errors.New("attendance store down")

	result, err := fx.svc.CompleteSession(context.Background(), CompleteSessionInput{
		SessionID:    sessionID,
		StudentIDs:   []uuid.UUID{uuid.New()},
		EnrollmentID: uuid.New(),
		ModuleID:     &moduleID,
		CourseID:     &courseID,
	})
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	if result.Students[0].Outcome != OutcomeIssued {
		t.Fatalf("outcome: want=%q got=%q", OutcomeIssued, result.Students[0].Outcome)
	}
	if fx.credential.calls != 1 {
		t.Fatalf("credential calls: want=1 got=%d", fx.credential.calls)
	}
}

// One student's issuance failure is reported on that student only; the rest
// of the batch proceeds.
func TestCompleteSessionIsolatesStudentFailures(t *testing.T) {
	fx := newOrchestratorFixture(t)
	moduleID := uuid.New()
	courseID := uuid.New()
	sessionID, _ := fx.catalog.addSession(moduleID, 1)

	good := uuid.New()
	bad := uuid.New()
	fx.credential.errByID[bad] = errors.New("issuance backend down")

	result, err := fx.svc.CompleteSession(context.Background(), CompleteSessionInput{
		SessionID:    sessionID,
		StudentIDs:   []uuid.UUID{good, bad},
		EnrollmentID: uuid.New(),
		ModuleID:     &moduleID,
		CourseID:     &courseID,
	})
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	byStudent := map[uuid.UUID]StudentIssuance{}
	for _, st := range result.Students {
		byStudent[st.StudentID] = st
	}
	if got := byStudent[good]; got.Outcome != OutcomeIssued || got.Err != "" {
		t.Fatalf("good student: want issued, got outcome=%q err=%q", got.Outcome, got.Err)
	}
	if got := byStudent[bad]; got.Err == "" || got.Outcome != "" {
		t.Fatalf("bad student: want error, got outcome=%q err=%q", got.Outcome, got.Err)
	}
	if fx.credential.calls != 2 {
		t.Fatalf("credential calls: want=2 got=%d", fx.credential.calls)
	}
}

func TestCompleteSessionRejectsForeignModule(t *testing.T) {
	fx := newOrchestratorFixture(t)
	sessionID, _ := fx.catalog.addSession(uuid.New(), 1)
	otherModule := uuid.New()
	courseID := uuid.New()

	result, err := fx.svc.CompleteSession(context.Background(), CompleteSessionInput{
		SessionID:    sessionID,
		StudentIDs:   []uuid.UUID{uuid.New()},
		EnrollmentID: uuid.New(),
		ModuleID:     &otherModule,
		CourseID:     &courseID,
	})
	if err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}
	// Completion records stand, but the credential chain never runs.
	if result.RecordsWritten != 1 {
		t.Fatalf("records written: want=1 got=%d", result.RecordsWritten)
	}
	if fx.credential.calls != 0 {
		t.Fatalf("credential calls: want=0 got=%d", fx.credential.calls)
	}
	if result.Students[0].Err == "" {
		t.Fatalf("student err: want non-empty got empty")
	}
}
