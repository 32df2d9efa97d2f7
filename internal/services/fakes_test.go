package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/academy-backend/internal/repos"
	"github.com/brightclass/academy-backend/internal/types"
)

type fakeCatalogRepo struct {
	sessionsByModule map[uuid.UUID][]*types.ClassSession
	itemsBySession   map[uuid.UUID][]*types.ContentItem
	modulesByCourse  map[uuid.UUID][]*types.CourseModule
	moduleOfSession  map[uuid.UUID]uuid.UUID
	moduleTitle      string
	courseTitle      string
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		sessionsByModule: map[uuid.UUID][]*types.ClassSession{},
		itemsBySession:   map[uuid.UUID][]*types.ContentItem{},
		modulesByCourse:  map[uuid.UUID][]*types.CourseModule{},
		moduleOfSession:  map[uuid.UUID]uuid.UUID{},
	}
}

func (f *fakeCatalogRepo) addSession(moduleID uuid.UUID, itemCount int) (uuid.UUID, []uuid.UUID) {
	sessionID := uuid.New()
	f.sessionsByModule[moduleID] = append(f.sessionsByModule[moduleID], &types.ClassSession{ID: sessionID, ModuleID: moduleID})
	f.moduleOfSession[sessionID] = moduleID
	itemIDs := make([]uuid.UUID, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		itemID := uuid.New()
		f.itemsBySession[sessionID] = append(f.itemsBySession[sessionID], &types.ContentItem{ID: itemID, SessionID: sessionID})
		itemIDs = append(itemIDs, itemID)
	}
	return sessionID, itemIDs
}

func (f *fakeCatalogRepo) addModule(courseID uuid.UUID) uuid.UUID {
	moduleID := uuid.New()
	f.modulesByCourse[courseID] = append(f.modulesByCourse[courseID], &types.CourseModule{ID: moduleID, CourseID: courseID})
	return moduleID
}

func (f *fakeCatalogRepo) GetContentItemsForSession(_ context.Context, _ *gorm.DB, sessionID uuid.UUID) ([]*types.ContentItem, error) {
	return f.itemsBySession[sessionID], nil
}

func (f *fakeCatalogRepo) GetSessionsForModule(_ context.Context, _ *gorm.DB, moduleID uuid.UUID) ([]*types.ClassSession, error) {
	return f.sessionsByModule[moduleID], nil
}

func (f *fakeCatalogRepo) GetModulesForCourse(_ context.Context, _ *gorm.DB, courseID uuid.UUID) ([]*types.CourseModule, error) {
	return f.modulesByCourse[courseID], nil
}

func (f *fakeCatalogRepo) GetModuleAndCourseTitles(_ context.Context, _ *gorm.DB, _ uuid.UUID) (string, string, error) {
	return f.moduleTitle, f.courseTitle, nil
}

func (f *fakeCatalogRepo) SessionBelongsToModule(_ context.Context, _ *gorm.DB, sessionID, moduleID uuid.UUID) (bool, error) {
	return f.moduleOfSession[sessionID] == moduleID, nil
}

type completionKey struct {
	studentID     uuid.UUID
	contentItemID uuid.UUID
	enrollmentID  uuid.UUID
}

type fakeCompletionRepo struct {
	mu      sync.Mutex
	records map[completionKey]struct{}
	err     error
}

func newFakeCompletionRepo() *fakeCompletionRepo {
	return &fakeCompletionRepo{records: map[completionKey]struct{}{}}
}

func (f *fakeCompletionRepo) UpsertBatch(_ context.Context, _ *gorm.DB, studentIDs, contentItemIDs []uuid.UUID, enrollmentID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var written int64
	for _, studentID := range studentIDs {
		for _, contentItemID := range contentItemIDs {
			key := completionKey{studentID, contentItemID, enrollmentID}
			if _, ok := f.records[key]; ok {
				continue
			}
			f.records[key] = struct{}{}
			written++
		}
	}
	return written, nil
}

func (f *fakeCompletionRepo) GetCompletedContentIDs(_ context.Context, _ *gorm.DB, enrollmentID, studentID uuid.UUID, contentItemIDs []uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []uuid.UUID
	for _, contentItemID := range contentItemIDs {
		if _, ok := f.records[completionKey{studentID, contentItemID, enrollmentID}]; ok {
			out = append(out, contentItemID)
		}
	}
	return out, nil
}

type certKey struct {
	studentID    uuid.UUID
	activityType string
	activityID   uuid.UUID
}

type fakeCertificateRepo struct {
	mu        sync.Mutex
	certs     map[certKey]*types.Certificate
	templates map[string]*types.CertificateTemplate
	createErr error
}

func newFakeCertificateRepo(categories ...string) *fakeCertificateRepo {
	f := &fakeCertificateRepo{
		certs:     map[certKey]*types.Certificate{},
		templates: map[string]*types.CertificateTemplate{},
	}
	for _, category := range categories {
		f.templates[category] = &types.CertificateTemplate{ID: uuid.New(), Category: category, IsActive: true}
	}
	return f
}

func (f *fakeCertificateRepo) Create(_ context.Context, _ *gorm.DB, cert *types.Certificate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	key := certKey{cert.StudentID, cert.ActivityType, cert.ActivityID}
	if _, ok := f.certs[key]; ok {
		return repos.ErrDuplicateCertificate
	}
	f.certs[key] = cert
	return nil
}

func (f *fakeCertificateRepo) Exists(_ context.Context, _ *gorm.DB, studentID uuid.UUID, activityType string, activityID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.certs[certKey{studentID, activityType, activityID}]
	return ok, nil
}

func (f *fakeCertificateRepo) GetCertifiedActivityIDs(_ context.Context, _ *gorm.DB, studentID uuid.UUID, activityType string, activityIDs []uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uuid.UUID
	for _, activityID := range activityIDs {
		if _, ok := f.certs[certKey{studentID, activityType, activityID}]; ok {
			out = append(out, activityID)
		}
	}
	return out, nil
}

func (f *fakeCertificateRepo) GetActiveTemplate(_ context.Context, _ *gorm.DB, category string) (*types.CertificateTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	template, ok := f.templates[category]
	if !ok {
		return nil, repos.ErrTemplateNotFound
	}
	return template, nil
}

func (f *fakeCertificateRepo) ListByStudent(_ context.Context, _ *gorm.DB, studentID uuid.UUID) ([]*types.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Certificate
	for key, cert := range f.certs {
		if key.studentID == studentID {
			out = append(out, cert)
		}
	}
	return out, nil
}

func (f *fakeCertificateRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.certs)
}

type fakeXPRepo struct {
	mu   sync.Mutex
	rows []*types.XPTransaction
	err  error
}

func (f *fakeXPRepo) Create(_ context.Context, _ *gorm.DB, row *types.XPTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeXPRepo) ListByStudent(_ context.Context, _ *gorm.DB, studentID uuid.UUID) ([]*types.XPTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.XPTransaction
	for _, row := range f.rows {
		if row.StudentID == studentID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeXPRepo) countByType(activityType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, row := range f.rows {
		if row.ActivityType == activityType {
			n++
		}
	}
	return n
}

type fakeRosterRepo struct {
	students []*types.Student
	err      error
}

func (f *fakeRosterRepo) GetActiveStudentsForClass(_ context.Context, _ *gorm.DB, _ uuid.UUID) ([]*types.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.students, nil
}

func (f *fakeRosterRepo) GetEnrollment(_ context.Context, _ *gorm.DB, _ uuid.UUID) (*types.Enrollment, error) {
	return nil, errors.New("not implemented")
}

type fakeScheduleRepo struct {
	slotsByID    map[uuid.UUID]*types.ScheduleSlot
	weekdaySlot  *types.ScheduleSlot
	placeholders int
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{slotsByID: map[uuid.UUID]*types.ScheduleSlot{}}
}

func (f *fakeScheduleRepo) GetSlotByID(_ context.Context, _ *gorm.DB, slotID uuid.UUID) (*types.ScheduleSlot, error) {
	slot, ok := f.slotsByID[slotID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return slot, nil
}

func (f *fakeScheduleRepo) FindSlotForClassOnWeekday(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ int) (*types.ScheduleSlot, error) {
	return f.weekdaySlot, nil
}

func (f *fakeScheduleRepo) CreatePlaceholderSlot(_ context.Context, _ *gorm.DB, classID uuid.UUID, weekday int) (*types.ScheduleSlot, error) {
	slot := &types.ScheduleSlot{ID: uuid.New(), ClassID: classID, Weekday: weekday, Period: 1, IsPlaceholder: true}
	f.slotsByID[slot.ID] = slot
	f.placeholders++
	return slot, nil
}

type snapshotKey struct {
	slotID uuid.UUID
	date   string
}

type fakeAttendanceRepo struct {
	mu        sync.Mutex
	snapshots map[snapshotKey]*types.AttendanceSnapshot
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{snapshots: map[snapshotKey]*types.AttendanceSnapshot{}}
}

func (f *fakeAttendanceRepo) UpsertSnapshot(_ context.Context, _ *gorm.DB, snapshot *types.AttendanceSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Same overwrite-in-full semantics as the unique (slot_id, date) index.
	day := time.Time(snapshot.Date).Format("2006-01-02")
	f.snapshots[snapshotKey{snapshot.SlotID, day}] = snapshot
	return nil
}

type fakeAttendanceService struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeAttendanceService) RecordAttendance(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _ string, _ *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

type fakeCredentialService struct {
	mu          sync.Mutex
	calls       int
	outcome     IssuanceOutcome
	errByID     map[uuid.UUID]error
	seenStudent map[uuid.UUID]int
}

func newFakeCredentialService(outcome IssuanceOutcome) *fakeCredentialService {
	return &fakeCredentialService{
		outcome:     outcome,
		errByID:     map[uuid.UUID]error{},
		seenStudent: map[uuid.UUID]int{},
	}
}

func (f *fakeCredentialService) IssueModuleCertificateIfEarned(_ context.Context, in ModuleIssuance) (IssuanceOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.seenStudent[in.StudentID]++
	if err := f.errByID[in.StudentID]; err != nil {
		return "", err
	}
	return f.outcome, nil
}
