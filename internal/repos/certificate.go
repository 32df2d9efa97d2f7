package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/types"
)

var (
	// ErrDuplicateCertificate maps the storage-level uniqueness constraint on
	// (student_id, activity_type, activity_id). The insert path, not the
	// read-then-write check, is what makes issuance exactly-once under
	// concurrent invocation.
	ErrDuplicateCertificate = errors.New("certificate already exists")
	ErrTemplateNotFound     = errors.New("no active certificate template for category")
)

type CertificateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cert *types.Certificate) error
	Exists(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, activityType string, activityID uuid.UUID) (bool, error)
	// GetCertifiedActivityIDs returns the subset of activityIDs for which the
	// student holds a certificate of the given type.
	GetCertifiedActivityIDs(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, activityType string, activityIDs []uuid.UUID) ([]uuid.UUID, error)
	GetActiveTemplate(ctx context.Context, tx *gorm.DB, category string) (*types.CertificateTemplate, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Certificate, error)
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return &certificateRepo{db: db, log: baseLog.With("repo", "CertificateRepo")}
}

func (r *certificateRepo) Create(ctx context.Context, tx *gorm.DB, cert *types.Certificate) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if cert == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Create(cert).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCertificate
		}
		return err
	}
	return nil
}

func (r *certificateRepo) Exists(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, activityType string, activityID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Certificate{}).
		Where("student_id = ? AND activity_type = ? AND activity_id = ?", studentID, activityType, activityID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *certificateRepo) GetCertifiedActivityIDs(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, activityType string, activityIDs []uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if len(activityIDs) == 0 {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Certificate{}).
		Where("student_id = ? AND activity_type = ? AND activity_id IN ?", studentID, activityType, activityIDs).
		Pluck("activity_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *certificateRepo) GetActiveTemplate(ctx context.Context, tx *gorm.DB, category string) (*types.CertificateTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var template types.CertificateTemplate
	err := transaction.WithContext(ctx).
		Where("category = ? AND is_active", category).
		Order("created_at DESC").
		First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *certificateRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Certificate
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Template").
		Where("student_id = ?", studentID).
		Order("issued_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
