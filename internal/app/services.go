package app

import (
	"gorm.io/gorm"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/services"
)

type Services struct {
	Auth              services.AuthService
	Completion        services.CompletionService
	Attendance        services.AttendanceService
	Credential        services.CredentialService
	SessionCompletion services.SessionCompletionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")

	completion := services.NewCompletionService(db, log, r.Catalog, r.Completion)
	attendance := services.NewAttendanceService(db, log, r.Roster, r.Schedule, r.Attendance)
	credential := services.NewCredentialService(db, log, r.Catalog, completion, r.Certificate, r.XP,
		cfg.ModuleCompletionXP, cfg.CourseCompletionXP)

	return Services{
		Auth:              services.NewAuthService(db, log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Completion:        completion,
		Attendance:        attendance,
		Credential:        credential,
		SessionCompletion: services.NewSessionCompletionService(db, log, r.Catalog, r.Completion, attendance, credential),
	}
}
