package app

import (
	"gorm.io/gorm"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/repos"
)

type Repos struct {
	User        repos.UserRepo
	Catalog     repos.CatalogRepo
	Roster      repos.RosterRepo
	Completion  repos.CompletionRepo
	Schedule    repos.ScheduleRepo
	Attendance  repos.AttendanceRepo
	Certificate repos.CertificateRepo
	XP          repos.XPRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		Catalog:     repos.NewCatalogRepo(db, log),
		Roster:      repos.NewRosterRepo(db, log),
		Completion:  repos.NewCompletionRepo(db, log),
		Schedule:    repos.NewScheduleRepo(db, log),
		Attendance:  repos.NewAttendanceRepo(db, log),
		Certificate: repos.NewCertificateRepo(db, log),
		XP:          repos.NewXPRepo(db, log),
	}
}
