package app

import (
	"github.com/gin-gonic/gin"

	"github.com/brightclass/academy-backend/internal/handlers"
	"github.com/brightclass/academy-backend/internal/middleware"
	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/server"
)

type Handlers struct {
	Auth              *handlers.AuthHandler
	SessionCompletion *handlers.SessionCompletionHandler
	Student           *handlers.StudentHandler
}

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireHandlers(services Services, r Repos) Handlers {
	return Handlers{
		Auth:              handlers.NewAuthHandler(services.Auth),
		SessionCompletion: handlers.NewSessionCompletionHandler(services.SessionCompletion, services.Completion),
		Student:           handlers.NewStudentHandler(r.Certificate, r.XP),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(cfg Config, h Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:              cfg.ServiceName,
		AuthHandler:              h.Auth,
		AuthMiddleware:           mw.Auth,
		SessionCompletionHandler: h.SessionCompletion,
		StudentHandler:           h.Student,
	})
}
