package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/brightclass/academy-backend/internal/handlers"
	"github.com/brightclass/academy-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName              string
	AuthHandler              *handlers.AuthHandler
	AuthMiddleware           *middleware.AuthMiddleware
	SessionCompletionHandler *handlers.SessionCompletionHandler
	StudentHandler           *handlers.StudentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/login", cfg.AuthHandler.Login)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.POST("/sessions/:id/complete", cfg.SessionCompletionHandler.CompleteSession)
		api.GET("/sessions/:id/progress", cfg.SessionCompletionHandler.SessionProgress)
		api.GET("/students/:id/certificates", cfg.StudentHandler.ListCertificates)
		api.GET("/students/:id/xp", cfg.StudentHandler.ListXP)
	}

	return router
}
