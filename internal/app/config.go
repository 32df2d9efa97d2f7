package app

import (
	"time"

	"github.com/brightclass/academy-backend/internal/platform/logger"
	"github.com/brightclass/academy-backend/internal/utils"
)

type Config struct {
	ServiceName        string
	Environment        string
	JWTSecretKey       string
	AccessTokenTTL     time.Duration
	ModuleCompletionXP int
	CourseCompletionXP int
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		ServiceName:        utils.GetEnv("SERVICE_NAME", "academy-backend", log),
		Environment:        utils.GetEnv("ENVIRONMENT", "development", log),
		JWTSecretKey:       utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:     time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		ModuleCompletionXP: utils.GetEnvAsInt("MODULE_COMPLETION_XP", 50, log),
		CourseCompletionXP: utils.GetEnvAsInt("COURSE_COMPLETION_XP", 200, log),
	}
}
