package env

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type EnvService struct{}

func NewEnvService() *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	// Missing .env files are fine: keys may come from the environment.
	_ = godotenv.Load(".env")

	envFile := fmt.Sprintf(".env.%s", appEnv)
	_ = godotenv.Overload(envFile)

	return &EnvService{}
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}
