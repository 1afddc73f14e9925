package health

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/lcars-computer/stackctl/internal/model"
)

// Credentials for deep checks, read from the stack's env overlay.
type Credentials struct {
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	RedisPassword    string
}

// LoadCredentials reads POSTGRES_* and REDIS_PASSWORD from an env file. A
// missing file yields the in-stack defaults.
func LoadCredentials(path string) (Credentials, error) {
	creds := Credentials{PostgresUser: "postgres", PostgresDB: "postgres"}

	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return creds, nil
		}
		return creds, err
	}

	if v := env["POSTGRES_USER"]; v != "" {
		creds.PostgresUser = v
	}
	if v := env["POSTGRES_DB"]; v != "" {
		creds.PostgresDB = v
	}
	creds.PostgresPassword = env["POSTGRES_PASSWORD"]
	creds.RedisPassword = env["REDIS_PASSWORD"]
	return creds, nil
}

// DeepCheckers builds the checkers used by Reporter.Deep.
func (c Credentials) DeepCheckers(timeout time.Duration) map[model.DeepCheckKind]Checker {
	return map[model.DeepCheckKind]Checker{
		model.DeepCheckRedis: &RedisChecker{Password: c.RedisPassword, Timeout: timeout},
		model.DeepCheckPostgres: &PostgresChecker{
			User:     c.PostgresUser,
			Password: c.PostgresPassword,
			Database: c.PostgresDB,
			Timeout:  timeout,
		},
	}
}
