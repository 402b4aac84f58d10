package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Database: Database{Host: "localhost", Name: "codeduel"},
		Judge0:   Judge0{BaseURL: "http://judge0", Timeout: time.Second, MaxConcurrency: 2, Retries: 1},
		AI:       AI{Timeout: time.Second},
		Auth:     Auth{JWTSecret: "secret"},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	cfg.Auth.JWTSecret = ""
	cfg.Judge0.BaseURL = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
	assert.Contains(t, err.Error(), "JUDGE0_BASE_URL")
}

func TestValidateRejectsZeroConcurrency(t *testing.T) {
	cfg := validConfig()
	cfg.Judge0.MaxConcurrency = 0
	assert.Error(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	d := Database{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", d.DSN())
}
