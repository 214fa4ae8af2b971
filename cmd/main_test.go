package main

import (
	"bytes"
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

func resetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		os.Unsetenv(key)
	}
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	os.Args = []string{"cmd"}

	path := parseFlags()
	assert.Equal(t, "config.env", path)
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	os.Args = []string{"cmd", "-c", "custom.env"}

	path := parseFlags()
	assert.Equal(t, "custom.env", path)
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv(t,
		"APP_HOST", "APP_PORT", "APP_LOG_LEVEL",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"POSTGRES_MAX_OPEN_CONNS", "POSTGRES_MAX_IDLE_CONNS",
		"JWT_SECRET_KEY", "JWT_EXP_SECOND", "BCRYPT_COST",
	)

	appHost, appPort, pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		logLevel, jwtSecret, jwtExp, bcryptCost,
		err := parseConfig("nonexistent.env")

	assert.NoError(t, err)
	assert.Equal(t, "localhost", appHost)
	assert.Equal(t, "8080", appPort)
	assert.Equal(t, "info", logLevel)
	assert.Equal(t, "localhost", pgHost)
	assert.Equal(t, 5432, pgPort)
	assert.Equal(t, "user", pgUser)
	assert.Equal(t, "password", pgPassword)
	assert.Equal(t, "database", pgDB)
	assert.Equal(t, 16, pgMaxOpenConns)
	assert.Equal(t, 8, pgMaxIdleConns)
	assert.Equal(t, "my_super_secret_key", jwtSecret)
	assert.Equal(t, 3600, jwtExp)
	assert.Equal(t, bcrypt.DefaultCost, bcryptCost)
}

func TestParseConfig_FromEnv(t *testing.T) {
	t.Setenv("APP_HOST", "0.0.0.0")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_PORT", "15432")
	t.Setenv("JWT_SECRET_KEY", "env-secret")
	t.Setenv("JWT_EXP_SECOND", "60")
	t.Setenv("BCRYPT_COST", "4")

	appHost, appPort, _, pgPort, _, _, _,
		_, _,
		_, jwtSecret, jwtExp, bcryptCost,
		err := parseConfig("nonexistent.env")

	assert.NoError(t, err)
	assert.Equal(t, "0.0.0.0", appHost)
	assert.Equal(t, "9090", appPort)
	assert.Equal(t, 15432, pgPort)
	assert.Equal(t, "env-secret", jwtSecret)
	assert.Equal(t, 60, jwtExp)
	assert.Equal(t, 4, bcryptCost)
}

func TestParseConfig_InvalidInt(t *testing.T) {
	t.Setenv("JWT_EXP_SECOND", "not-a-number")

	_, _, _, _, _, _, _,
		_, _,
		_, _, _, _,
		err := parseConfig("nonexistent.env")

	assert.Error(t, err)
}

func TestPrintBuildInfo(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	printBuildInfo()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	out := buf.String()

	assert.Contains(t, out, "version N/A")
	assert.Contains(t, out, "commit N/A")
	assert.Contains(t, out, "build N/A")
}
