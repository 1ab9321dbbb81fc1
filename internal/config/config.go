// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Identity issuance lives in an external auth
// service; this application only needs the shared JWT secret to verify
// tokens that service signed.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to verify JWTs issued by the auth service

	// ShowtimeFutureOnly rejects admin showtime submissions whose start
	// time is not strictly in the future. Kept as a policy switch because
	// operators sometimes need to backfill historical showtimes.
	ShowtimeFutureOnly bool
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must(); missing values cause
// the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:                must("APP_ENV"),
		Port:               must("APP_PORT"),
		DBUser:             must("DB_USER"),
		DBPass:             os.Getenv("DB_PASS"), // empty allowed
		DBHost:             must("DB_HOST"),
		DBPort:             must("DB_PORT"),
		DBName:             must("DB_NAME"),
		JWTSecret:          must("JWT_SECRET"),
		ShowtimeFutureOnly: envBool("SHOWTIME_FUTURE_ONLY", true),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}
