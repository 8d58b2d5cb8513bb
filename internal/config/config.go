// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API binary needs to start.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// DatabaseURL is the Postgres DSN. Empty runs the API on the in-memory
	// stores, which is enough for local development and the smoke console.
	DatabaseURL string
	// JWTSecret signs access tokens. Required.
	JWTSecret string
	// Issuer is the iss claim on access tokens.
	Issuer string
	// UploadDir is the root for storefront image uploads.
	UploadDir string
	// AllowedOrigin is the CORS origin echoed to browsers. "*" by default.
	AllowedOrigin string
	// RateLimitRPS and RateLimitBurst shape the per-IP token bucket.
	RateLimitRPS   float64
	RateLimitBurst int
	// ShutdownGrace bounds graceful shutdown.
	ShutdownGrace time.Duration
}

// Load reads WISATARA_* variables, after loading a .env file when present.
// A missing .env is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:           getenv("WISATARA_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("WISATARA_PG_DSN"),
		JWTSecret:      os.Getenv("WISATARA_JWT_SECRET"),
		Issuer:         getenv("WISATARA_ISSUER", "wisatara"),
		UploadDir:      getenv("WISATARA_UPLOAD_DIR", "uploads"),
		AllowedOrigin:  getenv("WISATARA_CORS_ORIGIN", "*"),
		RateLimitRPS:   10,
		RateLimitBurst: 20,
		ShutdownGrace:  10 * time.Second,
	}

	if v := os.Getenv("WISATARA_RATE_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return Config{}, fmt.Errorf("config: invalid WISATARA_RATE_RPS %q", v)
		}
		cfg.RateLimitRPS = rps
	}
	if v := os.Getenv("WISATARA_RATE_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst <= 0 {
			return Config{}, fmt.Errorf("config: invalid WISATARA_RATE_BURST %q", v)
		}
		cfg.RateLimitBurst = burst
	}
	if v := os.Getenv("WISATARA_SHUTDOWN_GRACE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("config: invalid WISATARA_SHUTDOWN_GRACE %q", v)
		}
		cfg.ShutdownGrace = d
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: WISATARA_JWT_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
