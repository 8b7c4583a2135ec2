package config

import (
	"os"
)

type Config struct {
	AppPort   string
	DBDSN     string
	RedisAddr string // optional; empty means in-memory sessions
	UploadDir string

	AdminUsername string
	AdminPassword string

	GoogleClientID string
	GoogleSecret   string
	GoogleRedirect string
	AppBaseURL     string
}

func Load() Config {
	return Config{
		AppPort:        get("APP_PORT", "8080"),
		DBDSN:          must("DB_DSN"),
		RedisAddr:      get("REDIS_ADDR", ""),
		UploadDir:      get("UPLOAD_DIR", "./uploads"),
		AdminUsername:  get("ADMIN_USERNAME", "admin"),
		AdminPassword:  get("ADMIN_PASSWORD", "admin123"),
		GoogleClientID: get("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:   get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect: get("GOOGLE_REDIRECT_URL", ""),
		AppBaseURL:     get("APP_BASE_URL", "http://localhost:8080"),
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
