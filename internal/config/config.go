// internal/config/config.go
//
// Environment-driven configuration.
//
// Load reads an optional .env file (development) and then the process
// environment. Every setting has a default so the server runs with no
// configuration at all, using the embedded word list.
//
// Environment variables:
//   PORT=5175                  listen port
//   LOG_LEVEL=info             zerolog level name
//   LOG_FORMAT=json|console    console enables the human-readable writer
//   WORDS_FILE=/path/words.txt word list in "word;context" format
//   WORDS_DB=./data/words.db   SQLite word source (seeded when empty)
//   JWT_SECRET=...             signs session tokens
//   COOKIE_NAME=egerus_session
//   CLIENT_ORIGIN=http://localhost:5173
//   NODE_ENV=production        secure cookies
//   SESSION_IDLE_MINUTES=30    idle sessions are torn down after this long

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const devSecret = "dev_secret_change_me"

// Config holds process-wide settings.
type Config struct {
	Port         string
	LogLevel     string
	LogFormat    string
	WordsFile    string
	WordsDB      string
	JWTSecret    string
	CookieName   string
	ClientOrigin string
	Production   bool
	SessionIdle  time.Duration
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		WordsFile:    os.Getenv("WORDS_FILE"),
		WordsDB:      os.Getenv("WORDS_DB"),
		JWTSecret:    getEnv("JWT_SECRET", devSecret),
		CookieName:   getEnv("COOKIE_NAME", "egerus_session"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("NODE_ENV") == "production",
		SessionIdle:  time.Duration(getInt("SESSION_IDLE_MINUTES", 30)) * time.Minute,
	}
}

// InsecureSecret reports whether the built-in development secret is in use.
func (c Config) InsecureSecret() bool { return c.JWTSecret == devSecret }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
