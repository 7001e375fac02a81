// Package config loads storefront configuration from environment
// variables, with .env support for local development.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Everything has a
// development default; nothing is fatal when unset because the client
// degrades (no auth provider, file store instead of Redis) rather than
// refusing to start.
type Config struct {
	Env         string        // application environment (dev/prod)
	APIBaseURL  string        // backend REST base URL; /api is appended if missing
	AuthURL     string        // external auth provider base URL (empty disables it)
	AuthAnonKey string        // provider anon key sent as the apikey header
	StatePath   string        // path of the local JSON state file
	RedisAddr   string        // optional host:port of a box-local Redis for the state store
	HTTPTimeout time.Duration // client-side request timeout; zero disables it

	// Settings for cmd/mockd, the local development backend.
	MockPort   string // listen port for the mock backend
	JWTSecret  string // HS256 secret the mock backend signs tokens with
	BcryptCost int    // bcrypt cost for mock backend password hashing
}

// Load reads the .env file when present, then the environment. A
// missing .env is not an error.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:         getenv("APP_ENV", "dev"),
		APIBaseURL:  getenv("API_URL", "http://localhost:5000"),
		AuthURL:     os.Getenv("AUTH_URL"),
		AuthAnonKey: os.Getenv("AUTH_ANON_KEY"),
		StatePath:   getenv("STATE_PATH", defaultStatePath()),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		HTTPTimeout: parseDur(os.Getenv("HTTP_TIMEOUT")),
		MockPort:    getenv("MOCK_PORT", "5000"),
		JWTSecret:   getenv("JWT_SECRET", "dev-secret"),
		BcryptCost:  parseInt(os.Getenv("BCRYPT_COST"), 10),
	}
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pasarloak-state.json"
	}
	return filepath.Join(home, ".pasarloak", "state.json")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// parseDur returns zero for empty or malformed values: the storefront
// historically ran without client-side timeouts, so "unset" must stay
// behavior-preserving.
func parseDur(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
