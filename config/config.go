package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// BasePath is the sub-path the app is mounted under ("" for root).
	BasePath  string
	StaticDir string

	// DevMode + DevWSPort mirror the front-end build: in development the
	// page is served by a separate dev server, so WebSocket URIs must use
	// the backend port instead of the page's.
	DevMode   bool
	DevWSPort int

	// AllowedOrigins are wildcard-capable origin patterns,
	// e.g. "https://*.example.com".
	AllowedOrigins []string

	JWTSecret string

	HealthPath string
	StreamPath string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	RedisURL        string
	ResolveCacheTTL time.Duration
}

func Load() *Config {
	godotenv.Load()
	godotenv.Load("../.env")

	return &Config{
		Port: getEnv("PORT", "8080"),

		BasePath:  getEnv("BASE_PATH", ""),
		StaticDir: getEnv("STATIC_DIR", "./static"),

		DevMode:   os.Getenv("GIN_MODE") != "release",
		DevWSPort: parseInt(getEnv("DEV_WS_PORT", "8080"), 8080),

		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", defaultOrigins())),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),

		HealthPath: getEnv("HEALTH_PATH", "healthz"),
		StreamPath: getEnv("STREAM_PATH", "ws/stream"),

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "embedgate"),
		DBPassword: getEnv("DB_PASSWORD", "embedgate"),
		DBName:     getEnv("DB_NAME", "embedgate"),
		SQLitePath: getEnv("SQLITE_PATH", "embedgate.db"),

		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		ResolveCacheTTL: parseDuration(getEnv("RESOLVE_CACHE_TTL", "10m")),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

func defaultOrigins() string {
	if os.Getenv("GIN_MODE") != "release" {
		return "http://localhost:*,https://localhost:*"
	}
	return ""
}

func parseOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
