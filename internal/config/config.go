package config

import (
	"os"
	"os/user"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Бэкенды кеша изменений.
const (
	CacheBackendFile     = "file"
	CacheBackendPostgres = "postgres"
	CacheBackendNone     = "none"
)

type Config struct {
	GerritHost          string
	GerritPort          int
	GerritUser          string
	GerritKey           string
	GerritKnownHosts    string
	GerritQueryInterval time.Duration

	ProjectsDir string

	CacheBackend string
	CacheDir     string
	CacheTTL     time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort string
}

// LoadConfig читает .env (если есть) и переменные окружения.
// Ошибка загрузки .env не мешает вернуть конфигурацию по умолчанию.
func LoadConfig() (Config, error) {

	err := godotenv.Load()

	return Config{
		GerritHost:          getEnv("GERRIT_HOST", "review.openstack.org"),
		GerritPort:          getInt("GERRIT_PORT", 29418),
		GerritUser:          getEnv("GERRIT_USER", currentUser()),
		GerritKey:           getEnv("GERRIT_KEY", ""),
		GerritKnownHosts:    getEnv("GERRIT_KNOWN_HOSTS", ""),
		GerritQueryInterval: getDuration("GERRIT_QUERY_INTERVAL", time.Second),

		ProjectsDir: getEnv("PROJECTS_DIR", "./projects"),

		CacheBackend: getEnv("CACHE_BACKEND", CacheBackendFile),
		CacheDir:     getEnv("CACHE_DIR", "."),
		CacheTTL:     getDuration("CACHE_TTL", time.Hour),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "reviewstats"),

		ServerPort: getEnv("SERVER_PORT", "8080"),
	}, err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
