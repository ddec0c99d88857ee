package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session registry backends.
const (
	SessionStoreMySQL = "mysql"
	SessionStoreRedis = "redis"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	DBDriver      string
	DBDSN         string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	SessionStore  string
	JWTSecret     string
	JWTTTL        time.Duration
	BcryptCost    int
	UserCacheTTL  time.Duration
	AuthRateLimit float64
	LogLevel      string
	LogFormat     string
	SwaggerHost   string
	ResetDB       bool

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBDSN:         getEnv("DB_DSN", getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/pizza?charset=utf8mb4&parseTime=True&loc=Local")),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		SessionStore:  getEnv("SESSION_STORE", SessionStoreMySQL),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		JWTTTL:        getEnvDuration("JWT_TTL", 0),
		BcryptCost:    getEnvInt("BCRYPT_COST", 10),
		UserCacheTTL:  getEnvDuration("USER_CACHE_TTL", 5*time.Minute),
		AuthRateLimit: getEnvFloat("AUTH_RATE_LIMIT", 20),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		SwaggerHost:   os.Getenv("SWAGGER_HOST"),
		ResetDB:       getEnvBool("RESET_DB", false),
		AdminName:     getEnv("ADMIN_NAME", "常用名字"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "a@jwt.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
