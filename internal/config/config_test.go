package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DB_DRIVER", "DB_DSN", "MYSQL_DSN", "SESSION_STORE", "JWT_TTL", "BCRYPT_COST", "RESET_DB"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Contains(t, cfg.DBDSN, "tcp(localhost:3306)")
	assert.Equal(t, SessionStoreMySQL, cfg.SessionStore)
	assert.Equal(t, time.Duration(0), cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.ResetDB)
	assert.Equal(t, "a@jwt.com", cfg.AdminEmail)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "host=db user=pizza")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("AUTH_RATE_LIMIT", "2.5")
	t.Setenv("RESET_DB", "true")

	cfg := Load()

	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "host=db user=pizza", cfg.DBDSN)
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 2.5, cfg.AuthRateLimit)
	assert.True(t, cfg.ResetDB)
}

func TestLoad_LegacyMySQLDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "root:secret@tcp(db:3306)/pizza")

	assert.Equal(t, "root:secret@tcp(db:3306)/pizza", Load().DBDSN)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "lots")
	t.Setenv("JWT_TTL", "forever")
	t.Setenv("RESET_DB", "maybe")

	cfg := Load()

	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, time.Duration(0), cfg.JWTTTL)
	assert.False(t, cfg.ResetDB)
}
