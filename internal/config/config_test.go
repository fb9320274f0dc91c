package config

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&SystemConfig{}))
	return NewService(db)
}

func TestSetGetRoundTrip(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Set("SERVER_PORT", "9000", "server", false))
	assert.Equal(t, "9000", svc.Get("SERVER_PORT"))

	// Overwrite updates the same row
	require.NoError(t, svc.Set("SERVER_PORT", "9001", "server", false))
	assert.Equal(t, "9001", svc.Get("SERVER_PORT"))

	assert.Equal(t, "", svc.Get("MISSING"))
	assert.Equal(t, "fallback", svc.GetWithDefault("MISSING", "fallback"))
	assert.Equal(t, 42, svc.GetInt("MISSING_INT", 42))
}

func TestEnvironmentOverrideWins(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Set("SEED_SOURCE_PATH", "seed/checklists.xlsx", "seed", false))
	t.Setenv("SITECHECK_SEED_SOURCE_PATH", "/mnt/share/catalogue.xlsx")

	assert.Equal(t, "/mnt/share/catalogue.xlsx", svc.Get("SEED_SOURCE_PATH"))
}

func TestSetupDefaultsIsIdempotent(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.SetupDefaults())
	secret := svc.Get("JWT_SECRET")
	require.NotEmpty(t, secret)

	// A second run must not rotate the generated secret
	require.NoError(t, svc.SetupDefaults())
	assert.Equal(t, secret, svc.Get("JWT_SECRET"))

	cfg := svc.LoadConfig()
	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, secret, cfg.Auth.JWTSecret)
	assert.NotEmpty(t, cfg.Seed.SourcePath)
}
