package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

func TestLoadMemoryBackendDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, 5*time.Second, cfg.Store.CacheTTL)
	assert.Equal(t, 1000, cfg.IDs.MaxAttempts)
	assert.True(t, cfg.IDs.TeacherIDsUnique)
	assert.True(t, cfg.Materials.VerifyTeacher)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
}

func TestLoadPostgresRequiresCredentials(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_HOST", "db.internal")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConfigurationMissing))
	assert.Contains(t, err.Error(), "DB_USER")
	assert.NotContains(t, err.Error(), "DB_HOST")
}

func TestLoadPostgresWithCredentials(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "admin")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "school_system")
	t.Setenv("STORE_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "school_system", cfg.Database.Name)
	assert.Equal(t, 5*time.Second, cfg.Store.CacheTTL)
}

func TestValidateUnknownBackend(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Backend: "sheets"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConfigurationMissing))
}
