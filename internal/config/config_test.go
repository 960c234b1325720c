package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Password: "secret"},
		Store:    StoreConfig{Driver: "postgres"},
		JWT: JWTConfig{
			Secret:            "test-secret",
			AccessExpiration:  "1h",
			RefreshExpiration: "168h",
		},
		Storage: StorageConfig{Type: "local", PresignExpiry: 15 * time.Minute},
		Policy:  PolicyConfig{TheoryThreshold: 75, LabThreshold: 100},
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"memory store needs no db password", func(c *Config) {
			c.Store.Driver = "memory"
			c.Database.Password = ""
		}, ""},
		{"postgres needs password", func(c *Config) { c.Database.Password = "" }, "DB_PASSWORD"},
		{"unknown store", func(c *Config) { c.Store.Driver = "firestore" }, "STORE_DRIVER"},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "JWT_SECRET_KEY"},
		{"bad access expiration", func(c *Config) { c.JWT.AccessExpiration = "soon" }, "JWT_ACCESS_EXPIRATION_TIME"},
		{"partial google config", func(c *Config) { c.OAuth2Google.ClientID = "id" }, "CLIENT_SECRET"},
		{"s3 needs bucket", func(c *Config) { c.Storage.Type = "s3" }, "S3_BUCKET"},
		{"unknown storage", func(c *Config) { c.Storage.Type = "minio" }, "STORAGE_TYPE"},
		{"threshold out of range", func(c *Config) { c.Policy.LabThreshold = 101 }, "POLICY_LAB_THRESHOLD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			err := c.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestGetEnvSlice(t *testing.T) {
	t.Setenv("TEST_SLICE", " a, b ,,c ")
	assert.Equal(t, []string{"a", "b", "c"}, getEnvSlice("TEST_SLICE"))
	assert.Empty(t, getEnvSlice("TEST_SLICE_MISSING"))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 75.0, cfg.Policy.TheoryThreshold)
	assert.Equal(t, 100.0, cfg.Policy.LabThreshold)
	assert.False(t, cfg.Policy.SuppressUnrecorded)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, []string{cfg.App.FrontendURL}, cfg.App.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}
