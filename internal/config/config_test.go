package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductionConfig() *Config {
	return &Config{
		Env:          "production",
		Port:         "8080",
		JWTSecret:    "secure-secret-at-least-32-chars-long",
		DBDriver:     DriverPostgres,
		DBPassword:   "secure-password",
		DBSSLMode:    "require",
		FeatureFlags: "",
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validProductionConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateProductionRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"default secret", func(c *Config) { c.JWTSecret = DefaultJWTSecret }},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }},
		{"weak db password", func(c *Config) { c.DBPassword = "password" }},
		{"demo reset enabled", func(c *Config) { c.FeatureFlags = "demo_password_reset=on" }},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validProductionConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	assert.NoError(t, validProductionConfig().Validate())
}

func TestConfig_ValidateSQLiteIgnoresPostgresRules(t *testing.T) {
	c := validProductionConfig()
	c.DBDriver = DriverSQLite
	c.DBPath = "/var/lib/rewear/rewear.sqlite"
	c.DBPassword = ""
	c.DBSSLMode = ""
	assert.NoError(t, c.Validate())

	c.DBPath = ""
	assert.Error(t, c.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", c.Port)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 7*24*time.Hour, c.JWTTTL)
	assert.Equal(t, 8*time.Second, c.ImageProxyTimeout)
	assert.Equal(t, int64(5*1024*1024), c.ImageProxyMaxBytes)
	assert.Equal(t, "demo_password_reset=on", c.FeatureFlags)
	assert.True(t, c.SeedDemo)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "4100")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("FEATURE_FLAGS", "demo_password_reset=off")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", c.Env)
	assert.Equal(t, "4100", c.Port)
	assert.Equal(t, time.Hour, c.JWTTTL)
	assert.Equal(t, "demo_password_reset=off", c.FeatureFlags)
}

func TestConfig_DSN(t *testing.T) {
	c := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "rewear"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=rewear sslmode=disable", c.DatabaseDSN())
	assert.Empty(t, c.ReadDatabaseDSN())

	c.DBReadHost = "replica"
	c.DBReadPort = "5433"
	c.DBReadUser = "ro"
	c.DBReadPassword = "rp"
	c.DBSSLMode = "require"
	assert.Equal(t, "host=replica port=5433 user=ro password=rp dbname=rewear sslmode=require", c.ReadDatabaseDSN())
}
