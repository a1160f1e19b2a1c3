package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"AUTH_SECRET", "AUTH_SECRET_FILE", "AUTH_ISSUER", "AUTH_CHALLENGE_TTL", "AUTH_SESSION_TTL",
		"AUTH_SIGNUP_SESSION_TTL", "AUTH_CHALLENGE_LEDGER", "AUTH_CHALLENGE_SINGLE_USE",
		"AUTH_CHALLENGE_MAX_ATTEMPTS", "DATABASE_DRIVER", "AUTH_DATABASE_FILE", "DATABASE_URL",
		"REDIS_URL", "SMS_PROVIDER", "SMS_COUNTRY_CODE", "PORT", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "otpauth", cfg.Issuer)
	assert.Equal(t, 5*time.Minute, cfg.ChallengeTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.SignupSessionTTL)
	assert.Equal(t, LedgerOn, cfg.Ledger)
	assert.True(t, cfg.SingleUse)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "auth.db", cfg.DatabaseFile)
	assert.Equal(t, ProviderLog, cfg.SMSProvider)
	assert.Equal(t, "+91", cfg.CountryCode)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("AUTH_CHALLENGE_TTL", "2m")
	t.Setenv("AUTH_SESSION_TTL", "90")
	t.Setenv("AUTH_CHALLENGE_LEDGER", "OFF")
	t.Setenv("AUTH_CHALLENGE_SINGLE_USE", "false")
	t.Setenv("AUTH_CHALLENGE_MAX_ATTEMPTS", "not-a-number")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("PORT", "8081")

	cfg := LoadConfig()

	assert.Equal(t, 2*time.Minute, cfg.ChallengeTTL)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, LedgerOff, cfg.Ledger)
	assert.False(t, cfg.SingleUse)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 8081, cfg.Port)
}

func validConfig() Config {
	return Config{
		Secret:           testSecret,
		Issuer:           "otpauth",
		ChallengeTTL:     5 * time.Minute,
		SessionTTL:       time.Hour,
		SignupSessionTTL: time.Hour,
		Ledger:           LedgerOn,
		MaxAttempts:      5,
		DatabaseDriver:   DriverSQLite,
		DatabaseFile:     "auth.db",
		SMSProvider:      ProviderLog,
		Env:              "dev",
		Port:             4000,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantVar string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing secret", func(c *Config) { c.Secret = "" }, "AUTH_SECRET"},
		{"short secret", func(c *Config) { c.Secret = "short" }, "AUTH_SECRET"},
		{"zero challenge ttl", func(c *Config) { c.ChallengeTTL = 0 }, "AUTH_CHALLENGE_TTL"},
		{"bad ledger", func(c *Config) { c.Ledger = "maybe" }, "AUTH_CHALLENGE_LEDGER"},
		{"negative attempts", func(c *Config) { c.MaxAttempts = -1 }, "AUTH_CHALLENGE_MAX_ATTEMPTS"},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, "DATABASE_DRIVER"},
		{"postgres without url", func(c *Config) { c.DatabaseDriver = DriverPostgres }, "DATABASE_URL"},
		{"twilio without credentials", func(c *Config) { c.SMSProvider = ProviderTwilio }, "TWILIO_ACCOUNT_SID"},
		{"log sender in prod", func(c *Config) { c.Env = "prod" }, "SMS_PROVIDER"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantVar == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)

			oopsErr, ok := oops.AsOops(err)
			require.True(t, ok, "expected oops error, got %T", err)
			assert.Equal(t, "CONFIG_INVALID", oopsErr.Code())
			assert.Equal(t, tt.wantVar, oopsErr.Context()["var"])
		})
	}
}

func TestSigningSecretFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte(testSecret+"\n"), 0o600))

	cfg := validConfig()
	cfg.Secret = ""
	cfg.SecretFile = path

	secret, err := cfg.SigningSecret()
	require.NoError(t, err)
	assert.Equal(t, testSecret, string(secret))
	require.NoError(t, cfg.Validate())

	cfg.SecretFile = filepath.Join(t.TempDir(), "missing")
	_, err = cfg.SigningSecret()
	require.Error(t, err)
}
