package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/delivery"
	"github.com/aussiebroadwan/otpauth/internal/auth/service"
	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
	"github.com/samber/oops"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ProviderLog    = "log"
	ProviderTwilio = "twilio"

	LedgerOn  = "on"
	LedgerOff = "off"
)

type Config struct {
	Secret     string // Required unless SecretFile is set: HS256 signing secret (>= 32 bytes)
	SecretFile string // Optional: file holding the signing secret
	Issuer     string // Issuer claim for tokens (default: otpauth)

	ChallengeTTL     time.Duration // Login code validity (default: 5m)
	SessionTTL       time.Duration // Session after OTP login (default: 7d)
	SignupSessionTTL time.Duration // Session handed out at sign-up (default: 1h)

	Ledger      string // Challenge ledger (on, off) (default: on)
	SingleUse   bool   // Reject a second redemption of the same challenge (default: true)
	MaxAttempts int    // Wrong codes allowed per challenge, 0 disables (default: 5)

	DatabaseDriver string // Identity registry driver (sqlite, postgres) (default: sqlite)
	DatabaseFile   string // SQLite database file (default: ./auth.db)
	DatabaseURL    string // Postgres DSN, required for the postgres driver
	RedisURL       string // Optional: keeps the challenge ledger in Redis

	SMSProvider string // Code delivery (log, twilio) (default: log)
	CountryCode string // Prefix added to national numbers (default: +91)
	Twilio      delivery.TwilioConfig

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 4000)
	CORSAllowedOrigins   []string      // Allowed origins, "*" for any (default: *)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Ledger pruning interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Secret:     os.Getenv("AUTH_SECRET"),
		SecretFile: os.Getenv("AUTH_SECRET_FILE"),
		Issuer:     getEnvOrDefault("AUTH_ISSUER", jwtx.DefaultIssuer),

		ChallengeTTL:     getEnvDurationOrDefault("AUTH_CHALLENGE_TTL", jwtx.DefaultChallengeTTL),
		SessionTTL:       getEnvDurationOrDefault("AUTH_SESSION_TTL", jwtx.DefaultSessionTTL),
		SignupSessionTTL: getEnvDurationOrDefault("AUTH_SIGNUP_SESSION_TTL", service.DefaultSignupSessionTTL),

		Ledger:      strings.ToLower(getEnvOrDefault("AUTH_CHALLENGE_LEDGER", LedgerOn)),
		SingleUse:   getEnvBoolOrDefault("AUTH_CHALLENGE_SINGLE_USE", true),
		MaxAttempts: getEnvIntOrDefault("AUTH_CHALLENGE_MAX_ATTEMPTS", 5),

		DatabaseDriver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),

		SMSProvider: strings.ToLower(getEnvOrDefault("SMS_PROVIDER", ProviderLog)),
		CountryCode: getEnvOrDefault("SMS_COUNTRY_CODE", service.DefaultCountryCode),
		Twilio: delivery.TwilioConfig{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			From:       os.Getenv("TWILIO_PHONE_NUMBER"),
		},

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 4000),
		CORSAllowedOrigins:   splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// SigningSecret returns the configured secret, reading SecretFile when
// Secret is empty. Trailing newlines in the file are ignored.
func (c Config) SigningSecret() ([]byte, error) {
	if c.Secret != "" {
		return []byte(c.Secret), nil
	}
	if c.SecretFile == "" {
		return nil, oops.Code("CONFIG_INVALID").
			With("var", "AUTH_SECRET").
			Errorf("AUTH_SECRET or AUTH_SECRET_FILE is required")
	}

	raw, err := os.ReadFile(c.SecretFile)
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("var", "AUTH_SECRET_FILE").
			With("path", c.SecretFile).
			Wrapf(err, "read secret file")
	}
	return []byte(strings.TrimRight(string(raw), "\r\n")), nil
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	invalid := func(v string) oops.OopsErrorBuilder {
		return oops.Code("CONFIG_INVALID").With("var", v)
	}

	secret, err := c.SigningSecret()
	if err != nil {
		return err
	}
	if len(secret) < jwtx.MinSecretSize {
		return invalid("AUTH_SECRET").Wrap(jwtx.ErrWeakSecret)
	}

	for name, d := range map[string]time.Duration{
		"AUTH_CHALLENGE_TTL":      c.ChallengeTTL,
		"AUTH_SESSION_TTL":        c.SessionTTL,
		"AUTH_SIGNUP_SESSION_TTL": c.SignupSessionTTL,
	} {
		if d <= 0 {
			return invalid(name).Errorf("%s must be positive, got %s", name, d)
		}
	}

	if c.Ledger != LedgerOn && c.Ledger != LedgerOff {
		return invalid("AUTH_CHALLENGE_LEDGER").Errorf("AUTH_CHALLENGE_LEDGER must be on or off, got %q", c.Ledger)
	}
	if c.MaxAttempts < 0 {
		return invalid("AUTH_CHALLENGE_MAX_ATTEMPTS").Errorf("AUTH_CHALLENGE_MAX_ATTEMPTS must not be negative")
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			return invalid("AUTH_DATABASE_FILE").Errorf("AUTH_DATABASE_FILE is required for sqlite")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return invalid("DATABASE_URL").Errorf("DATABASE_URL is required for postgres")
		}
	default:
		return invalid("DATABASE_DRIVER").Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	switch c.SMSProvider {
	case ProviderLog:
		// The log sender prints codes, which must never happen in production.
		if c.Env == "prod" {
			return invalid("SMS_PROVIDER").Errorf("SMS_PROVIDER=log is not allowed when ENV=prod")
		}
	case ProviderTwilio:
		if c.Twilio.AccountSID == "" || c.Twilio.AuthToken == "" || c.Twilio.From == "" {
			return invalid("TWILIO_ACCOUNT_SID").
				Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER are required for twilio")
		}
	default:
		return invalid("SMS_PROVIDER").Errorf("unknown SMS_PROVIDER %q", c.SMSProvider)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return invalid("PORT").Errorf("PORT out of range: %d", c.Port)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
