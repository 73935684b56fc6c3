// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/eventhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devJWTSecret is the default signing key. It is rejected in prod.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for eventhub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: EVENTHUB_MONGO_URI, EVENTHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "eventhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Tokens and passwords
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "HMAC key for access tokens (must be strong in production)"},
	{Name: "jwt_expiry", Default: "168h", Desc: "Access token lifetime (e.g., 24h, 168h)"},
	{Name: "bcrypt_cost", Default: 10, Desc: "bcrypt cost for password hashing"},
	{Name: "auth_rate_ip", Default: 10, Desc: "Signup/login attempts per minute per client IP"},
	{Name: "auth_rate_email", Default: 5, Desc: "Login attempts per 5 minutes per email"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@eventhub.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "EventHub", Desc: "From display name"},
	{Name: "mail_timeout", Default: "10s", Desc: "SMTP dial and session timeout"},
	{Name: "site_name", Default: "EventHub", Desc: "Product name used in emails"},

	// Notification worker pool
	{Name: "notify_queue_size", Default: 256, Desc: "Pending registration emails before new ones are dropped"},
	{Name: "notify_workers", Default: 2, Desc: "Concurrent email senders"},

	// Timeouts
	{Name: "timeout_ping", Default: "2s", Desc: "Health check ping timeout"},
	{Name: "timeout_short", Default: "5s", Desc: "Single-document operation timeout"},
	{Name: "timeout_medium", Default: "10s", Desc: "Query and roster update timeout"},
	{Name: "timeout_long", Default: "30s", Desc: "Schema setup timeout"},

	// Registration engine
	{Name: "register_max_attempts", Default: 10, Desc: "Roster swap attempts before reporting a conflict"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, EVENTHUB_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "EVENTHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:  appValues.String("jwt_secret"),
		JWTExpiry:  appValues.Duration("jwt_expiry", 7*24*time.Hour),
		BcryptCost: appValues.Int("bcrypt_cost"),

		AuthRateIP:    appValues.Int("auth_rate_ip"),
		AuthRateEmail: appValues.Int("auth_rate_email"),

		// Email/SMTP
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),
		MailTimeout:  appValues.Duration("mail_timeout", 10*time.Second),
		SiteName:     appValues.String("site_name"),

		NotifyQueueSize: appValues.Int("notify_queue_size"),
		NotifyWorkers:   appValues.Int("notify_workers"),

		TimeoutPing:   appValues.Duration("timeout_ping", 0),
		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),

		RegisterMaxAttempts: appValues.Int("register_max_attempts"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is checked before connecting, the signing key must be
// long enough for HS256, and the development key is refused in prod.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if len(appCfg.JWTSecret) < auth.MinSecretLength {
		return fmt.Errorf("jwt_secret must be at least %d bytes", auth.MinSecretLength)
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.JWTSecret == devJWTSecret {
		return errors.New("jwt_secret must be changed from the development default in prod")
	}
	if appCfg.JWTExpiry <= 0 {
		return errors.New("jwt_expiry must be positive")
	}
	if appCfg.MailSMTPPort <= 0 || appCfg.MailSMTPPort > 65535 {
		return fmt.Errorf("mail_smtp_port out of range: %d", appCfg.MailSMTPPort)
	}

	return nil
}
