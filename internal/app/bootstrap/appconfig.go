// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging, CORS and body limits; everything specific to
// eventhub lives here and is passed to the lifecycle hooks.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer tokens and passwords
	JWTSecret  string        // HMAC key for signing access tokens (must be strong in production)
	JWTExpiry  time.Duration // Token lifetime
	BcryptCost int

	// Credential throttling (attempts per minute per IP, per 5 minutes per email)
	AuthRateIP    int
	AuthRateEmail int

	// Email/SMTP configuration for registration confirmations
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty disables AUTH)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name
	MailTimeout  time.Duration
	SiteName     string // Product name used in email copy

	// Notification worker pool
	NotifyQueueSize int
	NotifyWorkers   int

	// Per-operation timeouts (zero keeps the built-in defaults)
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Registration engine retry budget for contended rosters
	RegisterMaxAttempts int
}
