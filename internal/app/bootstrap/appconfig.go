// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig is where the team tracker's own settings live. The struct is
// passed to most lifecycle hooks, so any configuration needed during
// startup, request handling, or shutdown should live here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: teamstats-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// TrustLogin enables POST /session, which signs in any existing user by
	// id. Authentication is delegated to whatever sits in front of the app;
	// leave this off unless that front door exists.
	TrustLogin bool

	// Tracker behavior
	CodeAttempts  int    // Attempts at generating an unused join or invite code
	DefaultSeason string // Season for teams without a label; blank derives it from the date
	AuditLog      string // Audit destination: all, db, log, off

	// Signup rate limiting (per client IP)
	SignupRateLimit  int
	SignupRateWindow time.Duration
}
