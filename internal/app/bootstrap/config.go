// internal/app/bootstrap/config.go
package bootstrap

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dalemusser/teamstats/internal/app/system/auditlog"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// minSessionKeyLen is the shortest session key accepted in production.
const minSessionKeyLen = 32

// appConfigKeys defines the configuration keys for teamstats.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: TEAMSTATS_MONGO_URI, TEAMSTATS_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "teamstats", Desc: "MongoDB database name"},
	{Name: "session_key", Default: "", Desc: "Session signing key (required in production; random per process in dev when blank)"},
	{Name: "session_name", Default: "teamstats-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},
	{Name: "trust_login", Default: false, Desc: "Enable POST /session sign-in by user id (only behind a trusted front door)"},

	{Name: "code_attempts", Default: 5, Desc: "Attempts at generating an unused join or invite code (1-20)"},
	{Name: "default_season", Default: "", Desc: "Season label for teams without one (blank derives it from the date)"},
	{Name: "audit_log", Default: "all", Desc: "Audit logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "signup_rate_limit", Default: 10, Desc: "Signups allowed per client IP per window"},
	{Name: "signup_rate_window", Default: "1m", Desc: "Signup rate limit window"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, TEAMSTATS_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
//
// Operation timeouts are read here too (TEAMSTATS_TIMEOUT_*), so they are
// in place before the first database call.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TEAMSTATS", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),
		TrustLogin:    appValues.Bool("trust_login"),

		CodeAttempts:  appValues.Int("code_attempts"),
		DefaultSeason: appValues.String("default_season"),
		AuditLog:      appValues.String("audit_log"),

		SignupRateLimit:  appValues.Int("signup_rate_limit"),
		SignupRateWindow: appValues.Duration("signup_rate_window", time.Minute),
	}

	if appCfg.SessionKey == "" && coreCfg.Env != "prod" {
		appCfg.SessionKey = hex.EncodeToString(securecookie.GenerateRandomKey(32))
		logger.Warn("session_key not set; using a random key, sessions end when the process restarts")
	}

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("operation timeouts overridden from environment", zap.Int("count", n))
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}

	if coreCfg.Env == "prod" && len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d characters in production", minSessionKeyLen)
	}
	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key is required")
	}

	if appCfg.CodeAttempts < 1 || appCfg.CodeAttempts > 20 {
		return fmt.Errorf("code_attempts must be between 1 and 20, got %d", appCfg.CodeAttempts)
	}

	switch appCfg.AuditLog {
	case auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
	default:
		return fmt.Errorf("audit_log must be one of all, db, log, off; got %q", appCfg.AuditLog)
	}

	if appCfg.SignupRateLimit < 1 || appCfg.SignupRateWindow <= 0 {
		return fmt.Errorf("signup_rate_limit and signup_rate_window must be positive")
	}

	if appCfg.TrustLogin {
		logger.Warn("trust_login is enabled; POST /session signs in any user by id")
	}
	return nil
}
