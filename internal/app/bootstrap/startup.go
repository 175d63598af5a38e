// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. The
// tracker itself holds no warm state, so this only records the effective
// settings.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	t := timeouts.Current()
	logger.Info("teamstats starting",
		zap.String("env", coreCfg.Env),
		zap.String("audit_log", appCfg.AuditLog),
		zap.Int("code_attempts", appCfg.CodeAttempts),
		zap.String("default_season", appCfg.DefaultSeason),
		zap.Bool("trust_login", appCfg.TrustLogin),
		zap.Duration("timeout_short", t.Short),
		zap.Duration("timeout_export", t.Export))
	return nil
}
