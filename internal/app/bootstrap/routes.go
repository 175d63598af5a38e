// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/teamstats/internal/app/features/auditlog"
	gamesfeature "github.com/dalemusser/teamstats/internal/app/features/games"
	healthfeature "github.com/dalemusser/teamstats/internal/app/features/health"
	membersfeature "github.com/dalemusser/teamstats/internal/app/features/members"
	playersfeature "github.com/dalemusser/teamstats/internal/app/features/players"
	reportsfeature "github.com/dalemusser/teamstats/internal/app/features/reports"
	sessionfeature "github.com/dalemusser/teamstats/internal/app/features/session"
	signupfeature "github.com/dalemusser/teamstats/internal/app/features/signup"
	statsfeature "github.com/dalemusser/teamstats/internal/app/features/stats"
	teamsfeature "github.com/dalemusser/teamstats/internal/app/features/teams"
	userinfofeature "github.com/dalemusser/teamstats/internal/app/features/userinfo"
	"github.com/dalemusser/teamstats/internal/app/store/repository"
	"github.com/dalemusser/teamstats/internal/app/system/auditlog"
	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/ratelimit"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Everything under /teams requires a signed-in user; what that user may do
// on a particular team is decided per request by the tracker from their
// membership of that team.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	repo := repository.New(deps.MongoDatabase, logger)
	audit := auditlog.New(repo, logger, appCfg.AuditLog, nil)
	svc := tracker.New(repo, logger, nil, audit, tracker.Config{
		CodeAttempts:  appCfg.CodeAttempts,
		DefaultSeason: appCfg.DefaultSeason,
	})

	r := chi.NewRouter()

	// Global auth middleware: loads the session user into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Sessions and accounts
	sessionHandler := sessionfeature.NewHandler(svc, sessionMgr, appCfg.TrustLogin, logger)
	r.Mount("/session", sessionfeature.Routes(sessionHandler))

	var limit func(http.Handler) http.Handler
	if deps.SignupLimiter != nil {
		limit = ratelimit.Middleware(deps.SignupLimiter)
	}
	signupHandler := signupfeature.NewHandler(svc, sessionMgr, logger)
	r.Mount("/signup", signupfeature.Routes(signupHandler, limit))

	userinfofeature.MountRoutes(r, userinfofeature.NewHandler(svc, logger))

	// Team-scoped API
	r.Route("/teams", func(tr chi.Router) {
		tr.Use(sessionMgr.RequireSignedIn)
		teamsfeature.MountRoutes(tr, teamsfeature.NewHandler(svc, logger))
		playersfeature.MountRoutes(tr, playersfeature.NewHandler(svc, logger))
		gamesfeature.MountRoutes(tr, gamesfeature.NewHandler(svc, logger))
		statsfeature.MountRoutes(tr, statsfeature.NewHandler(svc, logger))
		reportsfeature.MountRoutes(tr, reportsfeature.NewHandler(svc, logger))
		membersfeature.MountRoutes(tr, membersfeature.NewHandler(svc, logger))
		auditlogfeature.MountRoutes(tr, auditlogfeature.NewHandler(svc, logger))
	})

	return r, nil
}
