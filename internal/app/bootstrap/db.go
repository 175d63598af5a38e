// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/teamstats/internal/app/system/indexes"
	"github.com/dalemusser/teamstats/internal/app/system/ratelimit"
	"github.com/dalemusser/teamstats/internal/app/system/tasks"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/teamstats/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and verifies the connection with a ping.
// Transactions (game deletion, signup) need a replica set or sharded
// cluster; a standalone server works for everything else.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, timeouts.Ping())
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("MongoDB ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	limiter := ratelimit.New(appCfg.SignupRateLimit, appCfg.SignupRateWindow, clockwork.NewRealClock())
	jobs := workers.NewRunner(nil, logger,
		tasks.LimiterSweepJob(limiter, appCfg.SignupRateWindow, logger),
	)
	jobs.Start()

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		SignupLimiter: limiter,
		jobs:          jobs,
	}, nil
}

// EnsureSchema creates every index the stores rely on. It is idempotent
// and safe to run on every start.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}
	logger.Info("indexes ensured")
	return nil
}
