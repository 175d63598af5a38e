// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/teamstats/internal/app/system/ratelimit"
	"github.com/dalemusser/teamstats/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// SignupLimiter is shared process state, swept by a background job.
	SignupLimiter *ratelimit.Limiter
	jobs          *workers.Runner
}
