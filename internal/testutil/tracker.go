package testutil

import (
	"testing"

	"github.com/dalemusser/teamstats/internal/app/store/repository"
	"github.com/dalemusser/teamstats/internal/app/system/auditlog"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// NewTracker returns a tracker over db that records audit entries in db.
// Indexes are created first so uniqueness rules hold.
func NewTracker(t *testing.T, db *mongo.Database) *tracker.Service {
	t.Helper()
	EnsureIndexes(t, db)
	repo := repository.New(db, zap.NewNop())
	audit := auditlog.New(repo, zap.NewNop(), auditlog.ModeDB, nil)
	return tracker.New(repo, zap.NewNop(), nil, audit, tracker.Config{})
}
