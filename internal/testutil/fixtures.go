package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/teamstats/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Calling it again on the returned request adds to the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

// CreateUser creates a test user.
func (f *Fixtures) CreateUser(ctx context.Context, name string) models.User {
	f.t.Helper()
	u := models.User{
		ID:          primitive.NewObjectID(),
		DisplayName: name,
		CreatedAt:   time.Now().UTC(),
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateTeam creates a team with the given join code and season label.
func (f *Fixtures) CreateTeam(ctx context.Context, name, joinCode, season string) models.Team {
	f.t.Helper()
	now := time.Now().UTC()
	team := models.Team{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		JoinCode:    joinCode,
		SeasonLabel: season,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, "teams", team)
	return team
}

// CreateMembership adds an active membership of role for user on team.
func (f *Fixtures) CreateMembership(ctx context.Context, teamID, userID primitive.ObjectID, role string) models.Membership {
	f.t.Helper()
	now := time.Now().UTC()
	m := models.Membership{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		UserID:    userID,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "team_memberships", m)
	return m
}

// CreateStaff creates a user with an active staff membership on team.
func (f *Fixtures) CreateStaff(ctx context.Context, teamID primitive.ObjectID, name string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, name)
	f.CreateMembership(ctx, teamID, u.ID, models.RoleStaff)
	return u
}

// CreateViewer creates a user with an active viewer membership on team.
func (f *Fixtures) CreateViewer(ctx context.Context, teamID primitive.ObjectID, name string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, name)
	f.CreateMembership(ctx, teamID, u.ID, models.RoleViewer)
	return u
}

// CreatePlayer creates an active player.
func (f *Fixtures) CreatePlayer(ctx context.Context, teamID primitive.ObjectID, name string, number int, position string) models.Player {
	f.t.Helper()
	now := time.Now().UTC()
	p := models.Player{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		Name:      name,
		Number:    number,
		Position:  position,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "players", p)
	return p
}

// CreateGame creates a draft game with a 15 minute period.
func (f *Fixtures) CreateGame(ctx context.Context, teamID primitive.ObjectID, date, opponent, season string) models.Game {
	f.t.Helper()
	now := time.Now().UTC()
	g := models.Game{
		ID:             primitive.NewObjectID(),
		TeamID:         teamID,
		Date:           date,
		Opponent:       opponent,
		PeriodLength:   15,
		Season:         season,
		WorkflowStatus: models.GameDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "games", g)
	return g
}

// CreateSkaterLine inserts a skater line directly.
func (f *Fixtures) CreateSkaterLine(ctx context.Context, l models.SkaterLine) models.SkaterLine {
	f.t.Helper()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	l.UpdatedAt = time.Now().UTC()
	f.insert(ctx, "skater_stats", l)
	return l
}

// CreateGoalieLine inserts a goalie line directly.
func (f *Fixtures) CreateGoalieLine(ctx context.Context, l models.GoalieLine) models.GoalieLine {
	f.t.Helper()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	l.UpdatedAt = time.Now().UTC()
	f.insert(ctx, "goalie_stats", l)
	return l
}
