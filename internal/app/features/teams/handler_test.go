package teams_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/teamstats/internal/app/features/teams"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"github.com/dalemusser/teamstats/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newRouter(t *testing.T, fx *testutil.Fixtures) http.Handler {
	t.Helper()
	h := teams.NewHandler(testutil.NewTracker(t, fx.DB()), zap.NewNop())
	r := chi.NewRouter()
	r.Route("/teams", func(tr chi.Router) { teams.MountRoutes(tr, h) })
	return r
}

func TestHandleCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, fx)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := fx.CreateUser(ctx, "Sam")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, "POST", "/teams", user.ID,
		map[string]string{"name": "  Wolves  ", "season_label": "2024-25"}))
	rec.AssertStatus(t, http.StatusCreated)

	var team models.Team
	rec.DecodeJSON(t, &team)
	if team.Name != "Wolves" || team.SeasonLabel != "2024-25" {
		t.Errorf("team = %+v", team)
	}
	if len(team.JoinCode) == 0 {
		t.Error("creator should see the join code")
	}

	// The creator is staff and can read the team back.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/teams/"+team.ID.Hex()), user.ID))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, team.JoinCode)
}

func TestHandleCreate_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, fx)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := fx.CreateUser(ctx, "Sam")

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"signed out", testutil.NewJSONRequest(t, "POST", "/teams", map[string]string{"name": "Wolves"}), http.StatusUnauthorized},
		{"missing name", testutil.NewAuthenticatedRequest(t, "POST", "/teams", user.ID, map[string]string{"name": " "}), http.StatusUnprocessableEntity},
		{"unknown field", testutil.NewAuthenticatedRequest(t, "POST", "/teams", user.ID, map[string]string{"nme": "Wolves"}), http.StatusUnprocessableEntity},
		{"no body", testutil.WithUser(testutil.NewRequest("POST", "/teams"), user.ID), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, tt.req)
			rec.AssertStatus(t, tt.want)
		})
	}
}

func TestServeTeam_Access(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, fx)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")
	staff := fx.CreateStaff(ctx, team.ID, "Sam")
	viewer := fx.CreateViewer(ctx, team.ID, "Val")
	outsider := fx.CreateUser(ctx, "Oz")

	tests := []struct {
		name     string
		userID   primitive.ObjectID
		path     string
		want     int
		joinCode bool
	}{
		{"staff", staff.ID, "/teams/" + team.ID.Hex(), http.StatusOK, true},
		{"viewer", viewer.ID, "/teams/" + team.ID.Hex(), http.StatusOK, false},
		{"outsider", outsider.ID, "/teams/" + team.ID.Hex(), http.StatusForbidden, false},
		{"missing team", staff.ID, "/teams/" + primitive.NewObjectID().Hex(), http.StatusForbidden, false},
		{"malformed id", staff.ID, "/teams/not-an-id", http.StatusForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", tt.path), tt.userID))
			rec.AssertStatus(t, tt.want)
			if tt.want != http.StatusOK {
				return
			}
			var got models.Team
			rec.DecodeJSON(t, &got)
			if (got.JoinCode != "") != tt.joinCode {
				t.Errorf("join code = %q, want shown=%v", got.JoinCode, tt.joinCode)
			}
		})
	}
}

func TestSeasons(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	router := newRouter(t, fx)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")
	staff := fx.CreateStaff(ctx, team.ID, "Sam")
	viewer := fx.CreateViewer(ctx, team.ID, "Val")
	fx.CreateGame(ctx, team.ID, "2023-11-02", "Tigers", "2023-24")
	base := "/teams/" + team.ID.Hex()

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, "PUT", base+"/season", viewer.ID,
		map[string]string{"season_label": "2025-26"}))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, "PUT", base+"/season", staff.ID,
		map[string]string{"season_label": "2025-26"}))
	rec.AssertStatus(t, http.StatusOK)
	var got models.Team
	rec.DecodeJSON(t, &got)
	if got.SeasonLabel != "2025-26" {
		t.Errorf("season = %q, want 2025-26", got.SeasonLabel)
	}

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", base+"/seasons"), viewer.ID))
	rec.AssertStatus(t, http.StatusOK)
	var body struct {
		Seasons []string `json:"seasons"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Seasons) != 2 || body.Seasons[0] != "2023-24" || body.Seasons[1] != "2025-26" {
		t.Errorf("seasons = %v", body.Seasons)
	}
}
