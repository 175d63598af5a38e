package auditlog_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/dalemusser/teamstats/internal/app/features/auditlog"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"github.com/dalemusser/teamstats/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func TestServeList_Paging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	svc := testutil.NewTracker(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	h := auditlog.NewHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Route("/teams", func(tr chi.Router) { auditlog.MountRoutes(tr, h) })

	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")
	staff := fx.CreateStaff(ctx, team.ID, "Sam")
	viewer := fx.CreateViewer(ctx, team.ID, "Val")
	for i := 1; i <= 5; i++ {
		in := tracker.PlayerInput{Name: fmt.Sprintf("Player %d", i), Number: i, Position: models.PositionForward}
		if _, err := svc.CreatePlayer(ctx, staff.ID, team.ID, in); err != nil {
			t.Fatalf("CreatePlayer %d: %v", i, err)
		}
	}
	base := "/teams/" + team.ID.Hex() + "/audit"

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", base), viewer.ID))
	rec.AssertStatus(t, http.StatusForbidden)

	seen := map[string]bool{}
	url := base + "?limit=2"
	for pages := 0; ; pages++ {
		if pages > 3 {
			t.Fatal("paging did not terminate")
		}
		rec := testutil.NewRecorder()
		r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", url), staff.ID))
		rec.AssertStatus(t, http.StatusOK)

		var page tracker.AuditPage
		rec.DecodeJSON(t, &page)
		if len(page.Entries) > 2 {
			t.Fatalf("page has %d entries, limit 2", len(page.Entries))
		}
		for i, e := range page.Entries {
			if seen[e.ID.Hex()] {
				t.Errorf("entry %s repeated across pages", e.ID.Hex())
			}
			seen[e.ID.Hex()] = true
			if i > 0 && e.ID.Hex() > page.Entries[i-1].ID.Hex() {
				t.Error("entries not newest first")
			}
		}
		if page.NextCursor == "" {
			break
		}
		url = base + "?limit=2&before=" + page.NextCursor
	}
	if len(seen) != 5 {
		t.Errorf("saw %d entries, want 5", len(seen))
	}
}
