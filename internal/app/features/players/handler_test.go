package players_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/teamstats/internal/app/features/players"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"github.com/dalemusser/teamstats/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type env struct {
	router http.Handler
	team   models.Team
	staff  models.User
	viewer models.User
	base   string
}

func newEnv(t *testing.T) (*env, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	h := players.NewHandler(testutil.NewTracker(t, db), zap.NewNop())
	r := chi.NewRouter()
	r.Route("/teams", func(tr chi.Router) { players.MountRoutes(tr, h) })

	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")
	return &env{
		router: r,
		team:   team,
		staff:  fx.CreateStaff(ctx, team.ID, "Sam"),
		viewer: fx.CreateViewer(ctx, team.ID, "Val"),
		base:   "/teams/" + team.ID.Hex() + "/players",
	}, fx
}

func (e *env) do(req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndList(t *testing.T) {
	e, _ := newEnv(t)

	rec := e.do(testutil.NewAuthenticatedRequest(t, "POST", e.base, e.staff.ID,
		map[string]any{"name": "Ava Chen", "number": 9, "position": "forward"}))
	rec.AssertStatus(t, http.StatusCreated)
	var ava models.Player
	rec.DecodeJSON(t, &ava)
	if ava.Position != models.PositionForward || !ava.IsActive {
		t.Errorf("created = %+v", ava)
	}

	rec = e.do(testutil.NewAuthenticatedRequest(t, "POST", e.base, e.staff.ID,
		map[string]any{"name": "Ben Ortiz", "number": 9, "position": "Defense"}))
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, tracker.DuplicateNumberMsg)

	rec = e.do(testutil.NewAuthenticatedRequest(t, "POST", e.base, e.staff.ID,
		map[string]any{"name": "Ben Ortiz", "number": 0, "position": "Defense"}))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	rec = e.do(testutil.NewAuthenticatedRequest(t, "POST", e.base, e.viewer.ID,
		map[string]any{"name": "Ben Ortiz", "number": 4, "position": "Defense"}))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = e.do(testutil.WithUser(testutil.NewRequest("GET", e.base), e.viewer.ID))
	rec.AssertStatus(t, http.StatusOK)
	var body struct {
		Players []models.Player `json:"players"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Players) != 1 || body.Players[0].ID != ava.ID {
		t.Errorf("roster = %+v", body.Players)
	}
}

func TestUpdate_DeactivateHidesFromDefaultList(t *testing.T) {
	e, fx := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ava := fx.CreatePlayer(ctx, e.team.ID, "Ava Chen", 9, models.PositionForward)

	rec := e.do(testutil.NewAuthenticatedRequest(t, "PUT", e.base+"/"+ava.ID.Hex(), e.staff.ID,
		map[string]any{"name": "Ava Chen", "number": 19, "position": "Forward", "is_active": false}))
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Players []models.Player `json:"players"`
	}
	rec = e.do(testutil.WithUser(testutil.NewRequest("GET", e.base), e.staff.ID))
	rec.DecodeJSON(t, &body)
	if len(body.Players) != 0 {
		t.Errorf("active roster = %+v, want empty", body.Players)
	}

	rec = e.do(testutil.WithUser(testutil.NewRequest("GET", e.base+"?inactive=true"), e.staff.ID))
	rec.DecodeJSON(t, &body)
	if len(body.Players) != 1 || body.Players[0].Number != 19 || body.Players[0].IsActive {
		t.Errorf("full roster = %+v", body.Players)
	}

	rec = e.do(testutil.NewAuthenticatedRequest(t, "PUT", e.base+"/"+primitive.NewObjectID().Hex(), e.staff.ID,
		map[string]any{"name": "Nobody", "number": 20, "position": "Forward"}))
	rec.AssertStatus(t, http.StatusNotFound)
}

func csvRequest(t *testing.T, url string, userID primitive.ObjectID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest("POST", url, strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	return testutil.WithUser(req, userID)
}

func multipartRequest(t *testing.T, url string, userID primitive.ObjectID, field, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "roster.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte(body)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest("POST", url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithUser(req, userID)
}

func TestImport(t *testing.T) {
	e, fx := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreatePlayer(ctx, e.team.ID, "Cal Moss", 31, models.PositionGoalie)
	url := e.base + "/import"

	roster := "Name,Number,Position\nAva Chen,9,Forward\nBen Ortiz,4,Defense\nCal Two,31,Goalie\n"

	rec := e.do(csvRequest(t, url, e.viewer.ID, roster))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = e.do(csvRequest(t, url, e.staff.ID, roster))
	rec.AssertStatus(t, http.StatusOK)
	var res tracker.ImportResult
	rec.DecodeJSON(t, &res)
	if len(res.Created) != 2 || len(res.Skipped) != 1 || res.Skipped[0].Line != 4 {
		t.Errorf("import = %+v", res)
	}

	rec = e.do(multipartRequest(t, url, e.staff.ID, "file", "Dee Park,12,F\n"))
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &res)
	if len(res.Created) != 1 || res.Created[0].Number != 12 {
		t.Errorf("multipart import = %+v", res)
	}
}

func TestImport_Rejected(t *testing.T) {
	e, _ := newEnv(t)
	url := e.base + "/import"

	tests := []struct {
		name     string
		req      func() *http.Request
		contains string
	}{
		{"bad row", func() *http.Request { return csvRequest(t, url, e.staff.ID, "Ava,9,Wing\n") }, "invalid position"},
		{"empty", func() *http.Request { return csvRequest(t, url, e.staff.ID, "Name,Number,Position\n") }, "no players"},
		{"wrong part", func() *http.Request { return multipartRequest(t, url, e.staff.ID, "csv", "Ava,9,F\n") }, "CSV file is required"},
		{"json body", func() *http.Request {
			return testutil.NewAuthenticatedRequest(t, "POST", url, e.staff.ID, map[string]string{"name": "Ava"})
		}, "text/csv"},
		{"too large", func() *http.Request {
			return csvRequest(t, url, e.staff.ID, "Ava " + strings.Repeat("x", 1<<20+1) + ",9,Forward\n")
		}, "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(tt.req())
			rec.AssertStatus(t, http.StatusUnprocessableEntity)
			rec.AssertContains(t, tt.contains)
		})
	}
}

// countingBody records whether the handler read any of the upload.
type countingBody struct {
	r    io.Reader
	read int
}

func (b *countingBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.read += n
	return n, err
}

func TestImport_ViewerRefusedBeforeUploadIsRead(t *testing.T) {
	e, _ := newEnv(t)
	url := e.base + "/import"

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"oversized multipart", "multipart/form-data; boundary=xyz", "--xyz\r\nContent-Disposition: form-data; name=\"file\"; filename=\"r.csv\"\r\n\r\n" + strings.Repeat("A,1,F\n", 1<<18)},
		{"garbage multipart", "multipart/form-data; boundary=xyz", "not a multipart body at all"},
		{"csv", "text/csv", "Ava,9,Forward\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &countingBody{r: strings.NewReader(tt.body)}
			req := httptest.NewRequest("POST", url, body)
			req.Header.Set("Content-Type", tt.contentType)
			rec := e.do(testutil.WithUser(req, e.viewer.ID))
			rec.AssertStatus(t, http.StatusForbidden)
			if body.read != 0 {
				t.Errorf("read %d bytes of an upload the caller may not make", body.read)
			}
		})
	}
}
