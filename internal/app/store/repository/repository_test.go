package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/teamstats/internal/app/store/repository"
	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/app/system/codes"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"github.com/dalemusser/teamstats/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setup(t *testing.T) (*repository.Mongo, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	return repository.New(db, nil), testutil.NewFixtures(t, db)
}

func TestMissingEntitiesAreNotFound(t *testing.T) {
	repo, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	id := primitive.NewObjectID()

	_, err := repo.GetTeam(ctx, id)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("GetTeam err = %v", err)
	}
	_, err = repo.GetGame(ctx, id)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("GetGame err = %v", err)
	}
	_, err = repo.GetPlayer(ctx, id)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("GetPlayer err = %v", err)
	}
	_, err = repo.FindTeamByJoinCode(ctx, "NOPE42")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("FindTeamByJoinCode err = %v", err)
	}
	if _, err := repo.DeleteGame(ctx, id); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("DeleteGame err = %v", err)
	}

	m, err := repo.ActiveMembership(ctx, id, id)
	if err != nil || m != nil {
		t.Errorf("ActiveMembership = %v, %v; want nil, nil", m, err)
	}
	m, err = repo.PrimaryMembership(ctx, id)
	if err != nil || m != nil {
		t.Errorf("PrimaryMembership = %v, %v; want nil, nil", m, err)
	}
}

func TestCreatePlayer_DuplicateNumberIsConflict(t *testing.T) {
	repo, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")

	if _, err := repo.CreatePlayer(ctx, models.Player{TeamID: team.ID, Name: "Ava", Number: 9, Position: models.PositionForward, IsActive: true}); err != nil {
		t.Fatalf("first: %v", err)
	}
	_, err := repo.CreatePlayer(ctx, models.Player{TeamID: team.ID, Name: "Ben", Number: 9, Position: models.PositionDefense, IsActive: true})
	if apperr.KindOf(err) != apperr.KindConflict || !errors.Is(err, apperr.Conflict(tracker.DuplicateNumberMsg)) {
		t.Errorf("err = %v, want duplicate number conflict", err)
	}
}

func TestCodeInsertsReportCollision(t *testing.T) {
	repo, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")
	staff := fx.CreateStaff(ctx, team.ID, "Sam")

	_, err := repo.CreateTeam(ctx, models.Team{Name: "Other", JoinCode: "WOLF23"})
	if !errors.Is(err, codes.ErrCollision) {
		t.Errorf("CreateTeam err = %v, want ErrCollision", err)
	}

	if _, err := repo.CreateInviteCode(ctx, team.ID, staff.ID, "ABCDEF123456"); err != nil {
		t.Fatalf("CreateInviteCode: %v", err)
	}
	_, err = repo.CreateInviteCode(ctx, team.ID, staff.ID, "ABCDEF123456")
	if !errors.Is(err, codes.ErrCollision) {
		t.Errorf("CreateInviteCode err = %v, want ErrCollision", err)
	}
}

func TestConsumeInviteCode_SingleUse(t *testing.T) {
	repo, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")
	staff := fx.CreateStaff(ctx, team.ID, "Sam")
	if _, err := repo.CreateInviteCode(ctx, team.ID, staff.ID, "INVITE000001"); err != nil {
		t.Fatalf("CreateInviteCode: %v", err)
	}

	if _, err := repo.ConsumeInviteCode(ctx, "invite000001", primitive.NewObjectID()); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	_, err := repo.ConsumeInviteCode(ctx, "INVITE000001", primitive.NewObjectID())
	if apperr.KindOf(err) != apperr.KindValidation || apperr.FieldOf(err) != "invite_code" {
		t.Errorf("second consume err = %v", err)
	}
}

func TestIncrementStat_BelowZeroIsValidation(t *testing.T) {
	repo, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")
	p := fx.CreatePlayer(ctx, team.ID, "Ava", 9, models.PositionForward)
	g := fx.CreateGame(ctx, team.ID, "2025-01-10", "Tigers", "2024-25")

	v, err := repo.IncrementStat(ctx, models.KindSkater, team.ID, g.ID, p.ID, "goals", 1)
	if err != nil || v != 1 {
		t.Fatalf("increment = %d, %v", v, err)
	}
	_, err = repo.IncrementStat(ctx, models.KindSkater, team.ID, g.ID, p.ID, "goals", -2)
	if apperr.KindOf(err) != apperr.KindValidation || apperr.FieldOf(err) != "goals" {
		t.Errorf("err = %v, want validation on goals", err)
	}
	_, err = repo.IncrementStat(ctx, models.KindSkater, team.ID, g.ID, p.ID, "saves", 1)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("unknown field err = %v", err)
	}
}

func TestWorkflowStatus_StaleFromIsWorkflowError(t *testing.T) {
	repo, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")
	g := fx.CreateGame(ctx, team.ID, "2025-01-10", "Tigers", "2024-25")

	if err := repo.UpdateGameWorkflowStatus(ctx, g.ID, models.GameDraft, models.GameFinalized); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	err := repo.UpdateGameWorkflowStatus(ctx, g.ID, models.GameDraft, models.GameFinalized)
	if apperr.KindOf(err) != apperr.KindWorkflow {
		t.Errorf("err = %v, want workflow", err)
	}
}

func TestTouchEditableGame_FinalizedGameRejectsTx(t *testing.T) {
	repo, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")
	g := fx.CreateGame(ctx, team.ID, "2025-01-10", "Tigers", "2024-25")

	if ok, err := repo.TouchEditableGame(ctx, g.ID); err != nil || !ok {
		t.Fatalf("touch draft = %v, %v", ok, err)
	}
	if err := repo.UpdateGameWorkflowStatus(ctx, g.ID, models.GameDraft, models.GameFinalized); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	locked := apperr.Workflow("game is finalized")
	err := repo.RunInTx(ctx, "save stat line", func(ctx context.Context) error {
		ok, err := repo.TouchEditableGame(ctx, g.ID)
		if err != nil {
			return err
		}
		if !ok {
			return locked
		}
		t.Error("finalized game was touched")
		return nil
	})
	if apperr.KindOf(err) != apperr.KindWorkflow {
		t.Errorf("RunInTx err = %v, want workflow", err)
	}
}

func TestDeleteTeam(t *testing.T) {
	repo, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")

	if err := repo.DeleteTeam(ctx, team.ID); err != nil {
		t.Fatalf("DeleteTeam: %v", err)
	}
	if _, err := repo.GetTeam(ctx, team.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("GetTeam after delete err = %v, want not found", err)
	}
}

func TestDeleteGame_RemovesLines(t *testing.T) {
	repo, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")
	p := fx.CreatePlayer(ctx, team.ID, "Ava", 9, models.PositionForward)
	g := fx.CreateGame(ctx, team.ID, "2025-01-10", "Tigers", "2024-25")
	keep := fx.CreateGame(ctx, team.ID, "2025-01-11", "Lions", "2024-25")
	fx.CreateSkaterLine(ctx, models.SkaterLine{TeamID: team.ID, GameID: g.ID, PlayerID: p.ID, Goals: 1})
	fx.CreateSkaterLine(ctx, models.SkaterLine{TeamID: team.ID, GameID: keep.ID, PlayerID: p.ID, Goals: 2})

	n, err := repo.DeleteGame(ctx, g.ID)
	if err != nil || n != 1 {
		t.Fatalf("DeleteGame = %d, %v", n, err)
	}
	if c, _ := repo.CountStatLines(ctx, g.ID); c != 0 {
		t.Errorf("lines left = %d", c)
	}
	if c, _ := repo.CountStatLines(ctx, keep.ID); c != 1 {
		t.Errorf("other game's lines = %d, want 1", c)
	}
}

func TestListActivePlayers_PositionFilter(t *testing.T) {
	repo, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	team := fx.CreateTeam(ctx, "Wolves", "WOLF23", "2024-25")
	fx.CreatePlayer(ctx, team.ID, "Ava", 9, models.PositionForward)
	fx.CreatePlayer(ctx, team.ID, "Ben", 4, models.PositionDefense)
	fx.CreatePlayer(ctx, team.ID, "Cal", 31, models.PositionGoalie)

	tests := []struct {
		filter tracker.PositionFilter
		want   int
	}{
		{tracker.AllPositions, 3},
		{tracker.SkatersOnly, 2},
		{tracker.GoaliesOnly, 1},
	}
	for _, tt := range tests {
		ps, err := repo.ListActivePlayers(ctx, team.ID, tt.filter)
		if err != nil {
			t.Fatalf("ListActivePlayers(%d): %v", tt.filter, err)
		}
		if len(ps) != tt.want {
			t.Errorf("filter %d: got %d players, want %d", tt.filter, len(ps), tt.want)
		}
	}
}

// The service runs end to end against Mongo.
func TestServiceAgainstMongo(t *testing.T) {
	repo, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	founder := fx.CreateUser(ctx, "Founder")

	svc := tracker.New(repo, nil, nil, nil, tracker.Config{})
	team, err := svc.CreateTeam(ctx, founder.ID, tracker.TeamInput{Name: "Wolves"})
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}

	res, err := svc.Signup(ctx, tracker.SignupInput{DisplayName: "Jo", JoinCode: team.JoinCode})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if res.Membership.Role != models.RoleViewer {
		t.Errorf("role = %q", res.Membership.Role)
	}

	_, err = svc.CreatePlayer(ctx, res.User.ID, team.ID, tracker.PlayerInput{Name: "Ava", Number: 9, Position: "F"})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("viewer CreatePlayer err = %v", err)
	}
	if _, err := svc.Promote(ctx, founder.ID, team.ID, res.User.ID); err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if _, err := svc.CreatePlayer(ctx, res.User.ID, team.ID, tracker.PlayerInput{Name: "Ava", Number: 9, Position: "F"}); err != nil {
		t.Errorf("promoted CreatePlayer: %v", err)
	}
}
