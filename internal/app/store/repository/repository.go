// internal/app/store/repository/repository.go

// Package repository backs the tracker with the Mongo stores. It owns the
// translation from driver and store errors to apperr kinds so the tracker
// never sees a raw mongo error.
package repository

import (
	"context"
	"errors"

	"github.com/dalemusser/teamstats/internal/app/store/audit"
	gamestore "github.com/dalemusser/teamstats/internal/app/store/games"
	invitestore "github.com/dalemusser/teamstats/internal/app/store/invites"
	membershipstore "github.com/dalemusser/teamstats/internal/app/store/memberships"
	playerstore "github.com/dalemusser/teamstats/internal/app/store/players"
	statlinestore "github.com/dalemusser/teamstats/internal/app/store/statlines"
	teamstore "github.com/dalemusser/teamstats/internal/app/store/teams"
	userstore "github.com/dalemusser/teamstats/internal/app/store/users"
	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/app/system/auditlog"
	"github.com/dalemusser/teamstats/internal/app/system/codes"
	"github.com/dalemusser/teamstats/internal/app/system/txn"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// StaleStatusMsg is returned when a workflow transition lost a race.
const StaleStatusMsg = "game status changed; reload and try again"

// Mongo implements tracker.Repository and auditlog.Sink.
type Mongo struct {
	client *mongo.Client
	log    *zap.Logger

	teams       *teamstore.Store
	users       *userstore.Store
	players     *playerstore.Store
	games       *gamestore.Store
	lines       *statlinestore.Store
	memberships *membershipstore.Store
	invites     *invitestore.Store
	audit       *audit.Store
}

var (
	_ tracker.Repository = (*Mongo)(nil)
	_ auditlog.Sink      = (*Mongo)(nil)
)

// New wires every store to db.
func New(db *mongo.Database, log *zap.Logger) *Mongo {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mongo{
		client:      db.Client(),
		log:         log,
		teams:       teamstore.New(db),
		users:       userstore.New(db),
		players:     playerstore.New(db),
		games:       gamestore.New(db),
		lines:       statlinestore.New(db),
		memberships: membershipstore.New(db),
		invites:     invitestore.New(db),
		audit:       audit.New(db),
	}
}

// wrap classifies a backend error. Errors that already carry a kind pass
// through unchanged.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Store(op, err)
}

// lookup maps a missing document to NotFound(entity).
func lookup(entity, op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(entity)
	}
	return wrap(op, err)
}

// --- Memberships ---

func (r *Mongo) ActiveMembership(ctx context.Context, userID, teamID primitive.ObjectID) (*models.Membership, error) {
	m, err := r.memberships.Active(ctx, userID, teamID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("load membership", err)
	}
	return &m, nil
}

func (r *Mongo) PrimaryMembership(ctx context.Context, userID primitive.ObjectID) (*models.Membership, error) {
	m, err := r.memberships.Primary(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("load membership", err)
	}
	return &m, nil
}

func (r *Mongo) CreateMembership(ctx context.Context, teamID, userID primitive.ObjectID, role string) (*models.Membership, error) {
	m, err := r.memberships.Create(ctx, teamID, userID, role)
	if errors.Is(err, membershipstore.ErrDuplicateMembership) {
		return nil, apperr.Conflict("already a member of this team")
	}
	if err != nil {
		return nil, wrap("create membership", err)
	}
	return &m, nil
}

func (r *Mongo) ListMembers(ctx context.Context, teamID primitive.ObjectID) ([]models.Membership, error) {
	ms, err := r.memberships.ListByTeam(ctx, teamID)
	return ms, wrap("list members", err)
}

func (r *Mongo) PromoteMember(ctx context.Context, teamID, userID primitive.ObjectID) (*models.Membership, error) {
	m, err := r.memberships.Promote(ctx, teamID, userID)
	if errors.Is(err, membershipstore.ErrNotViewer) {
		return nil, apperr.NotFound("member")
	}
	if err != nil {
		return nil, wrap("promote member", err)
	}
	return &m, nil
}

// --- Teams ---

func (r *Mongo) GetTeam(ctx context.Context, teamID primitive.ObjectID) (*models.Team, error) {
	t, err := r.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, lookup("team", "load team", err)
	}
	return &t, nil
}

func (r *Mongo) CreateTeam(ctx context.Context, t models.Team) (*models.Team, error) {
	created, err := r.teams.Create(ctx, t)
	if errors.Is(err, teamstore.ErrDuplicateJoinCode) {
		return nil, codes.ErrCollision
	}
	if err != nil {
		return nil, wrap("create team", err)
	}
	return &created, nil
}

func (r *Mongo) DeleteTeam(ctx context.Context, teamID primitive.ObjectID) error {
	return wrap("delete team", r.teams.Delete(ctx, teamID))
}

func (r *Mongo) UpdateTeamSeason(ctx context.Context, teamID primitive.ObjectID, season string) error {
	return lookup("team", "update season", r.teams.UpdateSeason(ctx, teamID, season))
}

func (r *Mongo) FindTeamByJoinCode(ctx context.Context, code string) (*models.Team, error) {
	t, err := r.teams.GetByJoinCode(ctx, code)
	if err != nil {
		return nil, lookup("team", "find team", err)
	}
	return &t, nil
}

// --- Games ---

func (r *Mongo) ListGameIDsForSeason(ctx context.Context, teamID primitive.ObjectID, season string) ([]primitive.ObjectID, error) {
	ids, err := r.games.ListIDs(ctx, teamID, season)
	return ids, wrap("list games", err)
}

func (r *Mongo) ListGames(ctx context.Context, teamID primitive.ObjectID, season string) ([]models.Game, error) {
	gs, err := r.games.List(ctx, teamID, season)
	return gs, wrap("list games", err)
}

func (r *Mongo) GetGame(ctx context.Context, gameID primitive.ObjectID) (*models.Game, error) {
	g, err := r.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, lookup("game", "load game", err)
	}
	return &g, nil
}

func (r *Mongo) CreateGame(ctx context.Context, g models.Game) (*models.Game, error) {
	created, err := r.games.Create(ctx, g)
	if err != nil {
		return nil, wrap("create game", err)
	}
	return &created, nil
}

func (r *Mongo) UpdateGame(ctx context.Context, g models.Game) (*models.Game, error) {
	updated, err := r.games.UpdateInfo(ctx, g)
	if err != nil {
		return nil, lookup("game", "update game", err)
	}
	return &updated, nil
}

// DeleteGame removes the lines and then the game in one transaction.
func (r *Mongo) DeleteGame(ctx context.Context, gameID primitive.ObjectID) (int64, error) {
	var removed int64
	err := txn.Run(ctx, r.client, r.log, "delete game", func(ctx context.Context) error {
		n, err := r.lines.DeleteByGame(ctx, gameID)
		if err != nil {
			return err
		}
		deleted, err := r.games.Delete(ctx, gameID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return apperr.NotFound("game")
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, wrap("delete game", err)
	}
	return removed, nil
}

func (r *Mongo) UpdateGameWorkflowStatus(ctx context.Context, gameID primitive.ObjectID, from, to string) error {
	err := r.games.SetStatus(ctx, gameID, from, to)
	if errors.Is(err, gamestore.ErrStatusChanged) {
		return apperr.Workflow(StaleStatusMsg)
	}
	return wrap("update game status", err)
}

func (r *Mongo) TouchEditableGame(ctx context.Context, gameID primitive.ObjectID) (bool, error) {
	ok, err := r.games.TouchEditable(ctx, gameID)
	return ok, wrap("touch game", err)
}

func (r *Mongo) ListSeasons(ctx context.Context, teamID primitive.ObjectID) ([]string, error) {
	ss, err := r.games.Seasons(ctx, teamID)
	return ss, wrap("list seasons", err)
}

// --- Players ---

func (r *Mongo) ListActivePlayers(ctx context.Context, teamID primitive.ObjectID, filter tracker.PositionFilter) ([]models.Player, error) {
	q := playerstore.Query{TeamID: teamID, ActiveOnly: true}
	switch filter {
	case tracker.SkatersOnly:
		q.Positions = []string{models.PositionForward, models.PositionDefense}
	case tracker.GoaliesOnly:
		q.Positions = []string{models.PositionGoalie}
	}
	ps, err := r.players.List(ctx, q)
	return ps, wrap("list players", err)
}

func (r *Mongo) ListPlayers(ctx context.Context, teamID primitive.ObjectID) ([]models.Player, error) {
	ps, err := r.players.List(ctx, playerstore.Query{TeamID: teamID})
	return ps, wrap("list players", err)
}

func (r *Mongo) GetPlayer(ctx context.Context, playerID primitive.ObjectID) (*models.Player, error) {
	p, err := r.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, lookup("player", "load player", err)
	}
	return &p, nil
}

func (r *Mongo) CreatePlayer(ctx context.Context, p models.Player) (*models.Player, error) {
	created, err := r.players.Create(ctx, p)
	if errors.Is(err, playerstore.ErrDuplicateNumber) {
		return nil, apperr.Conflict(tracker.DuplicateNumberMsg)
	}
	if err != nil {
		return nil, wrap("create player", err)
	}
	return &created, nil
}

func (r *Mongo) UpdatePlayer(ctx context.Context, p models.Player) (*models.Player, error) {
	updated, err := r.players.Update(ctx, p)
	if errors.Is(err, playerstore.ErrDuplicateNumber) {
		return nil, apperr.Conflict(tracker.DuplicateNumberMsg)
	}
	if err != nil {
		return nil, lookup("player", "update player", err)
	}
	return &updated, nil
}

func (r *Mongo) ActiveNumberTaken(ctx context.Context, teamID primitive.ObjectID, number int, exceptID primitive.ObjectID) (bool, error) {
	taken, err := r.players.NumberTaken(ctx, teamID, number, exceptID)
	return taken, wrap("check number", err)
}

// --- Stat lines ---

func (r *Mongo) ListSkaterLines(ctx context.Context, gameIDs []primitive.ObjectID) ([]models.SkaterLine, error) {
	ls, err := r.lines.ListSkater(ctx, gameIDs)
	return ls, wrap("list skater lines", err)
}

func (r *Mongo) ListGoalieLines(ctx context.Context, gameIDs []primitive.ObjectID) ([]models.GoalieLine, error) {
	ls, err := r.lines.ListGoalie(ctx, gameIDs)
	return ls, wrap("list goalie lines", err)
}

func (r *Mongo) UpsertSkaterLine(ctx context.Context, l models.SkaterLine) (*models.SkaterLine, error) {
	saved, err := r.lines.UpsertSkater(ctx, l)
	if err != nil {
		return nil, wrap("save skater line", err)
	}
	return &saved, nil
}

func (r *Mongo) UpsertGoalieLine(ctx context.Context, l models.GoalieLine) (*models.GoalieLine, error) {
	saved, err := r.lines.UpsertGoalie(ctx, l)
	if err != nil {
		return nil, wrap("save goalie line", err)
	}
	return &saved, nil
}

func (r *Mongo) IncrementStat(ctx context.Context, kind string, teamID, gameID, playerID primitive.ObjectID, field string, delta int) (int, error) {
	v, err := r.lines.Increment(ctx, kind, teamID, gameID, playerID, field, delta)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, statlinestore.ErrBelowZero):
		return 0, apperr.Validation(field, statlinestore.ErrBelowZero.Error())
	case errors.Is(err, statlinestore.ErrUnknownField):
		return 0, apperr.Validation("field", "not a "+kind+" stat: "+field)
	case errors.Is(err, statlinestore.ErrUnknownKind):
		return 0, apperr.Validation("kind", "unknown stat kind: "+kind)
	}
	return 0, wrap("increment stat", err)
}

func (r *Mongo) CountStatLines(ctx context.Context, gameID primitive.ObjectID) (int64, error) {
	n, err := r.lines.CountByGame(ctx, gameID)
	return n, wrap("count stat lines", err)
}

// --- Invites ---

func (r *Mongo) CreateInviteCode(ctx context.Context, teamID, createdBy primitive.ObjectID, code string) (*models.InviteCode, error) {
	ic, err := r.invites.Create(ctx, teamID, createdBy, code)
	if errors.Is(err, invitestore.ErrDuplicateCode) {
		return nil, codes.ErrCollision
	}
	if err != nil {
		return nil, wrap("create invite", err)
	}
	return &ic, nil
}

func (r *Mongo) ConsumeInviteCode(ctx context.Context, code string, userID primitive.ObjectID) (*models.InviteCode, error) {
	ic, err := r.invites.Consume(ctx, code, userID)
	if errors.Is(err, invitestore.ErrInvalidCode) {
		return nil, apperr.Validation("invite_code", invitestore.ErrInvalidCode.Error())
	}
	if err != nil {
		return nil, wrap("consume invite", err)
	}
	return &ic, nil
}

// --- Users ---

func (r *Mongo) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	created, err := r.users.Create(ctx, u)
	if err != nil {
		return nil, wrap("create user", err)
	}
	return &created, nil
}

func (r *Mongo) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookup("user", "load user", err)
	}
	return &u, nil
}

func (r *Mongo) GetUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.User, error) {
	us, err := r.users.GetMany(ctx, userIDs)
	return us, wrap("load users", err)
}

// --- Audit ---

// AppendAudit stores e and writes the assigned ID back.
func (r *Mongo) AppendAudit(ctx context.Context, e *models.AuditEntry) error {
	saved, err := r.audit.Append(ctx, *e)
	if err != nil {
		return wrap("append audit", err)
	}
	*e = saved
	return nil
}

func (r *Mongo) ListAudit(ctx context.Context, teamID, before primitive.ObjectID, limit int) ([]models.AuditEntry, error) {
	es, err := r.audit.ListByTeam(ctx, teamID, before, int64(limit))
	return es, wrap("list audit", err)
}

// RunInTx runs fn in a Mongo transaction, or sequentially on a standalone
// server.
func (r *Mongo) RunInTx(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return wrap(op, txn.Run(ctx, r.client, r.log, op, fn))
}
