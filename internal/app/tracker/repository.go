package tracker

import (
	"context"

	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PositionFilter narrows an active-roster lookup.
type PositionFilter int

const (
	AllPositions PositionFilter = iota
	SkatersOnly
	GoaliesOnly
)

// Repository is the store the tracker drives. Implementations return
// *apperr.Error values: NotFound for a missing entity, Conflict for
// uniqueness violations ("duplicate number"), Store for backend failures.
// Code inserts (CreateTeam, CreateInviteCode) report a taken code with
// codes.ErrCollision so generation can retry.
type Repository interface {
	// ActiveMembership returns the user's active membership on teamID, or
	// nil with no error when there is none.
	ActiveMembership(ctx context.Context, userID, teamID primitive.ObjectID) (*models.Membership, error)
	// PrimaryMembership returns the user's oldest active membership, or nil.
	PrimaryMembership(ctx context.Context, userID primitive.ObjectID) (*models.Membership, error)
	CreateMembership(ctx context.Context, teamID, userID primitive.ObjectID, role string) (*models.Membership, error)
	ListMembers(ctx context.Context, teamID primitive.ObjectID) ([]models.Membership, error)
	PromoteMember(ctx context.Context, teamID, userID primitive.ObjectID) (*models.Membership, error)

	GetTeam(ctx context.Context, teamID primitive.ObjectID) (*models.Team, error)
	CreateTeam(ctx context.Context, t models.Team) (*models.Team, error)
	// DeleteTeam removes a team; used to undo a half-finished creation.
	DeleteTeam(ctx context.Context, teamID primitive.ObjectID) error
	UpdateTeamSeason(ctx context.Context, teamID primitive.ObjectID, season string) error
	FindTeamByJoinCode(ctx context.Context, code string) (*models.Team, error)

	// ListGameIDsForSeason returns the ids of the team's games in season;
	// an empty season means every season.
	ListGameIDsForSeason(ctx context.Context, teamID primitive.ObjectID, season string) ([]primitive.ObjectID, error)
	ListGames(ctx context.Context, teamID primitive.ObjectID, season string) ([]models.Game, error)
	GetGame(ctx context.Context, gameID primitive.ObjectID) (*models.Game, error)
	CreateGame(ctx context.Context, g models.Game) (*models.Game, error)
	UpdateGame(ctx context.Context, g models.Game) (*models.Game, error)
	// DeleteGame removes the game and its stat lines together and returns
	// the number of lines removed.
	DeleteGame(ctx context.Context, gameID primitive.ObjectID) (int64, error)
	// UpdateGameWorkflowStatus applies from -> to only while the stored
	// status is still from.
	UpdateGameWorkflowStatus(ctx context.Context, gameID primitive.ObjectID, from, to string) error
	// TouchEditableGame stamps a game that is not finalized and reports
	// whether it did. Stat writes call it in the same transaction so a
	// concurrent finalize cannot slip between the lock check and the write.
	TouchEditableGame(ctx context.Context, gameID primitive.ObjectID) (bool, error)
	ListSeasons(ctx context.Context, teamID primitive.ObjectID) ([]string, error)

	ListActivePlayers(ctx context.Context, teamID primitive.ObjectID, filter PositionFilter) ([]models.Player, error)
	ListPlayers(ctx context.Context, teamID primitive.ObjectID) ([]models.Player, error)
	GetPlayer(ctx context.Context, playerID primitive.ObjectID) (*models.Player, error)
	CreatePlayer(ctx context.Context, p models.Player) (*models.Player, error)
	UpdatePlayer(ctx context.Context, p models.Player) (*models.Player, error)
	ActiveNumberTaken(ctx context.Context, teamID primitive.ObjectID, number int, exceptID primitive.ObjectID) (bool, error)

	ListSkaterLines(ctx context.Context, gameIDs []primitive.ObjectID) ([]models.SkaterLine, error)
	ListGoalieLines(ctx context.Context, gameIDs []primitive.ObjectID) ([]models.GoalieLine, error)
	UpsertSkaterLine(ctx context.Context, l models.SkaterLine) (*models.SkaterLine, error)
	UpsertGoalieLine(ctx context.Context, l models.GoalieLine) (*models.GoalieLine, error)
	// IncrementStat atomically adds delta to one counter and returns the new
	// value. It fails with a validation error when the counter would drop
	// below zero.
	IncrementStat(ctx context.Context, kind string, teamID, gameID, playerID primitive.ObjectID, field string, delta int) (int, error)
	CountStatLines(ctx context.Context, gameID primitive.ObjectID) (int64, error)

	CreateInviteCode(ctx context.Context, teamID, createdBy primitive.ObjectID, code string) (*models.InviteCode, error)
	// ConsumeInviteCode marks an unused code as used. Unknown and used codes
	// fail alike with a validation error.
	ConsumeInviteCode(ctx context.Context, code string, userID primitive.ObjectID) (*models.InviteCode, error)

	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	GetUsers(ctx context.Context, userIDs []primitive.ObjectID) ([]models.User, error)

	AppendAudit(ctx context.Context, e *models.AuditEntry) error
	// ListAudit returns up to limit entries older than before (zero = newest).
	ListAudit(ctx context.Context, teamID, before primitive.ObjectID, limit int) ([]models.AuditEntry, error)

	// RunInTx runs fn so that its writes commit together where the backend
	// supports it.
	RunInTx(ctx context.Context, op string, fn func(ctx context.Context) error) error
}
