package tracker_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/app/system/codes"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type lineKey struct{ game, player primitive.ObjectID }

// memRepo is an in-memory tracker.Repository with the same error contract
// as the Mongo adapter.
type memRepo struct {
	mu         sync.Mutex
	teams      map[primitive.ObjectID]models.Team
	players    map[primitive.ObjectID]models.Player
	games      map[primitive.ObjectID]models.Game
	members    []models.Membership
	skaters    map[lineKey]models.SkaterLine
	goalies    map[lineKey]models.GoalieLine
	invites    map[string]models.InviteCode
	users      map[primitive.ObjectID]models.User
	audit      []models.AuditEntry
	writes     int
	failOn     string
	collide    int // upcoming code inserts that report a collision
	// beforeTouch runs just before TouchEditableGame checks the game.
	beforeTouch func()
}

var _ tracker.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		teams:   map[primitive.ObjectID]models.Team{},
		players: map[primitive.ObjectID]models.Player{},
		games:   map[primitive.ObjectID]models.Game{},
		skaters: map[lineKey]models.SkaterLine{},
		goalies: map[lineKey]models.GoalieLine{},
		invites: map[string]models.InviteCode{},
		users:   map[primitive.ObjectID]models.User{},
	}
}

func (r *memRepo) write() { r.writes++ }

func (r *memRepo) ActiveMembership(_ context.Context, userID, teamID primitive.ObjectID) (*models.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.UserID == userID && m.TeamID == teamID && m.IsActive {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) PrimaryMembership(_ context.Context, userID primitive.ObjectID) (*models.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.UserID == userID && m.IsActive {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) CreateMembership(_ context.Context, teamID, userID primitive.ObjectID, role string) (*models.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "CreateMembership" {
		return nil, apperr.Store("create membership", errors.New("connection reset"))
	}
	for _, m := range r.members {
		if m.UserID == userID && m.TeamID == teamID {
			return nil, apperr.Conflict("already a member of this team")
		}
	}
	r.write()
	m := models.Membership{ID: primitive.NewObjectID(), TeamID: teamID, UserID: userID, Role: role, IsActive: true, CreatedAt: time.Now()}
	r.members = append(r.members, m)
	return &m, nil
}

func (r *memRepo) ListMembers(_ context.Context, teamID primitive.ObjectID) ([]models.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Membership{}
	for _, m := range r.members {
		if m.TeamID == teamID && m.IsActive {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memRepo) PromoteMember(_ context.Context, teamID, userID primitive.ObjectID) (*models.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.members {
		if m.UserID == userID && m.TeamID == teamID && m.IsActive && m.Role == models.RoleViewer {
			r.write()
			r.members[i].Role = models.RoleStaff
			cp := r.members[i]
			return &cp, nil
		}
	}
	return nil, apperr.Conflict("member is not an active viewer")
}

func (r *memRepo) GetTeam(_ context.Context, teamID primitive.ObjectID) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok {
		return nil, apperr.NotFound("team")
	}
	return &t, nil
}

func (r *memRepo) CreateTeam(_ context.Context, t models.Team) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.collide > 0 {
		r.collide--
		return nil, codes.ErrCollision
	}
	for _, o := range r.teams {
		if o.JoinCode == t.JoinCode {
			return nil, codes.ErrCollision
		}
	}
	r.write()
	t.ID = primitive.NewObjectID()
	r.teams[t.ID] = t
	return &t, nil
}

func (r *memRepo) DeleteTeam(_ context.Context, teamID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write()
	delete(r.teams, teamID)
	return nil
}

func (r *memRepo) UpdateTeamSeason(_ context.Context, teamID primitive.ObjectID, season string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok {
		return apperr.NotFound("team")
	}
	r.write()
	t.SeasonLabel = season
	r.teams[teamID] = t
	return nil
}

func (r *memRepo) FindTeamByJoinCode(_ context.Context, code string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.JoinCode == code {
			cp := t
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("team")
}

func (r *memRepo) gamesFor(teamID primitive.ObjectID, season string) []models.Game {
	out := []models.Game{}
	for _, g := range r.games {
		if g.TeamID == teamID && (season == "" || g.Season == season) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (r *memRepo) ListGameIDsForSeason(_ context.Context, teamID primitive.ObjectID, season string) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []primitive.ObjectID{}
	for _, g := range r.gamesFor(teamID, season) {
		ids = append(ids, g.ID)
	}
	return ids, nil
}

func (r *memRepo) ListGames(_ context.Context, teamID primitive.ObjectID, season string) ([]models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gamesFor(teamID, season), nil
}

func (r *memRepo) GetGame(_ context.Context, gameID primitive.ObjectID) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gameID]
	if !ok {
		return nil, apperr.NotFound("game")
	}
	return &g, nil
}

func (r *memRepo) CreateGame(_ context.Context, g models.Game) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write()
	g.ID = primitive.NewObjectID()
	r.games[g.ID] = g
	return &g, nil
}

func (r *memRepo) UpdateGame(_ context.Context, g models.Game) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.games[g.ID]
	if !ok {
		return nil, apperr.NotFound("game")
	}
	r.write()
	g.WorkflowStatus = cur.WorkflowStatus
	r.games[g.ID] = g
	return &g, nil
}

func (r *memRepo) DeleteGame(_ context.Context, gameID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[gameID]; !ok {
		return 0, apperr.NotFound("game")
	}
	r.write()
	delete(r.games, gameID)
	var n int64
	for k := range r.skaters {
		if k.game == gameID {
			delete(r.skaters, k)
			n++
		}
	}
	for k := range r.goalies {
		if k.game == gameID {
			delete(r.goalies, k)
			n++
		}
	}
	return n, nil
}

func (r *memRepo) UpdateGameWorkflowStatus(_ context.Context, gameID primitive.ObjectID, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gameID]
	if !ok {
		return apperr.NotFound("game")
	}
	if g.WorkflowStatus != from {
		return apperr.Workflow("game status changed; reload and try again")
	}
	r.write()
	g.WorkflowStatus = to
	r.games[gameID] = g
	return nil
}

func (r *memRepo) TouchEditableGame(_ context.Context, gameID primitive.ObjectID) (bool, error) {
	if r.beforeTouch != nil {
		r.beforeTouch()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gameID]
	if !ok || g.WorkflowStatus == models.GameFinalized {
		return false, nil
	}
	g.UpdatedAt = time.Now()
	r.games[gameID] = g
	return true, nil
}

func (r *memRepo) ListSeasons(_ context.Context, teamID primitive.ObjectID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, g := range r.games {
		if g.TeamID == teamID && !seen[g.Season] {
			seen[g.Season] = true
			out = append(out, g.Season)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *memRepo) sortedPlayers(keep func(models.Player) bool) []models.Player {
	out := []models.Player{}
	for _, p := range r.players {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (r *memRepo) ListActivePlayers(_ context.Context, teamID primitive.ObjectID, f tracker.PositionFilter) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "ListActivePlayers" {
		return nil, apperr.Store("list players", context.DeadlineExceeded)
	}
	return r.sortedPlayers(func(p models.Player) bool {
		if p.TeamID != teamID || !p.IsActive {
			return false
		}
		switch f {
		case tracker.SkatersOnly:
			return !p.IsGoalie()
		case tracker.GoaliesOnly:
			return p.IsGoalie()
		}
		return true
	}), nil
}

func (r *memRepo) ListPlayers(_ context.Context, teamID primitive.ObjectID) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedPlayers(func(p models.Player) bool { return p.TeamID == teamID }), nil
}

func (r *memRepo) GetPlayer(_ context.Context, playerID primitive.ObjectID) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[playerID]
	if !ok {
		return nil, apperr.NotFound("player")
	}
	return &p, nil
}

func (r *memRepo) numberTaken(teamID primitive.ObjectID, number int, except primitive.ObjectID) bool {
	for _, p := range r.players {
		if p.TeamID == teamID && p.IsActive && p.Number == number && p.ID != except {
			return true
		}
	}
	return false
}

func (r *memRepo) CreatePlayer(_ context.Context, p models.Player) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.IsActive && r.numberTaken(p.TeamID, p.Number, primitive.NilObjectID) {
		return nil, apperr.Conflict("duplicate number")
	}
	r.write()
	p.ID = primitive.NewObjectID()
	r.players[p.ID] = p
	return &p, nil
}

func (r *memRepo) UpdatePlayer(_ context.Context, p models.Player) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[p.ID]; !ok {
		return nil, apperr.NotFound("player")
	}
	if p.IsActive && r.numberTaken(p.TeamID, p.Number, p.ID) {
		return nil, apperr.Conflict("duplicate number")
	}
	r.write()
	r.players[p.ID] = p
	return &p, nil
}

func (r *memRepo) ActiveNumberTaken(_ context.Context, teamID primitive.ObjectID, number int, except primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.numberTaken(teamID, number, except), nil
}

func inSet(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	m := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func (r *memRepo) ListSkaterLines(_ context.Context, gameIDs []primitive.ObjectID) ([]models.SkaterLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := inSet(gameIDs)
	out := []models.SkaterLine{}
	for k, l := range r.skaters {
		if set[k.game] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memRepo) ListGoalieLines(_ context.Context, gameIDs []primitive.ObjectID) ([]models.GoalieLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := inSet(gameIDs)
	out := []models.GoalieLine{}
	for k, l := range r.goalies {
		if set[k.game] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memRepo) UpsertSkaterLine(_ context.Context, l models.SkaterLine) (*models.SkaterLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write()
	k := lineKey{l.GameID, l.PlayerID}
	if cur, ok := r.skaters[k]; ok {
		l.ID = cur.ID
	} else {
		l.ID = primitive.NewObjectID()
	}
	r.skaters[k] = l
	return &l, nil
}

func (r *memRepo) UpsertGoalieLine(_ context.Context, l models.GoalieLine) (*models.GoalieLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write()
	k := lineKey{l.GameID, l.PlayerID}
	if cur, ok := r.goalies[k]; ok {
		l.ID = cur.ID
	} else {
		l.ID = primitive.NewObjectID()
	}
	r.goalies[k] = l
	return &l, nil
}

func skaterField(l *models.SkaterLine, f string) *int {
	switch f {
	case "goals":
		return &l.Goals
	case "assists":
		return &l.Assists
	case "shots":
		return &l.Shots
	case "blocks":
		return &l.Blocks
	case "pim":
		return &l.PIM
	}
	return nil
}

func goalieField(l *models.GoalieLine, f string) *int {
	switch f {
	case "shots_against":
		return &l.ShotsAgainst
	case "saves":
		return &l.Saves
	case "goals_against":
		return &l.GoalsAgainst
	}
	return nil
}

func (r *memRepo) IncrementStat(_ context.Context, kind string, teamID, gameID, playerID primitive.ObjectID, field string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := lineKey{gameID, playerID}
	below := apperr.Validation(field, "stat cannot go below zero")
	if kind == models.KindGoalie {
		l, ok := r.goalies[k]
		if !ok {
			l = models.GoalieLine{ID: primitive.NewObjectID(), TeamID: teamID, GameID: gameID, PlayerID: playerID}
		}
		p := goalieField(&l, field)
		if *p+delta < 0 || (!ok && delta < 0) {
			return 0, below
		}
		r.write()
		*p += delta
		r.goalies[k] = l
		return *p, nil
	}
	l, ok := r.skaters[k]
	if !ok {
		l = models.SkaterLine{ID: primitive.NewObjectID(), TeamID: teamID, GameID: gameID, PlayerID: playerID}
	}
	p := skaterField(&l, field)
	if *p+delta < 0 || (!ok && delta < 0) {
		return 0, below
	}
	r.write()
	*p += delta
	r.skaters[k] = l
	return *p, nil
}

func (r *memRepo) CountStatLines(_ context.Context, gameID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k := range r.skaters {
		if k.game == gameID {
			n++
		}
	}
	for k := range r.goalies {
		if k.game == gameID {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) CreateInviteCode(_ context.Context, teamID, createdBy primitive.ObjectID, code string) (*models.InviteCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.collide > 0 {
		r.collide--
		return nil, codes.ErrCollision
	}
	if _, ok := r.invites[code]; ok {
		return nil, codes.ErrCollision
	}
	r.write()
	ic := models.InviteCode{ID: primitive.NewObjectID(), TeamID: teamID, Code: code, CreatedBy: createdBy, CreatedAt: time.Now()}
	r.invites[code] = ic
	return &ic, nil
}

func (r *memRepo) ConsumeInviteCode(_ context.Context, code string, userID primitive.ObjectID) (*models.InviteCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ic, ok := r.invites[code]
	if !ok || ic.Used() {
		return nil, apperr.Validation("invite_code", "invite code is invalid or already used")
	}
	r.write()
	now := time.Now()
	ic.UsedBy = &userID
	ic.UsedAt = &now
	r.invites[code] = ic
	return &ic, nil
}

func (r *memRepo) CreateUser(_ context.Context, u models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write()
	u.ID = primitive.NewObjectID()
	r.users[u.ID] = u
	return &u, nil
}

func (r *memRepo) GetUser(_ context.Context, userID primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return &u, nil
}

func (r *memRepo) GetUsers(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memRepo) AppendAudit(_ context.Context, e *models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	r.audit = append(r.audit, *e)
	return nil
}

func (r *memRepo) ListAudit(_ context.Context, teamID, before primitive.ObjectID, limit int) ([]models.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.AuditEntry{}
	for i := len(r.audit) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.audit[i]
		if e.TeamID != teamID {
			continue
		}
		if !before.IsZero() && e.ID.Hex() >= before.Hex() {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// RunInTx runs fn directly.
func (r *memRepo) RunInTx(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- seeding helpers ---

func (r *memRepo) addUser(name string) primitive.ObjectID {
	u, _ := r.CreateUser(context.Background(), models.User{DisplayName: name})
	return u.ID
}

func (r *memRepo) addTeam(name, joinCode, season string) primitive.ObjectID {
	t, _ := r.CreateTeam(context.Background(), models.Team{Name: name, JoinCode: joinCode, SeasonLabel: season})
	return t.ID
}

func (r *memRepo) addMember(teamID, userID primitive.ObjectID, role string) {
	_, _ = r.CreateMembership(context.Background(), teamID, userID, role)
}

func (r *memRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}
