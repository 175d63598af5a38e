// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"strconv"

	"github.com/dalemusser/teamstats/internal/domain/models"
	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for audit entries.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Entity types recorded in AuditEntry.EntityType.
const (
	EntityTeam       = "team"
	EntityPlayer     = "player"
	EntityGame       = "game"
	EntitySkaterLine = "skater_line"
	EntityGoalieLine = "goalie_line"
	EntityMembership = "membership"
	EntityInvite     = "invite_code"
)

// Sink persists audit entries. The Mongo audit store implements it.
type Sink interface {
	AppendAudit(ctx context.Context, e *models.AuditEntry) error
}

// Logger records team mutations to a Sink and to zap. A nil *Logger is a
// no-op so tests can omit it.
type Logger struct {
	sink  Sink
	log   *zap.Logger
	mode  string
	clock clockwork.Clock
}

// New returns a Logger. An unknown mode is treated as ModeAll.
func New(sink Sink, log *zap.Logger, mode string, clock clockwork.Clock) *Logger {
	switch mode {
	case ModeAll, ModeDB, ModeLog, ModeOff:
	default:
		mode = ModeAll
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Logger{sink: sink, log: log, mode: mode, clock: clock}
}

// Mode returns the configured destination.
func (l *Logger) Mode() string {
	if l == nil {
		return ModeOff
	}
	return l.mode
}

func (l *Logger) logToZap(e *models.AuditEntry) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("team_id", e.TeamID.Hex()),
		zap.String("actor_id", e.ActorID.Hex()),
		zap.String("action", e.Action),
		zap.String("entity_type", e.EntityType),
		zap.String("entity_id", e.EntityID.Hex()),
	}
	for k, v := range e.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	l.log.Info("audit event", fields...)
}

// Log stamps and records e. Sink failures are logged, never returned: the
// mutation being audited has already committed.
func (l *Logger) Log(ctx context.Context, e models.AuditEntry) {
	if l == nil || l.mode == ModeOff {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = l.clock.Now().UTC()
	}

	if l.mode == ModeAll || l.mode == ModeLog {
		l.logToZap(&e)
	}
	if (l.mode == ModeAll || l.mode == ModeDB) && l.sink != nil {
		if err := l.sink.AppendAudit(ctx, &e); err != nil {
			l.log.Error("failed to store audit event",
				zap.Error(err),
				zap.String("entity_type", e.EntityType),
				zap.String("action", e.Action))
		}
	}
}

func (l *Logger) record(ctx context.Context, teamID, actorID primitive.ObjectID, action, entity string, entityID primitive.ObjectID, details map[string]string) {
	l.Log(ctx, models.AuditEntry{
		TeamID:     teamID,
		ActorID:    actorID,
		Action:     action,
		EntityType: entity,
		EntityID:   entityID,
		Details:    details,
	})
}

// --- Team ---

func (l *Logger) TeamCreated(ctx context.Context, actorID primitive.ObjectID, t *models.Team) {
	l.record(ctx, t.ID, actorID, models.AuditInsert, EntityTeam, t.ID, map[string]string{"name": t.Name})
}

func (l *Logger) SeasonUpdated(ctx context.Context, actorID, teamID primitive.ObjectID, season string) {
	l.record(ctx, teamID, actorID, models.AuditUpdate, EntityTeam, teamID, map[string]string{"season_label": season})
}

// --- Roster ---

func (l *Logger) PlayerCreated(ctx context.Context, actorID primitive.ObjectID, p *models.Player) {
	l.record(ctx, p.TeamID, actorID, models.AuditInsert, EntityPlayer, p.ID, map[string]string{
		"name":   p.Name,
		"number": strconv.Itoa(p.Number),
	})
}

func (l *Logger) PlayerUpdated(ctx context.Context, actorID primitive.ObjectID, p *models.Player) {
	l.record(ctx, p.TeamID, actorID, models.AuditUpdate, EntityPlayer, p.ID, map[string]string{
		"number":    strconv.Itoa(p.Number),
		"is_active": strconv.FormatBool(p.IsActive),
	})
}

// --- Games ---

func (l *Logger) GameCreated(ctx context.Context, actorID primitive.ObjectID, g *models.Game) {
	l.record(ctx, g.TeamID, actorID, models.AuditInsert, EntityGame, g.ID, map[string]string{
		"date":     g.Date,
		"opponent": g.Opponent,
	})
}

func (l *Logger) GameUpdated(ctx context.Context, actorID primitive.ObjectID, g *models.Game) {
	l.record(ctx, g.TeamID, actorID, models.AuditUpdate, EntityGame, g.ID, nil)
}

func (l *Logger) GameDeleted(ctx context.Context, actorID primitive.ObjectID, g *models.Game, linesRemoved int64) {
	l.record(ctx, g.TeamID, actorID, models.AuditDelete, EntityGame, g.ID, map[string]string{
		"lines_removed": strconv.FormatInt(linesRemoved, 10),
	})
}

func (l *Logger) GameTransitioned(ctx context.Context, actorID primitive.ObjectID, g *models.Game, from string) {
	l.record(ctx, g.TeamID, actorID, models.AuditUpdate, EntityGame, g.ID, map[string]string{
		"from": from,
		"to":   g.WorkflowStatus,
	})
}

// --- Stat lines ---

func (l *Logger) SkaterLineSaved(ctx context.Context, actorID primitive.ObjectID, s *models.SkaterLine) {
	l.record(ctx, s.TeamID, actorID, models.AuditUpdate, EntitySkaterLine, s.ID, map[string]string{
		"game_id":   s.GameID.Hex(),
		"player_id": s.PlayerID.Hex(),
	})
}

func (l *Logger) GoalieLineSaved(ctx context.Context, actorID primitive.ObjectID, g *models.GoalieLine) {
	l.record(ctx, g.TeamID, actorID, models.AuditUpdate, EntityGoalieLine, g.ID, map[string]string{
		"game_id":   g.GameID.Hex(),
		"player_id": g.PlayerID.Hex(),
	})
}

func (l *Logger) StatIncremented(ctx context.Context, actorID, teamID, gameID, playerID primitive.ObjectID, kind, field string, delta int) {
	entity := EntitySkaterLine
	if kind == models.KindGoalie {
		entity = EntityGoalieLine
	}
	l.record(ctx, teamID, actorID, models.AuditUpdate, entity, playerID, map[string]string{
		"game_id": gameID.Hex(),
		"field":   field,
		"delta":   strconv.Itoa(delta),
	})
}

// --- Membership ---

func (l *Logger) MemberJoined(ctx context.Context, m *models.Membership, via string) {
	l.record(ctx, m.TeamID, m.UserID, models.AuditInsert, EntityMembership, m.ID, map[string]string{
		"role": m.Role,
		"via":  via,
	})
}

func (l *Logger) MemberPromoted(ctx context.Context, actorID primitive.ObjectID, m *models.Membership) {
	l.record(ctx, m.TeamID, actorID, models.AuditUpdate, EntityMembership, m.ID, map[string]string{
		"user_id": m.UserID.Hex(),
		"role":    m.Role,
	})
}

func (l *Logger) InviteIssued(ctx context.Context, actorID primitive.ObjectID, ic *models.InviteCode) {
	l.record(ctx, ic.TeamID, actorID, models.AuditInsert, EntityInvite, ic.ID, nil)
}
