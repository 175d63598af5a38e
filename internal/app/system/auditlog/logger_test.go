package auditlog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/teamstats/internal/app/system/auditlog"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memSink struct {
	entries []models.AuditEntry
	err     error
}

func (s *memSink) AppendAudit(_ context.Context, e *models.AuditEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, *e)
	return nil
}

func newLogger(mode string) (*auditlog.Logger, *memSink, *observer.ObservedLogs, clockwork.Clock) {
	core, logs := observer.New(zap.DebugLevel)
	sink := &memSink{}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 11, 2, 19, 0, 0, 0, time.UTC))
	return auditlog.New(sink, zap.New(core), mode, clock), sink, logs, clock
}

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx := context.Background()

	// Must not panic.
	logger.Log(ctx, models.AuditEntry{Action: models.AuditInsert})
	logger.GameCreated(ctx, primitive.NewObjectID(), &models.Game{})
	if logger.Mode() != auditlog.ModeOff {
		t.Errorf("nil Mode() = %q, want off", logger.Mode())
	}
}

func TestLogger_Modes(t *testing.T) {
	tests := []struct {
		mode     string
		wantDB   int
		wantLogs int
	}{
		{auditlog.ModeAll, 1, 1},
		{auditlog.ModeDB, 1, 0},
		{auditlog.ModeLog, 0, 1},
		{auditlog.ModeOff, 0, 0},
		{"bogus", 1, 1}, // unknown mode falls back to all
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			logger, sink, logs, _ := newLogger(tt.mode)
			logger.GameCreated(context.Background(), primitive.NewObjectID(), &models.Game{
				ID:       primitive.NewObjectID(),
				TeamID:   primitive.NewObjectID(),
				Date:     "2024-11-02",
				Opponent: "Tigers",
			})

			if len(sink.entries) != tt.wantDB {
				t.Errorf("sink entries = %d, want %d", len(sink.entries), tt.wantDB)
			}
			if logs.Len() != tt.wantLogs {
				t.Errorf("zap entries = %d, want %d", logs.Len(), tt.wantLogs)
			}
		})
	}
}

func TestLogger_StampsTimestampFromClock(t *testing.T) {
	logger, sink, _, clock := newLogger(auditlog.ModeDB)

	logger.SeasonUpdated(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "2024-25")

	if len(sink.entries) != 1 {
		t.Fatalf("sink entries = %d", len(sink.entries))
	}
	if !sink.entries[0].Timestamp.Equal(clock.Now()) {
		t.Errorf("Timestamp = %v, want %v", sink.entries[0].Timestamp, clock.Now())
	}
}

func TestLogger_ZapFields(t *testing.T) {
	logger, _, logs, _ := newLogger(auditlog.ModeLog)
	teamID := primitive.NewObjectID()

	logger.StatIncremented(context.Background(), primitive.NewObjectID(), teamID,
		primitive.NewObjectID(), primitive.NewObjectID(), models.KindSkater, "goals", 1)

	entry := logs.All()[0]
	fields := entry.ContextMap()
	if fields["audit"] != true {
		t.Error("expected audit=true field")
	}
	if fields["team_id"] != teamID.Hex() {
		t.Errorf("team_id = %v", fields["team_id"])
	}
	if fields["entity_type"] != auditlog.EntitySkaterLine {
		t.Errorf("entity_type = %v", fields["entity_type"])
	}
	if fields["detail_field"] != "goals" || fields["detail_delta"] != "1" {
		t.Errorf("details = %v / %v", fields["detail_field"], fields["detail_delta"])
	}
}

func TestLogger_SinkFailureIsLogged(t *testing.T) {
	logger, sink, logs, _ := newLogger(auditlog.ModeDB)
	sink.err = errors.New("write concern timeout")

	logger.MemberPromoted(context.Background(), primitive.NewObjectID(), &models.Membership{
		ID:     primitive.NewObjectID(),
		TeamID: primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Role:   models.RoleStaff,
	})

	if got := logs.FilterMessage("failed to store audit event").Len(); got != 1 {
		t.Errorf("expected 1 failure log, got %d", got)
	}
}

func TestLogger_GoalieIncrementEntity(t *testing.T) {
	logger, sink, _, _ := newLogger(auditlog.ModeDB)

	logger.StatIncremented(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(),
		primitive.NewObjectID(), primitive.NewObjectID(), models.KindGoalie, "saves", 1)

	if sink.entries[0].EntityType != auditlog.EntityGoalieLine {
		t.Errorf("EntityType = %q, want goalie_line", sink.entries[0].EntityType)
	}
}
