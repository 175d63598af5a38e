// internal/app/features/players/handler.go
package players

import (
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"go.uber.org/zap"
)

// Handler serves the team roster.
type Handler struct {
	Tracker *tracker.Service
	Log     *zap.Logger
}

// NewHandler creates a new players handler.
func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Tracker: svc, Log: logger}
}
