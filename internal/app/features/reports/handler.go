// internal/app/features/reports/handler.go
package reports

import (
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"go.uber.org/zap"
)

// Handler owns the season report handlers (JSON summary + CSV export).
//
// A thin struct wrapping the tracker service and logger, constructed once
// at startup in bootstrap and passed into MountRoutes().
type Handler struct {
	Tracker *tracker.Service
	Log     *zap.Logger
}

// NewHandler constructs a reports Handler.
func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Tracker: svc, Log: logger}
}
