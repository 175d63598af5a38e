// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler reports whether the service can reach its database.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Log: logger}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Serve handles GET /health: 200 {"status":"ok","database":"connected"},
// or 503 {"status":"error","database":"disconnected"} when the primary
// cannot be pinged. Driver errors are logged, not returned.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if h.Client == nil {
		httpjson.Write(w, http.StatusServiceUnavailable, healthResponse{Status: "error", Database: "unconfigured"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		httpjson.Write(w, http.StatusServiceUnavailable, healthResponse{Status: "error", Database: "disconnected"})
		return
	}
	httpjson.OK(w, healthResponse{Status: "ok", Database: "connected"})
}
