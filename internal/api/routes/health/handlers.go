// Package health contains the liveness endpoint.
package health

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/idoBeitOn/MealMate/internal/env"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HandleHealth reports service and storage reachability.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	response := HealthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK
	if err := env.Database.Ping(ctx); err != nil {
		env.Logger.ErrorContext(ctx, "database ping failed", slog.Any("error", err))
		response = HealthResponse{Status: "degraded", Database: "unreachable"}
		status = http.StatusServiceUnavailable
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
