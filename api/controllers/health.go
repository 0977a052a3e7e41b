package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/stowage-backend/api/responses"
	"github.com/angelmondragon/stowage-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/stowage-backend/pkg/errors"
	"github.com/angelmondragon/stowage-backend/pkg/logger"
)

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Stowage-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Stowage-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true

		checks["db"] = "ok"
		if dbP == nil {
			checks["db"] = "not configured"
			ready = false
		} else if err := dbP.Ping(ctx); err != nil {
			checks["db"] = err.Error()
			ready = false
		}

		checks["redis"] = "ok"
		if redisP == nil {
			checks["redis"] = "not configured"
		} else if err := redisP.Ping(ctx); err != nil {
			// the cache is an accelerator, not a dependency of correctness
			checks["redis"] = err.Error()
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "check", "redis"), "readiness check degraded")
			}
		}

		if !ready {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "service not ready").WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
