package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/DanyGuerra/business-manager-frontend-sub001/api/responses"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/config"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive answers as long as the process runs.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady checks the preference store and the realtime transport.
func HealthReady(cfg *config.Config, logg *logger.Logger, prefs, transport pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["prefs"] = checkPing(ctx, prefs)
		checks["redis"] = checkPing(ctx, transport)
		for _, status := range checks {
			if status != "ok" {
				healthy = false
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
			logg.Warn(r.Context(), "readiness check failed")
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"env":    cfg.App.Env,
			"checks": checks,
		})
	}
}

func checkPing(ctx context.Context, p pinger) string {
	if p == nil {
		return "skipped"
	}
	if err := p.Ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
