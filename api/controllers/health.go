package controllers

import (
	"context"
	"net/http"

	"github.com/urbandrive/storefront/api/responses"
	"github.com/urbandrive/storefront/pkg/config"
	"github.com/urbandrive/storefront/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive answers as soon as the process serves traffic.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-UrbanDrive-Env", cfg.App.Env)
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

// HealthReady checks the operational store and the session store. The
// external business APIs are deliberately excluded: their outages degrade
// pages but must not take this process out of rotation.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-UrbanDrive-Env", cfg.App.Env)

		checks := map[string]string{"db": "ok", "redis": "ok"}
		healthy := true

		if db == nil {
			checks["db"] = "not configured"
		} else if err := db.Ping(r.Context()); err != nil {
			logg.Error(r.Context(), "db readiness check failed", err)
			checks["db"] = "unreachable"
			healthy = false
		}

		if redis == nil {
			checks["redis"] = "not configured"
		} else if err := redis.Ping(r.Context()); err != nil {
			logg.Error(r.Context(), "redis readiness check failed", err)
			checks["redis"] = "unreachable"
			healthy = false
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		responses.WriteJSON(w, status, checks)
	}
}
