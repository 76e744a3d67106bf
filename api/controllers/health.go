package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/NextOxyOfficial/LyriczFashion/api/responses"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/config"
	pkgerrors "github.com/NextOxyOfficial/LyriczFashion/pkg/errors"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/logger"
)

// Pinger is anything that can confirm a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Lyricz-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database and redis respond.
func HealthReady(cfg *config.Config, db Pinger, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Lyricz-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		for name, dep := range map[string]Pinger{"database": db, "redis": cache} {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				continue
			}
			checks[name] = "up"
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
