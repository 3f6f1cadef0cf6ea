package http

import (
	"context"
	stdhttp "net/http"
	"time"
)

// Pinger checks a dependency is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

// HandleHealth reports liveness, and database reachability when db is set.
func HandleHealth(db Pinger) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				writeJSON(w, stdhttp.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
				return
			}
		}
		writeJSON(w, stdhttp.StatusOK, map[string]string{"status": "ok"})
	}
}
