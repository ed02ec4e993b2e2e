package handler

import (
	"context"
	"encoding/json"
	"net/http"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type mailPinger interface {
	Ping() error
}

// Health returns a health check handler that verifies database connectivity.
// SMTP reachability is reported but does not fail the check.
func Health(db pinger, mail mailPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]string{"status": "ok", "mail": "ok"}
		code := http.StatusOK

		if err := db.Ping(r.Context()); err != nil {
			resp["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
		if err := mail.Ping(); err != nil {
			resp["mail"] = "unreachable"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
