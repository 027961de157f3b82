package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dori/todolist/internal/rest"
	"github.com/dori/todolist/internal/rest/res"
)

func NewHealthHandler(log *slog.Logger, store rest.Pinger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.Warn("health check failed", "error", err)
			res.Json(w, map[string]string{"status": "down"}, http.StatusServiceUnavailable)
			return
		}
		res.Json(w, map[string]string{"status": "ok"}, http.StatusOK)
	}
}
