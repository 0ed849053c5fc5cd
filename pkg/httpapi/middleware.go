package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
)

// RequestLogger logs one line per request with its id, status and duration.
// The wrapped writer keeps http.Hijacker so WebSocket upgrades pass through.
func RequestLogger(lgr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			lgr.Info("http request complete",
				logger.String("request_id", middleware.GetReqID(r.Context())),
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Field{Key: "status", Value: status},
				logger.Field{Key: "duration", Value: time.Since(start)},
			)
		})
	}
}
