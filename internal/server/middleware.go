package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// accessLog logs one line per request with the final status and size.
func accessLog(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			entry := logger.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.RequestURI(),
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			})
			if status >= http.StatusInternalServerError {
				entry.Warn("request")
				return
			}
			entry.Info("request")
		})
	}
}
