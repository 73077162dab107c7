package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/myflix-backend/pkg/clientip"
)

// RequestLogger logs one entry per request. Server errors are logged at
// error level, everything else at info.
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			entry := log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_ip":   clientip.RealClientIP(r),
			})
			if reqID := chimw.GetReqID(r.Context()); reqID != "" {
				entry = entry.WithField("request_id", reqID)
			}

			if status >= http.StatusInternalServerError {
				entry.Error("Request failed")
				return
			}
			entry.Info("Request completed")
		})
	}
}
