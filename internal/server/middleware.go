package server

import (
	"github.com/go-chi/chi/v5/middleware"
	"github.com/maxaizer/jobboard/internal/logger"
	log "github.com/sirupsen/logrus"
	"net/http"
	"time"
)

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			entry := log.WithFields(log.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"duration":   time.Since(start),
			})
			if ww.Status() >= http.StatusInternalServerError {
				entry.WithField(logger.ErrorTypeField, logger.ErrorTypeHttp).Error("request failed")
				return
			}
			entry.Debug("request served")
		}()

		next.ServeHTTP(ww, r)
	})
}
