package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/multical/multical/internal/config"
	"github.com/multical/multical/internal/metric"
	log "github.com/sirupsen/logrus"
)

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			started := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, req)

			route := req.URL.Path
			if current := mux.CurrentRoute(req); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}
			elapsed := time.Since(started)
			log.Debugf("%s %s -> %d in %s", req.Method, req.URL.Path, recorder.status, elapsed)

			if cfg.Metrics.Enabled {
				metric.HTTPRequests.WithLabelValues(route, req.Method, strconv.Itoa(recorder.status)).Inc()
				metric.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
			}
		})
	})
}
