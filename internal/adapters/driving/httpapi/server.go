// Package httpapi exposes the speech-to-calendar pipeline over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/voicecal/internal/core/ports/driving"
	"github.com/custodia-labs/voicecal/internal/logger"
)

// Server routes HTTP requests into the pipeline.
type Server struct {
	pipeline driving.VoiceEventService
	mux      *http.ServeMux
}

// NewServer constructs the server and registers its routes.
func NewServer(pipeline driving.VoiceEventService) *Server {
	s := &Server{
		pipeline: pipeline,
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/speech-to-calendar", requireMethod(http.MethodPost, s.handleSpeechToCalendar))
	s.mux.HandleFunc("/health", requireMethod(http.MethodGet, s.handleHealth))
}

// requireMethod emulates Go 1.22+ ServeMux method patterns ("POST /path")
// on the Go 1.21 ServeMux, which does not support them: wrong-method
// requests get 405 with an Allow header, and GET patterns also match HEAD.
func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method && !(method == http.MethodGet && r.Method == http.MethodHead) {
			w.Header().Set("Allow", method)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// Handler returns the server's handler wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return requestLog(s.mux)
}

// handleHealth is an unauthenticated liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLog tags each request with an id and logs its outcome.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("http request",
			"request_id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
