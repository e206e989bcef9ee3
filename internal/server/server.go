// Package server exposes the scoring functions over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/githubz0r/ss-pred/internal/label"
	"github.com/githubz0r/ss-pred/internal/score"
)

// Server serves Q3/SOV scoring over HTTP.
type Server struct {
	port       int
	logger     *slog.Logger
	httpServer *http.Server
}

// ScoreRequest is the POST /score request body. Both sequences are plain
// H/E/- strings of equal length.
type ScoreRequest struct {
	Reference  string `json:"reference"`
	Prediction string `json:"prediction"`
}

// ScoreResponse is the POST /score response body.
type ScoreResponse struct {
	Length int     `json:"length"`
	Q3     float64 `json:"q3"`
	SOV    float64 `json:"sov"`
}

// New creates a new scoring server.
func New(port int, logger *slog.Logger) *Server {
	return &Server{
		port:   port,
		logger: logger,
	}
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	router := mux.NewRouter()
	router.HandleFunc("/score", s.handleScore).Methods(http.MethodPost)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.loggingMiddleware(router),
	}

	go func() {
		s.logger.Info("starting HTTP server", "port", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// handleScore scores a single reference/prediction pair.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	ref, err := label.Parse(req.Reference)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("reference: %w", err))
		return
	}
	pred, err := label.Parse(req.Prediction)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("prediction: %w", err))
		return
	}

	q3, err := score.Q3(ref, pred)
	if err != nil {
		s.writeError(w, scoreStatus(err), err)
		return
	}
	sov, err := score.SOV(ref, pred)
	if err != nil {
		s.writeError(w, scoreStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ScoreResponse{
		Length: len(ref),
		Q3:     q3,
		SOV:    sov,
	})
}

// handleHealth serves health check information.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
}

func scoreStatus(err error) int {
	if errors.Is(err, score.ErrLengthMismatch) || errors.Is(err, score.ErrEmptySequence) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
