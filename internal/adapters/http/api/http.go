// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/predictor/internal/adapters/http/auth"
	"github.com/okian/predictor/internal/domain/model"
	"github.com/okian/predictor/internal/domain/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LeaderboardDependencies
	PredictionDependencies
	ResultDependencies
	ReferenceDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	predictionsHandler *PredictionsHandler
	resultsHandler     *ResultsHandler
	referenceHandler   *ReferenceHandler

	authenticate func(http.Handler) http.Handler
}

// NewServer creates a new API server with all handlers. Tokens are checked
// with verifier.
func NewServer(deps Dependencies, statsProvider StatsProvider, verifier auth.JWT) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		leaderboardHandler: NewLeaderboardHandler(deps),
		predictionsHandler: NewPredictionsHandler(deps),
		resultsHandler:     NewResultsHandler(deps),
		referenceHandler:   NewReferenceHandler(deps),
		authenticate:       auth.Middleware(verifier),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Use(RequestIDMiddleware)

	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.Handle("/metrics", s.healthHandler.MetricsHandler()).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	r.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard")).Methods(http.MethodGet)
	r.HandleFunc("/players", MetricsMiddleware(s.referenceHandler.HandlePlayers, "players")).Methods(http.MethodGet)
	r.HandleFunc("/fixture", MetricsMiddleware(s.referenceHandler.HandleFixture, "fixture")).Methods(http.MethodGet)

	r.HandleFunc("/predictions/me", MetricsMiddleware(s.participant(s.predictionsHandler.HandleGetOwn), "predictions_me")).Methods(http.MethodGet)
	r.HandleFunc("/predictions", MetricsMiddleware(s.participant(s.predictionsHandler.HandleSubmit), "predictions_submit")).Methods(http.MethodPost)

	r.HandleFunc("/admin/results", MetricsMiddleware(s.admin(s.resultsHandler.HandleGet), "admin_results_get")).Methods(http.MethodGet)
	r.HandleFunc("/admin/results", MetricsMiddleware(s.admin(s.resultsHandler.HandleRecord), "admin_results_record")).Methods(http.MethodPost)
}

// Handler returns a router with every route registered.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := mux.NewRouter()
	s.Register(ctx, r)
	return r
}

func (s *Server) participant(h http.HandlerFunc) http.HandlerFunc {
	return s.authenticate(h).ServeHTTP
}

func (s *Server) admin(h http.HandlerFunc) http.HandlerFunc {
	return s.authenticate(auth.RequireAdmin(h)).ServeHTTP
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		msg = apiErr.Message()
	case err != nil && status < http.StatusInternalServerError:
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// readJSON decodes a single JSON object from the request body.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}

// userFrom returns the verified caller placed by the auth middleware.
func userFrom(r *http.Request) (auth.Claims, bool) {
	return auth.ClaimsFromContext(r.Context())
}

// isLocked reports whether err means submissions are closed.
func isLocked(err error) bool {
	return errors.Is(err, model.ErrPredictionsLocked)
}
