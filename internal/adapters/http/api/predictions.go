package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/predictor/internal/domain/model"
)

// PredictionDependencies defines the prediction read and write operations.
type PredictionDependencies interface {
	// Prediction returns the caller's stored prediction, if any.
	Prediction(ctx context.Context, userID string) (model.Prediction, bool, error)
	// SubmitPrediction stores p and returns it as saved.
	SubmitPrediction(ctx context.Context, p model.Prediction) (model.Prediction, error)
}

// Accepted field ranges.
const (
	minMinute     = 1
	maxMinute     = 90
	minPossession = 0
	maxPossession = 100
)

// matchFactsRequest mirrors the OpenAPI schema shared by POST /predictions
// and POST /admin/results. Pointers distinguish a missing field from zero.
type matchFactsRequest struct {
	HomeScore       *int `json:"homeScore"`
	AwayScore       *int `json:"awayScore"`
	FirstGoalMinute *int `json:"firstGoalMinute"`
	FirstScorerID   *int `json:"firstScorerId"`
	Corners         *int `json:"corners"`
	Possession      *int `json:"possession"`
}

func (m matchFactsRequest) validate() (model.MatchFacts, error) {
	if m.HomeScore == nil || m.AwayScore == nil || m.FirstGoalMinute == nil ||
		m.FirstScorerID == nil || m.Corners == nil || m.Possession == nil {
		return model.MatchFacts{}, ErrMissingField
	}
	f := model.MatchFacts{
		HomeScore:       *m.HomeScore,
		AwayScore:       *m.AwayScore,
		FirstGoalMinute: *m.FirstGoalMinute,
		FirstScorerID:   *m.FirstScorerID,
		Corners:         *m.Corners,
		Possession:      *m.Possession,
	}
	switch {
	case f.HomeScore < 0:
		return model.MatchFacts{}, fmt.Errorf("%w: homeScore must be >= 0", ErrOutOfRange)
	case f.AwayScore < 0:
		return model.MatchFacts{}, fmt.Errorf("%w: awayScore must be >= 0", ErrOutOfRange)
	case f.FirstGoalMinute < minMinute || f.FirstGoalMinute > maxMinute:
		return model.MatchFacts{}, fmt.Errorf("%w: firstGoalMinute must be between %d and %d", ErrOutOfRange, minMinute, maxMinute)
	case f.FirstScorerID < 0:
		return model.MatchFacts{}, fmt.Errorf("%w: firstScorerId must be >= 0", ErrOutOfRange)
	case f.Corners < 0:
		return model.MatchFacts{}, fmt.Errorf("%w: corners must be >= 0", ErrOutOfRange)
	case f.Possession < minPossession || f.Possession > maxPossession:
		return model.MatchFacts{}, fmt.Errorf("%w: possession must be between %d and %d", ErrOutOfRange, minPossession, maxPossession)
	}
	return f, nil
}

type predictionResponse struct {
	Prediction *model.Prediction `json:"prediction"`
}

// PredictionsHandler handles the participant prediction routes.
type PredictionsHandler struct {
	deps PredictionDependencies
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps PredictionDependencies) *PredictionsHandler {
	return &PredictionsHandler{deps: deps}
}

// HandleGetOwn handles GET /predictions/me.
func (h *PredictionsHandler) HandleGetOwn(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_own_prediction"
	user, ok := userFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	p, found, err := h.deps.Prediction(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, predictionResponse{})
		return
	}
	writeJSON(w, http.StatusOK, predictionResponse{Prediction: &p})
}

// HandleSubmit handles POST /predictions. A later submission replaces the
// caller's earlier one.
func (h *PredictionsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_prediction"
	user, ok := userFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req matchFactsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrInvalidBody, err))
		return
	}
	facts, err := req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
		return
	}

	saved, err := h.deps.SubmitPrediction(r.Context(), model.Prediction{
		UserID:     user.UserID,
		Username:   user.Username,
		MatchFacts: facts,
	})
	switch {
	case isLocked(err):
		writeError(w, http.StatusConflict, "locked", NewKind(op, model.ErrPredictionsLocked))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, predictionResponse{Prediction: &saved})
}
