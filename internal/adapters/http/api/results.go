package api

import (
	"context"
	"net/http"

	"github.com/okian/predictor/internal/domain/model"
)

// ResultDependencies defines the administrator result operations.
type ResultDependencies interface {
	Result(ctx context.Context) (model.ActualResult, bool, error)
	RecordResult(ctx context.Context, r model.ActualResult) error
}

type resultsResponse struct {
	Results *model.ActualResult `json:"results"`
}

// ResultsHandler handles the admin result routes.
type ResultsHandler struct {
	deps ResultDependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultDependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleGet handles GET /admin/results. An unrecorded result is null.
func (h *ResultsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_results"
	res, ok, err := h.deps.Result(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, resultsResponse{})
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: &res})
}

// HandleRecord handles POST /admin/results, replacing any earlier result.
func (h *ResultsHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_results"
	var req matchFactsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrInvalidBody, err))
		return
	}
	res, err := req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, err))
		return
	}
	if err := h.deps.RecordResult(r.Context(), res); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: &res})
}
