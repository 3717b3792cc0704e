package handler

import (
	"net/http"

	"coursemart/internal/service"

	"github.com/rs/zerolog"
)

// RecommendationHandler serves course recommendations for the caller.
type RecommendationHandler struct {
	service service.RecommendationService
	logger  zerolog.Logger
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(service service.RecommendationService, logger zerolog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
		logger:  logger.With().Str("handler", "recommendation").Logger(),
	}
}

// List handles GET /recommendations requests.
func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.Recommend(r.Context(), userID, limit)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
