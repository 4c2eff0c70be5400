package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"prepcoach/internal/middleware"
	"prepcoach/internal/models"
	"prepcoach/internal/ranking"
	"prepcoach/internal/utils"
)

type ResultsHandler struct {
	Results ResultReader
	Store   ResultStore
}

func NewResultsHandler(results ResultReader, store ResultStore) *ResultsHandler {
	return &ResultsHandler{Results: results, Store: store}
}

type ResultsResponse struct {
	Results []ranking.UserResult `json:"results"`
	Ranking *ranking.Ranking     `json:"ranking,omitempty"`
}

var errResultNotFound = models.ErrorResponse{Code: "result_not_found", Message: "Interview result not found"}

// ListResultsHandler returns the caller's interviews, newest first, with the
// ranking of the latest one.
func (h *ResultsHandler) ListResultsHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	results, err := h.Results.UserResults(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	latest, err := h.Results.LatestRanking(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, ResultsResponse{Results: results, Ranking: latest})
}

func (h *ResultsHandler) GetResultHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	result, err := h.Store.GetResult(r.Context(), middleware.UserIDFrom(r.Context()), sessionID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if result == nil {
		utils.JSON(w, http.StatusNotFound, errResultNotFound)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// RankingHandler ranks a session. Candidates may only rank their own.
func (h *ResultsHandler) RankingHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	if middleware.RoleFrom(r.Context()) == models.RoleCandidate {
		own, err := h.Store.GetResult(r.Context(), middleware.UserIDFrom(r.Context()), sessionID)
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		if own == nil {
			utils.JSON(w, http.StatusNotFound, errResultNotFound)
			return
		}
	}
	rank, err := h.Results.Rank(r.Context(), sessionID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rank)
}
