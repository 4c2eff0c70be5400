package handlers

import (
	"net/http"

	"prepcoach/internal/models"
	"prepcoach/internal/ranking"
	"prepcoach/internal/utils"
)

type DashboardHandler struct {
	Results ResultReader
}

func NewDashboardHandler(results ResultReader) *DashboardHandler {
	return &DashboardHandler{Results: results}
}

func (h *DashboardHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := ranking.DashboardQuery{
		Search: q.Get("search"),
		Status: q.Get("status"),
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
	}
	if !ranking.ValidSort(query.SortBy, query.Order) {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_sort",
			Message: "sortBy must be score, date, name or duration and order must be asc or desc",
		})
		return
	}
	if !ranking.ValidStatus(query.Status) {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_status",
			Message: "status must be all, completed or in-progress",
		})
		return
	}
	dashboard, err := h.Results.Dashboard(r.Context(), query)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, dashboard)
}
