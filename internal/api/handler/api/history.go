// internal/api/handler/api/history.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/newthinker/pricecast/internal/api/response"
	"github.com/newthinker/pricecast/internal/storage/history"
)

// HistoryHandler serves the action log.
type HistoryHandler struct {
	store history.Store
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(store history.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List returns entries matching query parameters, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := history.ListFilter{
		Action: q.Get("action"),
		Status: q.Get("status"),
	}

	if since := q.Get("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			filter.Since = t
		} else if t, err := time.Parse("2006-01-02", since); err == nil {
			filter.Since = t
		}
	}

	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			filter.Limit = n
		}
	} else {
		filter.Limit = 50 // Default limit
	}

	entries, err := h.store.List(r.Context(), filter)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	countFilter := filter
	countFilter.Limit = 0
	count, _ := h.store.Count(r.Context(), countFilter)

	response.JSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   count,
		"limit":   filter.Limit,
	})
}
