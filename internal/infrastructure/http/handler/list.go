package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lista-app/lista/internal/application/list"
	"github.com/lista-app/lista/internal/domain"
	"github.com/lista-app/lista/internal/infrastructure/http/middleware"
	"github.com/lista-app/lista/internal/infrastructure/http/response"
)

type createListRequest struct {
	Title string `json:"title"`
}

// CreateList handles POST /v1/lists.
func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	summary, err := h.listService.CreateList(r.Context(), list.CreateListParams{
		UserID: middleware.UserID(r.Context()),
		Title:  req.Title,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create list via HTTP",
			"title", req.Title,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "list created via HTTP", "list_id", summary.ID)
	response.Created(w, summaryDTO(summary))
}

// ListLists handles GET /v1/lists. An optional ?status= query narrows the
// result to one lifecycle state.
func (h *Handler) ListLists(w http.ResponseWriter, r *http.Request) {
	var statusFilter *domain.ListStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.NewListStatus(raw)
		if err != nil {
			response.BadRequest(w, "invalid status filter")
			return
		}
		statusFilter = &status
	}

	summaries, err := h.listService.ListLists(r.Context(), middleware.UserID(r.Context()), statusFilter)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list lists via HTTP", "error", err)
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]listSummaryDTO, len(summaries))
	for i := range summaries {
		dtos[i] = summaryDTO(&summaries[i])
	}
	response.OK(w, map[string]any{"lists": dtos})
}

// GetList handles GET /v1/lists/{listID}.
func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	detail, err := h.listService.GetList(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "listID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, detailDTO(detail))
}

// DeleteList handles DELETE /v1/lists/{listID}.
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	if err := h.listService.DeleteList(r.Context(), middleware.UserID(r.Context()), listID); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "list deleted via HTTP", "list_id", listID)
	response.NoContent(w)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateListStatus handles PATCH /v1/lists/{listID}/status.
func (h *Handler) UpdateListStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	status, err := domain.NewListStatus(req.Status)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	summary, err := h.listService.UpdateListStatus(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "listID"), status)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, summaryDTO(summary))
}

type completeListRequest struct {
	CheckedItemIDs []string `json:"checkedItemIds"`
}

// CompleteList handles POST /v1/lists/{listID}/complete.
func (h *Handler) CompleteList(w http.ResponseWriter, r *http.Request) {
	var req completeListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	detail, err := h.listService.CompleteList(r.Context(), list.CompleteListParams{
		UserID:         middleware.UserID(r.Context()),
		ListID:         chi.URLParam(r, "listID"),
		CheckedItemIDs: req.CheckedItemIDs,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "list completed via HTTP", "list_id", detail.ID)
	response.OK(w, detailDTO(detail))
}

// DuplicateList handles POST /v1/lists/{listID}/duplicate.
func (h *Handler) DuplicateList(w http.ResponseWriter, r *http.Request) {
	summary, err := h.listService.DuplicateList(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "listID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, summaryDTO(summary))
}

// ReuseList handles POST /v1/lists/{listID}/reuse.
func (h *Handler) ReuseList(w http.ResponseWriter, r *http.Request) {
	summary, err := h.listService.ReuseList(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "listID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, summaryDTO(summary))
}
