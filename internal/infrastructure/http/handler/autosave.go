package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lista-app/lista/internal/application/list"
	"github.com/lista-app/lista/internal/domain"
	"github.com/lista-app/lista/internal/infrastructure/http/middleware"
	"github.com/lista-app/lista/internal/infrastructure/http/response"
)

type draftItemInputDTO struct {
	Kind    string  `json:"kind"`
	Name    string  `json:"name"`
	Qty     int     `json:"qty"`
	Checked bool    `json:"checked"`
	Note    *string `json:"note"`

	SourceProductID string   `json:"sourceProductId"`
	Thumbnail       *string  `json:"thumbnail"`
	Price           *float64 `json:"price"`
	UnitSize        *float64 `json:"unitSize"`
	UnitFormat      *string  `json:"unitFormat"`
	UnitPrice       *float64 `json:"unitPrice"`
	IsApproxSize    *bool    `json:"isApproxSize"`
}

type upsertAutosaveRequest struct {
	Title         string              `json:"title"`
	BaseUpdatedAt *string             `json:"baseUpdatedAt"`
	Items         []draftItemInputDTO `json:"items"`
}

type upsertAutosaveResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updatedAt"`
}

// UpsertAutosaveDraft handles PUT /v1/autosave. The request carries the full
// draft state plus the version token from the caller's last read.
func (h *Handler) UpsertAutosaveDraft(w http.ResponseWriter, r *http.Request) {
	var req upsertAutosaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	var baseUpdatedAt *time.Time
	if req.BaseUpdatedAt != nil {
		t, err := response.ParseTimestamp(*req.BaseUpdatedAt)
		if err != nil {
			response.BadRequest(w, "invalid baseUpdatedAt timestamp")
			return
		}
		baseUpdatedAt = &t
	}

	items := make([]list.DraftItemInput, len(req.Items))
	for i, in := range req.Items {
		kind := domain.ItemKind(in.Kind)
		if kind != domain.ItemKindManual && kind != domain.ItemKindCatalog {
			response.BadRequest(w, "invalid item kind")
			return
		}
		items[i] = list.DraftItemInput{
			Kind:            kind,
			Name:            in.Name,
			Qty:             in.Qty,
			Checked:         in.Checked,
			Note:            in.Note,
			SourceProductID: in.SourceProductID,
			Thumbnail:       in.Thumbnail,
			Price:           in.Price,
			UnitSize:        in.UnitSize,
			UnitFormat:      in.UnitFormat,
			UnitPrice:       in.UnitPrice,
			IsApproxSize:    in.IsApproxSize,
		}
	}

	result, err := h.listService.UpsertAutosaveDraft(r.Context(), list.UpsertAutosaveParams{
		UserID:        middleware.UserID(r.Context()),
		Title:         req.Title,
		BaseUpdatedAt: baseUpdatedAt,
		Items:         items,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, upsertAutosaveResponse{
		ID:        result.ID,
		Title:     result.Title,
		UpdatedAt: response.FormatTimestamp(result.UpdatedAt),
	})
}

// GetAutosaveDraft handles GET /v1/autosave. A missing draft is not an
// error: the response carries a null draft.
func (h *Handler) GetAutosaveDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.listService.GetAutosaveDraft(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	if draft == nil {
		response.OK(w, map[string]any{"draft": nil})
		return
	}
	response.OK(w, map[string]any{"draft": draftDTO(draft)})
}

// DiscardAutosaveDraft handles DELETE /v1/autosave.
func (h *Handler) DiscardAutosaveDraft(w http.ResponseWriter, r *http.Request) {
	result, err := h.listService.DiscardAutosaveDraft(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "autosave drafts discarded via HTTP", "removed", result.Removed)
	response.OK(w, map[string]int{"removed": result.Removed})
}

type resetAutosaveRequest struct {
	TargetDraftID *string `json:"targetDraftId"`
}

// ResetAutosaveDraft handles POST /v1/autosave/reset.
func (h *Handler) ResetAutosaveDraft(w http.ResponseWriter, r *http.Request) {
	var req resetAutosaveRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
	}

	result, err := h.listService.ResetAutosaveDraft(r.Context(), list.ResetAutosaveParams{
		UserID:        middleware.UserID(r.Context()),
		TargetDraftID: req.TargetDraftID,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, map[string]any{"draftId": result.DraftID})
}

type startEditingRequest struct {
	IsEditing bool `json:"isEditing"`
}

type editingResponse struct {
	ID                string  `json:"id"`
	IsEditing         bool    `json:"isEditing"`
	UpdatedAt         string  `json:"updatedAt"`
	AutosaveUpdatedAt *string `json:"autosaveUpdatedAt"`
}

// StartListEditing handles POST /v1/lists/{listID}/editing.
func (h *Handler) StartListEditing(w http.ResponseWriter, r *http.Request) {
	var req startEditingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	result, err := h.listService.StartListEditing(r.Context(), list.StartEditingParams{
		UserID:    middleware.UserID(r.Context()),
		ListID:    chi.URLParam(r, "listID"),
		IsEditing: req.IsEditing,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	resp := editingResponse{
		ID:        result.ID,
		IsEditing: result.IsEditing,
		UpdatedAt: response.FormatTimestamp(result.UpdatedAt),
	}
	if result.AutosaveUpdatedAt != nil {
		ts := response.FormatTimestamp(*result.AutosaveUpdatedAt)
		resp.AutosaveUpdatedAt = &ts
	}
	response.OK(w, resp)
}

// FinishListEdit handles POST /v1/lists/{listID}/editing/finish.
func (h *Handler) FinishListEdit(w http.ResponseWriter, r *http.Request) {
	detail, err := h.listService.FinishListEdit(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "listID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "list edit finished via HTTP", "list_id", detail.ID)
	response.OK(w, detailDTO(detail))
}
