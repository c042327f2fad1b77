package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lista-app/lista/internal/application/list"
	"github.com/lista-app/lista/internal/infrastructure/http/middleware"
	"github.com/lista-app/lista/internal/infrastructure/http/response"
)

type addManualItemRequest struct {
	Name string  `json:"name"`
	Qty  int     `json:"qty"`
	Note *string `json:"note"`
}

// AddManualItem handles POST /v1/lists/{listID}/items.
func (h *Handler) AddManualItem(w http.ResponseWriter, r *http.Request) {
	var req addManualItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	item, err := h.listService.AddManualItem(r.Context(), list.AddManualItemParams{
		UserID: middleware.UserID(r.Context()),
		ListID: chi.URLParam(r, "listID"),
		Name:   req.Name,
		Qty:    req.Qty,
		Note:   req.Note,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, mapItemDTO(item))
}

type addCatalogItemRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// AddCatalogItem handles POST /v1/lists/{listID}/items/catalog.
func (h *Handler) AddCatalogItem(w http.ResponseWriter, r *http.Request) {
	var req addCatalogItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}
	if req.ProductID == "" {
		response.BadRequest(w, "productId is required")
		return
	}

	item, err := h.listService.AddCatalogItem(r.Context(), list.AddCatalogItemParams{
		UserID:    middleware.UserID(r.Context()),
		ListID:    chi.URLParam(r, "listID"),
		ProductID: req.ProductID,
		Qty:       req.Qty,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.Created(w, mapItemDTO(item))
}

type updateItemRequest struct {
	Name    *string `json:"name"`
	Qty     *int    `json:"qty"`
	Checked *bool   `json:"checked"`
}

// UpdateItem handles PATCH /v1/lists/{listID}/items/{itemID}. Absent fields
// are left unchanged.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	item, err := h.listService.UpdateItem(r.Context(), list.UpdateItemParams{
		UserID:  middleware.UserID(r.Context()),
		ListID:  chi.URLParam(r, "listID"),
		ItemID:  chi.URLParam(r, "itemID"),
		Name:    req.Name,
		Qty:     req.Qty,
		Checked: req.Checked,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, mapItemDTO(item))
}

// RemoveItem handles DELETE /v1/lists/{listID}/items/{itemID}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	err := h.listService.RemoveItem(r.Context(), middleware.UserID(r.Context()),
		chi.URLParam(r, "listID"), chi.URLParam(r, "itemID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
