package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lista-app/lista/internal/infrastructure/http/response"
)

// GetProduct handles GET /v1/catalog/products/{productID}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	snap, err := h.catalogService.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, mapProductDTO(snap))
}

// SearchProducts handles GET /v1/catalog/search?q=&limit=.
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, "q is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	snaps, err := h.catalogService.SearchProducts(r.Context(), query, limit)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]productDTO, len(snaps))
	for i := range snaps {
		dtos[i] = mapProductDTO(&snaps[i])
	}
	response.OK(w, map[string]any{"products": dtos})
}
