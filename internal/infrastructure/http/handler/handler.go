// Package handler adapts HTTP requests to application service calls.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/lista-app/lista/internal/application/auth"
	"github.com/lista-app/lista/internal/application/catalog"
	"github.com/lista-app/lista/internal/application/list"
)

// Handler holds the application services behind the HTTP API.
type Handler struct {
	listService    *list.Service
	authService    *auth.Service
	catalogService *catalog.Service
}

// New creates a new HTTP API handler.
func New(listService *list.Service, authService *auth.Service, catalogService *catalog.Service) *Handler {
	return &Handler{
		listService:    listService,
		authService:    authService,
		catalogService: catalogService,
	}
}

// Routes mounts the authenticated API routes. Auth middleware is applied by
// the server around this router; register/login live outside it.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/auth/me", h.Me)

	r.Get("/catalog/products/{productID}", h.GetProduct)
	r.Get("/catalog/search", h.SearchProducts)

	r.Post("/lists", h.CreateList)
	r.Get("/lists", h.ListLists)
	r.Get("/lists/{listID}", h.GetList)
	r.Delete("/lists/{listID}", h.DeleteList)
	r.Patch("/lists/{listID}/status", h.UpdateListStatus)
	r.Post("/lists/{listID}/complete", h.CompleteList)
	r.Post("/lists/{listID}/duplicate", h.DuplicateList)
	r.Post("/lists/{listID}/reuse", h.ReuseList)
	r.Post("/lists/{listID}/editing", h.StartListEditing)
	r.Post("/lists/{listID}/editing/finish", h.FinishListEdit)

	r.Post("/lists/{listID}/items", h.AddManualItem)
	r.Post("/lists/{listID}/items/catalog", h.AddCatalogItem)
	r.Patch("/lists/{listID}/items/{itemID}", h.UpdateItem)
	r.Delete("/lists/{listID}/items/{itemID}", h.RemoveItem)

	r.Get("/autosave", h.GetAutosaveDraft)
	r.Put("/autosave", h.UpsertAutosaveDraft)
	r.Delete("/autosave", h.DiscardAutosaveDraft)
	r.Post("/autosave/reset", h.ResetAutosaveDraft)
}

// PublicRoutes mounts the endpoints that must work without a session.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
}
