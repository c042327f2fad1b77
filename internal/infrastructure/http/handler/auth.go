package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lista-app/lista/internal/application/auth"
	"github.com/lista-app/lista/internal/infrastructure/http/middleware"
	"github.com/lista-app/lista/internal/infrastructure/http/response"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Register handles POST /v1/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	profile, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidEmail) || errors.Is(err, auth.ErrWeakPassword) {
			response.BadRequest(w, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "failed to register user via HTTP", "error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "user registered via HTTP", "user_id", profile.ID)
	response.Created(w, userDTO{ID: profile.ID, Email: profile.Email, Name: profile.Name})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"`
	User      userDTO `json:"user"`
}

// Login handles POST /v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.WarnContext(r.Context(), "login failed via HTTP", "error", err)
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, loginResponse{
		Token:     session.Token,
		ExpiresAt: response.FormatTimestamp(session.ExpiresAt),
		User: userDTO{
			ID:    session.User.ID,
			Email: session.User.Email,
			Name:  session.User.Name,
		},
	})
}

// Me handles GET /v1/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.authService.Me(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, userDTO{ID: profile.ID, Email: profile.Email, Name: profile.Name})
}
