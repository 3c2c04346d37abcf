package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/adapters/middleware"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	log         *zap.Logger
}

func NewAuthHandler(auth ports.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: auth, log: log}
}

func (h *AuthHandler) Mount(r chi.Router) {
	r.Post("/api/auth/login", h.Login)
	r.Get("/api/auth/verify", h.Verify)
	r.Post("/api/auth/change-password", h.ChangePassword)
	r.Get("/api/auth/users", h.Users)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
	Message string       `json:"message,omitempty"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAuthError(w, h.log, err)
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, UserResponse{Success: true, User: user})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		writeJSON(w, h.log, http.StatusUnauthorized, AuthErrorResponse{Error: "No authorization token"})
		return
	}

	user, err := h.authService.Verify(r.Context(), token)
	if errors.Is(err, domain.ErrUnauthenticated) {
		writeJSON(w, h.log, http.StatusUnauthorized, AuthErrorResponse{Error: "User not found"})
		return
	}
	if err != nil {
		writeAuthError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, UserResponse{Success: true, User: user})
}

type ChangePasswordRequest struct {
	UserID      string `json:"userId"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAuthError(w, h.log, err)
		return
	}

	err := h.authService.ChangePassword(r.Context(), req.UserID, req.OldPassword, req.NewPassword)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		writeJSON(w, h.log, http.StatusUnauthorized, AuthErrorResponse{Error: "Current password is incorrect"})
		return
	}
	if err != nil {
		writeAuthError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password changed successfully",
	})
}

type UsersResponse struct {
	Success bool          `json:"success"`
	Users   []domain.User `json:"users"`
}

func (h *AuthHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		writeAuthError(w, h.log, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, h.log, http.StatusOK, UsersResponse{Success: true, Users: users})
}
