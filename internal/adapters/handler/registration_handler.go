package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

type RegistrationHandler struct {
	registrationService ports.RegistrationService
	log                 *zap.Logger
}

func NewRegistrationHandler(registration ports.RegistrationService, log *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registration, log: log}
}

func (h *RegistrationHandler) Mount(r chi.Router) {
	r.Post("/api/auth/register", h.Register)
}

type RegistrationRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department"`
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAuthError(w, h.log, err)
		return
	}

	user, err := h.registrationService.Register(r.Context(), ports.RegistrationInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Department: req.Department,
	})
	if err != nil {
		writeAuthError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusCreated, UserResponse{
		Success: true,
		User:    user,
		Message: "Account created successfully",
	})
}
