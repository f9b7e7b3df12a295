package handlers

import (
	"campus-activity-service/internal/api/dto"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/services"
	"errors"
	"log"
	"net/http"
)

// AuthHandler serves account signup and credential checks.
type AuthHandler struct {
	Service *services.AuthService
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	u, err := h.Service.Signup(r.Context(), req.Email, req.Password)
	var verr *services.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, verr.Msg)
		return
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, r, http.StatusBadRequest, "User already exists")
		return
	default:
		log.Printf("signup failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.SignupResponse{
		Message: "User created successfully",
		UserID:  u.ID,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	_, token, err := h.Service.Login(r.Context(), req.Email, req.Password)
	var verr *services.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, verr.Msg)
		return
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, r, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "Invalid password")
		return
	default:
		log.Printf("login failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.LoginResponse{Message: "Login successful", Token: token})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (dto.CredentialsRequest, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return dto.CredentialsRequest{}, false
	}

	var req dto.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return dto.CredentialsRequest{}, false
	}
	return req, true
}
