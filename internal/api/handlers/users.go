package handlers

import (
	"campus-activity-service/internal/api/dto"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/services"
	"errors"
	"log"
	"net/http"
	"strings"
)

// UserHandler exposes account management at /api/users and
// /api/users/{id}. Responses never include password hashes.
type UserHandler struct {
	Service *services.UserService
}

// Users serves the collection.
func (h *UserHandler) Users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// User serves a single account addressed by the {id} path value.
func (h *UserHandler) User(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		log.Printf("list users failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ListUsersResponse{Users: dto.FromUsers(users)})
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.Service.Create(r.Context(), services.UserPatch{Email: req.Email, Password: req.Password})
	if err != nil {
		writeUserError(w, r, err, "Failed to create user")
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.UserMessageResponse{Message: "User created successfully", User: dto.FromUser(u)})
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	u, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeUserError(w, r, err, "Failed to fetch user")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]dto.UserResponse{"user": dto.FromUser(u)})
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req dto.UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.Service.Update(r.Context(), id, services.UserPatch{Email: req.Email, Password: req.Password})
	if err != nil {
		writeUserError(w, r, err, "Failed to update user")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.UserMessageResponse{Message: "User updated", User: dto.FromUser(u)})
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	u, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		writeUserError(w, r, err, "Failed to delete user")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.UserMessageResponse{Message: "User deleted", User: dto.FromUser(u)})
}

func writeUserError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, domain.ErrInvalidUserID):
		writeError(w, r, http.StatusBadRequest, "Invalid ID format")
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, r, http.StatusBadRequest, "User already exists")
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, r, http.StatusNotFound, "User not found")
	default:
		log.Printf("user request failed: method=%s err=%v", r.Method, err)
		writeError(w, r, http.StatusInternalServerError, fallback)
	}
}
