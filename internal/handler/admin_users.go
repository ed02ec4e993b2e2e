package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/internreg/internal/auth"
	"github.com/internreg/internal/model"
	"github.com/internreg/internal/store"
)

type staffUserStore interface {
	Create(ctx context.Context, id, email, displayName, passwordHash string, role model.Role) error
	UpdateStatus(ctx context.Context, id string, status model.Status) error
}

type sessionRevoker interface {
	DeleteAllByUserID(ctx context.Context, userID string) error
}

// UsersHandler lets admins manage HR staff accounts.
type UsersHandler struct {
	BaseHandler
	users    staffUserStore
	sessions sessionRevoker
}

func NewUsersHandler(logger *slog.Logger, users staffUserStore, sessions sessionRevoker) *UsersHandler {
	return &UsersHandler{BaseHandler: BaseHandler{Logger: logger}, users: users, sessions: sessions}
}

type createUserRequest struct {
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	Password    string     `json:"password"`
	Role        model.Role `json:"role"`
}

// Create adds a staff account.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Role == "" {
		req.Role = model.RoleHR
	}
	switch {
	case req.Email == "":
		h.badRequestResponse(w, r, errors.New("email is required"))
		return
	case len(req.Password) < 12:
		h.badRequestResponse(w, r, errors.New("password must be at least 12 characters"))
		return
	case req.Role != model.RoleHR && req.Role != model.RoleAdmin:
		h.badRequestResponse(w, r, errors.New("role must be hr or admin"))
		return
	}

	hash, err := auth.Hash(req.Password)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}

	id := auth.NewID()
	if err := h.users.Create(r.Context(), id, req.Email, strings.TrimSpace(req.DisplayName), hash, req.Role); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			h.errorResponse(w, r, http.StatusConflict, err.Error())
			return
		}
		h.serverErrorResponse(w, r, err)
		return
	}
	h.Logger.Info("users: staff account created", "id", id, "role", req.Role)

	if err := h.writeJSON(w, http.StatusCreated, envelope{"id": id}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateStatus activates or deactivates an account. Deactivation revokes
// the user's sessions.
func (h *UsersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status model.Status `json:"status"`
	}
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if req.Status != model.StatusActive && req.Status != model.StatusInactive {
		h.badRequestResponse(w, r, errors.New("status must be active or inactive"))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.users.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, store.ErrLastAdmin):
			h.errorResponse(w, r, http.StatusConflict, err.Error())
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}

	if req.Status == model.StatusInactive {
		if err := h.sessions.DeleteAllByUserID(r.Context(), id); err != nil {
			h.Logger.Error("users: failed to revoke sessions", "id", id, "err", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
