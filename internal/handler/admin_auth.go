package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/internreg/internal/auth"
	appmw "github.com/internreg/internal/middleware"
	"github.com/internreg/internal/model"
)

type userGetterByEmail interface {
	GetByEmail(ctx context.Context, email string) (*model.StaffUser, string, error)
	UpdateLastLogin(ctx context.Context, id string) error
}

type sessionCreatorDeleter interface {
	Create(ctx context.Context, userID string) (string, error)
	DeleteAllByUserID(ctx context.Context, userID string) error
}

// AuthHandler handles staff authentication.
type AuthHandler struct {
	BaseHandler
	users         userGetterByEmail
	sessions      sessionCreatorDeleter
	sessionTTL    time.Duration
	secureCookies bool
}

func NewAuthHandler(logger *slog.Logger, users userGetterByEmail, sessions sessionCreatorDeleter, sessionTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		users:         users,
		sessions:      sessions,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a staff user and issues a session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	user, hash, err := h.users.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil || !auth.Verify(hash, req.Password) {
		h.errorResponse(w, r, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if user.Status != model.StatusActive {
		h.errorResponse(w, r, http.StatusForbidden, "account is inactive")
		return
	}

	sessionID, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}

	if err := h.users.UpdateLastLogin(r.Context(), user.ID); err != nil {
		h.Logger.Warn("auth: failed to record login", "user_id", user.ID, "err", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     appmw.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(h.sessionTTL),
	})
	if err := h.writeJSON(w, http.StatusOK, envelope{"user": user}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// Logout invalidates all sessions for the authenticated user.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := appmw.UserIDFromContext(r.Context())
	if userID != "" {
		if err := h.sessions.DeleteAllByUserID(r.Context(), userID); err != nil {
			h.Logger.Error("auth: failed to delete sessions", "user_id", userID, "err", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:    appmw.SessionCookieName,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
	w.WriteHeader(http.StatusNoContent)
}
