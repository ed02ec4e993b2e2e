package middleware

import (
	"context"
	"net/http"

	"github.com/internreg/internal/model"
)

const SessionCookieName = "session"

type contextKey string

const contextKeyUser contextKey = "user"

// SessionReader retrieves the user ID for a session token.
type SessionReader interface {
	GetUserID(ctx context.Context, sessionID string) (string, error)
}

// userByIDer retrieves a staff user by ID.
type userByIDer interface {
	GetByID(ctx context.Context, id string) (*model.StaffUser, error)
}

// Session middleware validates the session cookie and stores the signed-in
// staff user in the request context. Missing, expired, or inactive sessions
// get a 401.
func Session(sessions SessionReader, users userByIDer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				unauthorized(w)
				return
			}

			userID, err := sessions.GetUserID(r.Context(), cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil || user.Status != model.StatusActive {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"authentication required"}`))
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *model.StaffUser) context.Context {
	return context.WithValue(ctx, contextKeyUser, user)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *model.StaffUser {
	u, _ := ctx.Value(contextKeyUser).(*model.StaffUser)
	return u
}

// UserIDFromContext returns the authenticated user's ID from the context.
func UserIDFromContext(ctx context.Context) string {
	if u := UserFromContext(ctx); u != nil {
		return u.ID
	}
	return ""
}

// RoleFromContext returns the authenticated user's role from the context.
func RoleFromContext(ctx context.Context) model.Role {
	if u := UserFromContext(ctx); u != nil {
		return u.Role
	}
	return ""
}
