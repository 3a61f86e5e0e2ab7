package middleware

import (
	"context"
	"net/http"

	"mt_annotate/internal/common"
	"mt_annotate/internal/common/security"
	"mt_annotate/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// UserFinder is the slice of the user store the middleware needs to resolve
// the token subject into a full user record.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type Auth struct {
	users UserFinder
}

func NewAuth(users UserFinder) *Auth {
	return &Auth{users: users}
}

// Authenticator rejects requests without a valid token, resolves the subject
// against the user store and stashes the user in the request context. Role
// flags therefore come from the database on every request, not from the
// token.
func (a *Auth) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}

		user, err := a.users.FindByID(r.Context(), userID)
		if err != nil || !user.IsActive {
			common.RespondWithError(w, http.StatusUnauthorized, "account not found or deactivated")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Auth) AdminOnly(next http.Handler) http.Handler {
	return a.requireRole(next, func(u *model.User) bool { return u.IsAdmin })
}

func (a *Auth) EvaluatorOnly(next http.Handler) http.Handler {
	return a.requireRole(next, func(u *model.User) bool { return u.IsEvaluator })
}

func (a *Auth) AdminOrEvaluatorOnly(next http.Handler) http.Handler {
	return a.requireRole(next, func(u *model.User) bool { return u.IsAdmin || u.IsEvaluator })
}

func (a *Auth) requireRole(next http.Handler, allowed func(*model.User) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !allowed(user) {
			common.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext returns the authenticated user, or nil outside the
// Authenticator chain.
func GetUserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}
