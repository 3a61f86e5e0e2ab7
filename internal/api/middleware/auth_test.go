package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mt_annotate/internal/common/security"
	"mt_annotate/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type fakeUserFinder struct {
	users map[string]*model.User
}

func (f *fakeUserFinder) FindByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user not found")
}

func newTestRouter(t *testing.T) (*security.JWT, http.Handler) {
	t.Helper()
	jwt := security.NewJWT([]byte("test-secret"), time.Hour)

	finder := &fakeUserFinder{users: map[string]*model.User{
		"regular":   {ID: "regular", IsActive: true},
		"admin":     {ID: "admin", IsActive: true, IsAdmin: true},
		"evaluator": {ID: "evaluator", IsActive: true, IsEvaluator: true},
		"inactive":  {ID: "inactive", IsActive: false},
	}}
	auth := NewAuth(finder)

	ok := func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		w.Write([]byte(user.ID))
	}

	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(jwt.Auth))
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticator)
		r.Get("/me", ok)
		r.With(auth.AdminOnly).Get("/admin", ok)
		r.With(auth.EvaluatorOnly).Get("/evaluate", ok)
		r.With(auth.AdminOrEvaluatorOnly).Get("/review", ok)
	})
	return jwt, r
}

func request(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, jwt *security.JWT, userID string) string {
	t.Helper()
	token, err := jwt.GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func TestAuthenticator(t *testing.T) {
	jwt, router := newTestRouter(t)

	if rec := request(t, router, "/me", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: %d, want 401", rec.Code)
	}
	if rec := request(t, router, "/me", "garbage"); rec.Code != http.StatusUnauthorized {
		t.Errorf("malformed token: %d, want 401", rec.Code)
	}
	if rec := request(t, router, "/me", tokenFor(t, jwt, "ghost")); rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown subject: %d, want 401", rec.Code)
	}
	if rec := request(t, router, "/me", tokenFor(t, jwt, "inactive")); rec.Code != http.StatusUnauthorized {
		t.Errorf("inactive subject: %d, want 401", rec.Code)
	}

	rec := request(t, router, "/me", tokenFor(t, jwt, "regular"))
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: %d, want 200", rec.Code)
	}
	if rec.Body.String() != "regular" {
		t.Errorf("context user = %q, want regular", rec.Body.String())
	}
}

func TestRoleGuards(t *testing.T) {
	jwt, router := newTestRouter(t)

	cases := []struct {
		path string
		user string
		want int
	}{
		{"/admin", "regular", http.StatusForbidden},
		{"/admin", "evaluator", http.StatusForbidden},
		{"/admin", "admin", http.StatusOK},
		{"/evaluate", "regular", http.StatusForbidden},
		{"/evaluate", "admin", http.StatusForbidden},
		{"/evaluate", "evaluator", http.StatusOK},
		{"/review", "regular", http.StatusForbidden},
		{"/review", "admin", http.StatusOK},
		{"/review", "evaluator", http.StatusOK},
	}
	for _, c := range cases {
		rec := request(t, router, c.path, tokenFor(t, jwt, c.user))
		if rec.Code != c.want {
			t.Errorf("%s as %s: %d, want %d", c.path, c.user, rec.Code, c.want)
		}
	}
}
