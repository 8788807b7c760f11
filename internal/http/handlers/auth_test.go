package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ardian/klinikhub/internal/auth"
	"github.com/ardian/klinikhub/internal/config"
	"github.com/ardian/klinikhub/internal/domain/user"
	"github.com/ardian/klinikhub/internal/http/handlers"
	"github.com/ardian/klinikhub/internal/http/middlewares"
	"github.com/ardian/klinikhub/internal/security"
)

type fakeUsersRepo struct {
	getFn func(ctx context.Context, username string) (user.User, error)
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, username)
	}

	return user.User{}, user.ErrNotFound
}

func knownUser(t *testing.T, username, password, role string) *fakeUsersRepo {
	t.Helper()

	hash, err := security.HashPassword(password)

	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	return &fakeUsersRepo{
		getFn: func(ctx context.Context, name string) (user.User, error) {
			if name != username {
				return user.User{}, user.ErrNotFound
			}

			return user.User{ID: 1, Username: username, PasswordHash: hash, Role: role}, nil
		},
	}
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.SessionCookie {
			return c
		}
	}

	return nil
}

func TestLogin(t *testing.T) {
	users := knownUser(t, "admin", "admin", user.RoleAdmin)
	jwtManager := auth.NewManager("test-secret", 30*time.Minute)

	tests := []struct {
		name           string
		form           url.Values
		wantStatusCode int
		wantLocation   string
		wantCookie     bool
	}{
		{
			name:           "success_sets_cookie_and_redirects",
			form:           url.Values{"username": {"admin"}, "password": {"admin"}},
			wantStatusCode: http.StatusSeeOther,
			wantLocation:   "/dashboard",
			wantCookie:     true,
		},
		{
			name:           "wrong_password_rerenders_form",
			form:           url.Values{"username": {"admin"}, "password": {"nope"}},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "unknown_username_rerenders_form",
			form:           url.Values{"username": {"ghost"}, "password": {"admin"}},
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewAuthHandler(users, jwtManager, config.Config{Env: "dev"})

			r := setupPageRouter(http.MethodPost, "/login", h.Login)

			w := postForm(r, "/login", tt.form)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantLocation != "" && w.Header().Get("Location") != tt.wantLocation {
				t.Fatalf("got location %q, want %q", w.Header().Get("Location"), tt.wantLocation)
			}

			cookie := sessionCookie(w)

			if tt.wantCookie {
				if cookie == nil || cookie.Value == "" {
					t.Fatal("expected a session cookie on successful login")
				}

				if !cookie.HttpOnly {
					t.Fatal("session cookie must be HttpOnly")
				}

				if cookie.MaxAge != int((30 * time.Minute).Seconds()) {
					t.Fatalf("cookie max-age %d does not match the token ttl", cookie.MaxAge)
				}

				// the cookie must carry a token the manager itself accepts
				claims, err := jwtManager.VerifyToken(cookie.Value)

				if err != nil {
					t.Fatalf("cookie token does not verify: %v", err)
				}

				if claims.Subject != "admin" || claims.Role != user.RoleAdmin {
					t.Fatalf("unexpected claims subject=%q role=%q", claims.Subject, claims.Role)
				}

				return
			}

			if cookie != nil && cookie.Value != "" {
				t.Fatal("failed login must not set a session cookie")
			}

			if !strings.Contains(w.Body.String(), "Invalid username or password") {
				t.Fatal("failed login should re-render the form with the generic message")
			}
		})
	}
}

func TestLogout(t *testing.T) {
	users := &fakeUsersRepo{}
	jwtManager := auth.NewManager("test-secret", 30*time.Minute)

	h := handlers.NewAuthHandler(users, jwtManager, config.Config{Env: "dev"})

	r := setupPageRouter(http.MethodGet, "/logout", h.Logout)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusSeeOther)
	}

	if w.Header().Get("Location") != "/login" {
		t.Fatalf("got location %q, want /login", w.Header().Get("Location"))
	}

	cookie := sessionCookie(w)

	if cookie == nil {
		t.Fatal("logout should overwrite the session cookie")
	}

	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("logout cookie should be cleared, got value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}
