package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"radeya/internal/auth"
	"radeya/internal/ratelimit"
)

func doRequest(t *testing.T, mw echo.MiddlewareFunc, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "10.0.0.1:54321"
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c); err != nil {
		c.Error(err)
	}
	return rec
}

func TestRateLimit_AuthScopeIsStricter(t *testing.T) {
	t.Parallel()

	mw := newRateLimitMiddlewareWithConfig(nil, "access_token", ratelimit.Config{
		Window: time.Minute,
		ReadIP: 100,
		AuthIP: 2,
	})

	for i := 0; i < 2; i++ {
		if rec := doRequest(t, mw, http.MethodPost, "/api/v1/auth/login", ""); rec.Code != http.StatusOK {
			t.Fatalf("login #%d status = %d", i+1, rec.Code)
		}
	}
	rec := doRequest(t, mw, http.MethodPost, "/api/v1/auth/login", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("login #3 status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("429 without Retry-After")
	}

	// The read budget is untouched by login attempts.
	if rec := doRequest(t, mw, http.MethodGet, "/api/v1/products", ""); rec.Code != http.StatusOK {
		t.Fatalf("read status = %d", rec.Code)
	}
}

func TestRateLimit_AuthenticatedUsersGetUserBucket(t *testing.T) {
	t.Parallel()

	mgr := auth.NewManager("test-secret", time.Hour)
	token, err := mgr.Issue("user-1", "manager1", "manager")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	mw := newRateLimitMiddlewareWithConfig(mgr, "access_token", ratelimit.Config{
		Window:   time.Minute,
		ReadIP:   1,
		ReadUser: 3,
	})

	// Anonymous IP budget exhausts after one request.
	if rec := doRequest(t, mw, http.MethodGet, "/api/v1/products", ""); rec.Code != http.StatusOK {
		t.Fatalf("anon #1 status = %d", rec.Code)
	}
	if rec := doRequest(t, mw, http.MethodGet, "/api/v1/products", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("anon #2 status = %d, want 429", rec.Code)
	}

	// The token moves the caller to the larger user bucket.
	for i := 0; i < 3; i++ {
		if rec := doRequest(t, mw, http.MethodGet, "/api/v1/products", token); rec.Code != http.StatusOK {
			t.Fatalf("user request #%d status = %d", i+1, rec.Code)
		}
	}
	if rec := doRequest(t, mw, http.MethodGet, "/api/v1/products", token); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("user request #4 status = %d, want 429", rec.Code)
	}
}
