package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"radeya/internal/auth"
	"radeya/internal/ratelimit"
)

type tokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// NewRateLimitMiddleware limits requests per client. Authenticated users get
// a higher budget keyed by user id; anonymous traffic is keyed by IP. Login
// and register attempts share a small per-IP budget of their own.
func NewRateLimitMiddleware(parser tokenParser, cookieName string) echo.MiddlewareFunc {
	return newRateLimitMiddlewareWithConfig(parser, cookieName, ratelimit.Config{
		Window:    time.Minute,
		ReadIP:    120,
		ReadUser:  600,
		WriteIP:   30,
		WriteUser: 120,
		AuthIP:    10,
	})
}

func newRateLimitMiddlewareWithConfig(parser tokenParser, cookieName string, cfg ratelimit.Config) echo.MiddlewareFunc {
	limiter := ratelimit.New(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scope := requestScope(c)
			kind, bucket := resolveBucket(c, parser, cookieName)

			result := limiter.Take(time.Now().UTC(), scope, kind, bucket)
			setRateLimitHeaders(c.Response().Header(), result)

			if !result.Allowed {
				c.Response().Header().Set("Retry-After", strconv.FormatInt(result.ResetIn, 10))
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"error": "rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}

func requestScope(c echo.Context) ratelimit.Scope {
	path := c.Request().URL.Path
	if strings.HasPrefix(path, "/api/v1/auth/login") || strings.HasPrefix(path, "/api/v1/auth/register") {
		return ratelimit.ScopeAuth
	}
	switch c.Request().Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ratelimit.ScopeRead
	default:
		return ratelimit.ScopeWrite
	}
}

func resolveBucket(c echo.Context, parser tokenParser, cookieName string) (ratelimit.BucketKind, string) {
	token := extractToken(c, cookieName)
	if token != "" && parser != nil {
		if claims, err := parser.Parse(token); err == nil && claims.UserID != "" {
			return ratelimit.BucketUser, claims.UserID
		}
	}

	ip := strings.TrimSpace(c.RealIP())
	if ip == "" {
		ip = clientIPFromRemoteAddr(c.Request().RemoteAddr)
	}
	if ip == "" {
		ip = "unknown"
	}
	return ratelimit.BucketIP, ip
}

func setRateLimitHeaders(header http.Header, result ratelimit.Result) {
	header.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	header.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	header.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))
}

func extractToken(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authz := strings.TrimSpace(c.Request().Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return ""
}

func clientIPFromRemoteAddr(remoteAddr string) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(remoteAddr))
	if err != nil {
		return strings.TrimSpace(remoteAddr)
	}
	return strings.TrimSpace(host)
}
