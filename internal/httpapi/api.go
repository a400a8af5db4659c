package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"radeya/internal/auth"
	"radeya/internal/config"
	"radeya/internal/httpapi/handlers"
	"radeya/internal/httpapi/middlewares"
	"radeya/internal/service"
)

type API struct {
	cfg     config.Config
	tokens  *auth.Manager
	handler *handlers.Handler
}

func New(cfg config.Config, svc *service.Service, tokens *auth.Manager, trigger handlers.SyncController, filesDir string) *API {
	return &API{
		cfg:     cfg,
		tokens:  tokens,
		handler: handlers.New(cfg, svc, trigger, filesDir),
	}
}

func (a *API) NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     a.cfg.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderAccept,
			echo.HeaderContentType,
			echo.HeaderAuthorization,
		},
		ExposeHeaders: []string{
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			"Retry-After",
		},
		MaxAge: 600,
	}))
	e.Use(middlewares.NewRateLimitMiddleware(a.tokens, a.cfg.JWTCookieName))

	a.registerRoutes(e)
	return e
}
