package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"radeya/internal/auth"
	"radeya/internal/store"
)

func (a *API) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"ok":        true,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	if dir := a.handler.FilesDir(); dir != "" {
		e.Static("/files", dir)
	}

	v1 := e.Group("/api/v1")
	a.registerAuthRoutes(v1)
	a.registerProtectedRoutes(v1)
	a.registerInternalRoutes(e)
}

func (a *API) registerAuthRoutes(v1 *echo.Group) {
	v1.POST("/auth/register", a.handler.Register)
	v1.POST("/auth/login", a.handler.Login)
	v1.POST("/auth/logout", a.handler.Logout)
}

func (a *API) registerProtectedRoutes(v1 *echo.Group) {
	g := v1.Group("")
	g.Use(auth.Middleware(a.tokens, a.cfg.JWTCookieName))

	g.GET("/auth/me", a.handler.Me)

	g.GET("/products", a.handler.ListProducts)
	g.GET("/categories", a.handler.ListCategories)
	g.GET("/orders", a.handler.ListOrders)

	g.GET("/accounting", a.handler.ListAccountingPeriods)
	g.POST("/accounting", a.handler.CreateAccountingPeriod)

	g.GET("/articles/random", a.handler.AllocateArticles)
	g.POST("/uploads/images", a.handler.UploadImage)

	g.POST("/imports", a.handler.SubmitImport)
	g.GET("/imports/:id", a.handler.ImportStatus)
}

func (a *API) registerInternalRoutes(e *echo.Echo) {
	internal := e.Group("/api/internal")
	internal.Use(auth.Middleware(a.tokens, a.cfg.JWTCookieName))
	internal.Use(auth.RequireRole(store.RoleAdmin))
	internal.POST("/sync", a.handler.TriggerSync)
	internal.GET("/sync", a.handler.SyncStatus)
}
