package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"radeya/internal/auth"
	"radeya/internal/service"
	"radeya/internal/store"
)

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u store.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Login:     u.Login,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	session, err := h.svc.Register(c.Request().Context(), req.Login, req.Password, req.Role)
	if err != nil {
		return mapServiceError(err)
	}
	h.setSessionCookie(c, session)
	return c.JSON(http.StatusCreated, map[string]any{"user": toUserResponse(session.User)})
}

func (h *Handler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	session, err := h.svc.Login(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		return mapServiceError(err)
	}
	h.setSessionCookie(c, session)
	return c.JSON(http.StatusOK, map[string]any{"user": toUserResponse(session.User)})
}

func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.cfg.JWTCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) Me(c echo.Context) error {
	claims := auth.GetClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	user, err := h.svc.CurrentUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"user": toUserResponse(user)})
}

func (h *Handler) setSessionCookie(c echo.Context, session service.Session) {
	c.SetCookie(&http.Cookie{
		Name:     h.cfg.JWTCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(h.cfg.JWTTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
