package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handler exposes the login endpoints.
type Handler struct {
	manager *Manager
	logger  zerolog.Logger
}

func NewHandler(manager *Manager, logger zerolog.Logger) *Handler {
	return &Handler{manager: manager, logger: logger}
}

// RegisterRoutes mounts the public auth endpoints on g and the
// session-scoped ones on protected.
func (h *Handler) RegisterRoutes(g *echo.Group, protected *echo.Group) {
	g.POST("/auth/login", h.Login)
	protected.POST("/auth/logout", h.Logout)
	protected.GET("/auth/session", h.Session)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	User      sessionUser `json:"user"`
	ExpiresAt string      `json:"expiresAt"`
}

type sessionUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	token, claims, err := h.manager.Login(req.Username, req.Password)
	if err != nil {
		h.logger.Warn().Str("username", req.Username).Msg("failed login attempt")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	h.logger.Info().Str("username", claims.Username).Msg("session opened")
	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		User:      sessionUser{Username: claims.Username, Role: claims.Role},
		ExpiresAt: claims.ExpiresAt.Time.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) Logout(c echo.Context) error {
	claims := ClaimsFromContext(c)
	if claims != nil {
		h.manager.Logout(claims.ID)
		h.logger.Info().Str("username", claims.Username).Msg("session closed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Session reports the identity behind the current token. The frontend uses
// it to restore state after a reload.
func (h *Handler) Session(c echo.Context) error {
	claims := ClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}
	return c.JSON(http.StatusOK, sessionUser{Username: claims.Username, Role: claims.Role})
}
