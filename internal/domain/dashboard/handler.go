package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.Dashboard)
	g.GET("/dashboard/stats", h.Stats)
	g.GET("/dashboard/today", h.Today)
}

// Dashboard returns the headline numbers together with today's schedule,
// the full landing-page payload in one call.
func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	rows, err := h.svc.Today(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, struct {
		*Stats
		Today []TodayRow `json:"today"`
	}{Stats: stats, Today: rows})
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Today(c echo.Context) error {
	rows, err := h.svc.Today(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}
