package billing

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devstack-vibes/clinic-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/bills", h.List)
	g.POST("/bills", h.Create)
	g.GET("/bills/latest", h.LatestPerPatient)
	g.GET("/bills/:id", h.Get)
	g.PUT("/bills/:id", h.Update)
	g.DELETE("/bills/:id", h.Delete)
	g.GET("/patients/:id/bills", h.HistoryForPatient)
}

func (h *Handler) Create(c echo.Context) error {
	var b Bill
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, NewRow(&b))
}

func (h *Handler) Get(c echo.Context) error {
	b, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "bill not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, NewRow(b))
}

func (h *Handler) List(c echo.Context) error {
	bs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	pg := pagination.FromContext(c)
	lo, hi := pg.Slice(len(bs))
	rows := make([]Row, 0, hi-lo)
	for _, b := range bs[lo:hi] {
		rows = append(rows, NewRow(b))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, len(bs), pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	var b Bill
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b.ID = c.Param("id")
	if err := h.svc.Update(c.Request().Context(), &b); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "bill not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, NewRow(&b))
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "bill not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) LatestPerPatient(c echo.Context) error {
	rows, err := h.svc.LatestPerPatient(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) HistoryForPatient(c echo.Context) error {
	rows, err := h.svc.HistoryForPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}
