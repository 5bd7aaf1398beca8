package reports

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devstack-vibes/clinic-api/internal/domain/registry"
	"github.com/devstack-vibes/clinic-api/internal/platform/artifacts"
	"github.com/devstack-vibes/clinic-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/reports", h.List)
	g.POST("/reports", h.Generate)
	g.GET("/reports/:id/download", h.Download)
	g.DELETE("/reports/:id", h.Delete)
}

type generateRequest struct {
	PatientID string `json:"patientId"`
}

func (h *Handler) Generate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	report, err := h.svc.Generate(c.Request().Context(), req.PatientID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, report)
}

func (h *Handler) List(c echo.Context) error {
	rs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	pg := pagination.FromContext(c)
	lo, hi := pg.Slice(len(rs))
	return c.JSON(http.StatusOK, pagination.NewResponse(rs[lo:hi], len(rs), pg.Limit, pg.Offset))
}

func (h *Handler) Download(c echo.Context) error {
	report, content, err := h.svc.Download(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "report not found")
		}
		if errors.Is(err, artifacts.ErrArtifactGone) {
			return echo.NewHTTPError(http.StatusGone,
				"report file is no longer available; generate a new report")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", report.FileName))
	return c.Blob(http.StatusOK, "application/pdf", content)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
