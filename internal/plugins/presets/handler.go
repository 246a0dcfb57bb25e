package presets

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler processes HTTP requests for calendar presets.
type Handler struct {
	svc PresetService
}

// NewHandler creates a new presets Handler.
func NewHandler(svc PresetService) *Handler {
	return &Handler{svc: svc}
}

// ListPresets returns all shipped presets.
// GET /api/v1/presets
func (h *Handler) ListPresets(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.ListPresets())
}

// GetPreset returns a single preset by slug.
// GET /api/v1/presets/:slug
func (h *Handler) GetPreset(c echo.Context) error {
	preset, err := h.svc.GetPreset(c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, preset)
}

// Instantiate creates a stored calendar from a preset.
// POST /api/v1/presets/:slug/instantiate
func (h *Handler) Instantiate(c echo.Context) error {
	cal, err := h.svc.Instantiate(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cal)
}
