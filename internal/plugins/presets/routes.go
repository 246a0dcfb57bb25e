package presets

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/almanac/internal/plugins/apikeys"
)

// RegisterRoutes adds the preset endpoints under /api/v1/presets.
// Browsing presets is open; instantiating one writes a calendar and
// requires an API key.
func RegisterRoutes(e *echo.Echo, h *Handler, keySvc apikeys.KeyService, adminToken string) {
	g := e.Group("/api/v1/presets")

	g.GET("", h.ListPresets)
	g.GET("/:slug", h.GetPreset)
	g.POST("/:slug/instantiate", h.Instantiate,
		apikeys.RequireAPIKey(keySvc, adminToken),
		apikeys.RateLimit(),
	)
}
