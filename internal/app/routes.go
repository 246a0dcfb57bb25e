package app

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/almanac/internal/middleware"
	"github.com/keyxmakerx/almanac/internal/plugins/apikeys"
	"github.com/keyxmakerx/almanac/internal/plugins/calendars"
	"github.com/keyxmakerx/almanac/internal/plugins/presets"
)

// RegisterRoutes sets up all application routes. It constructs each
// plugin's repository/service/handler chain and delegates to the plugin's
// route registration function.
//
// This is the single place where all routes are aggregated. When a new
// plugin is added, its routes are registered here.
func (a *App) RegisterRoutes() error {
	e := a.Echo

	// Health check endpoint for container health monitoring.
	e.GET("/healthz", func(c echo.Context) error {
		if err := a.DB.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "db unreachable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Unauthenticated conversion endpoints are cheap to hammer; cap them
	// per IP before any plugin handler runs.
	e.Use(middleware.RateLimit(600, time.Minute))

	// --- Plugin Wiring ---

	// API keys protect every write endpoint.
	keyRepo := apikeys.NewKeyRepository(a.DB)
	keySvc := apikeys.NewKeyService(keyRepo)
	keyHandler := apikeys.NewHandler(keySvc)

	// Calendars: definitions plus the conversion engine.
	calRepo := calendars.NewCalendarRepository(a.DB)
	calSvc := calendars.NewCalendarService(calRepo, a.Redis)
	calHandler := calendars.NewHandler(calSvc)

	// Presets: shipped calendar templates.
	presetSvc, err := presets.NewPresetService(a.Config.Presets.Path, calSvc)
	if err != nil {
		return err
	}
	presetHandler := presets.NewHandler(presetSvc)

	// --- Plugin Routes ---

	adminToken := a.Config.API.AdminToken
	calendars.RegisterRoutes(e, calHandler, keySvc, adminToken)
	presets.RegisterRoutes(e, presetHandler, keySvc, adminToken)

	// Key management lives behind the same auth as the write endpoints.
	keyGroup := e.Group("/api/v1", apikeys.RequireAPIKey(keySvc, adminToken))
	apikeys.RegisterRoutes(keyGroup, keyHandler)

	return nil
}
