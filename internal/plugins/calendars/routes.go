package calendars

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/almanac/internal/plugins/apikeys"
)

// RegisterRoutes adds the calendar REST endpoints under /api/v1/calendars.
// Reads are open; definition writes require an API key and are rate
// limited per key.
func RegisterRoutes(e *echo.Echo, h *Handler, keySvc apikeys.KeyService, adminToken string) {
	g := e.Group("/api/v1/calendars")

	// Read endpoints.
	g.GET("", h.ListCalendars)
	g.GET("/:id", h.GetCalendar)
	g.GET("/:id/time/:time", h.ConvertTime)
	g.POST("/:id/storytime", h.ConvertDate)
	g.GET("/:id/holidays/:year", h.HolidaysByDay)
	g.GET("/:id/holidays/:year/all", h.AllHolidays)
	g.GET("/:id/age", h.Age)
	g.GET("/:id/truncate", h.Truncate)

	// Write endpoints.
	auth := []echo.MiddlewareFunc{
		apikeys.RequireAPIKey(keySvc, adminToken),
		apikeys.RateLimit(),
	}
	g.POST("", h.CreateCalendar, auth...)
	g.PUT("/:id", h.UpdateCalendar, auth...)
	g.DELETE("/:id", h.DeleteCalendar, auth...)
}
