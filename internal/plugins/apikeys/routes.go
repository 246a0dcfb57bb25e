package apikeys

import "github.com/labstack/echo/v4"

// RegisterRoutes adds key management endpoints under the authenticated API
// group. Every route here already passed RequireAPIKey; the admin token is
// how the first key gets created.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.POST("/keys", h.CreateKey)
	g.GET("/keys", h.ListKeys)
	g.PUT("/keys/:keyID/toggle", h.ToggleKey)
	g.DELETE("/keys/:keyID", h.RevokeKey)
}
