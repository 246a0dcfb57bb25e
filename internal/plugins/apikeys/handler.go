package apikeys

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/almanac/internal/apperror"
)

// Handler processes HTTP requests for API key management.
type Handler struct {
	svc KeyService
}

// NewHandler creates a new apikeys Handler.
func NewHandler(svc KeyService) *Handler {
	return &Handler{svc: svc}
}

// CreateKey mints a new API key. The plaintext appears only in this
// response.
// POST /api/v1/keys
func (h *Handler) CreateKey(c echo.Context) error {
	var input CreateKeyInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid key payload")
	}
	result, err := h.svc.CreateKey(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

// ListKeys returns all registered keys without their hashes.
// GET /api/v1/keys
func (h *Handler) ListKeys(c echo.Context) error {
	keys, err := h.svc.ListKeys(c.Request().Context())
	if err != nil {
		return err
	}
	if keys == nil {
		keys = []APIKey{}
	}
	return c.JSON(http.StatusOK, keys)
}

// ToggleKey flips a key between active and inactive.
// PUT /api/v1/keys/:keyID/toggle?active=true|false
func (h *Handler) ToggleKey(c echo.Context) error {
	id, err := parseKeyID(c)
	if err != nil {
		return err
	}
	active, err := strconv.ParseBool(c.QueryParam("active"))
	if err != nil {
		return apperror.NewBadRequest("active must be true or false")
	}

	if active {
		err = h.svc.ActivateKey(c.Request().Context(), id)
	} else {
		err = h.svc.DeactivateKey(c.Request().Context(), id)
	}
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RevokeKey permanently deletes a key.
// DELETE /api/v1/keys/:keyID
func (h *Handler) RevokeKey(c echo.Context) error {
	id, err := parseKeyID(c)
	if err != nil {
		return err
	}
	if err := h.svc.RevokeKey(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// parseKeyID parses the :keyID path parameter.
func parseKeyID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("keyID"))
	if err != nil {
		return 0, apperror.NewBadRequest("key id must be an integer")
	}
	return id, nil
}
