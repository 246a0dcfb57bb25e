package calendars

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/almanac/internal/almanac"
	"github.com/keyxmakerx/almanac/internal/apperror"
)

// Handler processes HTTP requests for the calendars plugin.
type Handler struct {
	svc CalendarService
}

// NewHandler creates a new calendars Handler.
func NewHandler(svc CalendarService) *Handler {
	return &Handler{svc: svc}
}

// CreateCalendar stores a new calendar definition.
// POST /api/v1/calendars
func (h *Handler) CreateCalendar(c echo.Context) error {
	var input CreateCalendarInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid calendar payload")
	}

	cal, err := h.svc.CreateCalendar(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cal)
}

// ListCalendars returns all stored calendar definitions.
// GET /api/v1/calendars
func (h *Handler) ListCalendars(c echo.Context) error {
	cals, err := h.svc.ListCalendars(c.Request().Context())
	if err != nil {
		return err
	}
	if cals == nil {
		cals = []Calendar{}
	}
	return c.JSON(http.StatusOK, cals)
}

// GetCalendar returns a single calendar definition.
// GET /api/v1/calendars/:id
func (h *Handler) GetCalendar(c echo.Context) error {
	cal, err := h.svc.GetCalendar(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cal)
}

// UpdateCalendar replaces a calendar definition.
// PUT /api/v1/calendars/:id
func (h *Handler) UpdateCalendar(c echo.Context) error {
	var input UpdateCalendarInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid calendar payload")
	}
	if err := h.svc.UpdateCalendar(c.Request().Context(), c.Param("id"), input); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteCalendar removes a calendar definition.
// DELETE /api/v1/calendars/:id
func (h *Handler) DeleteCalendar(c echo.Context) error {
	if err := h.svc.DeleteCalendar(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ConvertTime converts a story time into a structured, rendered date.
// GET /api/v1/calendars/:id/time/:time
func (h *Handler) ConvertTime(c echo.Context) error {
	t, err := parseStoryTime(c.Param("time"))
	if err != nil {
		return err
	}
	result, err := h.svc.ConvertTime(c.Request().Context(), c.Param("id"), t)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ConvertDate converts date fields back into a story time.
// POST /api/v1/calendars/:id/storytime
func (h *Handler) ConvertDate(c echo.Context) error {
	var input DateInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid date payload")
	}
	t, err := h.svc.ConvertDate(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"time": t})
}

// HolidaysByDay returns the day-of-year -> holiday name map for a year.
// GET /api/v1/calendars/:id/holidays/:year
func (h *Handler) HolidaysByDay(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return apperror.NewBadRequest("year must be an integer")
	}
	byDay, err := h.svc.HolidaysByDay(c.Request().Context(), c.Param("id"), year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, byDay)
}

// AllHolidays returns the holiday name -> day-of-year listing for a year.
// GET /api/v1/calendars/:id/holidays/:year/all
func (h *Handler) AllHolidays(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return apperror.NewBadRequest("year must be an integer")
	}
	byName, err := h.svc.AllHolidays(c.Request().Context(), c.Param("id"), year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, byName)
}

// Age returns the formatted age between two story times.
// GET /api/v1/calendars/:id/age?birthdate=N&current=N
func (h *Handler) Age(c echo.Context) error {
	birthdate, err := parseStoryTime(c.QueryParam("birthdate"))
	if err != nil {
		return err
	}
	current, err := parseStoryTime(c.QueryParam("current"))
	if err != nil {
		return err
	}
	result, err := h.svc.Age(c.Request().Context(), c.Param("id"), birthdate, current)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Truncate rounds or truncates a story time to an hour/day/year boundary.
// GET /api/v1/calendars/:id/truncate?time=N&unit=hour|day|year
func (h *Handler) Truncate(c echo.Context) error {
	t, err := parseStoryTime(c.QueryParam("time"))
	if err != nil {
		return err
	}
	truncated, err := h.svc.Truncate(c.Request().Context(), c.Param("id"), t, c.QueryParam("unit"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"time": truncated})
}

// parseStoryTime parses a signed minute count from a path or query value.
func parseStoryTime(raw string) (almanac.StoryTime, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.NewBadRequest("story time must be a signed integer minute count")
	}
	return almanac.StoryTime(v), nil
}
