package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/PowerScaleBack/internal/services"
)

type trackerService interface {
	Today(ctx context.Context, userID int64, loc *time.Location) (*services.TrackerDay, error)
	GetDay(ctx context.Context, userID int64, dayIndex int) (*services.TrackerDay, error)
	AddSet(ctx context.Context, userID int64, dayIndex int, itemID string, reps, weight string) (*services.TrackerDay, error)
	Reel(ctx context.Context, userID int64, dayIndex int) ([]services.ReelPage, error)
}

type TrackerHandler struct {
	service trackerService
}

func NewTrackerHandler(service trackerService) *TrackerHandler {
	return &TrackerHandler{service: service}
}

type trackerDayResponse struct {
	*services.TrackerDay
	PreviousDay int `json:"previous_day"`
	NextDay     int `json:"next_day"`
}

func newTrackerDayResponse(day *services.TrackerDay) trackerDayResponse {
	return trackerDayResponse{
		TrackerDay:  day,
		PreviousDay: services.AdjacentDay(day.DayIndex, -1),
		NextDay:     services.AdjacentDay(day.DayIndex, 1),
	}
}

func parseDayIndex(c *fiber.Ctx) (int, bool) {
	day, err := strconv.Atoi(c.Params("day"))
	if err != nil || day < 0 || day > 6 {
		return 0, false
	}
	return day, true
}

// Today resolves the weekday in the optional ?tz= IANA zone, defaulting to server time.
func (h *TrackerHandler) Today(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var loc *time.Location
	if tz := c.Query("tz"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return badRequest(c, "Unknown time zone")
		}
	}

	day, err := h.service.Today(c.UserContext(), userID, loc)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(newTrackerDayResponse(day))
}

func (h *TrackerHandler) GetDay(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	dayIndex, ok := parseDayIndex(c)
	if !ok {
		return badRequest(c, "day must be an index between 0 (Sunday) and 6 (Saturday)")
	}

	day, err := h.service.GetDay(c.UserContext(), userID, dayIndex)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(newTrackerDayResponse(day))
}

func (h *TrackerHandler) Reel(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	dayIndex, ok := parseDayIndex(c)
	if !ok {
		return badRequest(c, "day must be an index between 0 (Sunday) and 6 (Saturday)")
	}

	pages, err := h.service.Reel(c.UserContext(), userID, dayIndex)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"pages": pages})
}

// AddSet takes reps and weight as the raw text the user typed.
func (h *TrackerHandler) AddSet(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	dayIndex, ok := parseDayIndex(c)
	if !ok {
		return badRequest(c, "day must be an index between 0 (Sunday) and 6 (Saturday)")
	}

	var req struct {
		Reps   string `json:"reps"`
		Weight string `json:"weight"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	day, err := h.service.AddSet(c.UserContext(), userID, dayIndex, c.Params("itemID"), req.Reps, req.Weight)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newTrackerDayResponse(day))
}
