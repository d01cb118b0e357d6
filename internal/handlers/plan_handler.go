package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/internal/planbuilder"
	"github.com/saeid-a/PowerScaleBack/internal/services"
)

type planService[T planbuilder.Item[T]] interface {
	Kind() models.PlanKind
	Draft(ctx context.Context, userID int64) (*planbuilder.Builder[T], error)
	ChooseMode(ctx context.Context, userID int64, mode planbuilder.Mode) (*planbuilder.Builder[T], error)
	SetDayName(ctx context.Context, userID int64, name string) (*planbuilder.Builder[T], error)
	AddItem(ctx context.Context, userID int64, item T) (*planbuilder.Builder[T], T, error)
	UpdateItem(ctx context.Context, userID int64, itemID string, item T) (*planbuilder.Builder[T], error)
	RemoveItem(ctx context.Context, userID int64, itemID string) (*planbuilder.Builder[T], error)
	SaveDay(ctx context.Context, userID int64) (*planbuilder.Builder[T], error)
	SkipDay(ctx context.Context, userID int64) (*planbuilder.Builder[T], error)
	EditDay(ctx context.Context, userID int64, dayIndex int) (*planbuilder.Builder[T], error)
	Reopen(ctx context.Context, userID int64) (*planbuilder.Builder[T], error)
	Discard(ctx context.Context, userID int64) error
	SavePlan(ctx context.Context, userID int64) (*planbuilder.Builder[T], error)
	GetPlan(ctx context.Context, userID int64) ([planbuilder.DaysInCycle]services.PlanDay[T], error)
}

// PlanHandler serves one plan kind. decode turns a request body into an item.
type PlanHandler[T planbuilder.Item[T]] struct {
	service planService[T]
	decode  func(c *fiber.Ctx) (T, error)
}

func NewWorkoutPlanHandler(service planService[models.WorkoutItem]) *PlanHandler[models.WorkoutItem] {
	return &PlanHandler[models.WorkoutItem]{service: service, decode: decodeWorkoutItem}
}

func NewDietPlanHandler(service planService[models.MealItem]) *PlanHandler[models.MealItem] {
	return &PlanHandler[models.MealItem]{service: service, decode: decodeMealItem}
}

type builderResponse[T any] struct {
	Kind     models.PlanKind                             `json:"kind"`
	State    planbuilder.State                           `json:"state"`
	DayIndex int                                         `json:"day_index"`
	Weekday  string                                      `json:"weekday,omitempty"`
	Editing  bool                                        `json:"editing"`
	DayName  string                                      `json:"day_name"`
	Items    []T                                         `json:"items"`
	Days     [planbuilder.DaysInCycle]planbuilder.Day[T] `json:"days"`
}

func (h *PlanHandler[T]) respond(c *fiber.Ctx, b *planbuilder.Builder[T]) error {
	resp := builderResponse[T]{
		Kind:     h.service.Kind(),
		State:    b.State,
		DayIndex: b.DayIndex,
		Editing:  b.Editing(),
		DayName:  b.CurrentName,
		Items:    b.Current,
		Days:     b.Summary(),
	}
	if b.State == planbuilder.StateBuildingDay {
		resp.Weekday = b.CurrentWeekday()
	}
	return c.JSON(resp)
}

func (h *PlanHandler[T]) run(
	c *fiber.Ctx,
	fn func(ctx context.Context, userID int64) (*planbuilder.Builder[T], error),
) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	b, err := fn(c.UserContext(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return h.respond(c, b)
}

func (h *PlanHandler[T]) GetDraft(c *fiber.Ctx) error {
	return h.run(c, h.service.Draft)
}

func (h *PlanHandler[T]) ChooseMode(c *fiber.Ctx) error {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	mode := planbuilder.Mode(strings.ToLower(strings.TrimSpace(req.Mode)))
	return h.run(c, func(ctx context.Context, userID int64) (*planbuilder.Builder[T], error) {
		return h.service.ChooseMode(ctx, userID, mode)
	})
}

func (h *PlanHandler[T]) SetDayName(c *fiber.Ctx) error {
	var req struct {
		DayName string `json:"day_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return h.run(c, func(ctx context.Context, userID int64) (*planbuilder.Builder[T], error) {
		return h.service.SetDayName(ctx, userID, req.DayName)
	})
}

func (h *PlanHandler[T]) AddItem(c *fiber.Ctx) error {
	item, err := h.decode(c)
	if err != nil {
		return mapServiceError(c, err)
	}
	return h.run(c, func(ctx context.Context, userID int64) (*planbuilder.Builder[T], error) {
		b, _, err := h.service.AddItem(ctx, userID, item)
		return b, err
	})
}

func (h *PlanHandler[T]) UpdateItem(c *fiber.Ctx) error {
	item, err := h.decode(c)
	if err != nil {
		return mapServiceError(c, err)
	}
	itemID := c.Params("itemID")
	return h.run(c, func(ctx context.Context, userID int64) (*planbuilder.Builder[T], error) {
		return h.service.UpdateItem(ctx, userID, itemID, item)
	})
}

func (h *PlanHandler[T]) RemoveItem(c *fiber.Ctx) error {
	itemID := c.Params("itemID")
	return h.run(c, func(ctx context.Context, userID int64) (*planbuilder.Builder[T], error) {
		return h.service.RemoveItem(ctx, userID, itemID)
	})
}

func (h *PlanHandler[T]) SaveDay(c *fiber.Ctx) error {
	return h.run(c, h.service.SaveDay)
}

func (h *PlanHandler[T]) SkipDay(c *fiber.Ctx) error {
	return h.run(c, h.service.SkipDay)
}

func (h *PlanHandler[T]) EditDay(c *fiber.Ctx) error {
	dayIndex, err := strconv.Atoi(c.Params("day"))
	if err != nil {
		return badRequest(c, "day must be an index between 0 and 6")
	}
	return h.run(c, func(ctx context.Context, userID int64) (*planbuilder.Builder[T], error) {
		return h.service.EditDay(ctx, userID, dayIndex)
	})
}

func (h *PlanHandler[T]) Reopen(c *fiber.Ctx) error {
	return h.run(c, h.service.Reopen)
}

func (h *PlanHandler[T]) Discard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.service.Discard(c.UserContext(), userID); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PlanHandler[T]) SavePlan(c *fiber.Ctx) error {
	return h.run(c, h.service.SavePlan)
}

func (h *PlanHandler[T]) GetPlan(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	days, err := h.service.GetPlan(c.UserContext(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"kind": h.service.Kind(), "days": days})
}

type workoutItemRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image"`
	Sets        int      `json:"sets"`
	Reps        int      `json:"reps"`
	Weight      *float64 `json:"weight"`
}

func decodeWorkoutItem(c *fiber.Ctx) (models.WorkoutItem, error) {
	var req workoutItemRequest
	if err := c.BodyParser(&req); err != nil {
		return models.WorkoutItem{}, services.ErrInvalidInput
	}
	item := models.WorkoutItem{
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		TargetSets:   req.Sets,
		TargetReps:   req.Reps,
		TargetWeight: req.Weight,
	}
	if entry, ok := planbuilder.LookupCatalog(models.PlanKindWorkout, item.Name); ok {
		item.Name = entry.Name
		if item.Description == "" {
			item.Description = entry.Description
		}
		if item.ImageURL == "" {
			item.ImageURL = entry.ImageURL
		}
	}
	return item, nil
}

type mealItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Time        string  `json:"time"`
	Hour        string  `json:"hour"`
	Minute      string  `json:"minute"`
	Meridiem    string  `json:"meridiem"`
	WeightGrams float64 `json:"weight_grams"`
}

// decodeMealItem accepts either a 24h "time" or the 12h hour/minute/meridiem picker fields.
func decodeMealItem(c *fiber.Ctx) (models.MealItem, error) {
	var req mealItemRequest
	if err := c.BodyParser(&req); err != nil {
		return models.MealItem{}, services.ErrInvalidInput
	}
	clock := strings.TrimSpace(req.Time)
	if clock == "" && req.Hour != "" {
		converted, err := models.MealClock(req.Hour, req.Minute, req.Meridiem)
		if err != nil {
			return models.MealItem{}, err
		}
		clock = converted
	}
	item := models.MealItem{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Time:        clock,
		WeightGrams: req.WeightGrams,
	}
	if entry, ok := planbuilder.LookupCatalog(models.PlanKindDiet, item.Name); ok {
		item.Name = entry.Name
		if item.Description == "" {
			item.Description = entry.Description
		}
	}
	return item, nil
}

func SearchCatalog(c *fiber.Ctx) error {
	kind, ok := models.ParsePlanKind(c.Params("kind"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown catalog"})
	}
	return c.JSON(fiber.Map{"kind": kind, "results": planbuilder.SearchCatalog(kind, c.Query("q"))})
}
