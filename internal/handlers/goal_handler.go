package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/internal/services"
)

type goalService interface {
	Preview(input services.GoalInput) (services.Targets, error)
	SaveGoal(ctx context.Context, userID int64, input services.GoalInput) (*models.UserProfile, services.Targets, error)
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
}

type GoalHandler struct {
	service goalService
}

func NewGoalHandler(service goalService) *GoalHandler {
	return &GoalHandler{service: service}
}

type goalRequest struct {
	Goal         string   `json:"goal"`
	Name         string   `json:"name"`
	Age          *int     `json:"age"`
	Height       *float64 `json:"height"`
	HeightInches *float64 `json:"height_inches"`
	HeightUnit   string   `json:"height_unit"`
	Weight       *float64 `json:"weight"`
	TargetWeight *float64 `json:"target_weight"`
	WeightUnit   string   `json:"weight_unit"`
	Gender       string   `json:"gender"`
}

func (r goalRequest) input() services.GoalInput {
	return services.GoalInput{
		Goal:         r.Goal,
		Name:         r.Name,
		Age:          r.Age,
		Height:       r.Height,
		HeightInches: r.HeightInches,
		HeightUnit:   r.HeightUnit,
		Weight:       r.Weight,
		TargetWeight: r.TargetWeight,
		WeightUnit:   r.WeightUnit,
		Gender:       r.Gender,
	}
}

func (h *GoalHandler) SaveGoal(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req goalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, targets, err := h.service.SaveGoal(c.UserContext(), userID, req.input())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile, "targets": targets})
}

func (h *GoalHandler) Preview(c *fiber.Ctx) error {
	var req goalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	targets, err := h.service.Preview(req.input())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(targets)
}

func (h *GoalHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	profile, err := h.service.GetProfile(c.UserContext(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(profile)
}
