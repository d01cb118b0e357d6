package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/internal/services"
)

type stubGoalService struct {
	profile   *models.UserProfile
	err       error
	lastUser  int64
	lastInput services.GoalInput
}

func (s *stubGoalService) Preview(input services.GoalInput) (services.Targets, error) {
	s.lastInput = input
	if s.err != nil {
		return services.Targets{}, s.err
	}
	return services.Targets{Calories: 2195, ProteinG: 154, CarbsG: 258, FatG: 61}, nil
}

func (s *stubGoalService) SaveGoal(_ context.Context, userID int64, input services.GoalInput) (*models.UserProfile, services.Targets, error) {
	s.lastUser = userID
	s.lastInput = input
	if s.err != nil {
		return nil, services.Targets{}, s.err
	}
	return s.profile, services.Targets{Calories: 2195}, nil
}

func (s *stubGoalService) GetProfile(_ context.Context, userID int64) (*models.UserProfile, error) {
	s.lastUser = userID
	return s.profile, s.err
}

func TestSaveGoalPassesOptionalFields(t *testing.T) {
	service := &stubGoalService{profile: &models.UserProfile{UserID: 12, OnboardingComplete: true}}
	handler := NewGoalHandler(service)
	app := newAuthedApp("12")
	app.Post("/api/v1/users/goal", handler.SaveGoal)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/users/goal", map[string]any{
		"goal": "Bulk", "name": "Kai", "age": 30, "height": 6, "height_inches": 1, "height_unit": "ft",
		"weight": 180, "weight_unit": "lbs", "gender": "Female",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", resp.StatusCode, body)
	}
	if service.lastUser != 12 {
		t.Fatalf("expected user 12, got %d", service.lastUser)
	}
	in := service.lastInput
	if in.Age == nil || *in.Age != 30 || in.HeightInches == nil || *in.HeightInches != 1 {
		t.Fatalf("unexpected input %+v", in)
	}
	if in.TargetWeight != nil {
		t.Fatal("omitted target_weight should stay nil so the service can report it")
	}
	if _, ok := body["targets"]; !ok {
		t.Fatalf("expected targets in response, got %+v", body)
	}
}

func TestSaveGoalValidationError(t *testing.T) {
	handler := NewGoalHandler(&stubGoalService{err: models.Required("target_weight")})
	app := newAuthedApp("12")
	app.Post("/api/v1/users/goal", handler.SaveGoal)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/users/goal", map[string]any{"goal": "Cut"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["field"] != "target_weight" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestNutritionPreview(t *testing.T) {
	handler := NewGoalHandler(&stubGoalService{})
	app := fiber.New()
	app.Post("/api/v1/nutrition/preview", handler.Preview)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/nutrition/preview", map[string]any{"goal": "Cut"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["calories"] != float64(2195) {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestGetGoalProfileNotFound(t *testing.T) {
	handler := NewGoalHandler(&stubGoalService{err: services.ErrNotFound})
	app := newAuthedApp("12")
	app.Get("/api/v1/users/profile", handler.GetProfile)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/users/profile", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
