package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/internal/repository"
)

type stubGoalProfileRepo struct {
	profile *models.UserProfile
	saveErr error
	saved   *repository.SaveGoalInput
}

func (s *stubGoalProfileRepo) GetByUserID(_ context.Context, _ int64) (*models.UserProfile, error) {
	if s.profile == nil {
		return nil, pgx.ErrNoRows
	}
	return s.profile, nil
}

func (s *stubGoalProfileRepo) SaveGoal(_ context.Context, userID int64, req repository.SaveGoalInput) (*models.UserProfile, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saved = &req
	name := req.DisplayName
	s.profile = &models.UserProfile{UserID: userID, DisplayName: &name, OnboardingComplete: true}
	return s.profile, nil
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func validGoalInput() GoalInput {
	return GoalInput{
		Goal:         "Cut",
		Name:         "Sam",
		Age:          intPtr(25),
		Height:       floatPtr(175),
		Weight:       floatPtr(70),
		TargetWeight: floatPtr(65),
		Gender:       "Male",
	}
}

func TestGoalInputNormalizeReportsFirstMissingField(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(in *GoalInput)
		field string
	}{
		{"goal", func(in *GoalInput) { in.Goal = "" }, "goal"},
		{"name", func(in *GoalInput) { in.Name = "   " }, "name"},
		{"age", func(in *GoalInput) { in.Age = nil }, "age"},
		{"height", func(in *GoalInput) { in.Height = nil }, "height"},
		{"weight", func(in *GoalInput) { in.Weight = nil }, "weight"},
		{"target weight", func(in *GoalInput) { in.TargetWeight = nil }, "target_weight"},
		{"gender", func(in *GoalInput) { in.Gender = "" }, "gender"},
		{"name before age", func(in *GoalInput) { in.Name = ""; in.Age = nil }, "name"},
		{"bad unit", func(in *GoalInput) { in.WeightUnit = "stone" }, "weight_unit"},
		{"zero height", func(in *GoalInput) { in.Height = floatPtr(0) }, "height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validGoalInput()
			tt.edit(&in)
			_, err := in.Normalize()
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Fatalf("expected field %s, got %s", tt.field, vErr.Field)
			}
		})
	}
}

func TestGoalInputNormalizeImperialUnits(t *testing.T) {
	in := validGoalInput()
	in.HeightUnit = "ft"
	in.Height = floatPtr(5)
	in.HeightInches = floatPtr(9)
	in.WeightUnit = "lbs"
	in.Weight = floatPtr(154.35)

	got, err := in.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.HeightCM < 175.2 || got.HeightCM > 175.3 {
		t.Fatalf("expected ~175.26cm, got %v", got.HeightCM)
	}
	if got.WeightKG < 69.99 || got.WeightKG > 70.01 {
		t.Fatalf("expected ~70kg, got %v", got.WeightKG)
	}
}

func TestGoalServicePreviewKeepsCaloriesPositiveForSmallBodies(t *testing.T) {
	in := validGoalInput()
	in.Age = intPtr(90)
	in.Height = floatPtr(100)
	in.Weight = floatPtr(30)
	in.Gender = "Female"

	targets, err := NewGoalService(&stubGoalProfileRepo{}).Preview(in)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if targets.Calories != minDailyCalories {
		t.Fatalf("expected calories floored at %d, got %+v", minDailyCalories, targets)
	}
}

func TestGoalServicePreviewDoesNotWrite(t *testing.T) {
	repo := &stubGoalProfileRepo{}
	svc := NewGoalService(repo)

	targets, err := svc.Preview(validGoalInput())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if targets.Calories != 2195 || targets.ProteinG != 154 {
		t.Fatalf("unexpected targets %+v", targets)
	}
	if repo.saved != nil {
		t.Fatal("preview must not write the profile")
	}
}

func TestGoalServiceSaveGoalWritesTargets(t *testing.T) {
	repo := &stubGoalProfileRepo{}
	svc := NewGoalService(repo)

	profile, targets, err := svc.SaveGoal(context.Background(), 7, validGoalInput())
	if err != nil {
		t.Fatalf("SaveGoal: %v", err)
	}
	if !profile.OnboardingComplete {
		t.Fatal("expected onboarding to be complete")
	}
	want := repository.SaveGoalInput{
		DisplayName:    "Sam",
		Age:            25,
		Gender:         string(models.GenderMale),
		HeightCM:       175,
		WeightKG:       70,
		TargetWeightKG: 65,
		Goal:           string(models.GoalCut),
		DailyCalories:  2195,
		ProteinG:       154,
		CarbsG:         258,
		FatG:           61,
	}
	if *repo.saved != want {
		t.Fatalf("unexpected write\n got  %+v\n want %+v", *repo.saved, want)
	}
	if targets.CarbsG != 258 {
		t.Fatalf("unexpected targets %+v", targets)
	}
}

func TestGoalServiceSaveGoalValidationSkipsWrite(t *testing.T) {
	repo := &stubGoalProfileRepo{}
	svc := NewGoalService(repo)

	in := validGoalInput()
	in.Gender = "unknown"
	if _, _, err := svc.SaveGoal(context.Background(), 7, in); err == nil {
		t.Fatal("expected validation error")
	}
	if repo.saved != nil {
		t.Fatal("invalid input must not reach the store")
	}
}

func TestGoalServiceSaveGoalErrors(t *testing.T) {
	missing := NewGoalService(&stubGoalProfileRepo{saveErr: pgx.ErrNoRows})
	if _, _, err := missing.SaveGoal(context.Background(), 7, validGoalInput()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	broken := NewGoalService(&stubGoalProfileRepo{saveErr: errors.New("conn reset")})
	_, _, err := broken.SaveGoal(context.Background(), 7, validGoalInput())
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}

	if _, _, err := broken.SaveGoal(context.Background(), 0, validGoalInput()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGoalServiceGetProfileNotFound(t *testing.T) {
	svc := NewGoalService(&stubGoalProfileRepo{})
	if _, err := svc.GetProfile(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
