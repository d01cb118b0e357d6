package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/internal/repository"
)

type goalProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
	SaveGoal(ctx context.Context, userID int64, req repository.SaveGoalInput) (*models.UserProfile, error)
}

type GoalService struct {
	profileRepo goalProfileStore
}

func NewGoalService(profileRepo goalProfileStore) *GoalService {
	return &GoalService{profileRepo: profileRepo}
}

// GoalInput is the goal screen form. Pointers distinguish a missing field from zero.
type GoalInput struct {
	Goal         string
	Name         string
	Age          *int
	Height       *float64
	HeightInches *float64
	HeightUnit   string
	Weight       *float64
	TargetWeight *float64
	WeightUnit   string
	Gender       string
}

// NormalizedGoal is a validated GoalInput in metric units.
type NormalizedGoal struct {
	Goal           models.Goal
	Name           string
	Age            int
	HeightCM       float64
	WeightKG       float64
	TargetWeightKG float64
	Gender         models.Gender
}

// Normalize validates the form in screen order and converts units. It performs no I/O.
func (in GoalInput) Normalize() (*NormalizedGoal, error) {
	goal, err := models.ParseGoal(in.Goal)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.Required("name")
	}
	if in.Age == nil {
		return nil, models.Required("age")
	}
	if *in.Age <= 0 || *in.Age > 120 {
		return nil, models.NewValidationError("age", "age must be between 1 and 120")
	}
	if in.Height == nil {
		return nil, models.Required("height")
	}
	if in.Weight == nil {
		return nil, models.Required("weight")
	}
	if in.TargetWeight == nil {
		return nil, models.Required("target_weight")
	}
	gender, err := models.ParseGender(in.Gender)
	if err != nil {
		return nil, err
	}

	heightUnit, err := models.ParseHeightUnit(in.HeightUnit)
	if err != nil {
		return nil, err
	}
	weightUnit, err := models.ParseWeightUnit(in.WeightUnit)
	if err != nil {
		return nil, err
	}

	var inches float64
	if in.HeightInches != nil {
		if *in.HeightInches < 0 || *in.HeightInches >= 12 {
			return nil, models.NewValidationError("height_inches", "height_inches must be between 0 and 11")
		}
		inches = *in.HeightInches
	}

	heightCM := HeightToCm(*in.Height, heightUnit, inches)
	weightKG := WeightToKg(*in.Weight, weightUnit)
	targetKG := WeightToKg(*in.TargetWeight, weightUnit)
	if heightCM <= 0 {
		return nil, models.NewValidationError("height", "height must be greater than 0")
	}
	if weightKG <= 0 {
		return nil, models.NewValidationError("weight", "weight must be greater than 0")
	}
	if targetKG <= 0 {
		return nil, models.NewValidationError("target_weight", "target_weight must be greater than 0")
	}

	return &NormalizedGoal{
		Goal:           goal,
		Name:           name,
		Age:            *in.Age,
		HeightCM:       heightCM,
		WeightKG:       weightKG,
		TargetWeightKG: targetKG,
		Gender:         gender,
	}, nil
}

func (g *NormalizedGoal) Targets() Targets {
	return ComputeTargets(g.Goal, g.WeightKG, g.HeightCM, g.Age, g.Gender)
}

// Preview computes targets without touching the profile.
func (s *GoalService) Preview(input GoalInput) (Targets, error) {
	normalized, err := input.Normalize()
	if err != nil {
		return Targets{}, err
	}
	return normalized.Targets(), nil
}

// SaveGoal performs the initial profile write: biometrics, goal and the computed daily targets.
func (s *GoalService) SaveGoal(ctx context.Context, userID int64, input GoalInput) (*models.UserProfile, Targets, error) {
	if userID <= 0 {
		return nil, Targets{}, ErrInvalidInput
	}
	normalized, err := input.Normalize()
	if err != nil {
		return nil, Targets{}, err
	}
	targets := normalized.Targets()

	profile, err := s.profileRepo.SaveGoal(ctx, userID, repository.SaveGoalInput{
		DisplayName:    normalized.Name,
		Age:            normalized.Age,
		Gender:         string(normalized.Gender),
		HeightCM:       normalized.HeightCM,
		WeightKG:       normalized.WeightKG,
		TargetWeightKG: normalized.TargetWeightKG,
		Goal:           string(normalized.Goal),
		DailyCalories:  targets.Calories,
		ProteinG:       targets.ProteinG,
		CarbsG:         targets.CarbsG,
		FatG:           targets.FatG,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Targets{}, ErrNotFound
		}
		return nil, Targets{}, backendError("save goal", err)
	}
	return profile, targets, nil
}

func (s *GoalService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, backendError("load profile", err)
	}
	return profile, nil
}
