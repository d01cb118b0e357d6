package services

import (
	"math"
	"strings"

	"github.com/saeid-a/PowerScaleBack/internal/models"
)

const (
	activityMultiplier = 1.55
	minDailyCalories   = 1200
	poundsPerKg        = 2.205
	cmPerFoot          = 30.48
	cmPerInch          = 2.54
)

type Targets struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

type goalAdjustment struct {
	calorieDelta float64
	proteinPerKg float64
	fatShare     float64
}

var goalAdjustments = map[models.Goal]goalAdjustment{
	models.GoalBulk:     {calorieDelta: 500, proteinPerKg: 2.2, fatShare: 0.25},
	models.GoalCut:      {calorieDelta: -500, proteinPerKg: 2.2, fatShare: 0.25},
	models.GoalFitness:  {calorieDelta: 0, proteinPerKg: 1.8, fatShare: 0.30},
	models.GoalStrength: {calorieDelta: 200, proteinPerKg: 2.0, fatShare: 0.20},
}

// BMR is the Mifflin-St Jeor basal metabolic rate.
func BMR(weightKg, heightCm float64, age int, gender models.Gender) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == models.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// ComputeTargets derives daily calorie and macro targets. Unknown goals fall back to Fitness.
// Calories never drop below minDailyCalories and the macros are split from the floored value.
func ComputeTargets(goal models.Goal, weightKg, heightCm float64, age int, gender models.Gender) Targets {
	adj, ok := goalAdjustments[goal]
	if !ok {
		adj = goalAdjustments[models.GoalFitness]
	}

	tdee := BMR(weightKg, heightCm, age, gender) * activityMultiplier
	calories := math.Max(minDailyCalories, tdee+adj.calorieDelta)
	protein := weightKg * adj.proteinPerKg
	fat := calories * adj.fatShare / 9
	carbs := math.Max(0, (calories-protein*4-fat*9)/4)

	return Targets{
		Calories: int(math.Round(calories)),
		ProteinG: int(math.Round(protein)),
		CarbsG:   int(math.Round(carbs)),
		FatG:     int(math.Round(math.Max(0, fat))),
	}
}

func WeightToKg(value float64, unit models.WeightUnit) float64 {
	if unit == models.WeightUnitLBS {
		return value / poundsPerKg
	}
	return value
}

// HeightToCm converts a height reading. For feet, value is whole feet and inches is the remainder.
func HeightToCm(value float64, unit models.HeightUnit, inches float64) float64 {
	if unit == models.HeightUnitFT {
		return value*cmPerFoot + inches*cmPerInch
	}
	return value
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
