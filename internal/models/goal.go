package models

import "strings"

type Goal string

const (
	GoalBulk     Goal = "Bulk"
	GoalCut      Goal = "Cut"
	GoalFitness  Goal = "Fitness"
	GoalStrength Goal = "Strength"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

type WeightUnit string

const (
	WeightUnitKG  WeightUnit = "kg"
	WeightUnitLBS WeightUnit = "lbs"
)

type HeightUnit string

const (
	HeightUnitCM HeightUnit = "cm"
	HeightUnitFT HeightUnit = "ft"
)

// ParseGoal accepts the canonical names and the "Bulking"/"Cutting" spellings older clients send.
func ParseGoal(raw string) (Goal, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bulk", "bulking":
		return GoalBulk, nil
	case "cut", "cutting":
		return GoalCut, nil
	case "fitness":
		return GoalFitness, nil
	case "strength":
		return GoalStrength, nil
	case "":
		return "", Required("goal")
	default:
		return "", NewValidationError("goal", "goal must be one of: Bulk, Cut, Fitness, Strength")
	}
}

func ParseGender(raw string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	case "":
		return "", Required("gender")
	default:
		return "", NewValidationError("gender", "gender must be one of: Male, Female")
	}
}

func ParseWeightUnit(raw string) (WeightUnit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "kg", "kgs":
		return WeightUnitKG, nil
	case "lb", "lbs":
		return WeightUnitLBS, nil
	default:
		return "", NewValidationError("weight_unit", "weight_unit must be kg or lbs")
	}
}

func ParseHeightUnit(raw string) (HeightUnit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "cm":
		return HeightUnitCM, nil
	case "ft", "feet":
		return HeightUnitFT, nil
	default:
		return "", NewValidationError("height_unit", "height_unit must be cm or ft")
	}
}
