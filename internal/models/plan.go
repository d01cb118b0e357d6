package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type PlanKind string

const (
	PlanKindWorkout PlanKind = "workout"
	PlanKindDiet    PlanKind = "diet"
)

func ParsePlanKind(raw string) (PlanKind, bool) {
	switch PlanKind(strings.ToLower(strings.TrimSpace(raw))) {
	case PlanKindWorkout:
		return PlanKindWorkout, true
	case PlanKindDiet:
		return PlanKindDiet, true
	default:
		return "", false
	}
}

// PlanWeekdays is the build order of a plan cycle.
var PlanWeekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// CalendarWeekdays is indexed like time.Weekday (0 = Sunday).
var CalendarWeekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func IsPlanWeekday(day string) bool {
	for _, d := range PlanWeekdays {
		if d == day {
			return true
		}
	}
	return false
}

type SetEntry struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

type WorkoutItem struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	ImageURL     string     `json:"image,omitempty"`
	TargetSets   int        `json:"target_sets"`
	TargetReps   int        `json:"target_reps"`
	TargetWeight *float64   `json:"target_weight,omitempty"`
	Sets         []SetEntry `json:"sets"`
}

func (w WorkoutItem) ItemID() string {
	return w.ID
}

func (w WorkoutItem) WithID(id string) WorkoutItem {
	w.ID = id
	if w.Sets == nil {
		w.Sets = []SetEntry{}
	}
	return w
}

func (w WorkoutItem) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return Required("name")
	}
	if w.TargetSets < 1 {
		return NewValidationError("target_sets", "target_sets must be at least 1")
	}
	if w.TargetReps < 1 {
		return NewValidationError("target_reps", "target_reps must be at least 1")
	}
	if w.TargetWeight != nil && *w.TargetWeight < 0 {
		return NewValidationError("target_weight", "target_weight must be 0 or greater")
	}
	return nil
}

type MealItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Time        string  `json:"time"`
	WeightGrams float64 `json:"weight_grams"`
}

func (m MealItem) ItemID() string {
	return m.ID
}

func (m MealItem) WithID(id string) MealItem {
	m.ID = id
	return m
}

func (m MealItem) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return Required("name")
	}
	if _, err := time.Parse("15:04", m.Time); err != nil || len(m.Time) != 5 {
		return NewValidationError("time", "time must be HH:MM in 24h format")
	}
	if m.WeightGrams <= 0 {
		return NewValidationError("weight_grams", "weight_grams must be greater than 0")
	}
	return nil
}

// MealClock converts a 12h picker value (hour 1-12, minute 0-59, am/pm) into 24h HH:MM.
func MealClock(hour, minute, meridiem string) (string, error) {
	h, err := strconv.Atoi(strings.TrimSpace(hour))
	if err != nil || h < 1 || h > 12 {
		return "", NewValidationError("hour", "hour must be between 1 and 12")
	}
	m, err := strconv.Atoi(strings.TrimSpace(minute))
	if err != nil || m < 0 || m > 59 {
		return "", NewValidationError("minute", "minute must be between 0 and 59")
	}
	switch strings.ToLower(strings.TrimSpace(meridiem)) {
	case "am":
		if h == 12 {
			h = 0
		}
	case "pm":
		if h != 12 {
			h += 12
		}
	default:
		return "", NewValidationError("meridiem", "meridiem must be am or pm")
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

type WorkoutDay struct {
	DayName  string        `json:"day_name,omitempty"`
	Workouts []WorkoutItem `json:"workouts"`
}

type DietDay struct {
	DayName string     `json:"day_name,omitempty"`
	Meals   []MealItem `json:"meals"`
}

// PlanDocument is the persisted weekly plan, keyed by weekday name.
type PlanDocument[D any] struct {
	UserID    int64        `json:"user_id"`
	Plan      map[string]D `json:"plan"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type WorkoutPlan = PlanDocument[WorkoutDay]

type DietPlan = PlanDocument[DietDay]

// CatalogEntry is a suggestion from the fixed exercise or meal catalog.
type CatalogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image,omitempty"`
}
