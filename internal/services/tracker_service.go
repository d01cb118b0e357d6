package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/PowerScaleBack/internal/metrics"
	"github.com/saeid-a/PowerScaleBack/internal/models"
)

type workoutPlanStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.WorkoutPlan, error)
	UpdateDayField(ctx context.Context, userID int64, day, field string, value any) error
}

type TrackerService struct {
	planRepo workoutPlanStore
	metrics  *metrics.Manager
	now      func() time.Time
}

func NewTrackerService(planRepo workoutPlanStore, metricsManager *metrics.Manager) *TrackerService {
	return &TrackerService{planRepo: planRepo, metrics: metricsManager, now: time.Now}
}

// TrackerDay indexes days like time.Weekday: 0 = Sunday.
type TrackerDay struct {
	DayIndex int                  `json:"day_index"`
	Weekday  string               `json:"weekday"`
	DayName  string               `json:"day_name,omitempty"`
	Items    []models.WorkoutItem `json:"items"`
}

type ReelPage struct {
	Page       int                 `json:"page"`
	Total      int                 `json:"total"`
	Item       *models.WorkoutItem `json:"item,omitempty"`
	BackToList bool                `json:"back_to_list"`
}

func CurrentDayIndex(now time.Time) int {
	return int(now.Weekday())
}

// AdjacentDay pages through the week, wrapping at both ends.
func AdjacentDay(index, delta int) int {
	return ((index+delta)%7 + 7) % 7
}

func validDayIndex(index int) bool {
	return index >= 0 && index < len(models.CalendarWeekdays)
}

func (s *TrackerService) Today(ctx context.Context, userID int64, loc *time.Location) (*TrackerDay, error) {
	now := s.now()
	if loc != nil {
		now = now.In(loc)
	}
	return s.GetDay(ctx, userID, CurrentDayIndex(now))
}

// GetDay loads one weekday from the saved workout plan. A missing plan or day is an empty day.
func (s *TrackerService) GetDay(ctx context.Context, userID int64, dayIndex int) (*TrackerDay, error) {
	if !validDayIndex(dayIndex) {
		return nil, ErrInvalidInput
	}
	weekday := models.CalendarWeekdays[dayIndex]
	day := &TrackerDay{DayIndex: dayIndex, Weekday: weekday, Items: []models.WorkoutItem{}}

	plan, err := s.planRepo.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return day, nil
	}
	if err != nil {
		return nil, backendError("load workout plan", err)
	}

	entry, ok := plan.Plan[weekday]
	if !ok {
		return day, nil
	}
	day.DayName = entry.DayName
	if entry.Workouts != nil {
		day.Items = entry.Workouts
	}
	for i := range day.Items {
		if day.Items[i].Sets == nil {
			day.Items[i].Sets = []models.SetEntry{}
		}
	}
	return day, nil
}

// ParseSet validates the raw reps and weight fields from the tracker form.
func ParseSet(reps, weight string) (models.SetEntry, error) {
	if blank(reps) {
		return models.SetEntry{}, models.Required("reps")
	}
	if blank(weight) {
		return models.SetEntry{}, models.Required("weight")
	}
	r, err := strconv.Atoi(strings.TrimSpace(reps))
	if err != nil || r < 1 {
		return models.SetEntry{}, models.NewValidationError("reps", "reps must be a whole number of at least 1")
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	if err != nil || w < 0 {
		return models.SetEntry{}, models.NewValidationError("weight", "weight must be a number of 0 or more")
	}
	return models.SetEntry{Reps: r, Weight: w}, nil
}

// AddSet appends a performed set to one item and writes the day's item list back as a single field update.
func (s *TrackerService) AddSet(
	ctx context.Context,
	userID int64,
	dayIndex int,
	itemID string,
	reps, weight string,
) (*TrackerDay, error) {
	set, err := ParseSet(reps, weight)
	if err != nil {
		return nil, err
	}

	day, err := s.GetDay(ctx, userID, dayIndex)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range day.Items {
		if day.Items[i].ID == itemID {
			day.Items[i].Sets = append(day.Items[i].Sets, set)
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotFound
	}

	if err := s.planRepo.UpdateDayField(ctx, userID, day.Weekday, "workouts", day.Items); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, backendError("log set", err)
	}
	s.metrics.SetLogged()
	return day, nil
}

// Reel lays the day out one item per page, closing with a page that returns to the list.
func (s *TrackerService) Reel(ctx context.Context, userID int64, dayIndex int) ([]ReelPage, error) {
	day, err := s.GetDay(ctx, userID, dayIndex)
	if err != nil {
		return nil, err
	}

	total := len(day.Items) + 1
	pages := make([]ReelPage, 0, total)
	for i := range day.Items {
		pages = append(pages, ReelPage{Page: i + 1, Total: total, Item: &day.Items[i]})
	}
	pages = append(pages, ReelPage{Page: total, Total: total, BackToList: true})
	return pages, nil
}
