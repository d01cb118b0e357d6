package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/PowerScaleBack/internal/models"
)

type stubWorkoutPlanStore struct {
	plan      *models.WorkoutPlan
	getErr    error
	updateErr error
	updates   int
	lastDay   string
	lastField string
	lastValue any
}

func (s *stubWorkoutPlanStore) GetByUserID(_ context.Context, _ int64) (*models.WorkoutPlan, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.plan == nil {
		return nil, pgx.ErrNoRows
	}
	return s.plan, nil
}

func (s *stubWorkoutPlanStore) UpdateDayField(_ context.Context, _ int64, day, field string, value any) error {
	s.updates++
	s.lastDay = day
	s.lastField = field
	s.lastValue = value
	return s.updateErr
}

func sundayPlan() *models.WorkoutPlan {
	return &models.WorkoutPlan{Plan: map[string]models.WorkoutDay{
		"Sunday": {DayName: "Full body", Workouts: []models.WorkoutItem{
			{ID: "squat", Name: "Squat", TargetSets: 3, TargetReps: 5},
			{ID: "row", Name: "Barbell Row", TargetSets: 3, TargetReps: 8, Sets: []models.SetEntry{{Reps: 8, Weight: 40}}},
		}},
	}}
}

func TestDayIndexHelpers(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	if got := CurrentDayIndex(sunday); got != 0 {
		t.Fatalf("expected Sunday=0, got %d", got)
	}
	if got := AdjacentDay(0, -1); got != 6 {
		t.Fatalf("expected wrap to 6, got %d", got)
	}
	if got := AdjacentDay(6, 1); got != 0 {
		t.Fatalf("expected wrap to 0, got %d", got)
	}
	if got := AdjacentDay(3, 15); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}

func TestTrackerGetDayMissingPlanIsEmpty(t *testing.T) {
	svc := NewTrackerService(&stubWorkoutPlanStore{}, nil)
	day, err := svc.GetDay(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("GetDay: %v", err)
	}
	if day.Weekday != "Tuesday" || day.Items == nil || len(day.Items) != 0 {
		t.Fatalf("unexpected day %+v", day)
	}
}

func TestTrackerTodayUsesClock(t *testing.T) {
	svc := NewTrackerService(&stubWorkoutPlanStore{plan: sundayPlan()}, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }

	day, err := svc.Today(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if day.DayIndex != 0 || len(day.Items) != 2 {
		t.Fatalf("unexpected today %+v", day)
	}
	if day.Items[0].Sets == nil {
		t.Fatal("sets should default to an empty list")
	}
}

func TestTrackerAddSetValidation(t *testing.T) {
	store := &stubWorkoutPlanStore{plan: sundayPlan()}
	svc := NewTrackerService(store, nil)

	tests := []struct {
		name   string
		reps   string
		weight string
		field  string
	}{
		{"blank reps", "", "20", "reps"},
		{"blank weight", "5", "  ", "weight"},
		{"text reps", "five", "20", "reps"},
		{"negative weight", "5", "-1", "weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddSet(context.Background(), 1, 0, "squat", tt.reps, tt.weight)
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}
	if store.updates != 0 {
		t.Fatal("no write should happen for invalid sets")
	}
}

func TestTrackerAddSetPersistsDayField(t *testing.T) {
	store := &stubWorkoutPlanStore{plan: sundayPlan()}
	svc := NewTrackerService(store, nil)

	day, err := svc.AddSet(context.Background(), 1, 0, "row", "6", "42.5")
	if err != nil {
		t.Fatalf("AddSet: %v", err)
	}
	if store.lastDay != "Sunday" || store.lastField != "workouts" {
		t.Fatalf("expected update at plan.Sunday.workouts, got %s.%s", store.lastDay, store.lastField)
	}
	items, ok := store.lastValue.([]models.WorkoutItem)
	if !ok || len(items) != 2 {
		t.Fatalf("expected whole item list, got %#v", store.lastValue)
	}
	if got := day.Items[1].Sets; len(got) != 2 || got[1] != (models.SetEntry{Reps: 6, Weight: 42.5}) {
		t.Fatalf("unexpected sets %+v", got)
	}
}

func TestTrackerAddSetUnknownItem(t *testing.T) {
	svc := NewTrackerService(&stubWorkoutPlanStore{plan: sundayPlan()}, nil)
	if _, err := svc.AddSet(context.Background(), 1, 0, "nope", "5", "10"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTrackerAddSetBackendFailure(t *testing.T) {
	store := &stubWorkoutPlanStore{plan: sundayPlan(), updateErr: errors.New("timeout")}
	svc := NewTrackerService(store, nil)
	_, err := svc.AddSet(context.Background(), 1, 0, "squat", "5", "100")
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
}

func TestTrackerReelEndsWithBackToList(t *testing.T) {
	svc := NewTrackerService(&stubWorkoutPlanStore{plan: sundayPlan()}, nil)
	pages, err := svc.Reel(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("Reel: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	if pages[0].Item == nil || pages[0].Item.ID != "squat" || pages[1].Item.ID != "row" {
		t.Fatalf("unexpected page order %+v", pages)
	}
	if !pages[2].BackToList || pages[2].Item != nil {
		t.Fatalf("last page should return to list, got %+v", pages[2])
	}
}
