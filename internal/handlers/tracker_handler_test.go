package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/internal/services"
)

type stubTrackerService struct {
	day        *services.TrackerDay
	pages      []services.ReelPage
	err        error
	lastLoc    *time.Location
	lastDay    int
	lastItemID string
	lastReps   string
	lastWeight string
}

func (s *stubTrackerService) Today(_ context.Context, _ int64, loc *time.Location) (*services.TrackerDay, error) {
	s.lastLoc = loc
	return s.day, s.err
}

func (s *stubTrackerService) GetDay(_ context.Context, _ int64, dayIndex int) (*services.TrackerDay, error) {
	s.lastDay = dayIndex
	return s.day, s.err
}

func (s *stubTrackerService) AddSet(_ context.Context, _ int64, dayIndex int, itemID string, reps, weight string) (*services.TrackerDay, error) {
	s.lastDay = dayIndex
	s.lastItemID = itemID
	s.lastReps = reps
	s.lastWeight = weight
	return s.day, s.err
}

func (s *stubTrackerService) Reel(_ context.Context, _ int64, dayIndex int) ([]services.ReelPage, error) {
	s.lastDay = dayIndex
	return s.pages, s.err
}

func saturday() *services.TrackerDay {
	return &services.TrackerDay{DayIndex: 6, Weekday: "Saturday", Items: []models.WorkoutItem{{ID: "a", Name: "Plank"}}}
}

func TestTrackerGetDayIncludesNeighbours(t *testing.T) {
	service := &stubTrackerService{day: saturday()}
	handler := NewTrackerHandler(service)
	app := newAuthedApp("2")
	app.Get("/api/v1/tracker/days/:day", handler.GetDay)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/tracker/days/6", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["previous_day"] != float64(5) || body["next_day"] != float64(0) {
		t.Fatalf("expected wrap to Sunday, got %+v", body)
	}
	if body["weekday"] != "Saturday" {
		t.Fatalf("expected embedded day fields, got %+v", body)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/tracker/days/7", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for day 7, got %d", resp.StatusCode)
	}
}

func TestTrackerTodayTimeZone(t *testing.T) {
	service := &stubTrackerService{day: saturday()}
	handler := NewTrackerHandler(service)
	app := newAuthedApp("2")
	app.Get("/api/v1/tracker/today", handler.Today)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/tracker/today?tz=UTC", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastLoc == nil || service.lastLoc.String() != "UTC" {
		t.Fatalf("expected UTC location, got %v", service.lastLoc)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/tracker/today?tz=Mars/Olympus", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown zone, got %d", resp.StatusCode)
	}
}

func TestTrackerAddSetPassesRawText(t *testing.T) {
	service := &stubTrackerService{day: saturday()}
	handler := NewTrackerHandler(service)
	app := newAuthedApp("2")
	app.Post("/api/v1/tracker/days/:day/items/:itemID/sets", handler.AddSet)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/tracker/days/6/items/a/sets", map[string]string{"reps": "12", "weight": "0"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastItemID != "a" || service.lastReps != "12" || service.lastWeight != "0" {
		t.Fatalf("unexpected call %+v", service)
	}
}

func TestTrackerAddSetValidation(t *testing.T) {
	handler := NewTrackerHandler(&stubTrackerService{err: models.Required("reps")})
	app := newAuthedApp("2")
	app.Post("/api/v1/tracker/days/:day/items/:itemID/sets", handler.AddSet)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/tracker/days/1/items/a/sets", map[string]string{"weight": "20"})
	if resp.StatusCode != http.StatusBadRequest || body["field"] != "reps" {
		t.Fatalf("expected reps validation error, got %d %+v", resp.StatusCode, body)
	}
}

func TestTrackerReel(t *testing.T) {
	item := models.WorkoutItem{ID: "a", Name: "Plank"}
	service := &stubTrackerService{pages: []services.ReelPage{
		{Page: 1, Total: 2, Item: &item},
		{Page: 2, Total: 2, BackToList: true},
	}}
	handler := NewTrackerHandler(service)
	app := newAuthedApp("2")
	app.Get("/api/v1/tracker/days/:day/reel", handler.Reel)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/tracker/days/3/reel", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	pages := body["pages"].([]any)
	if len(pages) != 2 || pages[1].(map[string]any)["back_to_list"] != true {
		t.Fatalf("unexpected pages %+v", pages)
	}
	if service.lastDay != 3 {
		t.Fatalf("expected day 3, got %d", service.lastDay)
	}
}
