package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/PowerScaleBack/internal/cache"
	"github.com/saeid-a/PowerScaleBack/internal/metrics"
	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/internal/planbuilder"
	log "github.com/sirupsen/logrus"
)

type draftStore interface {
	Load(ctx context.Context, kind string, userID int64) ([]byte, error)
	Save(ctx context.Context, kind string, userID int64, draft []byte) error
	Delete(ctx context.Context, kind string, userID int64) error
}

type planDocumentStore[D any] interface {
	Upsert(ctx context.Context, userID int64, plan map[string]D) (*models.PlanDocument[D], error)
	GetByUserID(ctx context.Context, userID int64) (*models.PlanDocument[D], error)
}

// PlanDay is one weekday of a persisted plan, in cycle order.
type PlanDay[T any] struct {
	Weekday string `json:"weekday"`
	DayName string `json:"day_name,omitempty"`
	Items   []T    `json:"items"`
}

type planCodec[T, D any] struct {
	toDoc   func(day planbuilder.Day[T]) D
	fromDoc func(doc D) (string, []T)
}

type planPersistence[T any] struct {
	save func(ctx context.Context, userID int64, week [planbuilder.DaysInCycle]planbuilder.Day[T]) error
	load func(ctx context.Context, userID int64) ([planbuilder.DaysInCycle]PlanDay[T], bool, error)
}

// PlanService drives a per-user plan builder whose draft lives in the draft store until SavePlan.
type PlanService[T planbuilder.Item[T]] struct {
	kind    models.PlanKind
	drafts  draftStore
	store   planPersistence[T]
	metrics *metrics.Manager
	newID   func() string
}

func NewWorkoutPlanService(
	drafts draftStore,
	repo planDocumentStore[models.WorkoutDay],
	metricsManager *metrics.Manager,
) *PlanService[models.WorkoutItem] {
	codec := planCodec[models.WorkoutItem, models.WorkoutDay]{
		toDoc: func(day planbuilder.Day[models.WorkoutItem]) models.WorkoutDay {
			return models.WorkoutDay{DayName: day.Name, Workouts: day.Items}
		},
		fromDoc: func(doc models.WorkoutDay) (string, []models.WorkoutItem) {
			return doc.DayName, doc.Workouts
		},
	}
	return &PlanService[models.WorkoutItem]{
		kind:    models.PlanKindWorkout,
		drafts:  drafts,
		store:   newPlanPersistence(repo, codec),
		metrics: metricsManager,
	}
}

func NewDietPlanService(
	drafts draftStore,
	repo planDocumentStore[models.DietDay],
	metricsManager *metrics.Manager,
) *PlanService[models.MealItem] {
	codec := planCodec[models.MealItem, models.DietDay]{
		toDoc: func(day planbuilder.Day[models.MealItem]) models.DietDay {
			return models.DietDay{DayName: day.Name, Meals: day.Items}
		},
		fromDoc: func(doc models.DietDay) (string, []models.MealItem) {
			return doc.DayName, doc.Meals
		},
	}
	return &PlanService[models.MealItem]{
		kind:    models.PlanKindDiet,
		drafts:  drafts,
		store:   newPlanPersistence(repo, codec),
		metrics: metricsManager,
	}
}

func newPlanPersistence[T, D any](repo planDocumentStore[D], codec planCodec[T, D]) planPersistence[T] {
	return planPersistence[T]{
		save: func(ctx context.Context, userID int64, week [planbuilder.DaysInCycle]planbuilder.Day[T]) error {
			doc := make(map[string]D, len(week))
			for i, day := range week {
				doc[models.PlanWeekdays[i]] = codec.toDoc(day)
			}
			_, err := repo.Upsert(ctx, userID, doc)
			return err
		},
		load: func(ctx context.Context, userID int64) ([planbuilder.DaysInCycle]PlanDay[T], bool, error) {
			var days [planbuilder.DaysInCycle]PlanDay[T]
			for i, weekday := range models.PlanWeekdays {
				days[i] = PlanDay[T]{Weekday: weekday, Items: []T{}}
			}

			doc, err := repo.GetByUserID(ctx, userID)
			if errors.Is(err, pgx.ErrNoRows) {
				return days, false, nil
			}
			if err != nil {
				return days, false, err
			}
			for i, weekday := range models.PlanWeekdays {
				entry, ok := doc.Plan[weekday]
				if !ok {
					continue
				}
				name, items := codec.fromDoc(entry)
				if items == nil {
					items = []T{}
				}
				days[i].DayName = name
				days[i].Items = items
			}
			return days, true, nil
		},
	}
}

func (s *PlanService[T]) Kind() models.PlanKind {
	return s.kind
}

// WithIDGenerator overrides item id generation for every builder this service hands out.
func (s *PlanService[T]) WithIDGenerator(gen func() string) *PlanService[T] {
	s.newID = gen
	return s
}

// Draft returns the user's in-progress builder, or a fresh one.
func (s *PlanService[T]) Draft(ctx context.Context, userID int64) (*planbuilder.Builder[T], error) {
	raw, err := s.drafts.Load(ctx, string(s.kind), userID)
	if errors.Is(err, cache.ErrMiss) {
		return s.prepare(planbuilder.New[T]()), nil
	}
	if err != nil {
		return nil, backendError("load draft", err)
	}

	var b planbuilder.Builder[T]
	if err := json.Unmarshal(raw, &b); err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": userID, "kind": s.kind}).Warn("discarding unreadable plan draft")
		return s.prepare(planbuilder.New[T]()), nil
	}
	b.Normalize()
	return s.prepare(&b), nil
}

func (s *PlanService[T]) prepare(b *planbuilder.Builder[T]) *planbuilder.Builder[T] {
	if s.newID != nil {
		b.WithIDGenerator(s.newID)
	}
	return b
}

func (s *PlanService[T]) persistDraft(ctx context.Context, userID int64, b *planbuilder.Builder[T]) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.drafts.Save(ctx, string(s.kind), userID, raw); err != nil {
		return backendError("save draft", err)
	}
	return nil
}

// mutate applies fn to the draft and stores the result only when fn succeeds.
func (s *PlanService[T]) mutate(
	ctx context.Context,
	userID int64,
	fn func(b *planbuilder.Builder[T]) error,
) (*planbuilder.Builder[T], error) {
	b, err := s.Draft(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(b); err != nil {
		return nil, err
	}
	if err := s.persistDraft(ctx, userID, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ChooseMode starts building in-app, or skips planning entirely. The spreadsheet mode is not available.
func (s *PlanService[T]) ChooseMode(ctx context.Context, userID int64, mode planbuilder.Mode) (*planbuilder.Builder[T], error) {
	b, err := s.Draft(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := b.ChooseMode(mode); err != nil {
		return nil, err
	}
	if b.State == planbuilder.StateSkipped {
		if err := s.drafts.Delete(ctx, string(s.kind), userID); err != nil {
			return nil, backendError("delete draft", err)
		}
		return b, nil
	}
	if err := s.persistDraft(ctx, userID, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *PlanService[T]) SetDayName(ctx context.Context, userID int64, name string) (*planbuilder.Builder[T], error) {
	return s.mutate(ctx, userID, func(b *planbuilder.Builder[T]) error {
		return b.SetDayName(name)
	})
}

func (s *PlanService[T]) AddItem(ctx context.Context, userID int64, item T) (*planbuilder.Builder[T], T, error) {
	var added T
	b, err := s.mutate(ctx, userID, func(b *planbuilder.Builder[T]) error {
		var err error
		added, err = b.AddItem(item)
		return err
	})
	return b, added, err
}

func (s *PlanService[T]) UpdateItem(ctx context.Context, userID int64, itemID string, item T) (*planbuilder.Builder[T], error) {
	return s.mutate(ctx, userID, func(b *planbuilder.Builder[T]) error {
		_, err := b.UpdateItem(itemID, item)
		return err
	})
}

func (s *PlanService[T]) RemoveItem(ctx context.Context, userID int64, itemID string) (*planbuilder.Builder[T], error) {
	return s.mutate(ctx, userID, func(b *planbuilder.Builder[T]) error {
		return b.RemoveItem(itemID)
	})
}

func (s *PlanService[T]) SaveDay(ctx context.Context, userID int64) (*planbuilder.Builder[T], error) {
	return s.mutate(ctx, userID, func(b *planbuilder.Builder[T]) error {
		return b.SaveDay()
	})
}

func (s *PlanService[T]) SkipDay(ctx context.Context, userID int64) (*planbuilder.Builder[T], error) {
	return s.mutate(ctx, userID, func(b *planbuilder.Builder[T]) error {
		return b.SkipDay()
	})
}

func (s *PlanService[T]) EditDay(ctx context.Context, userID int64, dayIndex int) (*planbuilder.Builder[T], error) {
	return s.mutate(ctx, userID, func(b *planbuilder.Builder[T]) error {
		return b.EditDay(dayIndex)
	})
}

// Reopen replaces any draft with the persisted plan, positioned at the summary.
func (s *PlanService[T]) Reopen(ctx context.Context, userID int64) (*planbuilder.Builder[T], error) {
	days, found, err := s.store.load(ctx, userID)
	if err != nil {
		return nil, backendError("load plan", err)
	}
	if !found {
		return nil, ErrNotFound
	}

	var week [planbuilder.DaysInCycle]planbuilder.Day[T]
	for i, day := range days {
		week[i] = planbuilder.Day[T]{Weekday: day.Weekday, Name: day.DayName, Items: day.Items, Saved: true}
	}
	b := s.prepare(planbuilder.FromWeek(week))
	if err := s.persistDraft(ctx, userID, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *PlanService[T]) Discard(ctx context.Context, userID int64) error {
	if err := s.drafts.Delete(ctx, string(s.kind), userID); err != nil {
		return backendError("delete draft", err)
	}
	return nil
}

// SavePlan writes the full seven-day mapping in one document write. On failure the draft stays in summary.
func (s *PlanService[T]) SavePlan(ctx context.Context, userID int64) (*planbuilder.Builder[T], error) {
	b, err := s.Draft(ctx, userID)
	if err != nil {
		return nil, err
	}
	week, err := b.Finalize()
	if err != nil {
		return nil, err
	}

	if err := s.store.save(ctx, userID, week); err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": userID, "kind": s.kind}).Error("failed to save plan")
		return nil, backendError("save plan", err)
	}

	if err := b.MarkSaved(); err != nil {
		return nil, err
	}
	if err := s.drafts.Delete(ctx, string(s.kind), userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("plan saved but draft cleanup failed")
	}
	s.metrics.PlanSaved(string(s.kind))
	return b, nil
}

// GetPlan returns the persisted plan in Monday..Sunday order. A missing plan reads as seven empty days.
func (s *PlanService[T]) GetPlan(ctx context.Context, userID int64) ([planbuilder.DaysInCycle]PlanDay[T], error) {
	days, _, err := s.store.load(ctx, userID)
	if err != nil {
		return days, backendError("load plan", err)
	}
	return days, nil
}
