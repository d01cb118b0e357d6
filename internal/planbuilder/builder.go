// Package planbuilder holds the in-memory weekly plan builder shared by workout and diet plans.
//
// A builder walks the cycle one weekday at a time:
//
//	selecting_mode -> building_day(0..6) -> summary -> saved
//
// Choosing "no plan" ends in skipped. From summary any day can be reopened in edit mode, and saving
// an edited day returns straight to summary.
package planbuilder

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/saeid-a/PowerScaleBack/internal/models"
)

type State string

const (
	StateSelectingMode State = "selecting_mode"
	StateBuildingDay   State = "building_day"
	StateSummary       State = "summary"
	StateSaved         State = "saved"
	StateSkipped       State = "skipped"
)

type Mode string

const (
	ModeInApp       Mode = "in_app"
	ModeNoPlan      Mode = "no_plan"
	ModeUploadSheet Mode = "upload_sheet"
)

const DaysInCycle = len(models.PlanWeekdays)

var (
	ErrInvalidState    = errors.New("action not allowed in current builder state")
	ErrUnsupportedMode = errors.New("plan mode is not supported yet")
	ErrUnknownMode     = errors.New("unknown plan mode")
	ErrEmptyDay        = errors.New("day needs a name or at least one item")
	ErrItemNotFound    = errors.New("item not found in current day")
	ErrDayOutOfRange   = errors.New("day index out of range")
)

// Item is implemented by models.WorkoutItem and models.MealItem.
type Item[T any] interface {
	ItemID() string
	WithID(id string) T
	Validate() error
}

type Day[T any] struct {
	Weekday string `json:"weekday"`
	Name    string `json:"day_name,omitempty"`
	Items   []T    `json:"items"`
	Saved   bool   `json:"saved"`
}

// Builder is JSON-serializable so drafts can be parked in a draft store between requests.
type Builder[T Item[T]] struct {
	State       State               `json:"state"`
	DayIndex    int                 `json:"day_index"`
	EditingDay  *int                `json:"editing_day,omitempty"`
	CurrentName string              `json:"current_name,omitempty"`
	Current     []T                 `json:"current"`
	Days        [DaysInCycle]Day[T] `json:"days"`

	newID func() string
}

func New[T Item[T]]() *Builder[T] {
	b := &Builder[T]{State: StateSelectingMode, Current: []T{}}
	for i, weekday := range models.PlanWeekdays {
		b.Days[i] = Day[T]{Weekday: weekday, Items: []T{}}
	}
	return b
}

// NewItemID returns a time-ordered unique id.
func NewItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (b *Builder[T]) WithIDGenerator(gen func() string) *Builder[T] {
	b.newID = gen
	return b
}

func (b *Builder[T]) nextID() string {
	if b.newID != nil {
		return b.newID()
	}
	return NewItemID()
}

func (b *Builder[T]) CurrentWeekday() string {
	if b.DayIndex < 0 || b.DayIndex >= DaysInCycle {
		return ""
	}
	return models.PlanWeekdays[b.DayIndex]
}

func (b *Builder[T]) Editing() bool {
	return b.EditingDay != nil
}

func (b *Builder[T]) ChooseMode(mode Mode) error {
	if b.State != StateSelectingMode {
		return ErrInvalidState
	}
	switch mode {
	case ModeInApp:
		b.State = StateBuildingDay
		b.DayIndex = 0
		return nil
	case ModeNoPlan:
		b.State = StateSkipped
		return nil
	case ModeUploadSheet:
		return ErrUnsupportedMode
	default:
		return ErrUnknownMode
	}
}

func (b *Builder[T]) SetDayName(name string) error {
	if b.State != StateBuildingDay {
		return ErrInvalidState
	}
	b.CurrentName = strings.TrimSpace(name)
	return nil
}

// AddItem validates the details step and appends the item with a fresh id.
func (b *Builder[T]) AddItem(item T) (T, error) {
	var zero T
	if b.State != StateBuildingDay {
		return zero, ErrInvalidState
	}
	if err := item.Validate(); err != nil {
		return zero, err
	}
	item = item.WithID(b.nextID())
	b.Current = append(b.Current, item)
	return item, nil
}

func (b *Builder[T]) UpdateItem(id string, item T) (T, error) {
	var zero T
	if b.State != StateBuildingDay {
		return zero, ErrInvalidState
	}
	if err := item.Validate(); err != nil {
		return zero, err
	}
	for i := range b.Current {
		if b.Current[i].ItemID() == id {
			b.Current[i] = item.WithID(id)
			return b.Current[i], nil
		}
	}
	return zero, ErrItemNotFound
}

func (b *Builder[T]) RemoveItem(id string) error {
	if b.State != StateBuildingDay {
		return ErrInvalidState
	}
	for i := range b.Current {
		if b.Current[i].ItemID() == id {
			b.Current = append(b.Current[:i], b.Current[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// SaveDay commits the open day. It is gated on a day name or at least one item.
func (b *Builder[T]) SaveDay() error {
	if b.State != StateBuildingDay {
		return ErrInvalidState
	}
	if b.CurrentName == "" && len(b.Current) == 0 {
		return ErrEmptyDay
	}
	b.commitDay()
	return nil
}

// SkipDay explicitly records the open day as an empty rest day.
func (b *Builder[T]) SkipDay() error {
	if b.State != StateBuildingDay {
		return ErrInvalidState
	}
	b.CurrentName = ""
	b.Current = []T{}
	b.commitDay()
	return nil
}

func (b *Builder[T]) commitDay() {
	items := make([]T, len(b.Current))
	copy(items, b.Current)
	b.Days[b.DayIndex] = Day[T]{
		Weekday: models.PlanWeekdays[b.DayIndex],
		Name:    b.CurrentName,
		Items:   items,
		Saved:   true,
	}
	b.CurrentName = ""
	b.Current = []T{}

	if b.EditingDay != nil {
		b.EditingDay = nil
		b.State = StateSummary
		return
	}
	if b.DayIndex+1 < DaysInCycle {
		b.DayIndex++
		return
	}
	b.State = StateSummary
}

// EditDay reopens a day from the summary.
func (b *Builder[T]) EditDay(index int) error {
	if b.State != StateSummary {
		return ErrInvalidState
	}
	if index < 0 || index >= DaysInCycle {
		return ErrDayOutOfRange
	}
	day := b.Days[index]
	b.State = StateBuildingDay
	b.DayIndex = index
	b.EditingDay = &index
	b.CurrentName = day.Name
	b.Current = make([]T, len(day.Items))
	copy(b.Current, day.Items)
	return nil
}

// Summary returns all seven days in cycle order.
func (b *Builder[T]) Summary() [DaysInCycle]Day[T] {
	return b.Days
}

// Finalize returns the full seven-day cycle ready to persist. Days never saved are empty.
func (b *Builder[T]) Finalize() ([DaysInCycle]Day[T], error) {
	if b.State != StateSummary {
		return [DaysInCycle]Day[T]{}, ErrInvalidState
	}
	var week [DaysInCycle]Day[T]
	for i, day := range b.Days {
		items := day.Items
		if items == nil {
			items = []T{}
		}
		week[i] = Day[T]{Weekday: models.PlanWeekdays[i], Name: day.Name, Items: items, Saved: day.Saved}
	}
	return week, nil
}

func (b *Builder[T]) MarkSaved() error {
	if b.State != StateSummary {
		return ErrInvalidState
	}
	b.State = StateSaved
	return nil
}

// Normalize repairs fields a decoded draft may be missing.
func (b *Builder[T]) Normalize() {
	if b.State == "" {
		b.State = StateSelectingMode
	}
	if b.Current == nil {
		b.Current = []T{}
	}
	for i := range b.Days {
		b.Days[i].Weekday = models.PlanWeekdays[i]
		if b.Days[i].Items == nil {
			b.Days[i].Items = []T{}
		}
	}
}

// FromWeek seeds a builder in summary state from an already persisted cycle, so saved plans can be edited.
func FromWeek[T Item[T]](week [DaysInCycle]Day[T]) *Builder[T] {
	b := New[T]()
	b.Days = week
	b.State = StateSummary
	b.Normalize()
	return b
}
