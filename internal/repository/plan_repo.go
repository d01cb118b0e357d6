package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/PowerScaleBack/internal/models"
)

const (
	WorkoutPlansTable = "workout_plans"
	DietPlansTable    = "diet_plans"
)

var dayFields = map[string]bool{"day_name": true, "workouts": true, "meals": true}

// PlanRepository stores one JSONB plan document per user. D is the per-day shape.
type PlanRepository[D any] struct {
	db    DBTX
	table string
}

func NewWorkoutPlanRepository(db DBTX) *PlanRepository[models.WorkoutDay] {
	return &PlanRepository[models.WorkoutDay]{db: db, table: WorkoutPlansTable}
}

func NewDietPlanRepository(db DBTX) *PlanRepository[models.DietDay] {
	return &PlanRepository[models.DietDay]{db: db, table: DietPlansTable}
}

// Upsert overwrites the whole plan document.
func (r *PlanRepository[D]) Upsert(ctx context.Context, userID int64, plan map[string]D) (*models.PlanDocument[D], error) {
	payload, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}

	query := `
		INSERT INTO ` + r.table + ` (user_id, plan)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (user_id)
		DO UPDATE SET plan = EXCLUDED.plan, updated_at = NOW()
		RETURNING user_id, plan, created_at, updated_at
	`
	return r.scan(r.db.QueryRow(ctx, query, userID, payload))
}

func (r *PlanRepository[D]) GetByUserID(ctx context.Context, userID int64) (*models.PlanDocument[D], error) {
	query := `SELECT user_id, plan, created_at, updated_at FROM ` + r.table + ` WHERE user_id = $1`
	return r.scan(r.db.QueryRow(ctx, query, userID))
}

// UpdateDayField replaces a single field at plan.<day>.<field>, creating the day object if needed.
// Returns pgx.ErrNoRows when the user has no plan document.
func (r *PlanRepository[D]) UpdateDayField(ctx context.Context, userID int64, day, field string, value any) error {
	if !models.IsPlanWeekday(day) {
		return fmt.Errorf("unknown weekday %q", day)
	}
	if !dayFields[field] {
		return fmt.Errorf("unsupported plan field %q", field)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", field, err)
	}

	query := `
		UPDATE ` + r.table + `
		SET plan = jsonb_set(
				plan,
				ARRAY[$2::text],
				COALESCE(plan -> $2::text, '{}'::jsonb) || jsonb_build_object($3::text, $4::jsonb),
				true
			),
			updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := r.db.Exec(ctx, query, userID, day, field, payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PlanRepository[D]) scan(row pgx.Row) (*models.PlanDocument[D], error) {
	var (
		doc models.PlanDocument[D]
		raw []byte
	)
	if err := row.Scan(&doc.UserID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &doc.Plan); err != nil {
		return nil, fmt.Errorf("decode %s document: %w", r.table, err)
	}
	if doc.Plan == nil {
		doc.Plan = map[string]D{}
	}
	return &doc, nil
}
