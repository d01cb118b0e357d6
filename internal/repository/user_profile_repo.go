package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/PowerScaleBack/internal/models"
)

const profileColumns = `id, user_id, email, phone_number, display_name, avatar_url, age, gender,
	height_cm, weight_kg, target_weight_kg, goal, daily_calories, protein_g, carbs_g, fat_g,
	premium_membership, referral_points, onboarding_complete, created_at, updated_at`

// PrefixUpperBound is appended to a prefix to close a range scan, matching every string that starts with it.
const PrefixUpperBound = "\uf8ff"

type SearchField string

const (
	SearchByDisplayName SearchField = "display_name"
	SearchByEmail       SearchField = "email"
	SearchByPhone       SearchField = "phone_number"
)

type UserProfileRepository struct {
	db DBTX
}

func NewUserProfileRepository(db DBTX) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

func (r *UserProfileRepository) CreateEmpty(ctx context.Context, userID int64, email, phone string) error {
	query := `INSERT INTO user_profiles (user_id, email, phone_number) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, userID, email, phone)
	return err
}

func (r *UserProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1`
	return scanProfile(r.db.QueryRow(ctx, query, userID))
}

type SaveGoalInput struct {
	DisplayName    string
	Age            int
	Gender         string
	HeightCM       float64
	WeightKG       float64
	TargetWeightKG float64
	Goal           string
	DailyCalories  int
	ProteinG       int
	CarbsG         int
	FatG           int
}

// SaveGoal writes the biometrics and computed targets from the goal screen and completes onboarding.
func (r *UserProfileRepository) SaveGoal(ctx context.Context, userID int64, req SaveGoalInput) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET display_name = $1,
			age = $2,
			gender = $3,
			height_cm = $4,
			weight_kg = $5,
			target_weight_kg = $6,
			goal = $7,
			daily_calories = $8,
			protein_g = $9,
			carbs_g = $10,
			fat_g = $11,
			onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $12
		RETURNING ` + profileColumns
	return scanProfile(r.db.QueryRow(ctx, query,
		req.DisplayName,
		req.Age,
		req.Gender,
		req.HeightCM,
		req.WeightKG,
		req.TargetWeightKG,
		req.Goal,
		req.DailyCalories,
		req.ProteinG,
		req.CarbsG,
		req.FatG,
		userID,
	))
}

func (r *UserProfileRepository) SetPremium(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET premium_membership = TRUE, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns
	return scanProfile(r.db.QueryRow(ctx, query, userID))
}

// AddReferralPoints increments the referral counter up to maxPoints and grants premium once the cap is reached.
func (r *UserProfileRepository) AddReferralPoints(ctx context.Context, userID int64, delta, maxPoints int) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET referral_points = LEAST(referral_points + $1, $2),
			premium_membership = premium_membership OR referral_points + $1 >= $2,
			updated_at = NOW()
		WHERE user_id = $3
		RETURNING ` + profileColumns
	return scanProfile(r.db.QueryRow(ctx, query, delta, maxPoints, userID))
}

func (r *UserProfileRepository) SetAvatar(ctx context.Context, userID int64, avatarURL string) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET avatar_url = $1, updated_at = NOW()
		WHERE user_id = $2
		RETURNING ` + profileColumns
	return scanProfile(r.db.QueryRow(ctx, query, avatarURL, userID))
}

// ListDefault returns the profiles shown before the user types a query.
func (r *UserProfileRepository) ListDefault(ctx context.Context, limit int) ([]models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles ORDER BY updated_at DESC, id DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

// SearchByPrefix runs one range scan `field >= prefix AND field <= prefix+U+F8FF` in byte order.
func (r *UserProfileRepository) SearchByPrefix(
	ctx context.Context,
	field SearchField,
	prefix string,
	limit int,
) ([]models.UserProfile, error) {
	switch field {
	case SearchByDisplayName, SearchByEmail, SearchByPhone:
	default:
		return nil, fmt.Errorf("unsupported search field %q", field)
	}

	column := string(field)
	query := `SELECT ` + profileColumns + ` FROM user_profiles
		WHERE ` + column + ` COLLATE "C" >= $1 AND ` + column + ` COLLATE "C" <= $2
		ORDER BY ` + column + ` COLLATE "C", id
		LIMIT $3`
	return r.list(ctx, query, prefix, prefix+PrefixUpperBound, limit)
}

func (r *UserProfileRepository) list(ctx context.Context, query string, args ...any) ([]models.UserProfile, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.UserProfile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Email,
		&profile.PhoneNumber,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.Age,
		&profile.Gender,
		&profile.HeightCM,
		&profile.WeightKG,
		&profile.TargetWeightKG,
		&profile.Goal,
		&profile.DailyCalories,
		&profile.ProteinG,
		&profile.CarbsG,
		&profile.FatG,
		&profile.PremiumMembership,
		&profile.ReferralPoints,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
