package models

import "time"

type UserProfile struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	Email              string    `json:"email"`
	PhoneNumber        string    `json:"phone_number"`
	DisplayName        *string   `json:"display_name"`
	AvatarURL          *string   `json:"avatar_url"`
	Age                *int      `json:"age"`
	Gender             *string   `json:"gender"`
	HeightCM           *float64  `json:"height_cm"`
	WeightKG           *float64  `json:"weight_kg"`
	TargetWeightKG     *float64  `json:"target_weight_kg"`
	Goal               *string   `json:"goal"`
	DailyCalories      *int      `json:"daily_calories"`
	ProteinG           *int      `json:"protein_g"`
	CarbsG             *int      `json:"carbs_g"`
	FatG               *int      `json:"fat_g"`
	PremiumMembership  bool      `json:"premium_membership"`
	ReferralPoints     int       `json:"referral_points"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PublicProfile is the projection other users see in search results and on profile pages.
type PublicProfile struct {
	UserID            int64  `json:"user_id"`
	DisplayName       string `json:"display_name"`
	Email             string `json:"email"`
	AvatarURL         string `json:"avatar_url,omitempty"`
	Goal              string `json:"goal,omitempty"`
	PremiumMembership bool   `json:"premium_membership"`
}

func (p *UserProfile) Public() PublicProfile {
	public := PublicProfile{
		UserID:            p.UserID,
		Email:             p.Email,
		PremiumMembership: p.PremiumMembership,
	}
	if p.DisplayName != nil {
		public.DisplayName = *p.DisplayName
	}
	if p.AvatarURL != nil {
		public.AvatarURL = *p.AvatarURL
	}
	if p.Goal != nil {
		public.Goal = *p.Goal
	}
	return public
}
