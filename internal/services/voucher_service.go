package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/PowerScaleBack/internal/metrics"
	"github.com/saeid-a/PowerScaleBack/internal/models"
)

const (
	VoucherCode        = "voucher"
	ReferralCode       = "referral"
	ReferralIncrement  = 2
	ReferralPointsGoal = 4
)

type membershipStore interface {
	SetPremium(ctx context.Context, userID int64) (*models.UserProfile, error)
	AddReferralPoints(ctx context.Context, userID int64, delta, maxPoints int) (*models.UserProfile, error)
}

type VoucherService struct {
	profileRepo membershipStore
	metrics     *metrics.Manager
}

func NewVoucherService(profileRepo membershipStore, metricsManager *metrics.Manager) *VoucherService {
	return &VoucherService{profileRepo: profileRepo, metrics: metricsManager}
}

type RedeemResult struct {
	Kind              string `json:"kind"`
	Message           string `json:"message"`
	PremiumMembership bool   `json:"premium_membership"`
	ReferralPoints    int    `json:"referral_points"`
	Continue          bool   `json:"continue"`
}

// SubmitCode matches the code exactly. Unknown codes return ErrInvalidCode and change nothing.
func (s *VoucherService) SubmitCode(ctx context.Context, userID int64, code string) (*RedeemResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, models.Required("code")
	}

	switch code {
	case VoucherCode:
		profile, err := s.profileRepo.SetPremium(ctx, userID)
		if err != nil {
			return nil, s.storeError("redeem voucher", err)
		}
		s.metrics.CodeRedeemed("voucher")
		return &RedeemResult{
			Kind:              VoucherCode,
			Message:           "Voucher applied. Premium membership is now active.",
			PremiumMembership: profile.PremiumMembership,
			ReferralPoints:    profile.ReferralPoints,
			Continue:          true,
		}, nil
	case ReferralCode:
		profile, err := s.profileRepo.AddReferralPoints(ctx, userID, ReferralIncrement, ReferralPointsGoal)
		if err != nil {
			return nil, s.storeError("redeem referral", err)
		}
		s.metrics.CodeRedeemed("referral")
		return &RedeemResult{
			Kind:              ReferralCode,
			Message:           referralMessage(profile.ReferralPoints),
			PremiumMembership: profile.PremiumMembership,
			ReferralPoints:    profile.ReferralPoints,
			Continue:          true,
		}, nil
	default:
		s.metrics.CodeRedeemed("invalid")
		return nil, ErrInvalidCode
	}
}

func referralMessage(points int) string {
	if points >= ReferralPointsGoal {
		return fmt.Sprintf("You have %d/%d referral points. Premium membership unlocked!", points, ReferralPointsGoal)
	}
	return fmt.Sprintf("You have %d/%d referral points. Refer more friends to unlock premium.", points, ReferralPointsGoal)
}

func (s *VoucherService) storeError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return backendError(op, err)
}
