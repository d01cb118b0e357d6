package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/saeid-a/PowerScaleBack/internal/metrics"
	"github.com/saeid-a/PowerScaleBack/internal/models"
)

type stubMembershipRepo struct {
	profile       models.UserProfile
	premiumCalls  int
	referralCalls int
	err           error
}

func (s *stubMembershipRepo) SetPremium(_ context.Context, _ int64) (*models.UserProfile, error) {
	s.premiumCalls++
	if s.err != nil {
		return nil, s.err
	}
	s.profile.PremiumMembership = true
	p := s.profile
	return &p, nil
}

func (s *stubMembershipRepo) AddReferralPoints(_ context.Context, _ int64, delta, maxPoints int) (*models.UserProfile, error) {
	s.referralCalls++
	if s.err != nil {
		return nil, s.err
	}
	s.profile.ReferralPoints = min(s.profile.ReferralPoints+delta, maxPoints)
	if s.profile.ReferralPoints >= maxPoints {
		s.profile.PremiumMembership = true
	}
	p := s.profile
	return &p, nil
}

func TestVoucherCodeGrantsPremium(t *testing.T) {
	repo := &stubMembershipRepo{}
	m := metrics.NewTestManager()
	svc := NewVoucherService(repo, m)

	res, err := svc.SubmitCode(context.Background(), 1, "voucher")
	if err != nil {
		t.Fatalf("SubmitCode: %v", err)
	}
	if !res.PremiumMembership || !res.Continue || res.Kind != VoucherCode {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := testutil.ToFloat64(m.CounterCodesRedeemed.WithLabelValues("voucher")); got != 1 {
		t.Fatalf("expected one voucher redemption, got %v", got)
	}
}

func TestReferralCodeAccumulatesToCap(t *testing.T) {
	repo := &stubMembershipRepo{}
	svc := NewVoucherService(repo, nil)
	ctx := context.Background()

	first, err := svc.SubmitCode(ctx, 1, "referral")
	if err != nil {
		t.Fatalf("SubmitCode: %v", err)
	}
	if first.ReferralPoints != 2 || first.PremiumMembership {
		t.Fatalf("unexpected first result %+v", first)
	}
	if !strings.HasPrefix(first.Message, "You have 2/4 referral points") {
		t.Fatalf("unexpected message %q", first.Message)
	}

	second, _ := svc.SubmitCode(ctx, 1, "referral")
	if second.ReferralPoints != 4 || !second.PremiumMembership {
		t.Fatalf("unexpected second result %+v", second)
	}

	third, _ := svc.SubmitCode(ctx, 1, "referral")
	if third.ReferralPoints != 4 {
		t.Fatalf("points should stay capped, got %d", third.ReferralPoints)
	}
}

func TestSubmitCodeIsExactMatch(t *testing.T) {
	repo := &stubMembershipRepo{}
	svc := NewVoucherService(repo, nil)

	for _, code := range []string{"Voucher", "REFERRAL", " voucher", "promo"} {
		if _, err := svc.SubmitCode(context.Background(), 1, code); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("%q: expected ErrInvalidCode, got %v", code, err)
		}
	}
	if repo.premiumCalls+repo.referralCalls != 0 {
		t.Fatal("invalid codes must not touch the profile")
	}
}

func TestSubmitCodeBlankIsRequired(t *testing.T) {
	svc := NewVoucherService(&stubMembershipRepo{}, nil)
	_, err := svc.SubmitCode(context.Background(), 1, "  ")
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "code" {
		t.Fatalf("expected code validation error, got %v", err)
	}
}

func TestSubmitCodeBackendFailure(t *testing.T) {
	svc := NewVoucherService(&stubMembershipRepo{err: errors.New("down")}, nil)
	_, err := svc.SubmitCode(context.Background(), 1, "voucher")
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
}
