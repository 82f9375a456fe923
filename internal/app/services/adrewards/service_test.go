package adrewards

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourempire/platform/internal/app/domain/ads"
	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/services/settings"
	"github.com/yourempire/platform/internal/app/storage/memory"
)

func newFixture(t *testing.T) (*memory.Store, *Service, user.User, ads.Ad) {
	t.Helper()
	store := memory.New()
	svc := New(store, store, settings.New(store, nil), nil)

	ctx := context.Background()
	u, err := store.CreateUser(ctx, user.User{
		Email:        "viewer@example.com",
		PasswordHash: "hash",
		FullName:     "Viewer",
		ReferralCode: "YE0001",
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	ad, err := store.CreateAd(ctx, ads.Ad{Title: "Promo", Type: "video", Reward: 15, IsActive: true})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}
	return store, svc, u, ad
}

func TestClaimCreditsExactlyOncePerDay(t *testing.T) {
	store, svc, u, ad := newFixture(t)
	ctx := context.Background()

	view, credited, err := svc.Claim(ctx, u.ID, ad.ID)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if view.Reward != 15 {
		t.Fatalf("view reward = %.2f, want 15", view.Reward)
	}
	if credited.WalletBalance != 15 {
		t.Fatalf("balance = %.2f, want 15", credited.WalletBalance)
	}

	if _, _, err := svc.Claim(ctx, u.ID, ad.ID); !errors.Is(err, ErrAlreadyViewed) {
		t.Fatalf("second claim error = %v, want ErrAlreadyViewed", err)
	}
	after, _ := store.GetUser(ctx, u.ID)
	if after.WalletBalance != 15 {
		t.Fatalf("balance after double claim = %.2f, want 15", after.WalletBalance)
	}
}

func TestClaimInactiveAd(t *testing.T) {
	store, svc, u, ad := newFixture(t)
	ctx := context.Background()

	ad.IsActive = false
	if _, err := store.UpdateAd(ctx, ad); err != nil {
		t.Fatalf("deactivate ad: %v", err)
	}
	if _, _, err := svc.Claim(ctx, u.ID, ad.ID); err == nil {
		t.Fatal("claim of inactive ad should fail")
	}
}

func TestClaimHonorsAdsEnabledSetting(t *testing.T) {
	store, svc, u, ad := newFixture(t)
	ctx := context.Background()

	if err := store.SetSetting(ctx, settings.KeyAdsEnabled, "false"); err != nil {
		t.Fatalf("disable ads: %v", err)
	}
	if _, _, err := svc.Claim(ctx, u.ID, ad.ID); !errors.Is(err, ErrAdsDisabled) {
		t.Fatalf("error = %v, want ErrAdsDisabled", err)
	}
}

func TestEligible(t *testing.T) {
	_, svc, u, ad := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	ok, err := svc.Eligible(ctx, u.ID, ad.ID, now)
	if err != nil {
		t.Fatalf("eligible: %v", err)
	}
	if !ok {
		t.Fatal("fresh user should be eligible")
	}

	if _, _, err := svc.Claim(ctx, u.ID, ad.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	ok, err = svc.Eligible(ctx, u.ID, ad.ID, now)
	if err != nil {
		t.Fatalf("eligible after claim: %v", err)
	}
	if ok {
		t.Fatal("user should not be eligible twice in one day")
	}
}

func TestAvailableAdsExcludesClaimed(t *testing.T) {
	store, svc, u, ad := newFixture(t)
	ctx := context.Background()

	second, err := store.CreateAd(ctx, ads.Ad{Title: "Other", Type: "image", Reward: 5, IsActive: true})
	if err != nil {
		t.Fatalf("create second ad: %v", err)
	}
	if _, _, err := svc.Claim(ctx, u.ID, ad.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}

	available, err := svc.AvailableAds(ctx, u.ID)
	if err != nil {
		t.Fatalf("available ads: %v", err)
	}
	if len(available) != 1 || available[0].ID != second.ID {
		t.Fatalf("available = %+v, want only the unclaimed ad", available)
	}
}

func TestAdStats(t *testing.T) {
	store, svc, u, ad := newFixture(t)
	ctx := context.Background()

	other, err := store.CreateUser(ctx, user.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		FullName:     "Other",
		ReferralCode: "YE0002",
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, _, err := svc.Claim(ctx, u.ID, ad.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, _, err := svc.Claim(ctx, other.ID, ad.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}

	stats, err := svc.AdStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("stats count = %d, want 1", len(stats))
	}
	if stats[0].UniqueViewers != 2 || stats[0].TotalPaid != 30 {
		t.Fatalf("unexpected stats: %+v", stats[0])
	}
}
