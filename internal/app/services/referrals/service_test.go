package referrals

import (
	"context"
	"fmt"
	"testing"

	"github.com/yourempire/platform/internal/app/domain/payment"
	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/services/settings"
	"github.com/yourempire/platform/internal/app/services/wallet"
	"github.com/yourempire/platform/internal/app/storage/memory"
)

func newFixture() (*memory.Store, *Service) {
	store := memory.New()
	settingsSvc := settings.New(store, nil)
	walletSvc := wallet.New(store, nil)
	return store, New(store, store, walletSvc, settingsSvc, nil)
}

func createUser(t *testing.T, store *memory.Store, name, code, referredBy string) user.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), user.User{
		Email:        name + "@example.com",
		PasswordHash: "hash",
		FullName:     name,
		ReferralCode: code,
		ReferredBy:   referredBy,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func TestAttributeCommissionDefaultRate(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	referrer := createUser(t, store, "referrer", "YE0001", "")
	buyer := createUser(t, store, "buyer", "YE0002", referrer.ID)

	commission, err := svc.AttributeCommission(ctx, payment.Payment{ID: "p1", UserID: buyer.ID, Amount: 1000})
	if err != nil {
		t.Fatalf("attribute commission: %v", err)
	}
	if commission != 500 {
		t.Fatalf("commission = %.2f, want 500", commission)
	}

	after, err := store.GetUser(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("get referrer: %v", err)
	}
	if after.WalletBalance != 500 {
		t.Fatalf("referrer balance = %.2f, want 500", after.WalletBalance)
	}
}

func TestAttributeCommissionUsesRateAtApprovalTime(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	referrer := createUser(t, store, "referrer", "YE0001", "")
	buyer := createUser(t, store, "buyer", "YE0002", referrer.ID)

	if err := store.SetSetting(ctx, settings.KeyCommissionPercentage, "20"); err != nil {
		t.Fatalf("set rate: %v", err)
	}
	commission, err := svc.AttributeCommission(ctx, payment.Payment{ID: "p1", UserID: buyer.ID, Amount: 1000})
	if err != nil {
		t.Fatalf("attribute commission: %v", err)
	}
	if commission != 200 {
		t.Fatalf("commission = %.2f, want 200", commission)
	}
}

func TestAttributeCommissionNoReferrer(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	solo := createUser(t, store, "solo", "YE0003", "")
	commission, err := svc.AttributeCommission(ctx, payment.Payment{ID: "p1", UserID: solo.ID, Amount: 1000})
	if err != nil {
		t.Fatalf("attribute commission: %v", err)
	}
	if commission != 0 {
		t.Fatalf("commission without referrer = %.2f, want 0", commission)
	}
}

func TestBuildTreeDepthCap(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	// A chain of 15 nested referrers.
	parentID := ""
	var rootID string
	for i := 0; i < 15; i++ {
		u := createUser(t, store, fmt.Sprintf("user%d", i), fmt.Sprintf("YE%04d", i), parentID)
		if i == 0 {
			rootID = u.ID
		}
		parentID = u.ID
	}

	tree, err := svc.BuildTree(ctx, rootID, 50)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}

	depth := 1
	node := tree
	for len(node.Children) > 0 {
		node = node.Children[0]
		depth++
	}
	if depth != MaxTreeDepth {
		t.Fatalf("materialized depth = %d, want %d", depth, MaxTreeDepth)
	}
}

func TestSummaryCountsApprovedOnly(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	referrer := createUser(t, store, "referrer", "YE0001", "")
	buyer := createUser(t, store, "buyer", "YE0002", referrer.ID)

	if _, err := store.CreatePayment(ctx, payment.Payment{UserID: buyer.ID, Amount: 1000, Status: payment.StatusApproved}); err != nil {
		t.Fatalf("create approved payment: %v", err)
	}
	if _, err := store.CreatePayment(ctx, payment.Payment{UserID: buyer.ID, Amount: 450, Status: payment.StatusPending}); err != nil {
		t.Fatalf("create pending payment: %v", err)
	}

	reports, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	rep := reports[0]
	if rep.UserID != referrer.ID || rep.DirectReferrals != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.CommissionTotal != 500 {
		t.Fatalf("commission total = %.2f, want 500 (approved payments only)", rep.CommissionTotal)
	}
}
