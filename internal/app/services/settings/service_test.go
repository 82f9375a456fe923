package settings

import (
	"context"
	"testing"

	"github.com/yourempire/platform/internal/app/storage/memory"
)

func TestGetFallsBackToDefault(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	got, err := svc.Get(ctx, KeyCommissionPercentage, "50")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "50" {
		t.Fatalf("got %q, want fallback 50", got)
	}

	if err := svc.Set(ctx, KeyCommissionPercentage, "30"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err = svc.Get(ctx, KeyCommissionPercentage, "50")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "30" {
		t.Fatalf("got %q, want 30", got)
	}
}

func TestTypedHelpers(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	rate, err := svc.CommissionRate(ctx)
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rate != 0.5 {
		t.Fatalf("rate = %v, want 0.5", rate)
	}

	minAmount, err := svc.MinWithdrawal(ctx)
	if err != nil {
		t.Fatalf("min: %v", err)
	}
	if minAmount != 225 {
		t.Fatalf("min = %v, want 225", minAmount)
	}

	on, err := svc.AdsEnabled(ctx)
	if err != nil {
		t.Fatalf("ads enabled: %v", err)
	}
	if !on {
		t.Fatal("ads should default to enabled")
	}

	// Junk values fall back rather than fail.
	if err := store.SetSetting(ctx, KeyMinWithdrawal, "lots"); err != nil {
		t.Fatalf("set: %v", err)
	}
	minAmount, err = svc.MinWithdrawal(ctx)
	if err != nil {
		t.Fatalf("min after junk: %v", err)
	}
	if minAmount != 225 {
		t.Fatalf("min = %v, want fallback 225", minAmount)
	}
}

func TestSeedWritesMissingKeysOnly(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()

	if err := store.SetSetting(ctx, KeyCommissionPercentage, "25"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	if err := svc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := store.GetSetting(ctx, KeyCommissionPercentage)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "25" {
		t.Fatalf("seed overwrote preset value: %q", got)
	}
	if _, err := store.GetSetting(ctx, KeyMaintenanceMode); err != nil {
		t.Fatalf("maintenance key not seeded: %v", err)
	}
}
