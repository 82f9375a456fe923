package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/yourempire/platform/internal/app/domain/admin"
	"github.com/yourempire/platform/internal/app/domain/ads"
	"github.com/yourempire/platform/internal/app/domain/catalog"
	"github.com/yourempire/platform/internal/app/services/admins"
	"github.com/yourempire/platform/internal/app/services/settings"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/internal/app/storage/memory"
)

func newFixture(t *testing.T) (*memory.Store, *Service, admin.Admin) {
	t.Helper()
	store := memory.New()
	adminSvc := admins.New(store, store, settings.New(store, nil), nil)
	svc := New(store, store, store, adminSvc, nil)

	a, err := store.CreateAdmin(context.Background(), admin.Admin{
		Email: "ops@example.com", PasswordHash: "hash", Role: admin.RoleAdmin, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return store, svc, a
}

func TestSeedPackages(t *testing.T) {
	_, svc, _ := newFixture(t)
	ctx := context.Background()

	if err := svc.SeedPackages(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	pkgs, err := svc.Packages(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pkgs) != 4 {
		t.Fatalf("packages = %d, want 4", len(pkgs))
	}

	prices := map[string]float64{}
	for _, p := range pkgs {
		prices[p.Name] = p.Price
	}
	if prices["Bronze"] != 450 || prices["Silver"] != 1000 || prices["Diamond"] != 1250 || prices["Platinum"] != 2000 {
		t.Fatalf("unexpected default prices: %v", prices)
	}

	// Seeding again must not duplicate.
	if err := svc.SeedPackages(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	pkgs, _ = svc.Packages(ctx)
	if len(pkgs) != 4 {
		t.Fatalf("packages after reseed = %d, want 4", len(pkgs))
	}
}

func TestPackageCRUDRequiresCapability(t *testing.T) {
	_, svc, a := newFixture(t)
	ctx := context.Background()

	if _, err := svc.CreatePackage(ctx, "nobody", catalog.Package{Name: "X", Price: 1}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown actor error = %v, want ErrNotFound", err)
	}

	created, err := svc.CreatePackage(ctx, a.ID, catalog.Package{Name: "Gold", Price: 1500})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created.Price = 1600
	updated, err := svc.UpdatePackage(ctx, a.ID, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 1600 {
		t.Fatalf("price = %.2f, want 1600", updated.Price)
	}
	if err := svc.DeletePackage(ctx, a.ID, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestAdLifecycle(t *testing.T) {
	_, svc, a := newFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateAd(ctx, a.ID, ads.Ad{Title: "Promo", Type: "banner", Reward: 10}); err == nil {
		t.Fatal("unsupported ad type should fail")
	}

	ad, err := svc.CreateAd(ctx, a.ID, ads.Ad{Title: "Promo", Type: "video", Reward: 10})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}
	if !ad.IsActive {
		t.Fatal("new ads should start active")
	}

	toggled, err := svc.SetAdActive(ctx, a.ID, ad.ID, false)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.IsActive {
		t.Fatal("ad should be inactive")
	}

	active, err := svc.Ads(ctx, true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("active ads = %d, want 0", len(active))
	}
}
