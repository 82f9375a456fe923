package admins

import (
	"context"
	"errors"
	"testing"

	"github.com/yourempire/platform/internal/app/domain/admin"
	"github.com/yourempire/platform/internal/app/services/settings"
	"github.com/yourempire/platform/internal/app/storage/memory"
)

func newFixture() (*memory.Store, *settings.Service, *Service) {
	store := memory.New()
	settingsSvc := settings.New(store, nil)
	return store, settingsSvc, New(store, store, settingsSvc, nil)
}

func TestSeedMasterIsIdempotent(t *testing.T) {
	_, _, svc := newFixture()
	ctx := context.Background()

	if err := svc.SeedMaster(ctx, "master@example.com", "masterpass"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.SeedMaster(ctx, "master@example.com", "otherpass"); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	masters, err := svc.List(ctx, admin.RoleMaster)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(masters) != 1 {
		t.Fatalf("masters = %d, want 1", len(masters))
	}
	// The original credential still works.
	if _, err := svc.Authenticate(ctx, "master@example.com", "masterpass"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
}

func TestCreateAdminRequiresMaster(t *testing.T) {
	_, _, svc := newFixture()
	ctx := context.Background()

	if err := svc.SeedMaster(ctx, "master@example.com", "masterpass"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	master, err := svc.Authenticate(ctx, "master@example.com", "masterpass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	created, err := svc.CreateAdmin(ctx, master.ID, "ops@example.com", "opspassword")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if created.Role != admin.RoleAdmin || created.CreatedBy != master.ID {
		t.Fatalf("unexpected admin: %+v", created)
	}

	// A second-tier admin may not create admins.
	if _, err := svc.CreateAdmin(ctx, created.ID, "more@example.com", "morepassword"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestCapabilities(t *testing.T) {
	master := admin.Admin{Role: admin.RoleMaster, IsActive: true}
	second := admin.Admin{Role: admin.RoleAdmin, IsActive: true}
	inactive := admin.Admin{Role: admin.RoleMaster, IsActive: false}

	for _, c := range []admin.Capability{admin.CapApprovePayment, admin.CapApproveWithdrawal, admin.CapManageCatalog, admin.CapManageUsers, admin.CapManageAdmins} {
		if !master.Can(c) {
			t.Fatalf("master should hold %s", c)
		}
		if inactive.Can(c) {
			t.Fatalf("inactive admin should hold nothing, got %s", c)
		}
	}
	if !second.Can(admin.CapApprovePayment) || !second.Can(admin.CapManageCatalog) {
		t.Fatal("admin missing baseline capabilities")
	}
	if second.Can(admin.CapManageAdmins) {
		t.Fatal("admin must not manage admins")
	}
}

func TestDeactivateAdmin(t *testing.T) {
	_, _, svc := newFixture()
	ctx := context.Background()

	if err := svc.SeedMaster(ctx, "master@example.com", "masterpass"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	master, _ := svc.Authenticate(ctx, "master@example.com", "masterpass")
	created, err := svc.CreateAdmin(ctx, master.ID, "ops@example.com", "opspassword")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	if _, err := svc.SetActive(ctx, master.ID, created.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ops@example.com", "opspassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("deactivated login error = %v, want ErrInvalidCredentials", err)
	}

	// Masters cannot be deactivated.
	if _, err := svc.SetActive(ctx, master.ID, master.ID, false); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestMaintenanceToggle(t *testing.T) {
	_, settingsSvc, svc := newFixture()
	ctx := context.Background()

	if err := svc.SeedMaster(ctx, "master@example.com", "masterpass"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	master, _ := svc.Authenticate(ctx, "master@example.com", "masterpass")

	if err := svc.SetMaintenance(ctx, master.ID, true); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	on, err := settingsSvc.MaintenanceMode(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !on {
		t.Fatal("maintenance mode should be on")
	}

	created, err := svc.CreateAdmin(ctx, master.ID, "ops@example.com", "opspassword")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if err := svc.SetMaintenance(ctx, created.ID, false); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("admin toggle error = %v, want ErrUnauthorized", err)
	}
}

func TestChangeOwnPassword(t *testing.T) {
	_, _, svc := newFixture()
	ctx := context.Background()

	if err := svc.SeedMaster(ctx, "master@example.com", "masterpass"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	master, _ := svc.Authenticate(ctx, "master@example.com", "masterpass")

	if err := svc.ChangeOwnPassword(ctx, master.ID, "wrongpass", "newpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current error = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangeOwnPassword(ctx, master.ID, "masterpass", "newpassword"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "master@example.com", "newpassword"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
}
