package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yourempire/platform/internal/app/services/settings"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/internal/app/storage/memory"
)

func newFixture() (*memory.Store, *Service) {
	store := memory.New()
	return store, New(store, store, store, store, settings.New(store, nil), nil)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email:    "Alice@Example.com",
		Password: "supersecret",
		FullName: "Alice",
		Phone:    "0300",
		City:     "Lahore",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email not normalised: %s", u.Email)
	}
	if !strings.HasPrefix(u.ReferralCode, "YE") || len(u.ReferralCode) != 6 {
		t.Fatalf("referral code %q, want YE + 4 digits", u.ReferralCode)
	}
	if u.PasswordHash == "supersecret" {
		t.Fatal("password stored in clear")
	}

	got, err := svc.Authenticate(ctx, "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated wrong user: %s", got.ID)
	}
	if _, err := svc.Authenticate(ctx, "alice@example.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "supersecret", FullName: "X"}); err == nil {
		t.Fatal("invalid email should fail")
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "x@example.com", Password: "short", FullName: "X"}); err == nil {
		t.Fatal("short password should fail")
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "x@example.com", Password: "supersecret", FullName: "X", ReferralCode: "YE9999"}); !errors.Is(err, ErrInvalidReferralCode) {
		t.Fatalf("unknown code error = %v, want ErrInvalidReferralCode", err)
	}

	if _, err := svc.Register(ctx, RegisterInput{Email: "x@example.com", Password: "supersecret", FullName: "X"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "x@example.com", Password: "supersecret", FullName: "Y"}); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("duplicate email error = %v, want ErrDuplicate", err)
	}
}

func TestReferralBinding(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	a, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "supersecret", FullName: "A"})
	if err != nil {
		t.Fatalf("register a: %v", err)
	}
	b, err := svc.Register(ctx, RegisterInput{Email: "b@example.com", Password: "supersecret", FullName: "B", ReferralCode: a.ReferralCode})
	if err != nil {
		t.Fatalf("register b: %v", err)
	}
	if a.ReferredBy != "" {
		t.Fatalf("a.referred_by = %q, want empty", a.ReferredBy)
	}
	if b.ReferredBy != a.ID {
		t.Fatalf("b.referred_by = %q, want %q", b.ReferredBy, a.ID)
	}
}

func TestMaintenanceModeBlocksUserLogin(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "supersecret", FullName: "A"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := store.SetSetting(ctx, settings.KeyMaintenanceMode, "true"); err != nil {
		t.Fatalf("enable maintenance: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "a@example.com", "supersecret"); !errors.Is(err, ErrMaintenance) {
		t.Fatalf("error = %v, want ErrMaintenance", err)
	}
}

func TestInactiveUserCannotLogin(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "supersecret", FullName: "A"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	u.IsActive = false
	if _, err := store.UpdateUser(ctx, u); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "a@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginHistory(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "supersecret", FullName: "A"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	svc.RecordLogin(ctx, u.ID, "user", "10.0.0.1")
	svc.RecordLogin(ctx, u.ID, "user", "10.0.0.2")

	records, err := svc.LoginHistory(ctx, u.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
}

func TestBuildDashboard(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	a, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "supersecret", FullName: "A"})
	if err != nil {
		t.Fatalf("register a: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "b@example.com", Password: "supersecret", FullName: "B", ReferralCode: a.ReferralCode}); err != nil {
		t.Fatalf("register b: %v", err)
	}
	if _, err := store.AdjustBalance(ctx, a.ID, 100); err != nil {
		t.Fatalf("credit: %v", err)
	}

	dash, err := svc.BuildDashboard(ctx, a.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.DirectReferrals != 1 {
		t.Fatalf("direct referrals = %d, want 1", dash.DirectReferrals)
	}
	if dash.User.WalletBalance != 100 {
		t.Fatalf("balance = %.2f, want 100", dash.User.WalletBalance)
	}
}
