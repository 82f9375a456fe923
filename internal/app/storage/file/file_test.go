package file

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/storage"
)

func TestStateSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	u, err := store.CreateUser(ctx, user.User{
		Email:        "saved@example.com",
		PasswordHash: "hash",
		FullName:     "Saved User",
		ReferralCode: "YE1234",
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := store.AdjustBalance(ctx, u.ID, 750); err != nil {
		t.Fatalf("credit: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	got, err := reopened.GetUserByEmail(ctx, "saved@example.com")
	if err != nil {
		t.Fatalf("get user after reopen: %v", err)
	}
	if got.WalletBalance != 750 {
		t.Fatalf("balance after reopen = %.2f, want 750", got.WalletBalance)
	}
	if got.ReferralCode != "YE1234" {
		t.Fatalf("referral code after reopen = %q", got.ReferralCode)
	}

	// The rebuilt referral code index must serve lookups.
	if _, err := reopened.GetUserByReferralCode(ctx, "ye1234"); err != nil {
		t.Fatalf("lookup by referral code after reopen: %v", err)
	}
}

func TestFailedMutationDoesNotFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	u, err := store.CreateUser(ctx, user.User{
		Email:        "broke@example.com",
		PasswordHash: "hash",
		FullName:     "Broke User",
		ReferralCode: "YE9999",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := store.AdjustBalance(ctx, u.ID, -10); !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("overdraft error = %v, want ErrInsufficientFunds", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.WalletBalance != 0 {
		t.Fatalf("balance = %.2f, want 0", got.WalletBalance)
	}
}
