package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/internal/app/storage/memory"
)

func newUser(t *testing.T, store *memory.Store, email string) user.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), user.User{
		Email:        email,
		PasswordHash: "hash",
		FullName:     "Test User",
		ReferralCode: "YE" + email[:4],
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestCreditDebit(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()
	u := newUser(t, store, "alice@example.com")

	credited, err := svc.Credit(ctx, u.ID, 100)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if credited.WalletBalance != 100 {
		t.Fatalf("balance after credit = %.2f, want 100", credited.WalletBalance)
	}

	debited, err := svc.Debit(ctx, u.ID, 40)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if debited.WalletBalance != 60 {
		t.Fatalf("balance after debit = %.2f, want 60", debited.WalletBalance)
	}
}

func TestDebitInsufficientFundsLeavesBalance(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()
	u := newUser(t, store, "bob@example.com")

	if _, err := svc.Credit(ctx, u.ID, 50); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := svc.Debit(ctx, u.ID, 80); !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("debit error = %v, want ErrInsufficientFunds", err)
	}

	after, err := store.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if after.WalletBalance != 50 {
		t.Fatalf("balance after failed debit = %.2f, want 50", after.WalletBalance)
	}
}

func TestNonPositiveAmountsRejected(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()
	u := newUser(t, store, "carol@example.com")

	if _, err := svc.Credit(ctx, u.ID, 0); err == nil {
		t.Fatal("credit of zero should fail")
	}
	if _, err := svc.Debit(ctx, u.ID, -5); err == nil {
		t.Fatal("negative debit should fail")
	}
	if _, err := svc.Adjust(ctx, u.ID, 0, "admin-1"); err == nil {
		t.Fatal("zero adjustment should fail")
	}
}

func TestAdjustCannotGoNegative(t *testing.T) {
	store := memory.New()
	svc := New(store, nil)
	ctx := context.Background()
	u := newUser(t, store, "dave@example.com")

	if _, err := svc.Adjust(ctx, u.ID, 30, "admin-1"); err != nil {
		t.Fatalf("positive adjust: %v", err)
	}
	if _, err := svc.Adjust(ctx, u.ID, -50, "admin-1"); !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("negative adjust error = %v, want ErrInsufficientFunds", err)
	}
}
