package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/lib/pq"

	"github.com/yourempire/platform/internal/app/domain/payment"
	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/storage"
)

func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := New(db)
	ctx := context.Background()

	u, err := store.CreateUser(ctx, user.User{
		Email:        "integration@example.com",
		PasswordHash: "hash",
		FullName:     "Integration User",
		ReferralCode: "YE0001",
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := store.AdjustBalance(ctx, u.ID, 100); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := store.AdjustBalance(ctx, u.ID, -500); !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("overdraft error = %v, want ErrInsufficientFunds", err)
	}

	p, err := store.CreatePayment(ctx, payment.Payment{UserID: u.ID, PackageID: "pkg", Amount: 450, PaymentMethodID: "pm"})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if _, err := store.TransitionPayment(ctx, p.ID, payment.StatusPending, payment.StatusApproved, "admin-1"); err != nil {
		t.Fatalf("approve payment: %v", err)
	}
	if _, err := store.TransitionPayment(ctx, p.ID, payment.StatusPending, payment.StatusRejected, "admin-2"); !errors.Is(err, storage.ErrAlreadyResolved) {
		t.Fatalf("second transition error = %v, want ErrAlreadyResolved", err)
	}
}

func TestAdjustBalanceInsufficientFunds(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("UPDATE platform_users").
		WithArgs("user-1", float64(-50), sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	store := New(db)
	_, err = store.AdjustBalance(context.Background(), "user-1", -50)
	if !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("error = %v, want ErrInsufficientFunds", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAdjustBalanceUnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("UPDATE platform_users").
		WithArgs("missing", float64(10), sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	store := New(db)
	_, err = store.AdjustBalance(context.Background(), "missing", 10)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestTransitionPaymentAlreadyResolved(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("UPDATE platform_payments").
		WithArgs("pay-1", string(payment.StatusPending), string(payment.StatusApproved), "admin-1", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT (.+) FROM platform_payments").
		WithArgs("pay-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "package_id", "amount", "payment_method_id",
			"transaction_id", "screenshot_key", "status", "approved_by", "created_at", "updated_at",
		}).AddRow("pay-1", "user-1", "pkg-1", 450.0, "pm-1", "", "", "Rejected", "admin-9", now, now))

	store := New(db)
	_, err = store.TransitionPayment(context.Background(), "pay-1", payment.StatusPending, payment.StatusApproved, "admin-1")
	if !errors.Is(err, storage.ErrAlreadyResolved) {
		t.Fatalf("error = %v, want ErrAlreadyResolved", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
