package approvals

import (
	"context"
	"errors"
	"testing"

	"github.com/yourempire/platform/internal/app/domain/admin"
	"github.com/yourempire/platform/internal/app/domain/catalog"
	"github.com/yourempire/platform/internal/app/domain/payment"
	"github.com/yourempire/platform/internal/app/domain/request"
	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/domain/withdrawal"
	"github.com/yourempire/platform/internal/app/services/admins"
	"github.com/yourempire/platform/internal/app/services/referrals"
	"github.com/yourempire/platform/internal/app/services/settings"
	"github.com/yourempire/platform/internal/app/services/wallet"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/internal/app/storage/memory"
)

type fixture struct {
	store  *memory.Store
	svc    *Service
	wallet *wallet.Service
	admin  admin.Admin
	master admin.Admin
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	settingsSvc := settings.New(store, nil)
	walletSvc := wallet.New(store, nil)
	referralSvc := referrals.New(store, store, walletSvc, settingsSvc, nil)
	adminSvc := admins.New(store, store, settingsSvc, nil)
	svc := New(store, store, store, store, store, walletSvc, referralSvc, settingsSvc, adminSvc, nil)

	ctx := context.Background()
	master, err := store.CreateAdmin(ctx, admin.Admin{Email: "master@example.com", PasswordHash: "hash", Role: admin.RoleMaster, IsActive: true})
	if err != nil {
		t.Fatalf("create master: %v", err)
	}
	a, err := store.CreateAdmin(ctx, admin.Admin{Email: "admin@example.com", PasswordHash: "hash", Role: admin.RoleAdmin, IsActive: true})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return &fixture{store: store, svc: svc, wallet: walletSvc, admin: a, master: master}
}

func (f *fixture) createUser(t *testing.T, name, code, referredBy string) user.User {
	t.Helper()
	u, err := f.store.CreateUser(context.Background(), user.User{
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

func (f *fixture) createCatalog(t *testing.T, price float64) (catalog.Package, catalog.PaymentMethod) {
	t.Helper()
	ctx := context.Background()
	pkg, err := f.store.CreatePackage(ctx, catalog.Package{Name: "Tier", Price: price})
	if err != nil {
		t.Fatalf("create package: %v", err)
	}
	method, err := f.store.CreatePaymentMethod(ctx, catalog.PaymentMethod{Type: "Easypaisa", AccountNumber: "0300", AccountName: "Ops"})
	if err != nil {
		t.Fatalf("create payment method: %v", err)
	}
	return pkg, method
}

func TestPaymentApprovalScenario(t *testing.T) {
	// Register A, register B under A's code, B buys a 1000-unit package,
	// approval credits A with 500 at the default 50% rate.
	f := newFixture(t)
	ctx := context.Background()

	a := f.createUser(t, "a", "YE0001", "")
	b := f.createUser(t, "b", "YE0002", a.ID)
	pkg, method := f.createCatalog(t, 1000)

	p, err := f.svc.SubmitPayment(ctx, SubmitPaymentInput{
		UserID:          b.ID,
		PackageID:       pkg.ID,
		PaymentMethodID: method.ID,
		TransactionID:   "tx-1",
	})
	if err != nil {
		t.Fatalf("submit payment: %v", err)
	}
	if p.Amount != 1000 {
		t.Fatalf("amount snapshot = %.2f, want 1000", p.Amount)
	}

	approved, err := f.svc.ApprovePayment(ctx, p.ID, f.admin.ID)
	if err != nil {
		t.Fatalf("approve payment: %v", err)
	}
	if approved.Status != payment.StatusApproved || approved.ApprovedBy != f.admin.ID {
		t.Fatalf("unexpected approved record: %+v", approved)
	}

	referrer, _ := f.store.GetUser(ctx, a.ID)
	if referrer.WalletBalance != 500 {
		t.Fatalf("referrer balance = %.2f, want 500", referrer.WalletBalance)
	}
	buyer, _ := f.store.GetUser(ctx, b.ID)
	if !buyer.IsInvested {
		t.Fatal("buyer not flagged invested")
	}
}

func TestApprovePaymentIdempotenceGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.createUser(t, "a", "YE0001", "")
	b := f.createUser(t, "b", "YE0002", a.ID)
	pkg, method := f.createCatalog(t, 1000)

	p, err := f.svc.SubmitPayment(ctx, SubmitPaymentInput{UserID: b.ID, PackageID: pkg.ID, PaymentMethodID: method.ID, TransactionID: "tx"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.ApprovePayment(ctx, p.ID, f.admin.ID); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := f.svc.ApprovePayment(ctx, p.ID, f.admin.ID); !errors.Is(err, storage.ErrAlreadyResolved) {
		t.Fatalf("second approve error = %v, want ErrAlreadyResolved", err)
	}

	// The commission must not have been credited twice.
	referrer, _ := f.store.GetUser(ctx, a.ID)
	if referrer.WalletBalance != 500 {
		t.Fatalf("referrer balance = %.2f, want 500 after double approval", referrer.WalletBalance)
	}
}

func TestApprovePaymentRevertsWhenCommissionFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// The buyer's referrer does not exist yet, so the commission credit
	// cannot land.
	b := f.createUser(t, "b", "YE0002", "ghost")
	pkg, method := f.createCatalog(t, 1000)

	p, err := f.svc.SubmitPayment(ctx, SubmitPaymentInput{UserID: b.ID, PackageID: pkg.ID, PaymentMethodID: method.ID, TransactionID: "tx"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := f.svc.ApprovePayment(ctx, p.ID, f.admin.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("approve error = %v, want wrapped ErrNotFound", err)
	}

	// The whole mutation must have unwound: record back to Pending, buyer
	// not flagged invested.
	current, _ := f.store.GetPayment(ctx, p.ID)
	if current.Status != payment.StatusPending {
		t.Fatalf("status = %s, want Pending after failed commission", current.Status)
	}
	buyer, _ := f.store.GetUser(ctx, b.ID)
	if buyer.IsInvested {
		t.Fatal("invested flag must be cleared when approval unwinds")
	}

	// Once the referrer exists the same approval succeeds.
	if _, err := f.store.CreateUser(ctx, user.User{ID: "ghost", Email: "ghost@example.com", PasswordHash: "hash", FullName: "Ghost", ReferralCode: "YE0009", IsActive: true}); err != nil {
		t.Fatalf("create referrer: %v", err)
	}
	approved, err := f.svc.ApprovePayment(ctx, p.ID, f.admin.ID)
	if err != nil {
		t.Fatalf("retry approve: %v", err)
	}
	if approved.Status != payment.StatusApproved {
		t.Fatalf("status = %s, want Approved on retry", approved.Status)
	}
	referrer, _ := f.store.GetUser(ctx, "ghost")
	if referrer.WalletBalance != 500 {
		t.Fatalf("referrer balance = %.2f, want 500 after retried approval", referrer.WalletBalance)
	}
}

func TestRejectPaymentNeverTouchesLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.createUser(t, "a", "YE0001", "")
	b := f.createUser(t, "b", "YE0002", a.ID)
	pkg, method := f.createCatalog(t, 450)

	p, err := f.svc.SubmitPayment(ctx, SubmitPaymentInput{UserID: b.ID, PackageID: pkg.ID, PaymentMethodID: method.ID, TransactionID: "tx"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	rejected, err := f.svc.RejectPayment(ctx, p.ID, f.admin.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != payment.StatusRejected {
		t.Fatalf("status = %s, want Rejected", rejected.Status)
	}
	referrer, _ := f.store.GetUser(ctx, a.ID)
	if referrer.WalletBalance != 0 {
		t.Fatalf("referrer balance = %.2f, want 0 after rejection", referrer.WalletBalance)
	}
	// A rejected payment cannot be approved afterwards.
	if _, err := f.svc.ApprovePayment(ctx, p.ID, f.admin.ID); !errors.Is(err, storage.ErrAlreadyResolved) {
		t.Fatalf("approve after reject error = %v, want ErrAlreadyResolved", err)
	}
}

func TestSubmitWithdrawalValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u", "YE0001", "")

	if _, err := f.wallet.Credit(ctx, u.ID, 300); err != nil {
		t.Fatalf("credit: %v", err)
	}

	// Below the default 225 minimum.
	_, err := f.svc.SubmitWithdrawal(ctx, SubmitWithdrawalInput{UserID: u.ID, Amount: 100, PaymentMethod: "Easypaisa", AccountNumber: "0300", AccountName: "U"})
	if !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("error = %v, want ErrBelowMinimum", err)
	}

	// Above the balance.
	_, err = f.svc.SubmitWithdrawal(ctx, SubmitWithdrawalInput{UserID: u.ID, Amount: 400, PaymentMethod: "Easypaisa", AccountNumber: "0300", AccountName: "U"})
	if !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("error = %v, want ErrInsufficientFunds", err)
	}

	w, err := f.svc.SubmitWithdrawal(ctx, SubmitWithdrawalInput{UserID: u.ID, Amount: 250, PaymentMethod: "Easypaisa", AccountNumber: "0300", AccountName: "U"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if w.Status != withdrawal.StatusPending {
		t.Fatalf("status = %s, want Pending", w.Status)
	}
	// Submission never debits.
	after, _ := f.store.GetUser(ctx, u.ID)
	if after.WalletBalance != 300 {
		t.Fatalf("balance after submission = %.2f, want 300", after.WalletBalance)
	}
}

func TestApproveWithdrawalDebitsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u", "YE0001", "")

	if _, err := f.wallet.Credit(ctx, u.ID, 500); err != nil {
		t.Fatalf("credit: %v", err)
	}
	w, err := f.svc.SubmitWithdrawal(ctx, SubmitWithdrawalInput{UserID: u.ID, Amount: 250, PaymentMethod: "Easypaisa", AccountNumber: "0300", AccountName: "U"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	approved, err := f.svc.ApproveWithdrawal(ctx, w.ID, f.admin.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != withdrawal.StatusApproved {
		t.Fatalf("status = %s, want Approved", approved.Status)
	}
	after, _ := f.store.GetUser(ctx, u.ID)
	if after.WalletBalance != 250 {
		t.Fatalf("balance = %.2f, want 250", after.WalletBalance)
	}

	if _, err := f.svc.ApproveWithdrawal(ctx, w.ID, f.admin.ID); !errors.Is(err, storage.ErrAlreadyResolved) {
		t.Fatalf("second approve error = %v, want ErrAlreadyResolved", err)
	}
	after, _ = f.store.GetUser(ctx, u.ID)
	if after.WalletBalance != 250 {
		t.Fatalf("balance after double approval = %.2f, want 250", after.WalletBalance)
	}
}

func TestApproveWithdrawalRevalidatesBalance(t *testing.T) {
	// Balance 100, submit 80, admin adjusts balance down to 50, approval must
	// fail and the withdrawal stays Pending.
	f := newFixture(t)
	ctx := context.Background()

	if err := f.store.SetSetting(ctx, settings.KeyMinWithdrawal, "10"); err != nil {
		t.Fatalf("lower minimum: %v", err)
	}
	u := f.createUser(t, "u", "YE0001", "")
	if _, err := f.wallet.Credit(ctx, u.ID, 100); err != nil {
		t.Fatalf("credit: %v", err)
	}
	w, err := f.svc.SubmitWithdrawal(ctx, SubmitWithdrawalInput{UserID: u.ID, Amount: 80, PaymentMethod: "Easypaisa", AccountNumber: "0300", AccountName: "U"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := f.wallet.Adjust(ctx, u.ID, -50, f.master.ID); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	if _, err := f.svc.ApproveWithdrawal(ctx, w.ID, f.admin.ID); !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("approve error = %v, want ErrInsufficientFunds", err)
	}
	current, err := f.store.GetWithdrawal(ctx, w.ID)
	if err != nil {
		t.Fatalf("get withdrawal: %v", err)
	}
	if current.Status != withdrawal.StatusPending {
		t.Fatalf("status = %s, want Pending after failed approval", current.Status)
	}
	after, _ := f.store.GetUser(ctx, u.ID)
	if after.WalletBalance != 50 {
		t.Fatalf("balance = %.2f, want 50 untouched", after.WalletBalance)
	}
}

func TestRejectWithdrawalKeepsBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u", "YE0001", "")
	if _, err := f.wallet.Credit(ctx, u.ID, 500); err != nil {
		t.Fatalf("credit: %v", err)
	}
	w, err := f.svc.SubmitWithdrawal(ctx, SubmitWithdrawalInput{UserID: u.ID, Amount: 250, PaymentMethod: "Easypaisa", AccountNumber: "0300", AccountName: "U"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.RejectWithdrawal(ctx, w.ID, f.admin.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	after, _ := f.store.GetUser(ctx, u.ID)
	if after.WalletBalance != 500 {
		t.Fatalf("balance = %.2f, want 500 after rejection", after.WalletBalance)
	}
}

func TestProfileUpdateFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u", "YE0001", "")

	r, err := f.svc.SubmitProfileUpdate(ctx, u.ID, "city", "Karachi")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.ApproveProfileUpdate(ctx, r.ID, f.admin.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	after, _ := f.store.GetUser(ctx, u.ID)
	if after.City != "Karachi" {
		t.Fatalf("city = %q, want Karachi", after.City)
	}

	// Unknown type is refused at submission.
	if _, err := f.svc.SubmitProfileUpdate(ctx, u.ID, "shoe_size", "42"); !errors.Is(err, ErrUnknownUpdateType) {
		t.Fatalf("unknown type error = %v, want ErrUnknownUpdateType", err)
	}
}

func TestApproveProfileUpdateUnknownTypeRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u", "YE0001", "")

	// A request with a stale type can exist in restored data; approval must
	// reject it rather than approve a no-op.
	stale, err := f.store.CreateProfileUpdate(ctx, request.ProfileUpdate{UserID: u.ID, UpdateType: "nickname", NewValue: "x"})
	if err != nil {
		t.Fatalf("create stale request: %v", err)
	}
	if _, err := f.svc.ApproveProfileUpdate(ctx, stale.ID, f.admin.ID); !errors.Is(err, ErrUnknownUpdateType) {
		t.Fatalf("error = %v, want ErrUnknownUpdateType", err)
	}
	after, err := f.store.GetProfileUpdate(ctx, stale.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if after.Status != request.StatusRejected {
		t.Fatalf("status = %s, want Rejected", after.Status)
	}
}

func TestPasswordResetMasterOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "u", "YE0001", "")

	r, err := f.svc.RequestPasswordReset(ctx, u.Email)
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}

	// A second-tier admin may not resolve resets.
	if _, err := f.svc.ResolvePasswordReset(ctx, r.ID, f.admin.ID, "newpassword"); !errors.Is(err, admins.ErrUnauthorized) {
		t.Fatalf("admin resolve error = %v, want ErrUnauthorized", err)
	}

	resolved, err := f.svc.ResolvePasswordReset(ctx, r.ID, f.master.ID, "newpassword")
	if err != nil {
		t.Fatalf("master resolve: %v", err)
	}
	if resolved.Status != request.StatusResolved || resolved.ResolvedBy != f.master.ID {
		t.Fatalf("unexpected resolved record: %+v", resolved)
	}
	if _, err := f.svc.ResolvePasswordReset(ctx, r.ID, f.master.ID, "anotherpass"); !errors.Is(err, storage.ErrAlreadyResolved) {
		t.Fatalf("second resolve error = %v, want ErrAlreadyResolved", err)
	}
}

func TestInactiveAdminCannotApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.createUser(t, "b", "YE0002", "")
	pkg, method := f.createCatalog(t, 450)
	p, err := f.svc.SubmitPayment(ctx, SubmitPaymentInput{UserID: b.ID, PackageID: pkg.ID, PaymentMethodID: method.ID, TransactionID: "tx"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	deactivated := f.admin
	deactivated.IsActive = false
	if _, err := f.store.UpdateAdmin(ctx, deactivated); err != nil {
		t.Fatalf("deactivate admin: %v", err)
	}
	if _, err := f.svc.ApprovePayment(ctx, p.ID, f.admin.ID); !errors.Is(err, admins.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}
