package approvals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yourempire/platform/internal/app/credentials"
	"github.com/yourempire/platform/internal/app/domain/admin"
	"github.com/yourempire/platform/internal/app/domain/payment"
	"github.com/yourempire/platform/internal/app/domain/request"
	"github.com/yourempire/platform/internal/app/domain/withdrawal"
	"github.com/yourempire/platform/internal/app/metrics"
	"github.com/yourempire/platform/internal/app/services/admins"
	"github.com/yourempire/platform/internal/app/services/referrals"
	"github.com/yourempire/platform/internal/app/services/settings"
	"github.com/yourempire/platform/internal/app/services/wallet"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/pkg/logger"
)

// ErrBelowMinimum reports a withdrawal under the configured floor.
var ErrBelowMinimum = errors.New("amount below minimum withdrawal")

// ErrUnknownUpdateType reports a profile update naming no mutable field.
var ErrUnknownUpdateType = errors.New("unknown profile update type")

// Service drives the Pending → Approved/Rejected workflow for payments,
// withdrawals, profile updates and password resets. Transitions are one-way,
// admin-attributed and idempotence-guarded: re-deciding a non-Pending record
// fails with storage.ErrAlreadyResolved and never re-applies side effects.
// Records are never deleted.
type Service struct {
	payments    storage.PaymentStore
	withdrawals storage.WithdrawalStore
	requests    storage.RequestStore
	users       storage.UserStore
	catalog     storage.CatalogStore
	wallet      *wallet.Service
	referrals   *referrals.Service
	settings    *settings.Service
	admins      *admins.Service
	log         *logger.Logger
}

// New constructs an approvals service.
func New(
	payments storage.PaymentStore,
	withdrawals storage.WithdrawalStore,
	requests storage.RequestStore,
	users storage.UserStore,
	catalog storage.CatalogStore,
	walletSvc *wallet.Service,
	referralSvc *referrals.Service,
	settingsSvc *settings.Service,
	adminSvc *admins.Service,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.NewDefault("approvals")
	}
	return &Service{
		payments:    payments,
		withdrawals: withdrawals,
		requests:    requests,
		users:       users,
		catalog:     catalog,
		wallet:      walletSvc,
		referrals:   referralSvc,
		settings:    settingsSvc,
		admins:      adminSvc,
		log:         log,
	}
}

// --- Payments ---------------------------------------------------------------

// SubmitPaymentInput carries a user's purchase claim.
type SubmitPaymentInput struct {
	UserID          string
	PackageID       string
	PaymentMethodID string
	TransactionID   string
	ScreenshotKey   string
}

// SubmitPayment records a purchase claim. The amount is snapshotted from the
// package price at submission time.
func (s *Service) SubmitPayment(ctx context.Context, in SubmitPaymentInput) (payment.Payment, error) {
	if _, err := s.users.GetUser(ctx, in.UserID); err != nil {
		return payment.Payment{}, err
	}
	pkg, err := s.catalog.GetPackage(ctx, in.PackageID)
	if err != nil {
		return payment.Payment{}, err
	}
	if _, err := s.catalog.GetPaymentMethod(ctx, in.PaymentMethodID); err != nil {
		return payment.Payment{}, err
	}
	if strings.TrimSpace(in.TransactionID) == "" && strings.TrimSpace(in.ScreenshotKey) == "" {
		return payment.Payment{}, fmt.Errorf("payment proof is required (transaction id or screenshot): %w", storage.ErrInvalid)
	}

	created, err := s.payments.CreatePayment(ctx, payment.Payment{
		UserID:          in.UserID,
		PackageID:       pkg.ID,
		Amount:          pkg.Price,
		PaymentMethodID: in.PaymentMethodID,
		TransactionID:   strings.TrimSpace(in.TransactionID),
		ScreenshotKey:   strings.TrimSpace(in.ScreenshotKey),
		Status:          payment.StatusPending,
	})
	if err != nil {
		return payment.Payment{}, err
	}
	s.log.WithField("payment_id", created.ID).WithField("user_id", in.UserID).
		WithField("amount", created.Amount).Info("payment submitted")
	return created, nil
}

// ApprovePayment marks a pending payment approved, flags the buyer as
// invested and credits the referrer's commission at the current rate. The
// status transition is the idempotence guard: a record that is no longer
// Pending fails with storage.ErrAlreadyResolved before any ledger effect.
// When a step after the transition fails, the transition is compensated back
// to Pending so the approval can be retried.
func (s *Service) ApprovePayment(ctx context.Context, paymentID, adminID string) (payment.Payment, error) {
	if _, err := s.admins.Require(ctx, adminID, admin.CapApprovePayment); err != nil {
		return payment.Payment{}, err
	}

	approved, err := s.payments.TransitionPayment(ctx, paymentID, payment.StatusPending, payment.StatusApproved, adminID)
	if err != nil {
		metrics.RecordApprovalDecision("payment", "blocked")
		return payment.Payment{}, err
	}

	buyer, err := s.users.GetUser(ctx, approved.UserID)
	if err != nil {
		s.revertPaymentApproval(ctx, paymentID, false)
		return payment.Payment{}, err
	}
	investedNow := !buyer.IsInvested
	if investedNow {
		buyer.IsInvested = true
		if _, err := s.users.UpdateUser(ctx, buyer); err != nil {
			s.revertPaymentApproval(ctx, paymentID, false)
			return payment.Payment{}, err
		}
	}

	commission, err := s.referrals.AttributeCommission(ctx, approved)
	if err != nil {
		// Unwind so the record returns to Pending and the approval can be
		// retried once the cause is resolved.
		s.revertPaymentApproval(ctx, paymentID, investedNow)
		s.log.WithError(err).WithField("payment_id", paymentID).
			Error("commission attribution failed; approval reverted")
		return payment.Payment{}, fmt.Errorf("approve payment %s: commission attribution failed: %w", paymentID, err)
	}

	metrics.RecordApprovalDecision("payment", "approved")
	s.log.WithField("payment_id", paymentID).WithField("admin_id", adminID).
		WithField("commission", commission).Info("payment approved")
	return approved, nil
}

// revertPaymentApproval compensates a failed multi-step approval: the record
// transitions back to Pending and, when this approval was what flagged the
// buyer as invested, that flag is cleared again. Failures here are logged
// only; the original error is what the caller surfaces.
func (s *Service) revertPaymentApproval(ctx context.Context, paymentID string, clearInvested bool) {
	reverted, err := s.payments.TransitionPayment(ctx, paymentID, payment.StatusApproved, payment.StatusPending, "")
	if err != nil {
		s.log.WithError(err).WithField("payment_id", paymentID).
			Error("failed to revert payment approval")
		return
	}
	if !clearInvested {
		return
	}
	buyer, err := s.users.GetUser(ctx, reverted.UserID)
	if err == nil {
		buyer.IsInvested = false
		_, err = s.users.UpdateUser(ctx, buyer)
	}
	if err != nil {
		s.log.WithError(err).WithField("payment_id", paymentID).
			Error("failed to clear invested flag during approval revert")
	}
}

// RejectPayment marks a pending payment rejected. The ledger is never
// touched.
func (s *Service) RejectPayment(ctx context.Context, paymentID, adminID string) (payment.Payment, error) {
	if _, err := s.admins.Require(ctx, adminID, admin.CapApprovePayment); err != nil {
		return payment.Payment{}, err
	}
	rejected, err := s.payments.TransitionPayment(ctx, paymentID, payment.StatusPending, payment.StatusRejected, adminID)
	if err != nil {
		metrics.RecordApprovalDecision("payment", "blocked")
		return payment.Payment{}, err
	}
	metrics.RecordApprovalDecision("payment", "rejected")
	s.log.WithField("payment_id", paymentID).WithField("admin_id", adminID).Info("payment rejected")
	return rejected, nil
}

// PendingPayments lists payments awaiting a decision.
func (s *Service) PendingPayments(ctx context.Context) ([]payment.Payment, error) {
	return s.payments.ListPaymentsByStatus(ctx, payment.StatusPending)
}

// --- Withdrawals ------------------------------------------------------------

// SubmitWithdrawalInput carries a user's payout claim.
type SubmitWithdrawalInput struct {
	UserID        string
	Amount        float64
	PaymentMethod string
	AccountNumber string
	AccountName   string
}

// SubmitWithdrawal records a payout claim after checking the configured
// minimum and the balance at submission time. Nothing is debited until
// approval.
func (s *Service) SubmitWithdrawal(ctx context.Context, in SubmitWithdrawalInput) (withdrawal.Withdrawal, error) {
	u, err := s.users.GetUser(ctx, in.UserID)
	if err != nil {
		return withdrawal.Withdrawal{}, err
	}
	minAmount, err := s.settings.MinWithdrawal(ctx)
	if err != nil {
		return withdrawal.Withdrawal{}, err
	}
	if in.Amount < minAmount {
		return withdrawal.Withdrawal{}, fmt.Errorf("amount %.2f, minimum %.2f: %w", in.Amount, minAmount, ErrBelowMinimum)
	}
	if in.Amount > u.WalletBalance {
		return withdrawal.Withdrawal{}, fmt.Errorf("amount %.2f, balance %.2f: %w", in.Amount, u.WalletBalance, storage.ErrInsufficientFunds)
	}
	if strings.TrimSpace(in.AccountNumber) == "" || strings.TrimSpace(in.PaymentMethod) == "" {
		return withdrawal.Withdrawal{}, fmt.Errorf("payment method and account number are required: %w", storage.ErrInvalid)
	}

	created, err := s.withdrawals.CreateWithdrawal(ctx, withdrawal.Withdrawal{
		UserID:        in.UserID,
		Amount:        in.Amount,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		AccountName:   strings.TrimSpace(in.AccountName),
		Status:        withdrawal.StatusPending,
	})
	if err != nil {
		return withdrawal.Withdrawal{}, err
	}
	s.log.WithField("withdrawal_id", created.ID).WithField("user_id", in.UserID).
		WithField("amount", in.Amount).Info("withdrawal submitted")
	return created, nil
}

// ApproveWithdrawal debits the wallet and marks the withdrawal approved. The
// balance is re-checked at approval time by the atomic debit: if funds have
// dropped since submission, the approval fails with
// storage.ErrInsufficientFunds and the record stays Pending. The debit runs
// first and is compensated with a credit if the status mark fails, so the
// record can never read Approved without the money having moved.
func (s *Service) ApproveWithdrawal(ctx context.Context, withdrawalID, adminID string) (withdrawal.Withdrawal, error) {
	if _, err := s.admins.Require(ctx, adminID, admin.CapApproveWithdrawal); err != nil {
		return withdrawal.Withdrawal{}, err
	}

	w, err := s.withdrawals.GetWithdrawal(ctx, withdrawalID)
	if err != nil {
		return withdrawal.Withdrawal{}, err
	}
	if w.Status != withdrawal.StatusPending {
		metrics.RecordApprovalDecision("withdrawal", "blocked")
		return withdrawal.Withdrawal{}, fmt.Errorf("withdrawal %s is %s: %w", withdrawalID, w.Status, storage.ErrAlreadyResolved)
	}

	if _, err := s.wallet.Debit(ctx, w.UserID, w.Amount); err != nil {
		metrics.RecordApprovalDecision("withdrawal", "insufficient")
		return withdrawal.Withdrawal{}, err
	}

	approved, err := s.withdrawals.TransitionWithdrawal(ctx, withdrawalID, withdrawal.StatusPending, withdrawal.StatusApproved, adminID)
	if err != nil {
		// A concurrent decision won the transition; give the money back.
		if _, creditErr := s.wallet.Credit(ctx, w.UserID, w.Amount); creditErr != nil {
			s.log.WithError(creditErr).WithField("withdrawal_id", withdrawalID).
				Error("compensating credit failed")
			return withdrawal.Withdrawal{}, fmt.Errorf("transition failed and refund failed: %v (refund: %w)", err, creditErr)
		}
		metrics.RecordApprovalDecision("withdrawal", "blocked")
		return withdrawal.Withdrawal{}, err
	}

	metrics.RecordApprovalDecision("withdrawal", "approved")
	s.log.WithField("withdrawal_id", withdrawalID).WithField("admin_id", adminID).
		WithField("amount", w.Amount).Info("withdrawal approved")
	return approved, nil
}

// RejectWithdrawal marks a pending withdrawal rejected without touching the
// ledger.
func (s *Service) RejectWithdrawal(ctx context.Context, withdrawalID, adminID string) (withdrawal.Withdrawal, error) {
	if _, err := s.admins.Require(ctx, adminID, admin.CapApproveWithdrawal); err != nil {
		return withdrawal.Withdrawal{}, err
	}
	rejected, err := s.withdrawals.TransitionWithdrawal(ctx, withdrawalID, withdrawal.StatusPending, withdrawal.StatusRejected, adminID)
	if err != nil {
		metrics.RecordApprovalDecision("withdrawal", "blocked")
		return withdrawal.Withdrawal{}, err
	}
	metrics.RecordApprovalDecision("withdrawal", "rejected")
	s.log.WithField("withdrawal_id", withdrawalID).WithField("admin_id", adminID).Info("withdrawal rejected")
	return rejected, nil
}

// PendingWithdrawals lists withdrawals awaiting a decision.
func (s *Service) PendingWithdrawals(ctx context.Context) ([]withdrawal.Withdrawal, error) {
	return s.withdrawals.ListWithdrawalsByStatus(ctx, withdrawal.StatusPending)
}

// --- Profile updates --------------------------------------------------------

// SubmitProfileUpdate records a proposed change to one user field. The field
// name is validated at submission so unknown types never enter the queue.
func (s *Service) SubmitProfileUpdate(ctx context.Context, userID, updateType, newValue string) (request.ProfileUpdate, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return request.ProfileUpdate{}, err
	}
	updateType = strings.ToLower(strings.TrimSpace(updateType))
	if !request.KnownUpdateType(updateType) {
		return request.ProfileUpdate{}, fmt.Errorf("type %q: %w", updateType, ErrUnknownUpdateType)
	}
	if updateType == request.UpdatePassword && len(newValue) < credentials.MinPasswordLength {
		return request.ProfileUpdate{}, fmt.Errorf("password must be at least %d characters: %w", credentials.MinPasswordLength, storage.ErrInvalid)
	}
	if strings.TrimSpace(newValue) == "" {
		return request.ProfileUpdate{}, fmt.Errorf("new value is required: %w", storage.ErrInvalid)
	}

	return s.requests.CreateProfileUpdate(ctx, request.ProfileUpdate{
		UserID:     userID,
		UpdateType: updateType,
		NewValue:   newValue,
		Status:     request.StatusPending,
	})
}

// ApproveProfileUpdate applies the proposed change to the user record. A
// request whose type no longer names a mutable field is rejected, not
// approved as a no-op.
func (s *Service) ApproveProfileUpdate(ctx context.Context, requestID, adminID string) (request.ProfileUpdate, error) {
	if _, err := s.admins.Require(ctx, adminID, admin.CapManageUsers); err != nil {
		return request.ProfileUpdate{}, err
	}

	r, err := s.requests.GetProfileUpdate(ctx, requestID)
	if err != nil {
		return request.ProfileUpdate{}, err
	}
	if r.Status != request.StatusPending {
		return request.ProfileUpdate{}, fmt.Errorf("profile update %s is %s: %w", requestID, r.Status, storage.ErrAlreadyResolved)
	}

	u, err := s.users.GetUser(ctx, r.UserID)
	if err != nil {
		return request.ProfileUpdate{}, err
	}

	switch r.UpdateType {
	case request.UpdatePhone:
		u.Phone = r.NewValue
	case request.UpdateCity:
		u.City = r.NewValue
	case request.UpdateAddress:
		u.Address = r.NewValue
	case request.UpdatePassword:
		if len(r.NewValue) < credentials.MinPasswordLength {
			return s.rejectUnknownUpdate(ctx, requestID, adminID, fmt.Errorf("password too short"))
		}
		hash, err := credentials.Hash(r.NewValue)
		if err != nil {
			return request.ProfileUpdate{}, err
		}
		u.PasswordHash = hash
	default:
		return s.rejectUnknownUpdate(ctx, requestID, adminID, fmt.Errorf("type %q: %w", r.UpdateType, ErrUnknownUpdateType))
	}

	if _, err := s.users.UpdateUser(ctx, u); err != nil {
		return request.ProfileUpdate{}, err
	}
	approved, err := s.requests.TransitionProfileUpdate(ctx, requestID, request.StatusPending, request.StatusApproved, adminID)
	if err != nil {
		return request.ProfileUpdate{}, err
	}
	metrics.RecordApprovalDecision("profile_update", "approved")
	s.log.WithField("request_id", requestID).WithField("admin_id", adminID).
		WithField("update_type", r.UpdateType).Info("profile update approved")
	return approved, nil
}

func (s *Service) rejectUnknownUpdate(ctx context.Context, requestID, adminID string, cause error) (request.ProfileUpdate, error) {
	if _, err := s.requests.TransitionProfileUpdate(ctx, requestID, request.StatusPending, request.StatusRejected, adminID); err != nil {
		return request.ProfileUpdate{}, err
	}
	metrics.RecordApprovalDecision("profile_update", "rejected")
	return request.ProfileUpdate{}, cause
}

// RejectProfileUpdate declines a pending change request.
func (s *Service) RejectProfileUpdate(ctx context.Context, requestID, adminID string) (request.ProfileUpdate, error) {
	if _, err := s.admins.Require(ctx, adminID, admin.CapManageUsers); err != nil {
		return request.ProfileUpdate{}, err
	}
	rejected, err := s.requests.TransitionProfileUpdate(ctx, requestID, request.StatusPending, request.StatusRejected, adminID)
	if err != nil {
		return request.ProfileUpdate{}, err
	}
	metrics.RecordApprovalDecision("profile_update", "rejected")
	return rejected, nil
}

// PendingProfileUpdates lists change requests awaiting a decision.
func (s *Service) PendingProfileUpdates(ctx context.Context) ([]request.ProfileUpdate, error) {
	return s.requests.ListProfileUpdates(ctx, "", request.StatusPending)
}

// --- Password resets --------------------------------------------------------

// RequestPasswordReset files a reset request on behalf of a user who cannot
// log in.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (request.PasswordReset, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return request.PasswordReset{}, err
	}
	pending, err := s.requests.ListPasswordResets(ctx, u.ID, request.StatusPending)
	if err != nil {
		return request.PasswordReset{}, err
	}
	if len(pending) > 0 {
		return pending[0], nil
	}
	return s.requests.CreatePasswordReset(ctx, request.PasswordReset{
		UserID: u.ID,
		Status: request.StatusPending,
	})
}

// ResolvePasswordReset sets the user's new password. Master admin only.
func (s *Service) ResolvePasswordReset(ctx context.Context, requestID, masterID, newPassword string) (request.PasswordReset, error) {
	if _, err := s.admins.Require(ctx, masterID, admin.CapManageAdmins); err != nil {
		return request.PasswordReset{}, err
	}
	if len(newPassword) < credentials.MinPasswordLength {
		return request.PasswordReset{}, fmt.Errorf("password must be at least %d characters: %w", credentials.MinPasswordLength, storage.ErrInvalid)
	}

	r, err := s.requests.GetPasswordReset(ctx, requestID)
	if err != nil {
		return request.PasswordReset{}, err
	}
	if r.Status != request.StatusPending {
		return request.PasswordReset{}, fmt.Errorf("password reset %s is %s: %w", requestID, r.Status, storage.ErrAlreadyResolved)
	}

	u, err := s.users.GetUser(ctx, r.UserID)
	if err != nil {
		return request.PasswordReset{}, err
	}
	hash, err := credentials.Hash(newPassword)
	if err != nil {
		return request.PasswordReset{}, err
	}
	u.PasswordHash = hash
	if _, err := s.users.UpdateUser(ctx, u); err != nil {
		return request.PasswordReset{}, err
	}

	resolved, err := s.requests.ResolvePasswordReset(ctx, requestID, masterID, time.Now().UTC())
	if err != nil {
		return request.PasswordReset{}, err
	}
	metrics.RecordApprovalDecision("password_reset", "resolved")
	s.log.WithField("request_id", requestID).WithField("master_id", masterID).
		Info("password reset resolved")
	return resolved, nil
}

// PendingPasswordResets lists reset requests awaiting a master admin.
func (s *Service) PendingPasswordResets(ctx context.Context) ([]request.PasswordReset, error) {
	return s.requests.ListPasswordResets(ctx, "", request.StatusPending)
}
