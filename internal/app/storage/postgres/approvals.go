package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourempire/platform/internal/app/domain/payment"
	"github.com/yourempire/platform/internal/app/domain/request"
	"github.com/yourempire/platform/internal/app/domain/withdrawal"
	"github.com/yourempire/platform/internal/app/storage"
)

// --- PaymentStore -----------------------------------------------------------

const paymentColumns = `id, user_id, package_id, amount, payment_method_id,
	transaction_id, screenshot_key, status, approved_by, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (payment.Payment, error) {
	var p payment.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.PackageID, &p.Amount, &p.PaymentMethodID,
		&p.TransactionID, &p.ScreenshotKey, &p.Status, &p.ApprovedBy,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = payment.StatusPending
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_payments (id, user_id, package_id, amount, payment_method_id,
			transaction_id, screenshot_key, status, approved_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID, p.UserID, p.PackageID, p.Amount, p.PaymentMethodID,
		p.TransactionID, p.ScreenshotKey, p.Status, p.ApprovedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return payment.Payment{}, err
	}
	return p, nil
}

func (s *Store) GetPayment(ctx context.Context, id string) (payment.Payment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM platform_payments
		WHERE id = $1
	`, id)

	p, err := scanPayment(row)
	if err != nil {
		return payment.Payment{}, wrapNoRows(err, "payment %s", id)
	}
	return p, nil
}

func (s *Store) ListPayments(ctx context.Context, userID string) ([]payment.Payment, error) {
	return s.queryPayments(ctx, `
		SELECT `+paymentColumns+`
		FROM platform_payments
		WHERE $1 = '' OR user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (s *Store) ListPaymentsByStatus(ctx context.Context, status payment.Status) ([]payment.Payment, error) {
	return s.queryPayments(ctx, `
		SELECT `+paymentColumns+`
		FROM platform_payments
		WHERE status = $1
		ORDER BY created_at
	`, status)
}

func (s *Store) queryPayments(ctx context.Context, query string, args ...any) ([]payment.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// TransitionPayment flips the status in one guarded UPDATE so two admins
// racing on the same record resolve it exactly once.
func (s *Store) TransitionPayment(ctx context.Context, id string, from, to payment.Status, adminID string) (payment.Payment, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE platform_payments
		SET status = $3, approved_by = $4, updated_at = $5
		WHERE id = $1 AND status = $2
		RETURNING `+paymentColumns+`
	`, id, from, to, adminID, time.Now().UTC())

	p, err := scanPayment(row)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return payment.Payment{}, err
	}
	if _, getErr := s.GetPayment(ctx, id); getErr != nil {
		return payment.Payment{}, getErr
	}
	return payment.Payment{}, fmt.Errorf("payment %s: %w", id, storage.ErrAlreadyResolved)
}

// --- WithdrawalStore --------------------------------------------------------

const withdrawalColumns = `id, user_id, amount, payment_method, account_number,
	account_name, status, approved_by, created_at, updated_at`

func scanWithdrawal(row interface{ Scan(...any) error }) (withdrawal.Withdrawal, error) {
	var w withdrawal.Withdrawal
	err := row.Scan(&w.ID, &w.UserID, &w.Amount, &w.PaymentMethod, &w.AccountNumber,
		&w.AccountName, &w.Status, &w.ApprovedBy, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (s *Store) CreateWithdrawal(ctx context.Context, w withdrawal.Withdrawal) (withdrawal.Withdrawal, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Status == "" {
		w.Status = withdrawal.StatusPending
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_withdrawals (id, user_id, amount, payment_method, account_number,
			account_name, status, approved_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, w.ID, w.UserID, w.Amount, w.PaymentMethod, w.AccountNumber,
		w.AccountName, w.Status, w.ApprovedBy, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return withdrawal.Withdrawal{}, err
	}
	return w, nil
}

func (s *Store) GetWithdrawal(ctx context.Context, id string) (withdrawal.Withdrawal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+withdrawalColumns+`
		FROM platform_withdrawals
		WHERE id = $1
	`, id)

	w, err := scanWithdrawal(row)
	if err != nil {
		return withdrawal.Withdrawal{}, wrapNoRows(err, "withdrawal %s", id)
	}
	return w, nil
}

func (s *Store) ListWithdrawals(ctx context.Context, userID string) ([]withdrawal.Withdrawal, error) {
	return s.queryWithdrawals(ctx, `
		SELECT `+withdrawalColumns+`
		FROM platform_withdrawals
		WHERE $1 = '' OR user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (s *Store) ListWithdrawalsByStatus(ctx context.Context, status withdrawal.Status) ([]withdrawal.Withdrawal, error) {
	return s.queryWithdrawals(ctx, `
		SELECT `+withdrawalColumns+`
		FROM platform_withdrawals
		WHERE status = $1
		ORDER BY created_at
	`, status)
}

func (s *Store) queryWithdrawals(ctx context.Context, query string, args ...any) ([]withdrawal.Withdrawal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []withdrawal.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

func (s *Store) TransitionWithdrawal(ctx context.Context, id string, from, to withdrawal.Status, adminID string) (withdrawal.Withdrawal, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE platform_withdrawals
		SET status = $3, approved_by = $4, updated_at = $5
		WHERE id = $1 AND status = $2
		RETURNING `+withdrawalColumns+`
	`, id, from, to, adminID, time.Now().UTC())

	w, err := scanWithdrawal(row)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return withdrawal.Withdrawal{}, err
	}
	if _, getErr := s.GetWithdrawal(ctx, id); getErr != nil {
		return withdrawal.Withdrawal{}, getErr
	}
	return withdrawal.Withdrawal{}, fmt.Errorf("withdrawal %s: %w", id, storage.ErrAlreadyResolved)
}

// --- RequestStore -----------------------------------------------------------

const profileUpdateColumns = `id, user_id, update_type, new_value, status,
	approved_by, created_at, updated_at`

func scanProfileUpdate(row interface{ Scan(...any) error }) (request.ProfileUpdate, error) {
	var r request.ProfileUpdate
	err := row.Scan(&r.ID, &r.UserID, &r.UpdateType, &r.NewValue, &r.Status,
		&r.ApprovedBy, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Store) CreateProfileUpdate(ctx context.Context, r request.ProfileUpdate) (request.ProfileUpdate, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = request.StatusPending
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_profile_updates (id, user_id, update_type, new_value, status,
			approved_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.ID, r.UserID, r.UpdateType, r.NewValue, r.Status, r.ApprovedBy, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return request.ProfileUpdate{}, err
	}
	return r, nil
}

func (s *Store) GetProfileUpdate(ctx context.Context, id string) (request.ProfileUpdate, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+profileUpdateColumns+`
		FROM platform_profile_updates
		WHERE id = $1
	`, id)

	r, err := scanProfileUpdate(row)
	if err != nil {
		return request.ProfileUpdate{}, wrapNoRows(err, "profile update %s", id)
	}
	return r, nil
}

func (s *Store) ListProfileUpdates(ctx context.Context, userID string, status request.Status) ([]request.ProfileUpdate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+profileUpdateColumns+`
		FROM platform_profile_updates
		WHERE ($1 = '' OR user_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at
	`, userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []request.ProfileUpdate
	for rows.Next() {
		r, err := scanProfileUpdate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *Store) TransitionProfileUpdate(ctx context.Context, id string, from, to request.Status, adminID string) (request.ProfileUpdate, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE platform_profile_updates
		SET status = $3, approved_by = $4, updated_at = $5
		WHERE id = $1 AND status = $2
		RETURNING `+profileUpdateColumns+`
	`, id, from, to, adminID, time.Now().UTC())

	r, err := scanProfileUpdate(row)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return request.ProfileUpdate{}, err
	}
	if _, getErr := s.GetProfileUpdate(ctx, id); getErr != nil {
		return request.ProfileUpdate{}, getErr
	}
	return request.ProfileUpdate{}, fmt.Errorf("profile update %s: %w", id, storage.ErrAlreadyResolved)
}

func (s *Store) CreatePasswordReset(ctx context.Context, r request.PasswordReset) (request.PasswordReset, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = request.StatusPending
	}
	r.RequestedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_password_resets (id, user_id, status, resolved_by, requested_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.ID, r.UserID, r.Status, r.ResolvedBy, r.RequestedAt, toNullTime(r.ResolvedAt))
	if err != nil {
		return request.PasswordReset{}, err
	}
	return r, nil
}

func scanPasswordReset(row interface{ Scan(...any) error }) (request.PasswordReset, error) {
	var (
		r          request.PasswordReset
		resolvedAt sql.NullTime
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.Status, &r.ResolvedBy, &r.RequestedAt, &resolvedAt); err != nil {
		return request.PasswordReset{}, err
	}
	if resolvedAt.Valid {
		r.ResolvedAt = resolvedAt.Time
	}
	return r, nil
}

func (s *Store) GetPasswordReset(ctx context.Context, id string) (request.PasswordReset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, resolved_by, requested_at, resolved_at
		FROM platform_password_resets
		WHERE id = $1
	`, id)

	r, err := scanPasswordReset(row)
	if err != nil {
		return request.PasswordReset{}, wrapNoRows(err, "password reset %s", id)
	}
	return r, nil
}

func (s *Store) ListPasswordResets(ctx context.Context, userID string, status request.Status) ([]request.PasswordReset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, status, resolved_by, requested_at, resolved_at
		FROM platform_password_resets
		WHERE ($1 = '' OR user_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY requested_at
	`, userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []request.PasswordReset
	for rows.Next() {
		r, err := scanPasswordReset(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *Store) ResolvePasswordReset(ctx context.Context, id, masterID string, at time.Time) (request.PasswordReset, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE platform_password_resets
		SET status = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $1 AND status = $5
		RETURNING id, user_id, status, resolved_by, requested_at, resolved_at
	`, id, request.StatusResolved, masterID, at.UTC(), request.StatusPending)

	r, err := scanPasswordReset(row)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return request.PasswordReset{}, err
	}
	if _, getErr := s.GetPasswordReset(ctx, id); getErr != nil {
		return request.PasswordReset{}, getErr
	}
	return request.PasswordReset{}, fmt.Errorf("password reset %s: %w", id, storage.ErrAlreadyResolved)
}
