package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourempire/platform/internal/app/domain/admin"
	"github.com/yourempire/platform/internal/app/domain/ads"
	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.LedgerStore = (*Store)(nil)
var _ storage.AdminStore = (*Store)(nil)
var _ storage.CatalogStore = (*Store)(nil)
var _ storage.PaymentStore = (*Store)(nil)
var _ storage.WithdrawalStore = (*Store)(nil)
var _ storage.AdStore = (*Store)(nil)
var _ storage.RequestStore = (*Store)(nil)
var _ storage.SettingsStore = (*Store)(nil)
var _ storage.ContentStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, email, password_hash, full_name, phone, city, address,
	referral_code, referred_by, wallet_balance, is_invested, is_active,
	created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (user.User, error) {
	var (
		u          user.User
		referredBy sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone,
		&u.City, &u.Address, &u.ReferralCode, &referredBy, &u.WalletBalance,
		&u.IsInvested, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return user.User{}, err
	}
	if referredBy.Valid {
		u.ReferredBy = referredBy.String
	}
	return u, nil
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func toNullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func wrapNoRows(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		args = append(args, storage.ErrNotFound)
		return fmt.Errorf(format+": %w", args...)
	}
	return err
}

// isUniqueViolation matches the Postgres unique_violation SQLSTATE without
// binding the scan path to the driver error type.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_users (id, email, password_hash, full_name, phone, city, address,
			referral_code, referred_by, wallet_balance, is_invested, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, u.ID, strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, u.FullName, u.Phone,
		u.City, u.Address, strings.ToUpper(strings.TrimSpace(u.ReferralCode)),
		toNullString(u.ReferredBy), u.WalletBalance, u.IsInvested, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, fmt.Errorf("user %s: %w", u.Email, storage.ErrDuplicate)
		}
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	existing, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return user.User{}, err
	}

	// Identity and ancestry are immutable after registration. The wallet
	// balance is owned by AdjustBalance and never written here.
	u.Email = existing.Email
	u.ReferralCode = existing.ReferralCode
	u.ReferredBy = existing.ReferredBy
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE platform_users
		SET password_hash = $2, full_name = $3, phone = $4, city = $5, address = $6,
			is_invested = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`, u.ID, u.PasswordHash, u.FullName, u.Phone, u.City, u.Address,
		u.IsInvested, u.IsActive, u.UpdatedAt)
	if err != nil {
		return user.User{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrNotFound)
	}
	u.WalletBalance = existing.WalletBalance
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM platform_users
		WHERE id = $1
	`, id)

	u, err := scanUser(row)
	if err != nil {
		return user.User{}, wrapNoRows(err, "user %s", id)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM platform_users
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email)))

	u, err := scanUser(row)
	if err != nil {
		return user.User{}, wrapNoRows(err, "user email %s", email)
	}
	return u, nil
}

func (s *Store) GetUserByReferralCode(ctx context.Context, code string) (user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM platform_users
		WHERE referral_code = $1
	`, strings.ToUpper(strings.TrimSpace(code)))

	u, err := scanUser(row)
	if err != nil {
		return user.User{}, wrapNoRows(err, "referral code %s", code)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.queryUsers(ctx, `
		SELECT `+userColumns+`
		FROM platform_users
		ORDER BY created_at
	`)
}

func (s *Store) ListReferrals(ctx context.Context, referrerID string) ([]user.User, error) {
	return s.queryUsers(ctx, `
		SELECT `+userColumns+`
		FROM platform_users
		WHERE referred_by = $1
		ORDER BY created_at
	`, referrerID)
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]user.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (s *Store) CreateLoginRecord(ctx context.Context, rec user.LoginRecord) (user.LoginRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_login_history (id, actor_id, login_type, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.ID, rec.ActorID, rec.LoginType, rec.IPAddress, rec.CreatedAt)
	if err != nil {
		return user.LoginRecord{}, err
	}
	return rec, nil
}

func (s *Store) ListLoginRecords(ctx context.Context, actorID string) ([]user.LoginRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_id, login_type, ip_address, created_at
		FROM platform_login_history
		WHERE $1 = '' OR actor_id = $1
		ORDER BY created_at DESC
	`, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []user.LoginRecord
	for rows.Next() {
		var rec user.LoginRecord
		if err := rows.Scan(&rec.ID, &rec.ActorID, &rec.LoginType, &rec.IPAddress, &rec.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// --- LedgerStore ------------------------------------------------------------

// AdjustBalance applies the delta in one conditional UPDATE so concurrent
// mutations against the same wallet serialize on the row and can never race
// past the non-negative check.
func (s *Store) AdjustBalance(ctx context.Context, userID string, delta float64) (user.User, error) {
	return adjustBalance(ctx, s.db, userID, delta)
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func adjustBalance(ctx context.Context, q execQuerier, userID string, delta float64) (user.User, error) {
	row := q.QueryRowContext(ctx, `
		UPDATE platform_users
		SET wallet_balance = wallet_balance + $2, updated_at = $3
		WHERE id = $1 AND wallet_balance + $2 >= 0
		RETURNING `+userColumns+`
	`, userID, delta, time.Now().UTC())

	u, err := scanUser(row)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return user.User{}, err
	}

	// Either the user is missing or the delta would go negative.
	var exists bool
	if err := q.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM platform_users WHERE id = $1)
	`, userID).Scan(&exists); err != nil {
		return user.User{}, err
	}
	if !exists {
		return user.User{}, fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	return user.User{}, fmt.Errorf("user %s, delta %.2f: %w", userID, delta, storage.ErrInsufficientFunds)
}

// RecordAdView inserts the view and credits the reward inside one
// transaction; the (user, ad, day) unique index rejects a second claim for
// the same calendar day.
func (s *Store) RecordAdView(ctx context.Context, view ads.View) (ads.View, user.User, error) {
	if view.ID == "" {
		view.ID = uuid.NewString()
	}
	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ads.View{}, user.User{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO platform_ad_views (id, user_id, ad_id, reward, viewed_at, view_day)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, view.ID, view.UserID, view.AdID, view.Reward, view.ViewedAt.UTC(), ads.Day(view.ViewedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ads.View{}, user.User{}, fmt.Errorf("ad view user %s ad %s: %w",
				view.UserID, view.AdID, storage.ErrDuplicate)
		}
		return ads.View{}, user.User{}, err
	}

	u, err := adjustBalance(ctx, tx, view.UserID, view.Reward)
	if err != nil {
		return ads.View{}, user.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return ads.View{}, user.User{}, err
	}
	return view, u, nil
}

// --- AdminStore -------------------------------------------------------------

func (s *Store) CreateAdmin(ctx context.Context, a admin.Admin) (admin.Admin, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platform_admins (id, email, password_hash, role, created_by, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, a.ID, strings.ToLower(strings.TrimSpace(a.Email)), a.PasswordHash, a.Role, a.CreatedBy,
		a.IsActive, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return admin.Admin{}, fmt.Errorf("admin %s: %w", a.Email, storage.ErrDuplicate)
		}
		return admin.Admin{}, err
	}
	return a, nil
}

func (s *Store) UpdateAdmin(ctx context.Context, a admin.Admin) (admin.Admin, error) {
	existing, err := s.GetAdmin(ctx, a.ID)
	if err != nil {
		return admin.Admin{}, err
	}

	a.Email = existing.Email
	a.Role = existing.Role
	a.CreatedBy = existing.CreatedBy
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE platform_admins
		SET password_hash = $2, is_active = $3, updated_at = $4
		WHERE id = $1
	`, a.ID, a.PasswordHash, a.IsActive, a.UpdatedAt)
	if err != nil {
		return admin.Admin{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return admin.Admin{}, fmt.Errorf("admin %s: %w", a.ID, storage.ErrNotFound)
	}
	return a, nil
}

func (s *Store) GetAdmin(ctx context.Context, id string) (admin.Admin, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_by, is_active, created_at, updated_at
		FROM platform_admins
		WHERE id = $1
	`, id)

	var a admin.Admin
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedBy,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return admin.Admin{}, wrapNoRows(err, "admin %s", id)
	}
	return a, nil
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (admin.Admin, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_by, is_active, created_at, updated_at
		FROM platform_admins
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email)))

	var a admin.Admin
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedBy,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return admin.Admin{}, wrapNoRows(err, "admin email %s", email)
	}
	return a, nil
}

func (s *Store) ListAdmins(ctx context.Context, role admin.Role) ([]admin.Admin, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, password_hash, role, created_by, is_active, created_at, updated_at
		FROM platform_admins
		WHERE $1 = '' OR role = $1
		ORDER BY created_at
	`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []admin.Admin
	for rows.Next() {
		var a admin.Admin
		if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedBy,
			&a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
