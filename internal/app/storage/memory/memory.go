package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yourempire/platform/internal/app/domain/admin"
	"github.com/yourempire/platform/internal/app/domain/ads"
	"github.com/yourempire/platform/internal/app/domain/catalog"
	"github.com/yourempire/platform/internal/app/domain/content"
	"github.com/yourempire/platform/internal/app/domain/payment"
	"github.com/yourempire/platform/internal/app/domain/request"
	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/domain/withdrawal"
	"github.com/yourempire/platform/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local
// development.
type Store struct {
	mu     sync.RWMutex
	nextID int64

	users          map[string]user.User
	usersByEmail   map[string]string
	usersByRefCode map[string]string
	loginRecords   []user.LoginRecord

	admins        map[string]admin.Admin
	adminsByEmail map[string]string

	packages       map[string]catalog.Package
	paymentMethods map[string]catalog.PaymentMethod

	payments    map[string]payment.Payment
	withdrawals map[string]withdrawal.Withdrawal

	adsByID map[string]ads.Ad
	adViews []ads.View

	profileUpdates map[string]request.ProfileUpdate
	passwordResets map[string]request.PasswordReset

	settings map[string]string

	announcements map[string]content.Announcement
	guideVideos   map[string]content.GuideVideo
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

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:         1,
		users:          make(map[string]user.User),
		usersByEmail:   make(map[string]string),
		usersByRefCode: make(map[string]string),
		admins:         make(map[string]admin.Admin),
		adminsByEmail:  make(map[string]string),
		packages:       make(map[string]catalog.Package),
		paymentMethods: make(map[string]catalog.PaymentMethod),
		payments:       make(map[string]payment.Payment),
		withdrawals:    make(map[string]withdrawal.Withdrawal),
		adsByID:        make(map[string]ads.Ad),
		profileUpdates: make(map[string]request.ProfileUpdate),
		passwordResets: make(map[string]request.PasswordReset),
		settings:       make(map[string]string),
		announcements:  make(map[string]content.Announcement),
		guideVideos:    make(map[string]content.GuideVideo),
	}
}

func (s *Store) nextIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%d", id)
}

// UserStore implementation ---------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emailKey := strings.ToLower(strings.TrimSpace(u.Email))
	if _, exists := s.usersByEmail[emailKey]; exists {
		return user.User{}, fmt.Errorf("user email %s: %w", u.Email, storage.ErrDuplicate)
	}
	codeKey := strings.ToUpper(strings.TrimSpace(u.ReferralCode))
	if codeKey != "" {
		if _, exists := s.usersByRefCode[codeKey]; exists {
			return user.User{}, fmt.Errorf("referral code %s: %w", u.ReferralCode, storage.ErrDuplicate)
		}
	}

	if u.ID == "" {
		u.ID = s.nextIDLocked()
	} else if _, exists := s.users[u.ID]; exists {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrDuplicate)
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.users[u.ID] = u
	s.usersByEmail[emailKey] = u.ID
	if codeKey != "" {
		s.usersByRefCode[codeKey] = u.ID
	}
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.users[u.ID]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrNotFound)
	}

	// Identity and ancestry are immutable after registration.
	u.Email = original.Email
	u.ReferralCode = original.ReferralCode
	u.ReferredBy = original.ReferredBy
	u.CreatedAt = original.CreatedAt
	u.UpdatedAt = time.Now().UTC()

	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.usersByEmail[strings.ToLower(strings.TrimSpace(email))]; ok {
		return s.users[id], nil
	}
	return user.User{}, fmt.Errorf("user email %s: %w", email, storage.ErrNotFound)
}

func (s *Store) GetUserByReferralCode(_ context.Context, code string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.usersByRefCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return s.users[id], nil
	}
	return user.User{}, fmt.Errorf("referral code %s: %w", code, storage.ErrNotFound)
}

func (s *Store) ListUsers(_ context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		result = append(result, u)
	}
	return result, nil
}

func (s *Store) ListReferrals(_ context.Context, referrerID string) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]user.User, 0)
	for _, u := range s.users {
		if u.ReferredBy == referrerID {
			result = append(result, u)
		}
	}
	return result, nil
}

func (s *Store) CreateLoginRecord(_ context.Context, rec user.LoginRecord) (user.LoginRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = s.nextIDLocked()
	}
	rec.CreatedAt = time.Now().UTC()
	s.loginRecords = append(s.loginRecords, rec)
	return rec, nil
}

func (s *Store) ListLoginRecords(_ context.Context, actorID string) ([]user.LoginRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]user.LoginRecord, 0)
	for _, rec := range s.loginRecords {
		if actorID == "" || rec.ActorID == actorID {
			result = append(result, rec)
		}
	}
	return result, nil
}

// LedgerStore implementation -------------------------------------------------

func (s *Store) AdjustBalance(_ context.Context, userID string, delta float64) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.adjustBalanceLocked(userID, delta)
}

func (s *Store) adjustBalanceLocked(userID string, delta float64) (user.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	next := u.WalletBalance + delta
	if next < 0 {
		return user.User{}, fmt.Errorf("user %s balance %.2f, delta %.2f: %w",
			userID, u.WalletBalance, delta, storage.ErrInsufficientFunds)
	}
	u.WalletBalance = next
	u.UpdatedAt = time.Now().UTC()
	s.users[userID] = u
	return u, nil
}

func (s *Store) RecordAdView(_ context.Context, view ads.View) (ads.View, user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := ads.Day(view.ViewedAt)
	for _, existing := range s.adViews {
		if existing.UserID == view.UserID && existing.AdID == view.AdID && ads.Day(existing.ViewedAt).Equal(day) {
			return ads.View{}, user.User{}, fmt.Errorf("ad view user %s ad %s: %w",
				view.UserID, view.AdID, storage.ErrDuplicate)
		}
	}

	u, err := s.adjustBalanceLocked(view.UserID, view.Reward)
	if err != nil {
		return ads.View{}, user.User{}, err
	}

	if view.ID == "" {
		view.ID = s.nextIDLocked()
	}
	s.adViews = append(s.adViews, view)
	return view, u, nil
}

// AdminStore implementation --------------------------------------------------

func (s *Store) CreateAdmin(_ context.Context, a admin.Admin) (admin.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emailKey := strings.ToLower(strings.TrimSpace(a.Email))
	if _, exists := s.adminsByEmail[emailKey]; exists {
		return admin.Admin{}, fmt.Errorf("admin email %s: %w", a.Email, storage.ErrDuplicate)
	}

	if a.ID == "" {
		a.ID = s.nextIDLocked()
	} else if _, exists := s.admins[a.ID]; exists {
		return admin.Admin{}, fmt.Errorf("admin %s: %w", a.ID, storage.ErrDuplicate)
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	s.admins[a.ID] = a
	s.adminsByEmail[emailKey] = a.ID
	return a, nil
}

func (s *Store) UpdateAdmin(_ context.Context, a admin.Admin) (admin.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.admins[a.ID]
	if !ok {
		return admin.Admin{}, fmt.Errorf("admin %s: %w", a.ID, storage.ErrNotFound)
	}

	a.Email = original.Email
	a.Role = original.Role
	a.CreatedBy = original.CreatedBy
	a.CreatedAt = original.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	s.admins[a.ID] = a
	return a, nil
}

func (s *Store) GetAdmin(_ context.Context, id string) (admin.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.admins[id]
	if !ok {
		return admin.Admin{}, fmt.Errorf("admin %s: %w", id, storage.ErrNotFound)
	}
	return a, nil
}

func (s *Store) GetAdminByEmail(_ context.Context, email string) (admin.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.adminsByEmail[strings.ToLower(strings.TrimSpace(email))]; ok {
		return s.admins[id], nil
	}
	return admin.Admin{}, fmt.Errorf("admin email %s: %w", email, storage.ErrNotFound)
}

func (s *Store) ListAdmins(_ context.Context, role admin.Role) ([]admin.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]admin.Admin, 0)
	for _, a := range s.admins {
		if role == "" || a.Role == role {
			result = append(result, a)
		}
	}
	return result, nil
}

// CatalogStore implementation ------------------------------------------------

func (s *Store) CreatePackage(_ context.Context, p catalog.Package) (catalog.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.nextIDLocked()
	} else if _, exists := s.packages[p.ID]; exists {
		return catalog.Package{}, fmt.Errorf("package %s: %w", p.ID, storage.ErrDuplicate)
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.packages[p.ID] = p
	return p, nil
}

func (s *Store) UpdatePackage(_ context.Context, p catalog.Package) (catalog.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.packages[p.ID]
	if !ok {
		return catalog.Package{}, fmt.Errorf("package %s: %w", p.ID, storage.ErrNotFound)
	}

	p.CreatedAt = original.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	s.packages[p.ID] = p
	return p, nil
}

func (s *Store) GetPackage(_ context.Context, id string) (catalog.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.packages[id]
	if !ok {
		return catalog.Package{}, fmt.Errorf("package %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (s *Store) ListPackages(_ context.Context) ([]catalog.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]catalog.Package, 0, len(s.packages))
	for _, p := range s.packages {
		result = append(result, p)
	}
	return result, nil
}

func (s *Store) DeletePackage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.packages[id]; !ok {
		return fmt.Errorf("package %s: %w", id, storage.ErrNotFound)
	}
	delete(s.packages, id)
	return nil
}

func (s *Store) CreatePaymentMethod(_ context.Context, m catalog.PaymentMethod) (catalog.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = s.nextIDLocked()
	} else if _, exists := s.paymentMethods[m.ID]; exists {
		return catalog.PaymentMethod{}, fmt.Errorf("payment method %s: %w", m.ID, storage.ErrDuplicate)
	}

	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	s.paymentMethods[m.ID] = m
	return m, nil
}

func (s *Store) UpdatePaymentMethod(_ context.Context, m catalog.PaymentMethod) (catalog.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.paymentMethods[m.ID]
	if !ok {
		return catalog.PaymentMethod{}, fmt.Errorf("payment method %s: %w", m.ID, storage.ErrNotFound)
	}

	m.CreatedAt = original.CreatedAt
	m.UpdatedAt = time.Now().UTC()

	s.paymentMethods[m.ID] = m
	return m, nil
}

func (s *Store) GetPaymentMethod(_ context.Context, id string) (catalog.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.paymentMethods[id]
	if !ok {
		return catalog.PaymentMethod{}, fmt.Errorf("payment method %s: %w", id, storage.ErrNotFound)
	}
	return m, nil
}

func (s *Store) ListPaymentMethods(_ context.Context) ([]catalog.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]catalog.PaymentMethod, 0, len(s.paymentMethods))
	for _, m := range s.paymentMethods {
		result = append(result, m)
	}
	return result, nil
}

// PaymentStore implementation ------------------------------------------------

func (s *Store) CreatePayment(_ context.Context, p payment.Payment) (payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.nextIDLocked()
	} else if _, exists := s.payments[p.ID]; exists {
		return payment.Payment{}, fmt.Errorf("payment %s: %w", p.ID, storage.ErrDuplicate)
	}

	if p.Status == "" {
		p.Status = payment.StatusPending
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.payments[p.ID] = p
	return p, nil
}

func (s *Store) GetPayment(_ context.Context, id string) (payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return payment.Payment{}, fmt.Errorf("payment %s: %w", id, storage.ErrNotFound)
	}
	return p, nil
}

func (s *Store) ListPayments(_ context.Context, userID string) ([]payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]payment.Payment, 0)
	for _, p := range s.payments {
		if userID == "" || p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *Store) ListPaymentsByStatus(_ context.Context, status payment.Status) ([]payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]payment.Payment, 0)
	for _, p := range s.payments {
		if p.Status == status {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *Store) TransitionPayment(_ context.Context, id string, from, to payment.Status, adminID string) (payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return payment.Payment{}, fmt.Errorf("payment %s: %w", id, storage.ErrNotFound)
	}
	if p.Status != from {
		return payment.Payment{}, fmt.Errorf("payment %s is %s: %w", id, p.Status, storage.ErrAlreadyResolved)
	}

	p.Status = to
	p.ApprovedBy = adminID
	p.UpdatedAt = time.Now().UTC()
	s.payments[id] = p
	return p, nil
}

// WithdrawalStore implementation ---------------------------------------------

func (s *Store) CreateWithdrawal(_ context.Context, w withdrawal.Withdrawal) (withdrawal.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == "" {
		w.ID = s.nextIDLocked()
	} else if _, exists := s.withdrawals[w.ID]; exists {
		return withdrawal.Withdrawal{}, fmt.Errorf("withdrawal %s: %w", w.ID, storage.ErrDuplicate)
	}

	if w.Status == "" {
		w.Status = withdrawal.StatusPending
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	s.withdrawals[w.ID] = w
	return w, nil
}

func (s *Store) GetWithdrawal(_ context.Context, id string) (withdrawal.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.withdrawals[id]
	if !ok {
		return withdrawal.Withdrawal{}, fmt.Errorf("withdrawal %s: %w", id, storage.ErrNotFound)
	}
	return w, nil
}

func (s *Store) ListWithdrawals(_ context.Context, userID string) ([]withdrawal.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]withdrawal.Withdrawal, 0)
	for _, w := range s.withdrawals {
		if userID == "" || w.UserID == userID {
			result = append(result, w)
		}
	}
	return result, nil
}

func (s *Store) ListWithdrawalsByStatus(_ context.Context, status withdrawal.Status) ([]withdrawal.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]withdrawal.Withdrawal, 0)
	for _, w := range s.withdrawals {
		if w.Status == status {
			result = append(result, w)
		}
	}
	return result, nil
}

func (s *Store) TransitionWithdrawal(_ context.Context, id string, from, to withdrawal.Status, adminID string) (withdrawal.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.withdrawals[id]
	if !ok {
		return withdrawal.Withdrawal{}, fmt.Errorf("withdrawal %s: %w", id, storage.ErrNotFound)
	}
	if w.Status != from {
		return withdrawal.Withdrawal{}, fmt.Errorf("withdrawal %s is %s: %w", id, w.Status, storage.ErrAlreadyResolved)
	}

	w.Status = to
	w.ApprovedBy = adminID
	w.UpdatedAt = time.Now().UTC()
	s.withdrawals[id] = w
	return w, nil
}

// AdStore implementation -----------------------------------------------------

func (s *Store) CreateAd(_ context.Context, a ads.Ad) (ads.Ad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = s.nextIDLocked()
	} else if _, exists := s.adsByID[a.ID]; exists {
		return ads.Ad{}, fmt.Errorf("ad %s: %w", a.ID, storage.ErrDuplicate)
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	s.adsByID[a.ID] = a
	return a, nil
}

func (s *Store) UpdateAd(_ context.Context, a ads.Ad) (ads.Ad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.adsByID[a.ID]
	if !ok {
		return ads.Ad{}, fmt.Errorf("ad %s: %w", a.ID, storage.ErrNotFound)
	}

	a.CreatedAt = original.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	s.adsByID[a.ID] = a
	return a, nil
}

func (s *Store) GetAd(_ context.Context, id string) (ads.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.adsByID[id]
	if !ok {
		return ads.Ad{}, fmt.Errorf("ad %s: %w", id, storage.ErrNotFound)
	}
	return a, nil
}

func (s *Store) ListAds(_ context.Context, activeOnly bool) ([]ads.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ads.Ad, 0, len(s.adsByID))
	for _, a := range s.adsByID {
		if activeOnly && !a.IsActive {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (s *Store) DeleteAd(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.adsByID[id]; !ok {
		return fmt.Errorf("ad %s: %w", id, storage.ErrNotFound)
	}
	delete(s.adsByID, id)
	return nil
}

func (s *Store) HasAdView(_ context.Context, userID, adID string, day time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day = ads.Day(day)
	for _, v := range s.adViews {
		if v.UserID == userID && v.AdID == adID && ads.Day(v.ViewedAt).Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListAdViews(_ context.Context, userID string) ([]ads.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ads.View, 0)
	for _, v := range s.adViews {
		if userID == "" || v.UserID == userID {
			result = append(result, v)
		}
	}
	return result, nil
}

func (s *Store) ListViewsForAd(_ context.Context, adID string) ([]ads.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ads.View, 0)
	for _, v := range s.adViews {
		if v.AdID == adID {
			result = append(result, v)
		}
	}
	return result, nil
}

// RequestStore implementation ------------------------------------------------

func (s *Store) CreateProfileUpdate(_ context.Context, r request.ProfileUpdate) (request.ProfileUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = s.nextIDLocked()
	} else if _, exists := s.profileUpdates[r.ID]; exists {
		return request.ProfileUpdate{}, fmt.Errorf("profile update %s: %w", r.ID, storage.ErrDuplicate)
	}

	if r.Status == "" {
		r.Status = request.StatusPending
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	s.profileUpdates[r.ID] = r
	return r, nil
}

func (s *Store) GetProfileUpdate(_ context.Context, id string) (request.ProfileUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.profileUpdates[id]
	if !ok {
		return request.ProfileUpdate{}, fmt.Errorf("profile update %s: %w", id, storage.ErrNotFound)
	}
	return r, nil
}

func (s *Store) ListProfileUpdates(_ context.Context, userID string, status request.Status) ([]request.ProfileUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]request.ProfileUpdate, 0)
	for _, r := range s.profileUpdates {
		if userID != "" && r.UserID != userID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (s *Store) TransitionProfileUpdate(_ context.Context, id string, from, to request.Status, adminID string) (request.ProfileUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.profileUpdates[id]
	if !ok {
		return request.ProfileUpdate{}, fmt.Errorf("profile update %s: %w", id, storage.ErrNotFound)
	}
	if r.Status != from {
		return request.ProfileUpdate{}, fmt.Errorf("profile update %s is %s: %w", id, r.Status, storage.ErrAlreadyResolved)
	}

	r.Status = to
	r.ApprovedBy = adminID
	r.UpdatedAt = time.Now().UTC()
	s.profileUpdates[id] = r
	return r, nil
}

func (s *Store) CreatePasswordReset(_ context.Context, r request.PasswordReset) (request.PasswordReset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = s.nextIDLocked()
	} else if _, exists := s.passwordResets[r.ID]; exists {
		return request.PasswordReset{}, fmt.Errorf("password reset %s: %w", r.ID, storage.ErrDuplicate)
	}

	if r.Status == "" {
		r.Status = request.StatusPending
	}
	r.RequestedAt = time.Now().UTC()

	s.passwordResets[r.ID] = r
	return r, nil
}

func (s *Store) GetPasswordReset(_ context.Context, id string) (request.PasswordReset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.passwordResets[id]
	if !ok {
		return request.PasswordReset{}, fmt.Errorf("password reset %s: %w", id, storage.ErrNotFound)
	}
	return r, nil
}

func (s *Store) ListPasswordResets(_ context.Context, userID string, status request.Status) ([]request.PasswordReset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]request.PasswordReset, 0)
	for _, r := range s.passwordResets {
		if userID != "" && r.UserID != userID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (s *Store) ResolvePasswordReset(_ context.Context, id, masterID string, at time.Time) (request.PasswordReset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.passwordResets[id]
	if !ok {
		return request.PasswordReset{}, fmt.Errorf("password reset %s: %w", id, storage.ErrNotFound)
	}
	if r.Status != request.StatusPending {
		return request.PasswordReset{}, fmt.Errorf("password reset %s is %s: %w", id, r.Status, storage.ErrAlreadyResolved)
	}

	r.Status = request.StatusResolved
	r.ResolvedBy = masterID
	r.ResolvedAt = at.UTC()
	s.passwordResets[id] = r
	return r, nil
}

// SettingsStore implementation -----------------------------------------------

func (s *Store) GetSetting(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.settings[key]
	if !ok {
		return "", fmt.Errorf("setting %s: %w", key, storage.ErrNotFound)
	}
	return value, nil
}

func (s *Store) SetSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[key] = value
	return nil
}

func (s *Store) ListSettings(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]string, len(s.settings))
	for k, v := range s.settings {
		result[k] = v
	}
	return result, nil
}

// ContentStore implementation ------------------------------------------------

func (s *Store) CreateAnnouncement(_ context.Context, a content.Announcement) (content.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = s.nextIDLocked()
	} else if _, exists := s.announcements[a.ID]; exists {
		return content.Announcement{}, fmt.Errorf("announcement %s: %w", a.ID, storage.ErrDuplicate)
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	s.announcements[a.ID] = a
	return a, nil
}

func (s *Store) UpdateAnnouncement(_ context.Context, a content.Announcement) (content.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.announcements[a.ID]
	if !ok {
		return content.Announcement{}, fmt.Errorf("announcement %s: %w", a.ID, storage.ErrNotFound)
	}

	a.CreatedAt = original.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	s.announcements[a.ID] = a
	return a, nil
}

func (s *Store) GetAnnouncement(_ context.Context, id string) (content.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.announcements[id]
	if !ok {
		return content.Announcement{}, fmt.Errorf("announcement %s: %w", id, storage.ErrNotFound)
	}
	return a, nil
}

func (s *Store) ListAnnouncements(_ context.Context, activeOnly bool) ([]content.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]content.Announcement, 0, len(s.announcements))
	for _, a := range s.announcements {
		if activeOnly && !a.IsActive {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (s *Store) DeleteAnnouncement(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.announcements[id]; !ok {
		return fmt.Errorf("announcement %s: %w", id, storage.ErrNotFound)
	}
	delete(s.announcements, id)
	return nil
}

func (s *Store) CreateGuideVideo(_ context.Context, v content.GuideVideo) (content.GuideVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == "" {
		v.ID = s.nextIDLocked()
	} else if _, exists := s.guideVideos[v.ID]; exists {
		return content.GuideVideo{}, fmt.Errorf("guide video %s: %w", v.ID, storage.ErrDuplicate)
	}

	v.CreatedAt = time.Now().UTC()
	s.guideVideos[v.ID] = v
	return v, nil
}

func (s *Store) ListGuideVideos(_ context.Context) ([]content.GuideVideo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]content.GuideVideo, 0, len(s.guideVideos))
	for _, v := range s.guideVideos {
		result = append(result, v)
	}
	return result, nil
}

func (s *Store) DeleteGuideVideo(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.guideVideos[id]; !ok {
		return fmt.Errorf("guide video %s: %w", id, storage.ErrNotFound)
	}
	delete(s.guideVideos, id)
	return nil
}
