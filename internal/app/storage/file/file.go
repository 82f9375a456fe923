// Package file provides a flat-file JSON storage backend. State is loaded
// once at open and the whole snapshot is rewritten after every successful
// mutation, so a crash loses at most the mutation in flight.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
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
	"github.com/yourempire/platform/internal/app/storage/memory"
)

// Store persists platform state as a single JSON document on disk. Reads are
// served from the in-memory state; writes go through it and then flush.
type Store struct {
	mu   sync.Mutex // serializes flushes
	path string
	mem  *memory.Store
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

// Open loads the store from path, creating an empty store when the file does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, mem: memory.New()}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file %s: %w", path, err)
	}
	if err := s.mem.Restore(data); err != nil {
		return nil, fmt.Errorf("restore state file %s: %w", path, err)
	}
	return s, nil
}

// flush writes the snapshot to a sibling temp file and renames it over the
// target so readers never observe a partial document.
func (s *Store) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.mem.Snapshot()
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	created, err := s.mem.CreateUser(ctx, u)
	if err != nil {
		return user.User{}, err
	}
	return created, s.flush()
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	updated, err := s.mem.UpdateUser(ctx, u)
	if err != nil {
		return user.User{}, err
	}
	return updated, s.flush()
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	return s.mem.GetUser(ctx, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return s.mem.GetUserByEmail(ctx, email)
}

func (s *Store) GetUserByReferralCode(ctx context.Context, code string) (user.User, error) {
	return s.mem.GetUserByReferralCode(ctx, code)
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.mem.ListUsers(ctx)
}

func (s *Store) ListReferrals(ctx context.Context, referrerID string) ([]user.User, error) {
	return s.mem.ListReferrals(ctx, referrerID)
}

func (s *Store) CreateLoginRecord(ctx context.Context, rec user.LoginRecord) (user.LoginRecord, error) {
	created, err := s.mem.CreateLoginRecord(ctx, rec)
	if err != nil {
		return user.LoginRecord{}, err
	}
	return created, s.flush()
}

func (s *Store) ListLoginRecords(ctx context.Context, actorID string) ([]user.LoginRecord, error) {
	return s.mem.ListLoginRecords(ctx, actorID)
}

// --- LedgerStore ------------------------------------------------------------

func (s *Store) AdjustBalance(ctx context.Context, userID string, delta float64) (user.User, error) {
	u, err := s.mem.AdjustBalance(ctx, userID, delta)
	if err != nil {
		return user.User{}, err
	}
	return u, s.flush()
}

func (s *Store) RecordAdView(ctx context.Context, view ads.View) (ads.View, user.User, error) {
	v, u, err := s.mem.RecordAdView(ctx, view)
	if err != nil {
		return ads.View{}, user.User{}, err
	}
	return v, u, s.flush()
}

// --- AdminStore -------------------------------------------------------------

func (s *Store) CreateAdmin(ctx context.Context, a admin.Admin) (admin.Admin, error) {
	created, err := s.mem.CreateAdmin(ctx, a)
	if err != nil {
		return admin.Admin{}, err
	}
	return created, s.flush()
}

func (s *Store) UpdateAdmin(ctx context.Context, a admin.Admin) (admin.Admin, error) {
	updated, err := s.mem.UpdateAdmin(ctx, a)
	if err != nil {
		return admin.Admin{}, err
	}
	return updated, s.flush()
}

func (s *Store) GetAdmin(ctx context.Context, id string) (admin.Admin, error) {
	return s.mem.GetAdmin(ctx, id)
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (admin.Admin, error) {
	return s.mem.GetAdminByEmail(ctx, email)
}

func (s *Store) ListAdmins(ctx context.Context, role admin.Role) ([]admin.Admin, error) {
	return s.mem.ListAdmins(ctx, role)
}

// --- CatalogStore -----------------------------------------------------------

func (s *Store) CreatePackage(ctx context.Context, p catalog.Package) (catalog.Package, error) {
	created, err := s.mem.CreatePackage(ctx, p)
	if err != nil {
		return catalog.Package{}, err
	}
	return created, s.flush()
}

func (s *Store) UpdatePackage(ctx context.Context, p catalog.Package) (catalog.Package, error) {
	updated, err := s.mem.UpdatePackage(ctx, p)
	if err != nil {
		return catalog.Package{}, err
	}
	return updated, s.flush()
}

func (s *Store) GetPackage(ctx context.Context, id string) (catalog.Package, error) {
	return s.mem.GetPackage(ctx, id)
}

func (s *Store) ListPackages(ctx context.Context) ([]catalog.Package, error) {
	return s.mem.ListPackages(ctx)
}

func (s *Store) DeletePackage(ctx context.Context, id string) error {
	if err := s.mem.DeletePackage(ctx, id); err != nil {
		return err
	}
	return s.flush()
}

func (s *Store) CreatePaymentMethod(ctx context.Context, m catalog.PaymentMethod) (catalog.PaymentMethod, error) {
	created, err := s.mem.CreatePaymentMethod(ctx, m)
	if err != nil {
		return catalog.PaymentMethod{}, err
	}
	return created, s.flush()
}

func (s *Store) UpdatePaymentMethod(ctx context.Context, m catalog.PaymentMethod) (catalog.PaymentMethod, error) {
	updated, err := s.mem.UpdatePaymentMethod(ctx, m)
	if err != nil {
		return catalog.PaymentMethod{}, err
	}
	return updated, s.flush()
}

func (s *Store) GetPaymentMethod(ctx context.Context, id string) (catalog.PaymentMethod, error) {
	return s.mem.GetPaymentMethod(ctx, id)
}

func (s *Store) ListPaymentMethods(ctx context.Context) ([]catalog.PaymentMethod, error) {
	return s.mem.ListPaymentMethods(ctx)
}

// --- PaymentStore -----------------------------------------------------------

func (s *Store) CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	created, err := s.mem.CreatePayment(ctx, p)
	if err != nil {
		return payment.Payment{}, err
	}
	return created, s.flush()
}

func (s *Store) GetPayment(ctx context.Context, id string) (payment.Payment, error) {
	return s.mem.GetPayment(ctx, id)
}

func (s *Store) ListPayments(ctx context.Context, userID string) ([]payment.Payment, error) {
	return s.mem.ListPayments(ctx, userID)
}

func (s *Store) ListPaymentsByStatus(ctx context.Context, status payment.Status) ([]payment.Payment, error) {
	return s.mem.ListPaymentsByStatus(ctx, status)
}

func (s *Store) TransitionPayment(ctx context.Context, id string, from, to payment.Status, adminID string) (payment.Payment, error) {
	p, err := s.mem.TransitionPayment(ctx, id, from, to, adminID)
	if err != nil {
		return payment.Payment{}, err
	}
	return p, s.flush()
}

// --- WithdrawalStore --------------------------------------------------------

func (s *Store) CreateWithdrawal(ctx context.Context, w withdrawal.Withdrawal) (withdrawal.Withdrawal, error) {
	created, err := s.mem.CreateWithdrawal(ctx, w)
	if err != nil {
		return withdrawal.Withdrawal{}, err
	}
	return created, s.flush()
}

func (s *Store) GetWithdrawal(ctx context.Context, id string) (withdrawal.Withdrawal, error) {
	return s.mem.GetWithdrawal(ctx, id)
}

func (s *Store) ListWithdrawals(ctx context.Context, userID string) ([]withdrawal.Withdrawal, error) {
	return s.mem.ListWithdrawals(ctx, userID)
}

func (s *Store) ListWithdrawalsByStatus(ctx context.Context, status withdrawal.Status) ([]withdrawal.Withdrawal, error) {
	return s.mem.ListWithdrawalsByStatus(ctx, status)
}

func (s *Store) TransitionWithdrawal(ctx context.Context, id string, from, to withdrawal.Status, adminID string) (withdrawal.Withdrawal, error) {
	w, err := s.mem.TransitionWithdrawal(ctx, id, from, to, adminID)
	if err != nil {
		return withdrawal.Withdrawal{}, err
	}
	return w, s.flush()
}

// --- AdStore ----------------------------------------------------------------

func (s *Store) CreateAd(ctx context.Context, a ads.Ad) (ads.Ad, error) {
	created, err := s.mem.CreateAd(ctx, a)
	if err != nil {
		return ads.Ad{}, err
	}
	return created, s.flush()
}

func (s *Store) UpdateAd(ctx context.Context, a ads.Ad) (ads.Ad, error) {
	updated, err := s.mem.UpdateAd(ctx, a)
	if err != nil {
		return ads.Ad{}, err
	}
	return updated, s.flush()
}

func (s *Store) GetAd(ctx context.Context, id string) (ads.Ad, error) {
	return s.mem.GetAd(ctx, id)
}

func (s *Store) ListAds(ctx context.Context, activeOnly bool) ([]ads.Ad, error) {
	return s.mem.ListAds(ctx, activeOnly)
}

func (s *Store) DeleteAd(ctx context.Context, id string) error {
	if err := s.mem.DeleteAd(ctx, id); err != nil {
		return err
	}
	return s.flush()
}

func (s *Store) HasAdView(ctx context.Context, userID, adID string, day time.Time) (bool, error) {
	return s.mem.HasAdView(ctx, userID, adID, day)
}

func (s *Store) ListAdViews(ctx context.Context, userID string) ([]ads.View, error) {
	return s.mem.ListAdViews(ctx, userID)
}

func (s *Store) ListViewsForAd(ctx context.Context, adID string) ([]ads.View, error) {
	return s.mem.ListViewsForAd(ctx, adID)
}

// --- RequestStore -----------------------------------------------------------

func (s *Store) CreateProfileUpdate(ctx context.Context, r request.ProfileUpdate) (request.ProfileUpdate, error) {
	created, err := s.mem.CreateProfileUpdate(ctx, r)
	if err != nil {
		return request.ProfileUpdate{}, err
	}
	return created, s.flush()
}

func (s *Store) GetProfileUpdate(ctx context.Context, id string) (request.ProfileUpdate, error) {
	return s.mem.GetProfileUpdate(ctx, id)
}

func (s *Store) ListProfileUpdates(ctx context.Context, userID string, status request.Status) ([]request.ProfileUpdate, error) {
	return s.mem.ListProfileUpdates(ctx, userID, status)
}

func (s *Store) TransitionProfileUpdate(ctx context.Context, id string, from, to request.Status, adminID string) (request.ProfileUpdate, error) {
	r, err := s.mem.TransitionProfileUpdate(ctx, id, from, to, adminID)
	if err != nil {
		return request.ProfileUpdate{}, err
	}
	return r, s.flush()
}

func (s *Store) CreatePasswordReset(ctx context.Context, r request.PasswordReset) (request.PasswordReset, error) {
	created, err := s.mem.CreatePasswordReset(ctx, r)
	if err != nil {
		return request.PasswordReset{}, err
	}
	return created, s.flush()
}

func (s *Store) GetPasswordReset(ctx context.Context, id string) (request.PasswordReset, error) {
	return s.mem.GetPasswordReset(ctx, id)
}

func (s *Store) ListPasswordResets(ctx context.Context, userID string, status request.Status) ([]request.PasswordReset, error) {
	return s.mem.ListPasswordResets(ctx, userID, status)
}

func (s *Store) ResolvePasswordReset(ctx context.Context, id, masterID string, at time.Time) (request.PasswordReset, error) {
	r, err := s.mem.ResolvePasswordReset(ctx, id, masterID, at)
	if err != nil {
		return request.PasswordReset{}, err
	}
	return r, s.flush()
}

// --- SettingsStore ----------------------------------------------------------

func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	return s.mem.GetSetting(ctx, key)
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if err := s.mem.SetSetting(ctx, key, value); err != nil {
		return err
	}
	return s.flush()
}

func (s *Store) ListSettings(ctx context.Context) (map[string]string, error) {
	return s.mem.ListSettings(ctx)
}

// --- ContentStore -----------------------------------------------------------

func (s *Store) CreateAnnouncement(ctx context.Context, a content.Announcement) (content.Announcement, error) {
	created, err := s.mem.CreateAnnouncement(ctx, a)
	if err != nil {
		return content.Announcement{}, err
	}
	return created, s.flush()
}

func (s *Store) UpdateAnnouncement(ctx context.Context, a content.Announcement) (content.Announcement, error) {
	updated, err := s.mem.UpdateAnnouncement(ctx, a)
	if err != nil {
		return content.Announcement{}, err
	}
	return updated, s.flush()
}

func (s *Store) GetAnnouncement(ctx context.Context, id string) (content.Announcement, error) {
	return s.mem.GetAnnouncement(ctx, id)
}

func (s *Store) ListAnnouncements(ctx context.Context, activeOnly bool) ([]content.Announcement, error) {
	return s.mem.ListAnnouncements(ctx, activeOnly)
}

func (s *Store) DeleteAnnouncement(ctx context.Context, id string) error {
	if err := s.mem.DeleteAnnouncement(ctx, id); err != nil {
		return err
	}
	return s.flush()
}

func (s *Store) CreateGuideVideo(ctx context.Context, v content.GuideVideo) (content.GuideVideo, error) {
	created, err := s.mem.CreateGuideVideo(ctx, v)
	if err != nil {
		return content.GuideVideo{}, err
	}
	return created, s.flush()
}

func (s *Store) ListGuideVideos(ctx context.Context) ([]content.GuideVideo, error) {
	return s.mem.ListGuideVideos(ctx)
}

func (s *Store) DeleteGuideVideo(ctx context.Context, id string) error {
	if err := s.mem.DeleteGuideVideo(ctx, id); err != nil {
		return err
	}
	return s.flush()
}
