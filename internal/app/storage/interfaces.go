package storage

import (
	"context"
	"time"

	"github.com/yourempire/platform/internal/app/domain/admin"
	"github.com/yourempire/platform/internal/app/domain/ads"
	"github.com/yourempire/platform/internal/app/domain/catalog"
	"github.com/yourempire/platform/internal/app/domain/content"
	"github.com/yourempire/platform/internal/app/domain/payment"
	"github.com/yourempire/platform/internal/app/domain/request"
	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/domain/withdrawal"
)

// UserStore persists user records.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	ListReferrals(ctx context.Context, referrerID string) ([]user.User, error)

	CreateLoginRecord(ctx context.Context, rec user.LoginRecord) (user.LoginRecord, error)
	ListLoginRecords(ctx context.Context, actorID string) ([]user.LoginRecord, error)
}

// LedgerStore performs atomic wallet mutations. AdjustBalance is a single
// read-modify-write against the stored balance; a result below zero fails
// with ErrInsufficientFunds and leaves the balance unchanged. RecordAdView
// inserts the view and credits the reward as one unit, failing with
// ErrDuplicate when a view for the same (user, ad, UTC day) already exists.
type LedgerStore interface {
	AdjustBalance(ctx context.Context, userID string, delta float64) (user.User, error)
	RecordAdView(ctx context.Context, view ads.View) (ads.View, user.User, error)
}

// AdminStore persists administrative actors of both tiers.
type AdminStore interface {
	CreateAdmin(ctx context.Context, a admin.Admin) (admin.Admin, error)
	UpdateAdmin(ctx context.Context, a admin.Admin) (admin.Admin, error)
	GetAdmin(ctx context.Context, id string) (admin.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (admin.Admin, error)
	ListAdmins(ctx context.Context, role admin.Role) ([]admin.Admin, error)
}

// CatalogStore persists package tiers and payment method directory entries.
type CatalogStore interface {
	CreatePackage(ctx context.Context, p catalog.Package) (catalog.Package, error)
	UpdatePackage(ctx context.Context, p catalog.Package) (catalog.Package, error)
	GetPackage(ctx context.Context, id string) (catalog.Package, error)
	ListPackages(ctx context.Context) ([]catalog.Package, error)
	DeletePackage(ctx context.Context, id string) error

	CreatePaymentMethod(ctx context.Context, m catalog.PaymentMethod) (catalog.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, m catalog.PaymentMethod) (catalog.PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, id string) (catalog.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context) ([]catalog.PaymentMethod, error)
}

// PaymentStore persists payment claims. TransitionPayment flips the status
// only when the record is currently in the from state; otherwise it fails
// with ErrAlreadyResolved. Payments are never deleted.
type PaymentStore interface {
	CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error)
	GetPayment(ctx context.Context, id string) (payment.Payment, error)
	ListPayments(ctx context.Context, userID string) ([]payment.Payment, error)
	ListPaymentsByStatus(ctx context.Context, status payment.Status) ([]payment.Payment, error)
	TransitionPayment(ctx context.Context, id string, from, to payment.Status, adminID string) (payment.Payment, error)
}

// WithdrawalStore persists payout claims with the same transition guard as
// PaymentStore. Withdrawals are never deleted.
type WithdrawalStore interface {
	CreateWithdrawal(ctx context.Context, w withdrawal.Withdrawal) (withdrawal.Withdrawal, error)
	GetWithdrawal(ctx context.Context, id string) (withdrawal.Withdrawal, error)
	ListWithdrawals(ctx context.Context, userID string) ([]withdrawal.Withdrawal, error)
	ListWithdrawalsByStatus(ctx context.Context, status withdrawal.Status) ([]withdrawal.Withdrawal, error)
	TransitionWithdrawal(ctx context.Context, id string, from, to withdrawal.Status, adminID string) (withdrawal.Withdrawal, error)
}

// AdStore persists ads and their views.
type AdStore interface {
	CreateAd(ctx context.Context, a ads.Ad) (ads.Ad, error)
	UpdateAd(ctx context.Context, a ads.Ad) (ads.Ad, error)
	GetAd(ctx context.Context, id string) (ads.Ad, error)
	ListAds(ctx context.Context, activeOnly bool) ([]ads.Ad, error)
	DeleteAd(ctx context.Context, id string) error

	HasAdView(ctx context.Context, userID, adID string, day time.Time) (bool, error)
	ListAdViews(ctx context.Context, userID string) ([]ads.View, error)
	ListViewsForAd(ctx context.Context, adID string) ([]ads.View, error)
}

// RequestStore persists profile update and password reset requests.
type RequestStore interface {
	CreateProfileUpdate(ctx context.Context, r request.ProfileUpdate) (request.ProfileUpdate, error)
	GetProfileUpdate(ctx context.Context, id string) (request.ProfileUpdate, error)
	ListProfileUpdates(ctx context.Context, userID string, status request.Status) ([]request.ProfileUpdate, error)
	TransitionProfileUpdate(ctx context.Context, id string, from, to request.Status, adminID string) (request.ProfileUpdate, error)

	CreatePasswordReset(ctx context.Context, r request.PasswordReset) (request.PasswordReset, error)
	GetPasswordReset(ctx context.Context, id string) (request.PasswordReset, error)
	ListPasswordResets(ctx context.Context, userID string, status request.Status) ([]request.PasswordReset, error)
	ResolvePasswordReset(ctx context.Context, id, masterID string, at time.Time) (request.PasswordReset, error)
}

// SettingsStore persists string key/value configuration.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) (map[string]string, error)
}

// ContentStore persists announcements and guide videos.
type ContentStore interface {
	CreateAnnouncement(ctx context.Context, a content.Announcement) (content.Announcement, error)
	UpdateAnnouncement(ctx context.Context, a content.Announcement) (content.Announcement, error)
	GetAnnouncement(ctx context.Context, id string) (content.Announcement, error)
	ListAnnouncements(ctx context.Context, activeOnly bool) ([]content.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error

	CreateGuideVideo(ctx context.Context, v content.GuideVideo) (content.GuideVideo, error)
	ListGuideVideos(ctx context.Context) ([]content.GuideVideo, error)
	DeleteGuideVideo(ctx context.Context, id string) error
}
