package memory

import (
	"encoding/json"
	"strings"

	"github.com/yourempire/platform/internal/app/domain/admin"
	"github.com/yourempire/platform/internal/app/domain/ads"
	"github.com/yourempire/platform/internal/app/domain/catalog"
	"github.com/yourempire/platform/internal/app/domain/content"
	"github.com/yourempire/platform/internal/app/domain/payment"
	"github.com/yourempire/platform/internal/app/domain/request"
	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/domain/withdrawal"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// snapshot is the serialized form of the store. Lookup indexes are rebuilt on
// restore rather than persisted.
type snapshot struct {
	NextID         int64                            `json:"next_id"`
	Users          map[string]user.User             `json:"users"`
	LoginRecords   []user.LoginRecord               `json:"login_records,omitempty"`
	Admins         map[string]admin.Admin           `json:"admins"`
	Packages       map[string]catalog.Package       `json:"packages"`
	PaymentMethods map[string]catalog.PaymentMethod `json:"payment_methods"`
	Payments       map[string]payment.Payment       `json:"payments"`
	Withdrawals    map[string]withdrawal.Withdrawal `json:"withdrawals"`
	Ads            map[string]ads.Ad                `json:"ads"`
	AdViews        []ads.View                       `json:"ad_views,omitempty"`
	ProfileUpdates map[string]request.ProfileUpdate `json:"profile_updates"`
	PasswordResets map[string]request.PasswordReset `json:"password_resets"`
	Settings       map[string]string                `json:"settings"`
	Announcements  map[string]content.Announcement  `json:"announcements"`
	GuideVideos    map[string]content.GuideVideo    `json:"guide_videos"`
}

// Snapshot serializes the full store state to JSON.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return json.MarshalIndent(snapshot{
		NextID:         s.nextID,
		Users:          s.users,
		LoginRecords:   s.loginRecords,
		Admins:         s.admins,
		Packages:       s.packages,
		PaymentMethods: s.paymentMethods,
		Payments:       s.payments,
		Withdrawals:    s.withdrawals,
		Ads:            s.adsByID,
		AdViews:        s.adViews,
		ProfileUpdates: s.profileUpdates,
		PasswordResets: s.passwordResets,
		Settings:       s.settings,
		Announcements:  s.announcements,
		GuideVideos:    s.guideVideos,
	}, "", "  ")
}

// Restore replaces the store state with a previously serialized snapshot and
// rebuilds the email and referral code indexes.
func (s *Store) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := New()
	if snap.NextID > 0 {
		fresh.nextID = snap.NextID
	}
	for id, u := range snap.Users {
		fresh.users[id] = u
		fresh.usersByEmail[normalizeEmail(u.Email)] = id
		if u.ReferralCode != "" {
			fresh.usersByRefCode[normalizeCode(u.ReferralCode)] = id
		}
	}
	for id, a := range snap.Admins {
		fresh.admins[id] = a
		fresh.adminsByEmail[normalizeEmail(a.Email)] = id
	}
	for id, p := range snap.Packages {
		fresh.packages[id] = p
	}
	for id, m := range snap.PaymentMethods {
		fresh.paymentMethods[id] = m
	}
	for id, p := range snap.Payments {
		fresh.payments[id] = p
	}
	for id, w := range snap.Withdrawals {
		fresh.withdrawals[id] = w
	}
	for id, a := range snap.Ads {
		fresh.adsByID[id] = a
	}
	for id, r := range snap.ProfileUpdates {
		fresh.profileUpdates[id] = r
	}
	for id, r := range snap.PasswordResets {
		fresh.passwordResets[id] = r
	}
	for k, v := range snap.Settings {
		fresh.settings[k] = v
	}
	for id, a := range snap.Announcements {
		fresh.announcements[id] = a
	}
	for id, v := range snap.GuideVideos {
		fresh.guideVideos[id] = v
	}
	fresh.loginRecords = snap.LoginRecords
	fresh.adViews = snap.AdViews

	s.nextID = fresh.nextID
	s.users = fresh.users
	s.usersByEmail = fresh.usersByEmail
	s.usersByRefCode = fresh.usersByRefCode
	s.loginRecords = fresh.loginRecords
	s.admins = fresh.admins
	s.adminsByEmail = fresh.adminsByEmail
	s.packages = fresh.packages
	s.paymentMethods = fresh.paymentMethods
	s.payments = fresh.payments
	s.withdrawals = fresh.withdrawals
	s.adsByID = fresh.adsByID
	s.adViews = fresh.adViews
	s.profileUpdates = fresh.profileUpdates
	s.passwordResets = fresh.passwordResets
	s.settings = fresh.settings
	s.announcements = fresh.announcements
	s.guideVideos = fresh.guideVideos
	return nil
}
