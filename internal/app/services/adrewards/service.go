package adrewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourempire/platform/internal/app/domain/ads"
	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/metrics"
	"github.com/yourempire/platform/internal/app/services/settings"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/pkg/logger"
)

// ErrAlreadyViewed reports a second reward claim for the same ad on the same
// UTC calendar day.
var ErrAlreadyViewed = errors.New("ad already viewed today")

// ErrAdsDisabled reports that the ad reward feature is switched off.
var ErrAdsDisabled = errors.New("ad rewards are disabled")

// Service gates ad reward claims: active ad, at most one claim per
// (user, ad, UTC day), view insert and reward credit as one atomic unit.
type Service struct {
	ads      storage.AdStore
	ledger   storage.LedgerStore
	settings *settings.Service
	log      *logger.Logger
}

// New constructs an ad rewards service.
func New(adStore storage.AdStore, ledger storage.LedgerStore, settings *settings.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("adrewards")
	}
	return &Service{ads: adStore, ledger: ledger, settings: settings, log: log}
}

// Eligible reports whether the user can claim the ad's reward on the given
// day: the ad is active and no view exists for that UTC calendar day.
func (s *Service) Eligible(ctx context.Context, userID, adID string, day time.Time) (bool, error) {
	ad, err := s.ads.GetAd(ctx, adID)
	if err != nil {
		return false, err
	}
	if !ad.IsActive {
		return false, nil
	}
	viewed, err := s.ads.HasAdView(ctx, userID, adID, day)
	if err != nil {
		return false, err
	}
	return !viewed, nil
}

// Claim credits the ad's reward to the user and records the view as one
// atomic operation. A same-day double claim fails with ErrAlreadyViewed and
// changes nothing.
func (s *Service) Claim(ctx context.Context, userID, adID string) (ads.View, user.User, error) {
	enabled, err := s.settings.AdsEnabled(ctx)
	if err != nil {
		return ads.View{}, user.User{}, err
	}
	if !enabled {
		metrics.RecordAdClaim("disabled")
		return ads.View{}, user.User{}, ErrAdsDisabled
	}

	ad, err := s.ads.GetAd(ctx, adID)
	if err != nil {
		return ads.View{}, user.User{}, err
	}
	if !ad.IsActive {
		metrics.RecordAdClaim("inactive")
		return ads.View{}, user.User{}, fmt.Errorf("ad %s is not active: %w", adID, storage.ErrInvalid)
	}

	view, u, err := s.ledger.RecordAdView(ctx, ads.View{
		UserID:   userID,
		AdID:     adID,
		Reward:   ad.Reward,
		ViewedAt: time.Now().UTC(),
	})
	if errors.Is(err, storage.ErrDuplicate) {
		metrics.RecordAdClaim("duplicate")
		return ads.View{}, user.User{}, fmt.Errorf("user %s ad %s: %w", userID, adID, ErrAlreadyViewed)
	}
	if err != nil {
		metrics.RecordAdClaim("error")
		return ads.View{}, user.User{}, err
	}

	metrics.RecordAdClaim("ok")
	s.log.WithField("user_id", userID).WithField("ad_id", adID).
		WithField("reward", ad.Reward).Info("ad reward claimed")
	return view, u, nil
}

// AvailableAds lists active ads the user has not yet claimed today.
func (s *Service) AvailableAds(ctx context.Context, userID string) ([]ads.Ad, error) {
	active, err := s.ads.ListAds(ctx, true)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	available := make([]ads.Ad, 0, len(active))
	for _, ad := range active {
		viewed, err := s.ads.HasAdView(ctx, userID, ad.ID, now)
		if err != nil {
			return nil, err
		}
		if !viewed {
			available = append(available, ad)
		}
	}
	return available, nil
}

// History lists the user's reward claims.
func (s *Service) History(ctx context.Context, userID string) ([]ads.View, error) {
	return s.ads.ListAdViews(ctx, userID)
}

// Earnings returns the total ad reward the user has collected.
func (s *Service) Earnings(ctx context.Context, userID string) (float64, error) {
	views, err := s.ads.ListAdViews(ctx, userID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, v := range views {
		total += v.Reward
	}
	return total, nil
}

// AdStats summarises claim activity per ad for the admin dashboard.
func (s *Service) AdStats(ctx context.Context) ([]ads.Stats, error) {
	all, err := s.ads.ListAds(ctx, false)
	if err != nil {
		return nil, err
	}

	result := make([]ads.Stats, 0, len(all))
	for _, ad := range all {
		views, err := s.ads.ListViewsForAd(ctx, ad.ID)
		if err != nil {
			return nil, err
		}
		viewers := make(map[string]struct{})
		var paid float64
		for _, v := range views {
			viewers[v.UserID] = struct{}{}
			paid += v.Reward
		}
		result = append(result, ads.Stats{
			AdID:          ad.ID,
			Title:         ad.Title,
			UniqueViewers: len(viewers),
			Reward:        ad.Reward,
			TotalPaid:     paid,
			IsActive:      ad.IsActive,
		})
	}
	return result, nil
}
