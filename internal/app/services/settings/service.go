package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/pkg/logger"
)

// Well-known configuration keys.
const (
	KeyCommissionPercentage = "commission_percentage"
	KeyMinWithdrawal        = "min_withdrawal"
	KeyAdsEnabled           = "ads_enabled"
	KeyMaintenanceMode      = "maintenance_mode"
)

// Values applied when a key has never been written.
var defaults = map[string]string{
	KeyCommissionPercentage: "50",
	KeyMinWithdrawal:        "225",
	KeyAdsEnabled:           "true",
	KeyMaintenanceMode:      "false",
}

// Service reads and writes process-wide configuration. Values are stored as
// strings and parsed by callers; there is no cache, every read hits the
// backing store.
type Service struct {
	store storage.SettingsStore
	log   *logger.Logger
}

// New constructs a settings service.
func New(store storage.SettingsStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("settings")
	}
	return &Service{store: store, log: log}
}

// Get returns the stored value for key, or fallback when the key has never
// been written.
func (s *Service) Get(ctx context.Context, key, fallback string) (string, error) {
	value, err := s.store.GetSetting(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set upserts the value for key.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("setting key is required: %w", storage.ErrInvalid)
	}
	if err := s.store.SetSetting(ctx, key, value); err != nil {
		return err
	}
	s.log.WithField("key", key).Info("setting updated")
	return nil
}

// Float returns the value for key parsed as a float, or fallback when the
// key is unset or unparseable.
func (s *Service) Float(ctx context.Context, key string, fallback float64) (float64, error) {
	raw, err := s.Get(ctx, key, "")
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		s.log.WithField("key", key).WithField("value", raw).
			Warn("setting is not a number, using fallback")
		return fallback, nil
	}
	return value, nil
}

// Bool returns the value for key parsed as a boolean, or fallback when the
// key is unset or unparseable.
func (s *Service) Bool(ctx context.Context, key string, fallback bool) (bool, error) {
	raw, err := s.Get(ctx, key, "")
	if err != nil {
		return false, err
	}
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		s.log.WithField("key", key).WithField("value", raw).
			Warn("setting is not a boolean, using fallback")
		return fallback, nil
	}
	return value, nil
}

// CommissionRate returns the referral commission rate as a fraction (0.5 for
// 50%).
func (s *Service) CommissionRate(ctx context.Context) (float64, error) {
	pct, err := s.Float(ctx, KeyCommissionPercentage, 50)
	if err != nil {
		return 0, err
	}
	return pct / 100, nil
}

// MinWithdrawal returns the minimum withdrawal amount.
func (s *Service) MinWithdrawal(ctx context.Context) (float64, error) {
	return s.Float(ctx, KeyMinWithdrawal, 225)
}

// AdsEnabled reports whether the ad reward feature is on.
func (s *Service) AdsEnabled(ctx context.Context) (bool, error) {
	return s.Bool(ctx, KeyAdsEnabled, true)
}

// MaintenanceMode reports whether user logins are blocked.
func (s *Service) MaintenanceMode(ctx context.Context) (bool, error) {
	return s.Bool(ctx, KeyMaintenanceMode, false)
}

// All returns every stored setting merged over the defaults.
func (s *Service) All(ctx context.Context) (map[string]string, error) {
	stored, err := s.store.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	merged := make(map[string]string, len(defaults)+len(stored))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range stored {
		merged[k] = v
	}
	return merged, nil
}

// Seed writes the default value for every well-known key that has never been
// written. Called once at startup.
func (s *Service) Seed(ctx context.Context) error {
	for key, value := range defaults {
		_, err := s.store.GetSetting(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if err := s.store.SetSetting(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}
