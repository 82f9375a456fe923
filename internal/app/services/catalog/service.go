package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourempire/platform/internal/app/domain/admin"
	"github.com/yourempire/platform/internal/app/domain/ads"
	"github.com/yourempire/platform/internal/app/domain/catalog"
	"github.com/yourempire/platform/internal/app/domain/content"
	"github.com/yourempire/platform/internal/app/services/admins"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/pkg/logger"
)

// Default package tiers seeded on first boot.
var defaultPackages = []catalog.Package{
	{Name: "Bronze", Price: 450},
	{Name: "Silver", Price: 1000},
	{Name: "Diamond", Price: 1250},
	{Name: "Platinum", Price: 2000},
}

// Service manages the admin-curated catalog: package tiers, payment method
// directory, ads, announcements and guide videos.
type Service struct {
	store   storage.CatalogStore
	ads     storage.AdStore
	content storage.ContentStore
	admins  *admins.Service
	log     *logger.Logger
}

// New constructs a catalog service.
func New(store storage.CatalogStore, adStore storage.AdStore, contentStore storage.ContentStore, adminSvc *admins.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("catalog")
	}
	return &Service{store: store, ads: adStore, content: contentStore, admins: adminSvc, log: log}
}

// SeedPackages creates the default tiers when the catalog is empty.
func (s *Service) SeedPackages(ctx context.Context) error {
	existing, err := s.store.ListPackages(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, pkg := range defaultPackages {
		if _, err := s.store.CreatePackage(ctx, pkg); err != nil {
			return err
		}
	}
	s.log.WithField("count", len(defaultPackages)).Info("default packages seeded")
	return nil
}

// Packages lists the purchasable tiers.
func (s *Service) Packages(ctx context.Context) ([]catalog.Package, error) {
	return s.store.ListPackages(ctx)
}

// CreatePackage adds a tier.
func (s *Service) CreatePackage(ctx context.Context, actorID string, pkg catalog.Package) (catalog.Package, error) {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return catalog.Package{}, err
	}
	if strings.TrimSpace(pkg.Name) == "" || pkg.Price <= 0 {
		return catalog.Package{}, fmt.Errorf("package name and positive price are required: %w", storage.ErrInvalid)
	}
	return s.store.CreatePackage(ctx, pkg)
}

// UpdatePackage changes a tier's name, price or description.
func (s *Service) UpdatePackage(ctx context.Context, actorID string, pkg catalog.Package) (catalog.Package, error) {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return catalog.Package{}, err
	}
	if pkg.Price <= 0 {
		return catalog.Package{}, fmt.Errorf("package price must be positive: %w", storage.ErrInvalid)
	}
	return s.store.UpdatePackage(ctx, pkg)
}

// DeletePackage removes a tier from the catalog. Existing payments keep
// their amount snapshot.
func (s *Service) DeletePackage(ctx context.Context, actorID, id string) error {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return err
	}
	return s.store.DeletePackage(ctx, id)
}

// PaymentMethods lists destination accounts for manual payments.
func (s *Service) PaymentMethods(ctx context.Context) ([]catalog.PaymentMethod, error) {
	return s.store.ListPaymentMethods(ctx)
}

// CreatePaymentMethod adds a destination account.
func (s *Service) CreatePaymentMethod(ctx context.Context, actorID string, m catalog.PaymentMethod) (catalog.PaymentMethod, error) {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return catalog.PaymentMethod{}, err
	}
	if strings.TrimSpace(m.Type) == "" || strings.TrimSpace(m.AccountNumber) == "" {
		return catalog.PaymentMethod{}, fmt.Errorf("method type and account number are required: %w", storage.ErrInvalid)
	}
	return s.store.CreatePaymentMethod(ctx, m)
}

// UpdatePaymentMethod changes a destination account.
func (s *Service) UpdatePaymentMethod(ctx context.Context, actorID string, m catalog.PaymentMethod) (catalog.PaymentMethod, error) {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return catalog.PaymentMethod{}, err
	}
	return s.store.UpdatePaymentMethod(ctx, m)
}

// --- Ads --------------------------------------------------------------------

// CreateAd publishes a rewardable ad.
func (s *Service) CreateAd(ctx context.Context, actorID string, ad ads.Ad) (ads.Ad, error) {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return ads.Ad{}, err
	}
	if strings.TrimSpace(ad.Title) == "" || ad.Reward <= 0 {
		return ads.Ad{}, fmt.Errorf("ad title and positive reward are required: %w", storage.ErrInvalid)
	}
	switch ad.Type {
	case "video", "image", "link":
	default:
		return ads.Ad{}, fmt.Errorf("unsupported ad type %q: %w", ad.Type, storage.ErrInvalid)
	}
	ad.IsActive = true
	return s.ads.CreateAd(ctx, ad)
}

// SetAdActive toggles an ad.
func (s *Service) SetAdActive(ctx context.Context, actorID, adID string, active bool) (ads.Ad, error) {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return ads.Ad{}, err
	}
	ad, err := s.ads.GetAd(ctx, adID)
	if err != nil {
		return ads.Ad{}, err
	}
	ad.IsActive = active
	return s.ads.UpdateAd(ctx, ad)
}

// DeleteAd removes an ad. Recorded views are kept for audit.
func (s *Service) DeleteAd(ctx context.Context, actorID, adID string) error {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return err
	}
	return s.ads.DeleteAd(ctx, adID)
}

// Ads lists ads, optionally only active ones.
func (s *Service) Ads(ctx context.Context, activeOnly bool) ([]ads.Ad, error) {
	return s.ads.ListAds(ctx, activeOnly)
}

// --- Announcements and guide videos ----------------------------------------

// CreateAnnouncement publishes a dashboard broadcast.
func (s *Service) CreateAnnouncement(ctx context.Context, actorID string, a content.Announcement) (content.Announcement, error) {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return content.Announcement{}, err
	}
	switch a.Type {
	case "text", "image", "video":
	default:
		return content.Announcement{}, fmt.Errorf("unsupported announcement type %q: %w", a.Type, storage.ErrInvalid)
	}
	if strings.TrimSpace(a.Content) == "" && strings.TrimSpace(a.MediaKey) == "" {
		return content.Announcement{}, fmt.Errorf("announcement content or media is required: %w", storage.ErrInvalid)
	}
	a.IsActive = true
	return s.content.CreateAnnouncement(ctx, a)
}

// SetAnnouncementActive toggles an announcement.
func (s *Service) SetAnnouncementActive(ctx context.Context, actorID, id string, active bool) (content.Announcement, error) {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return content.Announcement{}, err
	}
	a, err := s.content.GetAnnouncement(ctx, id)
	if err != nil {
		return content.Announcement{}, err
	}
	a.IsActive = active
	return s.content.UpdateAnnouncement(ctx, a)
}

// DeleteAnnouncement removes a broadcast.
func (s *Service) DeleteAnnouncement(ctx context.Context, actorID, id string) error {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return err
	}
	return s.content.DeleteAnnouncement(ctx, id)
}

// Announcements lists broadcasts, optionally only active ones.
func (s *Service) Announcements(ctx context.Context, activeOnly bool) ([]content.Announcement, error) {
	return s.content.ListAnnouncements(ctx, activeOnly)
}

// CreateGuideVideo adds a tutorial link.
func (s *Service) CreateGuideVideo(ctx context.Context, actorID string, v content.GuideVideo) (content.GuideVideo, error) {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return content.GuideVideo{}, err
	}
	if strings.TrimSpace(v.Title) == "" || strings.TrimSpace(v.VideoURL) == "" {
		return content.GuideVideo{}, fmt.Errorf("video title and url are required: %w", storage.ErrInvalid)
	}
	return s.content.CreateGuideVideo(ctx, v)
}

// DeleteGuideVideo removes a tutorial link.
func (s *Service) DeleteGuideVideo(ctx context.Context, actorID, id string) error {
	if _, err := s.admins.Require(ctx, actorID, admin.CapManageCatalog); err != nil {
		return err
	}
	return s.content.DeleteGuideVideo(ctx, id)
}

// GuideVideos lists tutorial links.
func (s *Service) GuideVideos(ctx context.Context) ([]content.GuideVideo, error) {
	return s.content.ListGuideVideos(ctx)
}
