package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yourempire/platform/internal/app/services/admins"
	adrewardsvc "github.com/yourempire/platform/internal/app/services/adrewards"
	approvalsvc "github.com/yourempire/platform/internal/app/services/approvals"
	catalogsvc "github.com/yourempire/platform/internal/app/services/catalog"
	referralsvc "github.com/yourempire/platform/internal/app/services/referrals"
	settingsvc "github.com/yourempire/platform/internal/app/services/settings"
	"github.com/yourempire/platform/internal/app/services/uploads"
	"github.com/yourempire/platform/internal/app/services/users"
	walletsvc "github.com/yourempire/platform/internal/app/services/wallet"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/internal/app/storage/memory"
	"github.com/yourempire/platform/internal/app/system"
	"github.com/yourempire/platform/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Users       storage.UserStore
	Ledger      storage.LedgerStore
	Admins      storage.AdminStore
	Catalog     storage.CatalogStore
	Payments    storage.PaymentStore
	Withdrawals storage.WithdrawalStore
	Ads         storage.AdStore
	Requests    storage.RequestStore
	Settings    storage.SettingsStore
	Content     storage.ContentStore

	// Uploads overrides the default disk-backed upload storage.
	Uploads uploads.Storage
}

// Application ties domain services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Settings  *settingsvc.Service
	Wallet    *walletsvc.Service
	Referrals *referralsvc.Service
	Admins    *admins.Service
	Users     *users.Service
	AdRewards *adrewardsvc.Service
	Catalog   *catalogsvc.Service
	Approvals *approvalsvc.Service
	Uploads   uploads.Storage
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Ledger == nil {
		stores.Ledger = mem
	}
	if stores.Admins == nil {
		stores.Admins = mem
	}
	if stores.Catalog == nil {
		stores.Catalog = mem
	}
	if stores.Payments == nil {
		stores.Payments = mem
	}
	if stores.Withdrawals == nil {
		stores.Withdrawals = mem
	}
	if stores.Ads == nil {
		stores.Ads = mem
	}
	if stores.Requests == nil {
		stores.Requests = mem
	}
	if stores.Settings == nil {
		stores.Settings = mem
	}
	if stores.Content == nil {
		stores.Content = mem
	}

	manager := system.NewManager()

	settingsService := settingsvc.New(stores.Settings, log)
	walletService := walletsvc.New(stores.Ledger, log)
	referralService := referralsvc.New(stores.Users, stores.Payments, walletService, settingsService, log)
	adminService := admins.New(stores.Admins, stores.Users, settingsService, log)
	userService := users.New(stores.Users, stores.Payments, stores.Withdrawals, stores.Ads, settingsService, log)
	adRewardService := adrewardsvc.New(stores.Ads, stores.Ledger, settingsService, log)
	catalogService := catalogsvc.New(stores.Catalog, stores.Ads, stores.Content, adminService, log)
	approvalService := approvalsvc.New(
		stores.Payments,
		stores.Withdrawals,
		stores.Requests,
		stores.Users,
		stores.Catalog,
		walletService,
		referralService,
		settingsService,
		adminService,
		log,
	)

	uploadStorage := stores.Uploads
	if uploadStorage == nil {
		uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
		if uploadDir == "" {
			uploadDir = "data/uploads"
		}
		disk, err := uploads.NewDiskStorage(uploadDir, log)
		if err != nil {
			return nil, fmt.Errorf("initialise upload storage: %w", err)
		}
		uploadStorage = disk
	}

	for _, name := range []string{"settings", "wallet", "referrals", "admins", "users", "adrewards", "catalog", "approvals"} {
		if err := manager.Register(system.NoopService{ServiceName: name}); err != nil {
			return nil, fmt.Errorf("register %s service: %w", name, err)
		}
	}

	return &Application{
		manager:   manager,
		log:       log,
		Settings:  settingsService,
		Wallet:    walletService,
		Referrals: referralService,
		Admins:    adminService,
		Users:     userService,
		AdRewards: adRewardService,
		Catalog:   catalogService,
		Approvals: approvalService,
		Uploads:   uploadStorage,
	}, nil
}

// Seed provisions the baseline records a fresh deployment needs: the master
// administrator, default settings keys and the stock package tiers. It is
// safe to call on every boot.
func (a *Application) Seed(ctx context.Context, masterEmail, masterPassword string) error {
	if err := a.Admins.SeedMaster(ctx, masterEmail, masterPassword); err != nil {
		return fmt.Errorf("seed master admin: %w", err)
	}
	if err := a.Settings.Seed(ctx); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	if err := a.Catalog.SeedPackages(ctx); err != nil {
		return fmt.Errorf("seed packages: %w", err)
	}
	return nil
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
