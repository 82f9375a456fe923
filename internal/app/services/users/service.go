package users

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"

	"github.com/yourempire/platform/internal/app/credentials"
	"github.com/yourempire/platform/internal/app/domain/payment"
	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/domain/withdrawal"
	"github.com/yourempire/platform/internal/app/services/settings"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/pkg/logger"
)

// ErrInvalidCredentials reports a failed login without revealing whether the
// account exists.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrMaintenance reports that user logins are blocked by maintenance mode.
var ErrMaintenance = errors.New("platform is under maintenance")

// ErrInvalidReferralCode reports a registration against an unknown referral
// code.
var ErrInvalidReferralCode = errors.New("invalid referral code")

const referralCodePrefix = "YE"

// RegisterInput carries everything needed to create a user account.
type RegisterInput struct {
	Email        string
	Password     string
	FullName     string
	Phone        string
	City         string
	Address      string
	ReferralCode string // referrer's code, optional
}

// Service manages user accounts: registration, authentication and dashboard
// aggregates.
type Service struct {
	users       storage.UserStore
	payments    storage.PaymentStore
	withdrawals storage.WithdrawalStore
	ads         storage.AdStore
	settings    *settings.Service
	log         *logger.Logger
}

// New constructs a users service.
func New(users storage.UserStore, payments storage.PaymentStore, withdrawals storage.WithdrawalStore, ads storage.AdStore, settings *settings.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("users")
	}
	return &Service{
		users:       users,
		payments:    payments,
		withdrawals: withdrawals,
		ads:         ads,
		settings:    settings,
		log:         log,
	}
}

// Register creates a user account. The referral code, when present, must
// name an existing user and binds referred_by once, immutably.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return user.User{}, fmt.Errorf("invalid email address %q: %w", in.Email, storage.ErrInvalid)
	}
	if len(in.Password) < credentials.MinPasswordLength {
		return user.User{}, fmt.Errorf("password must be at least %d characters: %w", credentials.MinPasswordLength, storage.ErrInvalid)
	}
	if strings.TrimSpace(in.FullName) == "" {
		return user.User{}, fmt.Errorf("full name is required: %w", storage.ErrInvalid)
	}

	var referrerID string
	if code := strings.TrimSpace(in.ReferralCode); code != "" {
		referrer, err := s.users.GetUserByReferralCode(ctx, code)
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, fmt.Errorf("code %s: %w", code, ErrInvalidReferralCode)
		}
		if err != nil {
			return user.User{}, err
		}
		referrerID = referrer.ID
	}

	hash, err := credentials.Hash(in.Password)
	if err != nil {
		return user.User{}, err
	}
	code, err := s.generateReferralCode(ctx)
	if err != nil {
		return user.User{}, err
	}

	created, err := s.users.CreateUser(ctx, user.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		City:         strings.TrimSpace(in.City),
		Address:      strings.TrimSpace(in.Address),
		ReferralCode: code,
		ReferredBy:   referrerID,
		IsActive:     true,
	})
	if err != nil {
		return user.User{}, err
	}

	s.log.WithField("user_id", created.ID).
		WithField("referral_code", created.ReferralCode).
		WithField("referred_by", referrerID).
		Info("user registered")
	return created, nil
}

// generateReferralCode produces an unused "YE" + 4 digit code.
func (s *Service) generateReferralCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 50; attempt++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10000))
		if err != nil {
			return "", err
		}
		code := fmt.Sprintf("%s%04d", referralCodePrefix, n.Int64())
		_, err = s.users.GetUserByReferralCode(ctx, code)
		if errors.Is(err, storage.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("referral code space exhausted")
}

// Authenticate verifies a user login. Inactive accounts and logins during
// maintenance mode are refused.
func (s *Service) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	maintenance, err := s.settings.MaintenanceMode(ctx)
	if err != nil {
		return user.User{}, err
	}
	if maintenance {
		return user.User{}, ErrMaintenance
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return user.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return user.User{}, err
	}
	if !u.IsActive || !credentials.Verify(password, u.PasswordHash) {
		return user.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// RecordLogin appends a login history entry for any actor type.
func (s *Service) RecordLogin(ctx context.Context, actorID, loginType, ip string) {
	if _, err := s.users.CreateLoginRecord(ctx, user.LoginRecord{
		ActorID:   actorID,
		LoginType: loginType,
		IPAddress: ip,
	}); err != nil {
		s.log.WithError(err).WithField("actor_id", actorID).Warn("failed to record login")
	}
}

// LoginHistory lists login records, optionally filtered by actor.
func (s *Service) LoginHistory(ctx context.Context, actorID string) ([]user.LoginRecord, error) {
	return s.users.ListLoginRecords(ctx, actorID)
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id string) (user.User, error) {
	return s.users.GetUser(ctx, id)
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]user.User, error) {
	return s.users.ListUsers(ctx)
}

// Dashboard aggregates a user's activity for their landing page.
type Dashboard struct {
	User            user.User               `json:"user"`
	Payments        []payment.Payment       `json:"payments"`
	Withdrawals     []withdrawal.Withdrawal `json:"withdrawals"`
	AdEarnings      float64                 `json:"ad_earnings"`
	DirectReferrals int                     `json:"direct_referrals"`
}

// BuildDashboard assembles the dashboard aggregates for a user.
func (s *Service) BuildDashboard(ctx context.Context, userID string) (Dashboard, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	payments, err := s.payments.ListPayments(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	withdrawals, err := s.withdrawals.ListWithdrawals(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	views, err := s.ads.ListAdViews(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	var earnings float64
	for _, v := range views {
		earnings += v.Reward
	}
	referrals, err := s.users.ListReferrals(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		User:            u,
		Payments:        payments,
		Withdrawals:     withdrawals,
		AdEarnings:      earnings,
		DirectReferrals: len(referrals),
	}, nil
}
