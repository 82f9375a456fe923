package wallet

import (
	"context"
	"fmt"

	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/metrics"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/pkg/logger"
)

// Service applies wallet balance mutations. Every mutation is a single
// atomic read-modify-write in the backing store; a result below zero fails
// with storage.ErrInsufficientFunds and leaves the balance unchanged.
type Service struct {
	ledger storage.LedgerStore
	log    *logger.Logger
}

// New constructs a wallet service.
func New(ledger storage.LedgerStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("wallet")
	}
	return &Service{ledger: ledger, log: log}
}

// Credit adds amount to the user's balance.
func (s *Service) Credit(ctx context.Context, userID string, amount float64) (user.User, error) {
	if amount <= 0 {
		return user.User{}, fmt.Errorf("credit amount must be positive, got %.2f: %w", amount, storage.ErrInvalid)
	}
	u, err := s.ledger.AdjustBalance(ctx, userID, amount)
	metrics.RecordWalletMutation("credit", err)
	if err != nil {
		return user.User{}, err
	}
	s.log.WithField("user_id", userID).WithField("amount", amount).
		WithField("balance", u.WalletBalance).Info("wallet credited")
	return u, nil
}

// Debit removes amount from the user's balance.
func (s *Service) Debit(ctx context.Context, userID string, amount float64) (user.User, error) {
	if amount <= 0 {
		return user.User{}, fmt.Errorf("debit amount must be positive, got %.2f: %w", amount, storage.ErrInvalid)
	}
	u, err := s.ledger.AdjustBalance(ctx, userID, -amount)
	metrics.RecordWalletMutation("debit", err)
	if err != nil {
		return user.User{}, err
	}
	s.log.WithField("user_id", userID).WithField("amount", amount).
		WithField("balance", u.WalletBalance).Info("wallet debited")
	return u, nil
}

// Adjust applies a signed delta on behalf of an administrator. A delta that
// would take the balance below zero fails like any debit.
func (s *Service) Adjust(ctx context.Context, userID string, delta float64, adminID string) (user.User, error) {
	if delta == 0 {
		return user.User{}, fmt.Errorf("adjustment delta must be non-zero: %w", storage.ErrInvalid)
	}
	u, err := s.ledger.AdjustBalance(ctx, userID, delta)
	metrics.RecordWalletMutation("adjust", err)
	if err != nil {
		return user.User{}, err
	}
	s.log.WithField("user_id", userID).WithField("delta", delta).
		WithField("admin_id", adminID).WithField("balance", u.WalletBalance).
		Info("wallet adjusted by admin")
	return u, nil
}
