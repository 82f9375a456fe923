package referrals

import (
	"context"

	"github.com/yourempire/platform/internal/app/domain/payment"
	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/services/settings"
	"github.com/yourempire/platform/internal/app/services/wallet"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/pkg/logger"
)

// MaxTreeDepth bounds referral tree traversal. Parent pointers are set once
// at registration so the graph is acyclic by construction; the cap is a
// defensive bound against data corruption.
const MaxTreeDepth = 10

// Service attributes referral commissions and materializes referral trees.
type Service struct {
	users    storage.UserStore
	payments storage.PaymentStore
	wallet   *wallet.Service
	settings *settings.Service
	log      *logger.Logger
}

// New constructs a referrals service.
func New(users storage.UserStore, payments storage.PaymentStore, wallet *wallet.Service, settings *settings.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("referrals")
	}
	return &Service{users: users, payments: payments, wallet: wallet, settings: settings, log: log}
}

// AttributeCommission credits the buyer's direct referrer with
// payment.Amount times the commission rate in effect now, not at submission
// time. Returns the credited amount; a buyer without a referrer earns
// nothing and is not an error. Attribution is one level only.
func (s *Service) AttributeCommission(ctx context.Context, p payment.Payment) (float64, error) {
	buyer, err := s.users.GetUser(ctx, p.UserID)
	if err != nil {
		return 0, err
	}
	if buyer.ReferredBy == "" {
		return 0, nil
	}

	rate, err := s.settings.CommissionRate(ctx)
	if err != nil {
		return 0, err
	}
	commission := p.Amount * rate
	if commission <= 0 {
		return 0, nil
	}

	if _, err := s.wallet.Credit(ctx, buyer.ReferredBy, commission); err != nil {
		return 0, err
	}
	s.log.WithField("payment_id", p.ID).
		WithField("referrer_id", buyer.ReferredBy).
		WithField("commission", commission).
		Info("referral commission credited")
	return commission, nil
}

// BuildTree materializes the referral tree rooted at userID. Depth is capped
// at min(maxDepth, MaxTreeDepth); children beyond the cap are omitted
// without error.
func (s *Service) BuildTree(ctx context.Context, userID string, maxDepth int) (user.TreeNode, error) {
	if maxDepth <= 0 || maxDepth > MaxTreeDepth {
		maxDepth = MaxTreeDepth
	}
	root, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return user.TreeNode{}, err
	}
	return s.buildNode(ctx, root, maxDepth)
}

func (s *Service) buildNode(ctx context.Context, u user.User, depth int) (user.TreeNode, error) {
	node := user.TreeNode{
		ID:         u.ID,
		Name:       u.FullName,
		Email:      u.Email,
		IsInvested: u.IsInvested,
		Wallet:     u.WalletBalance,
	}
	if depth <= 1 {
		return node, nil
	}

	children, err := s.users.ListReferrals(ctx, u.ID)
	if err != nil {
		return user.TreeNode{}, err
	}
	for _, child := range children {
		childNode, err := s.buildNode(ctx, child, depth-1)
		if err != nil {
			return user.TreeNode{}, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}

// ReferrerReport summarises one referrer's network and earnings.
type ReferrerReport struct {
	UserID          string  `json:"user_id"`
	FullName        string  `json:"full_name"`
	Email           string  `json:"email"`
	ReferralCode    string  `json:"referral_code"`
	DirectReferrals int     `json:"direct_referrals"`
	InvestedCount   int     `json:"invested_count"`
	CommissionTotal float64 `json:"commission_total"`
}

// Summary builds a read-only commission report for every user with at least
// one direct referral. Commission totals are computed from approved payments
// at the current rate; nothing is credited or marked here.
func (s *Service) Summary(ctx context.Context) ([]ReferrerReport, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	rate, err := s.settings.CommissionRate(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	reports := make(map[string]*ReferrerReport)
	for _, u := range users {
		if u.ReferredBy == "" {
			continue
		}
		referrer, ok := byID[u.ReferredBy]
		if !ok {
			continue
		}
		rep, ok := reports[referrer.ID]
		if !ok {
			rep = &ReferrerReport{
				UserID:       referrer.ID,
				FullName:     referrer.FullName,
				Email:        referrer.Email,
				ReferralCode: referrer.ReferralCode,
			}
			reports[referrer.ID] = rep
		}
		rep.DirectReferrals++
		if u.IsInvested {
			rep.InvestedCount++
		}

		payments, err := s.payments.ListPayments(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range payments {
			if p.Status == payment.StatusApproved {
				rep.CommissionTotal += p.Amount * rate
			}
		}
	}

	result := make([]ReferrerReport, 0, len(reports))
	for _, rep := range reports {
		result = append(result, *rep)
	}
	return result, nil
}
