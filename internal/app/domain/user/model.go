package user

import "time"

// User is a registered member of the platform. WalletBalance is mutated only
// through the ledger store; ReferredBy is set at registration and never
// changes afterwards.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	FullName      string
	Phone         string
	City          string
	Address       string
	ReferralCode  string
	ReferredBy    string // empty when the user registered without a referrer
	WalletBalance float64
	IsInvested    bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TreeNode is one node of a materialized referral tree.
type TreeNode struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	IsInvested bool       `json:"is_invested"`
	Wallet     float64    `json:"wallet"`
	Children   []TreeNode `json:"children"`
}

// LoginRecord is an append-only fact about a successful sign-in.
type LoginRecord struct {
	ID        string
	ActorID   string
	LoginType string // "user", "admin" or "master"
	IPAddress string
	CreatedAt time.Time
}
