package withdrawal

import "time"

// Status is the approval state of a withdrawal.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Withdrawal is a payout claim. The balance is checked at submission time and
// re-checked at approval time; approval debits the wallet. Records are
// append-only.
type Withdrawal struct {
	ID            string
	UserID        string
	Amount        float64
	PaymentMethod string
	AccountNumber string
	AccountName   string
	Status        Status
	ApprovedBy    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
