package payment

import "time"

// Status is the approval state of a payment. Transitions out of
// StatusPending are terminal.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Payment is a purchase claim awaiting manual verification. Records are
// append-only; only Status and the approval attribution change after
// creation.
type Payment struct {
	ID              string
	UserID          string
	PackageID       string
	Amount          float64
	PaymentMethodID string
	TransactionID   string
	ScreenshotKey   string
	Status          Status
	ApprovedBy      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
