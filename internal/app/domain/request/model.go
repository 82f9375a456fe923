package request

import "time"

// Status is the resolution state of a user-submitted change request.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusResolved Status = "Resolved"
)

// Update types accepted on profile update requests.
const (
	UpdatePhone    = "phone"
	UpdateCity     = "city"
	UpdateAddress  = "address"
	UpdatePassword = "password"
)

// ProfileUpdate is a proposed change to a single user field, applied only on
// admin approval.
type ProfileUpdate struct {
	ID         string
	UserID     string
	UpdateType string
	NewValue   string
	Status     Status
	ApprovedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PasswordReset is a user's request for a master admin to set a new password
// on their behalf.
type PasswordReset struct {
	ID          string
	UserID      string
	Status      Status // Pending or Resolved
	ResolvedBy  string
	RequestedAt time.Time
	ResolvedAt  time.Time
}

// KnownUpdateType reports whether the update type names a mutable field.
func KnownUpdateType(t string) bool {
	switch t {
	case UpdatePhone, UpdateCity, UpdateAddress, UpdatePassword:
		return true
	}
	return false
}
