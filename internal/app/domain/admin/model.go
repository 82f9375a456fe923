package admin

import "time"

// Role identifies the tier of an administrative actor.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMaster Role = "master"
)

// Capability names a single administrative permission.
type Capability string

const (
	CapApprovePayment    Capability = "approve-payment"
	CapApproveWithdrawal Capability = "approve-withdrawal"
	CapManageCatalog     Capability = "manage-catalog"
	CapManageUsers       Capability = "manage-users"
	CapManageAdmins      Capability = "manage-admins"
)

// Admin is an administrative actor. Master admins are stored with
// Role == RoleMaster and an empty CreatedBy; regular admins record the master
// that created them.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedBy    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var adminCaps = map[Capability]bool{
	CapApprovePayment:    true,
	CapApproveWithdrawal: true,
	CapManageCatalog:     true,
	CapManageUsers:       true,
}

// Can reports whether the actor holds the capability. Masters hold every
// capability; admins hold everything except admin management.
func (a Admin) Can(c Capability) bool {
	if !a.IsActive {
		return false
	}
	if a.Role == RoleMaster {
		return true
	}
	return adminCaps[c]
}
