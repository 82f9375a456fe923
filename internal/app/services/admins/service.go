package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yourempire/platform/internal/app/credentials"
	"github.com/yourempire/platform/internal/app/domain/admin"
	"github.com/yourempire/platform/internal/app/services/settings"
	"github.com/yourempire/platform/internal/app/storage"
	"github.com/yourempire/platform/pkg/logger"
)

// ErrUnauthorized reports an actor acting beyond its capability set.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidCredentials reports a failed admin login.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service manages the two-tier admin hierarchy.
type Service struct {
	admins   storage.AdminStore
	users    storage.UserStore
	settings *settings.Service
	log      *logger.Logger
}

// New constructs an admins service.
func New(admins storage.AdminStore, users storage.UserStore, settings *settings.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("admins")
	}
	return &Service{admins: admins, users: users, settings: settings, log: log}
}

// SeedMaster ensures a master admin exists, creating one with the given
// credentials on first boot. Does nothing when the email is already taken.
func (s *Service) SeedMaster(ctx context.Context, email, password string) error {
	_, err := s.admins.GetAdminByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	hash, err := credentials.Hash(password)
	if err != nil {
		return err
	}
	created, err := s.admins.CreateAdmin(ctx, admin.Admin{
		Email:        email,
		PasswordHash: hash,
		Role:         admin.RoleMaster,
		IsActive:     true,
	})
	if err != nil {
		return err
	}
	s.log.WithField("admin_id", created.ID).Info("master admin seeded")
	return nil
}

// Authenticate verifies an admin login. Maintenance mode does not block
// admin access.
func (s *Service) Authenticate(ctx context.Context, email, password string) (admin.Admin, error) {
	a, err := s.admins.GetAdminByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return admin.Admin{}, ErrInvalidCredentials
	}
	if err != nil {
		return admin.Admin{}, err
	}
	if !a.IsActive || !credentials.Verify(password, a.PasswordHash) {
		return admin.Admin{}, ErrInvalidCredentials
	}
	return a, nil
}

// Get returns an admin by id.
func (s *Service) Get(ctx context.Context, id string) (admin.Admin, error) {
	return s.admins.GetAdmin(ctx, id)
}

// List returns admins, optionally filtered by role.
func (s *Service) List(ctx context.Context, role admin.Role) ([]admin.Admin, error) {
	return s.admins.ListAdmins(ctx, role)
}

// Require loads the actor and verifies it holds the capability.
func (s *Service) Require(ctx context.Context, actorID string, capability admin.Capability) (admin.Admin, error) {
	actor, err := s.admins.GetAdmin(ctx, actorID)
	if err != nil {
		return admin.Admin{}, err
	}
	if !actor.Can(capability) {
		return admin.Admin{}, fmt.Errorf("admin %s lacks %s: %w", actorID, capability, ErrUnauthorized)
	}
	return actor, nil
}

// CreateAdmin creates a second-tier admin. Only a master admin may create
// admins.
func (s *Service) CreateAdmin(ctx context.Context, masterID, email, password string) (admin.Admin, error) {
	master, err := s.Require(ctx, masterID, admin.CapManageAdmins)
	if err != nil {
		return admin.Admin{}, err
	}
	if len(password) < credentials.MinPasswordLength {
		return admin.Admin{}, fmt.Errorf("password must be at least %d characters: %w", credentials.MinPasswordLength, storage.ErrInvalid)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return admin.Admin{}, fmt.Errorf("email is required: %w", storage.ErrInvalid)
	}

	hash, err := credentials.Hash(password)
	if err != nil {
		return admin.Admin{}, err
	}
	created, err := s.admins.CreateAdmin(ctx, admin.Admin{
		Email:        email,
		PasswordHash: hash,
		Role:         admin.RoleAdmin,
		CreatedBy:    master.ID,
		IsActive:     true,
	})
	if err != nil {
		return admin.Admin{}, err
	}
	s.log.WithField("admin_id", created.ID).WithField("created_by", master.ID).
		Info("admin created")
	return created, nil
}

// SetActive activates or deactivates a second-tier admin. Master admins
// cannot be deactivated.
func (s *Service) SetActive(ctx context.Context, masterID, adminID string, active bool) (admin.Admin, error) {
	if _, err := s.Require(ctx, masterID, admin.CapManageAdmins); err != nil {
		return admin.Admin{}, err
	}
	target, err := s.admins.GetAdmin(ctx, adminID)
	if err != nil {
		return admin.Admin{}, err
	}
	if target.Role == admin.RoleMaster {
		return admin.Admin{}, fmt.Errorf("cannot deactivate a master admin: %w", ErrUnauthorized)
	}
	target.IsActive = active
	updated, err := s.admins.UpdateAdmin(ctx, target)
	if err != nil {
		return admin.Admin{}, err
	}
	s.log.WithField("admin_id", adminID).WithField("active", active).
		Info("admin state changed")
	return updated, nil
}

// ChangeOwnPassword lets any admin rotate their own credential.
func (s *Service) ChangeOwnPassword(ctx context.Context, adminID, current, next string) error {
	a, err := s.admins.GetAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if !credentials.Verify(current, a.PasswordHash) {
		return ErrInvalidCredentials
	}
	if len(next) < credentials.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", credentials.MinPasswordLength, storage.ErrInvalid)
	}
	hash, err := credentials.Hash(next)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	_, err = s.admins.UpdateAdmin(ctx, a)
	return err
}

// SetAdminPassword lets a master admin set any admin's password.
func (s *Service) SetAdminPassword(ctx context.Context, masterID, adminID, next string) error {
	if _, err := s.Require(ctx, masterID, admin.CapManageAdmins); err != nil {
		return err
	}
	if len(next) < credentials.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", credentials.MinPasswordLength, storage.ErrInvalid)
	}
	target, err := s.admins.GetAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	hash, err := credentials.Hash(next)
	if err != nil {
		return err
	}
	target.PasswordHash = hash
	if _, err := s.admins.UpdateAdmin(ctx, target); err != nil {
		return err
	}
	s.log.WithField("admin_id", adminID).WithField("master_id", masterID).
		Info("admin password reset")
	return nil
}

// SetUserPassword lets an admin with user management capability set a user's
// password.
func (s *Service) SetUserPassword(ctx context.Context, actorID, userID, next string) error {
	if _, err := s.Require(ctx, actorID, admin.CapManageUsers); err != nil {
		return err
	}
	if len(next) < credentials.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", credentials.MinPasswordLength, storage.ErrInvalid)
	}
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := credentials.Hash(next)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	if _, err := s.users.UpdateUser(ctx, u); err != nil {
		return err
	}
	s.log.WithField("user_id", userID).WithField("actor_id", actorID).
		Info("user password reset by admin")
	return nil
}

// SetUserActive flags a user account active or inactive.
func (s *Service) SetUserActive(ctx context.Context, actorID, userID string, active bool) error {
	if _, err := s.Require(ctx, actorID, admin.CapManageUsers); err != nil {
		return err
	}
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	u.IsActive = active
	_, err = s.users.UpdateUser(ctx, u)
	return err
}

// SetMaintenance toggles maintenance mode. Master admin only.
func (s *Service) SetMaintenance(ctx context.Context, masterID string, on bool) error {
	if _, err := s.Require(ctx, masterID, admin.CapManageAdmins); err != nil {
		return err
	}
	value := "false"
	if on {
		value = "true"
	}
	if err := s.settings.Set(ctx, settings.KeyMaintenanceMode, value); err != nil {
		return err
	}
	s.log.WithField("master_id", masterID).WithField("maintenance", on).
		Warn("maintenance mode toggled")
	return nil
}
