// Package admin manages console operator accounts: registration, lookup and
// profile updates. Token issuance and password-reset flows are handled outside
// this service.
package admin

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/inventra-io/inventra/internal/domain/errs"
	"github.com/inventra-io/inventra/internal/domain/models"
)

const (
	minNameLength     = 2
	minPasswordLength = 8
)

// Store is the slice of the entity store the admin service needs.
type Store interface {
	InsertAdmin(ctx context.Context, a *models.Admin) error
	FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	ReplaceAdmin(ctx context.Context, a *models.Admin) error
}

// Service wires admin account management over the store.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService builds an admin service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Register validates and persists a new admin account with a bcrypt password
// hash. The display name is split into first and last name on the first space.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.Admin, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if len(name) < minNameLength {
		return nil, errs.Validation("name", "must be at least 2 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errs.Validation("email", "must be a valid email address")
	}
	if len(password) < minPasswordLength {
		return nil, errs.Validation("password", "must be at least 8 characters")
	}

	firstName := name
	lastName := ""
	if idx := strings.Index(name, " "); idx > 0 {
		firstName = name[:idx]
		lastName = strings.TrimSpace(name[idx+1:])
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.Admin{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  string(hash),
		CreatedAt: s.now(),
	}
	if err := s.store.InsertAdmin(ctx, account); err != nil {
		if errors.Is(err, errs.ErrDuplicateCode) {
			return nil, errs.Validation("email", "an account with this email already exists")
		}
		return nil, err
	}
	return account, nil
}

// GetByEmail resolves an admin account.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return s.store.FindAdminByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// ProfileUpdate carries the optional profile fields to change.
type ProfileUpdate struct {
	FirstName       string
	LastName        string
	NewPassword     string
	ConfirmPassword string
}

// UpdateProfile applies the provided profile changes to the account identified
// by email. A password change requires a matching confirmation and reports
// whether the caller should be logged out afterwards.
func (s *Service) UpdateProfile(ctx context.Context, email string, update ProfileUpdate) (*models.Admin, bool, error) {
	account, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}

	if update.FirstName != "" {
		account.FirstName = strings.TrimSpace(update.FirstName)
	}
	if update.LastName != "" {
		account.LastName = strings.TrimSpace(update.LastName)
	}

	passwordChanged := false
	if update.NewPassword != "" {
		if len(update.NewPassword) < minPasswordLength {
			return nil, false, errs.Validation("newPassword", "must be at least 8 characters")
		}
		if update.NewPassword != update.ConfirmPassword {
			return nil, false, errs.Validation("confirmPassword", "does not match the new password")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(update.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, false, err
		}
		account.Password = string(hash)
		passwordChanged = true
	}

	if err := s.store.ReplaceAdmin(ctx, account); err != nil {
		return nil, false, err
	}
	return account, passwordChanged, nil
}
