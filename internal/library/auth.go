package library

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/store"
)

// Authenticate checks a sign-in. An empty role matches any role.
func (s *Service) Authenticate(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	var user *model.User
	err := s.store.View(func(tx *store.Tx) error {
		user = tx.GetUser(&model.FindUser{Username: &username})
		if user == nil {
			return errors.Wrapf(ErrInvalidCredentials, "unknown user %s", username)
		}
		if role != "" && user.Role != role {
			return errors.Wrapf(ErrInvalidCredentials, "user %s is not %s", username, role)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return errors.Wrapf(ErrInvalidCredentials, "wrong password for %s", username)
		}
		if user.Status != model.UserStatusActive {
			return errors.Wrapf(ErrUserIneligible, "user %s is %s", username, user.Status)
		}

		policy, err := tx.GetPolicySetting()
		if err != nil {
			return err
		}
		if policy.MaintenanceMode && !user.IsAdmin() {
			return ErrMaintenanceMode
		}
		return nil
	})
	if err != nil {
		log.Debug("Sign-in rejected", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// ActiveUser returns the user behind an issued token. Missing and frozen
// users are UserIneligible.
func (s *Service) ActiveUser(ctx context.Context, id int32) (*model.User, error) {
	var user *model.User
	err := s.store.View(func(tx *store.Tx) error {
		user = userByID(tx, id)
		if user == nil {
			return errors.Wrapf(ErrUserIneligible, "user %d does not exist", id)
		}
		if user.Status != model.UserStatusActive {
			return errors.Wrapf(ErrUserIneligible, "user %d is %s", id, user.Status)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
