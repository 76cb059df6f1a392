package library

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/store"
	"github.com/zeroverload/SmartLib/internal/validator"
)

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), store.PasswordCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate password hash")
	}
	return string(hash), nil
}

// CreateUser adds an active account. Usernames are unique.
func (s *Service) CreateUser(ctx context.Context, create *model.UserCreateRequest) (*model.User, error) {
	if err := validator.ValidateUserCreateRequest(create); err != nil {
		return nil, invalidInput(err)
	}
	hash, err := hashPassword(create.Password)
	if err != nil {
		return nil, err
	}

	role := create.Role
	if role == "" {
		role = model.RoleReader
	}
	user := &model.User{
		Username:     create.Username,
		Name:         create.Name,
		Role:         role,
		Status:       model.UserStatusActive,
		Contact:      create.Contact,
		AvatarURL:    create.AvatarURL,
		PasswordHash: hash,
		JoinedDate:   s.now(),
	}
	err = s.store.Update(ctx, func(tx *store.Tx) error {
		if tx.GetUser(&model.FindUser{Username: &create.Username}) != nil {
			return errors.Wrapf(ErrUsernameExists, "username %s", create.Username)
		}
		return tx.CreateUser(user)
	})
	if err != nil {
		return nil, err
	}

	log.Info("User created", zap.Int32("user_id", user.ID), zap.String("username", user.Username), zap.String("role", user.Role.String()))
	return user, nil
}

// UpdateUser changes the admin-editable fields of a user. The role is fixed.
func (s *Service) UpdateUser(ctx context.Context, id int32, update *model.UserUpdateRequest) (*model.User, error) {
	if err := validator.ValidateUserUpdateRequest(update); err != nil {
		return nil, invalidInput(err)
	}

	var user *model.User
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		user = userByID(tx, id)
		if user == nil {
			return errors.Wrapf(ErrRecordNotFound, "user %d", id)
		}
		if update.Name != nil {
			user.Name = *update.Name
		}
		if update.Contact != nil {
			user.Contact = *update.Contact
		}
		if update.AvatarURL != nil {
			user.AvatarURL = *update.AvatarURL
		}
		if update.Status != nil {
			user.Status = *update.Status
		}
		return tx.UpdateUser(user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user without open loans and cancels their reservations.
// Books held for the user are offered to the next reader.
func (s *Service) DeleteUser(ctx context.Context, id int32) error {
	cancelled := 0
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		if userByID(tx, id) == nil {
			return errors.Wrapf(ErrRecordNotFound, "user %d", id)
		}
		open := true
		if loans := tx.ListBorrowRecords(&model.FindBorrowRecord{UserID: &id, Open: &open}); len(loans) > 0 {
			return errors.Wrapf(ErrOpenLoans, "user %d has %d", id, len(loans))
		}
		var released []int32
		for _, r := range tx.ListReservations(&model.FindReservation{UserID: &id}) {
			if r.Status == model.ReservationStatusCancelled {
				continue
			}
			wasNotified, err := markCancelled(tx, r)
			if err != nil {
				return err
			}
			if wasNotified {
				released = append(released, r.BookID)
			}
			cancelled++
		}
		if err := tx.DeleteUser(id); err != nil {
			return err
		}
		// Books the user was notified about go to the next reader.
		for _, bookID := range released {
			if err := s.offerBook(tx, bookID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("User deleted", zap.Int32("user_id", id), zap.Int("cancelled_reservations", cancelled))
	return nil
}

func (s *Service) GetUser(ctx context.Context, id int32) (*model.User, error) {
	var user *model.User
	err := s.store.View(func(tx *store.Tx) error {
		user = userByID(tx, id)
		if user == nil {
			return errors.Wrapf(ErrRecordNotFound, "user %d", id)
		}
		return nil
	})
	return user, err
}

func (s *Service) ListUsers(ctx context.Context, find *model.FindUser) ([]*model.User, error) {
	var users []*model.User
	err := s.store.View(func(tx *store.Tx) error {
		users = tx.ListUsers(find)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// UpdateProfile changes the fields a user may edit on their own account.
func (s *Service) UpdateProfile(ctx context.Context, id int32, profile *model.UserProfileRequest) (*model.User, error) {
	if err := validator.ValidateUserProfileRequest(profile); err != nil {
		return nil, invalidInput(err)
	}
	return s.UpdateUser(ctx, id, &model.UserUpdateRequest{
		Name:      profile.Name,
		Contact:   profile.Contact,
		AvatarURL: profile.AvatarURL,
	})
}

func (s *Service) ChangePassword(ctx context.Context, id int32, change *model.PasswordChangeRequest) error {
	if change == nil {
		return invalidInput(errors.New("password change is nil"))
	}
	if err := validator.ValidatePassword(change.NewPassword); err != nil {
		return invalidInput(err)
	}
	hash, err := hashPassword(change.NewPassword)
	if err != nil {
		return err
	}

	return s.store.Update(ctx, func(tx *store.Tx) error {
		user := userByID(tx, id)
		if user == nil {
			return errors.Wrapf(ErrRecordNotFound, "user %d", id)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(change.OldPassword)); err != nil {
			return errors.Wrap(ErrInvalidCredentials, "old password does not match")
		}
		user.PasswordHash = hash
		return tx.UpdateUser(user)
	})
}
