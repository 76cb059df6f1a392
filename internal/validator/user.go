package validator // import "github.com/zeroverload/SmartLib/internal/validator"

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/util"
)

func ValidateUserCreateRequest(user *model.UserCreateRequest) error {
	if user == nil {
		return errors.New("user is nil")
	}
	if user.Username == "" {
		return errors.New("username is empty")
	}
	if !util.UIDMatcher.MatchString(user.Username) {
		return errors.New("username is invalid")
	}
	if strings.TrimSpace(user.Name) == "" {
		return errors.New("name is empty")
	}
	if user.Role != "" && !user.Role.Valid() {
		return errors.Errorf("role %q is invalid", user.Role)
	}
	if user.Password == "" {
		return errors.New("password is empty")
	}
	if err := ValidatePassword(user.Password); err != nil {
		return err
	}
	return nil
}

func ValidateUserUpdateRequest(update *model.UserUpdateRequest) error {
	if update == nil {
		return errors.New("update is nil")
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return errors.New("name is empty")
	}
	if update.Status != nil && !update.Status.Valid() {
		return errors.Errorf("status %q is invalid", *update.Status)
	}
	return nil
}

func ValidateUserProfileRequest(profile *model.UserProfileRequest) error {
	if profile == nil {
		return errors.New("profile is nil")
	}
	if profile.Name != nil && strings.TrimSpace(*profile.Name) == "" {
		return errors.New("name is empty")
	}
	return nil
}

func ValidateSigninRequest(signin *model.UserSigninRequest) error {
	if signin == nil {
		return errors.New("signin is nil")
	}
	if signin.Username == "" || signin.Password == "" {
		return errors.New("username and password are required")
	}
	if signin.Role != "" && !signin.Role.Valid() {
		return errors.Errorf("role %q is invalid", signin.Role)
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password is too short")
	}
	return nil
}
