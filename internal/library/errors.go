package library

import "github.com/pkg/errors"

var (
	ErrUserIneligible       = errors.New("user is not eligible")
	ErrBookUnavailable      = errors.New("book is unavailable")
	ErrLimitExceeded        = errors.New("borrow limit exceeded")
	ErrAlreadyReturned      = errors.New("record is already returned")
	ErrDuplicateReservation = errors.New("book is already reserved by this user")
	ErrAlreadyCancelled     = errors.New("reservation is already cancelled")
	ErrRecordNotFound       = errors.New("record not found")
	ErrUsernameExists       = errors.New("username already exists")
	ErrMaintenanceMode      = errors.New("library is in maintenance mode")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrInvalidInput         = errors.New("invalid input")
	ErrOpenLoans            = errors.New("user has open loans")
)

func invalidInput(err error) error {
	return errors.Wrap(ErrInvalidInput, err.Error())
}
