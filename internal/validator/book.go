package validator

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/zeroverload/SmartLib/internal/model"
)

// ValidateBookCreateRequest checks a new catalog entry. An empty status means available.
func ValidateBookCreateRequest(book *model.BookCreateRequest) error {
	if err := ValidateBookUpdateRequest(book); err != nil {
		return err
	}
	if book.Status == model.BookStatusBorrowed {
		return errors.New("a book can only become borrowed through a loan")
	}
	return nil
}

// ValidateBookUpdateRequest checks the fields of a catalog entry. Status
// transitions depend on the current loan and are checked by the caller.
func ValidateBookUpdateRequest(book *model.BookCreateRequest) error {
	if book == nil {
		return errors.New("book is nil")
	}
	if strings.TrimSpace(book.Title) == "" {
		return errors.New("title is empty")
	}
	if strings.TrimSpace(book.Author) == "" {
		return errors.New("author is empty")
	}
	if book.Status != "" && !book.Status.Valid() {
		return errors.Errorf("status %q is invalid", book.Status)
	}
	return nil
}

func ValidateReviewCreateRequest(review *model.ReviewCreateRequest) error {
	if review == nil {
		return errors.New("review is nil")
	}
	if review.Rating < model.MinRating || review.Rating > model.MaxRating {
		return errors.Errorf("rating must be between %d and %d", model.MinRating, model.MaxRating)
	}
	return nil
}

func ValidatePolicySettings(policy *model.SystemSettingPolicy) error {
	if policy == nil {
		return errors.New("settings is nil")
	}
	if policy.DailyFineRate.IsNegative() {
		return errors.New("daily fine rate must not be negative")
	}
	if policy.MaxBorrowLimit < 1 {
		return errors.New("max borrow limit must be at least 1")
	}
	return nil
}
