package library

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/store"
	"github.com/zeroverload/SmartLib/internal/validator"
)

// UnknownUserName is shown for reviews whose author no longer exists.
const UnknownUserName = "Unknown user"

func (s *Service) AddReview(ctx context.Context, userID, bookID int32, create *model.ReviewCreateRequest) (*model.Review, error) {
	if err := validator.ValidateReviewCreateRequest(create); err != nil {
		return nil, invalidInput(err)
	}

	var review *model.Review
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		user := userByID(tx, userID)
		if user == nil {
			return errors.Wrapf(ErrRecordNotFound, "user %d", userID)
		}
		if bookByID(tx, bookID) == nil {
			return errors.Wrapf(ErrRecordNotFound, "book %d", bookID)
		}
		review = &model.Review{
			UserID:  userID,
			BookID:  bookID,
			Rating:  create.Rating,
			Content: strings.TrimSpace(create.Content),
			Date:    s.now(),
		}
		if err := tx.CreateReview(review); err != nil {
			return err
		}
		review.UserName = user.Name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews returns reviews newest first, with the author's current name.
func (s *Service) ListReviews(ctx context.Context, find *model.FindReview) ([]*model.Review, error) {
	var reviews []*model.Review
	err := s.store.View(func(tx *store.Tx) error {
		reviews = tx.ListReviews(find)
		for _, r := range reviews {
			r.UserName = UnknownUserName
			if user := userByID(tx, r.UserID); user != nil {
				r.UserName = user.Name
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		if !reviews[i].Date.Equal(reviews[j].Date) {
			return reviews[i].Date.After(reviews[j].Date)
		}
		return reviews[i].ID > reviews[j].ID
	})
	return reviews, nil
}
