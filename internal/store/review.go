package store

import (
	"github.com/zeroverload/SmartLib/internal/model"
)

func (tx *Tx) ListReviews(find *model.FindReview) []*model.Review {
	list := []*model.Review{}
	for i := range tx.snap.reviews {
		review := tx.snap.reviews[i]
		if v := find.UserID; v != nil && review.UserID != *v {
			continue
		}
		if v := find.BookID; v != nil && review.BookID != *v {
			continue
		}
		list = append(list, &review)
	}
	return list
}

// CreateReview appends review. The display name is never stored.
func (tx *Tx) CreateReview(review *model.Review) error {
	if err := tx.write(CollectionReviews); err != nil {
		return err
	}
	if review.ID == 0 {
		review.ID = nextID(tx.snap.reviews, func(r *model.Review) int32 { return r.ID })
	}
	stored := *review
	stored.UserName = ""
	tx.snap.reviews = append(tx.snap.reviews, stored)
	return nil
}
