package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID      int32     `json:"id"`
	UserID  int32     `json:"user_id"`
	BookID  int32     `json:"book_id"`
	Rating  int       `json:"rating"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
	// UserName is filled from the author's current name when read.
	UserName string `json:"user_name,omitempty"`
}

type FindReview struct {
	UserID *int32 `json:"user_id"`
	BookID *int32 `json:"book_id"`
}

type ReviewCreateRequest struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}
