package model

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusNotified  ReservationStatus = "notified"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

type Reservation struct {
	ID              int32             `json:"id"`
	UserID          int32             `json:"user_id"`
	BookID          int32             `json:"book_id"`
	ReservationTime time.Time         `json:"reservation_time"`
	Status          ReservationStatus `json:"status"`
	NotifiedAt      *time.Time        `json:"notified_at,omitempty"`
}

type FindReservation struct {
	ID     *int32             `json:"id"`
	UserID *int32             `json:"user_id"`
	BookID *int32             `json:"book_id"`
	Status *ReservationStatus `json:"status"`
}

type ReservationRequest struct {
	BookID int32 `json:"book_id"`
	UserID int32 `json:"user_id"`
}
