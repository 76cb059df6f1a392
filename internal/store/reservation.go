package store

import (
	"github.com/zeroverload/SmartLib/internal/model"
)

// ListReservations returns matches in storage order, which is creation order.
func (tx *Tx) ListReservations(find *model.FindReservation) []*model.Reservation {
	list := []*model.Reservation{}
	for i := range tx.snap.reservations {
		reservation := tx.snap.reservations[i]
		if v := find.ID; v != nil && reservation.ID != *v {
			continue
		}
		if v := find.UserID; v != nil && reservation.UserID != *v {
			continue
		}
		if v := find.BookID; v != nil && reservation.BookID != *v {
			continue
		}
		if v := find.Status; v != nil && reservation.Status != *v {
			continue
		}
		list = append(list, &reservation)
	}
	return list
}

// GetReservation returns the first match or nil.
func (tx *Tx) GetReservation(find *model.FindReservation) *model.Reservation {
	list := tx.ListReservations(find)
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

// CreateReservation stores reservation, assigning the next id when ID is zero.
func (tx *Tx) CreateReservation(reservation *model.Reservation) error {
	if err := tx.write(CollectionReservations); err != nil {
		return err
	}
	if reservation.ID == 0 {
		reservation.ID = nextID(tx.snap.reservations, func(r *model.Reservation) int32 { return r.ID })
	}
	tx.snap.reservations = append(tx.snap.reservations, *reservation)
	return nil
}

func (tx *Tx) UpdateReservation(reservation *model.Reservation) error {
	for i := range tx.snap.reservations {
		if tx.snap.reservations[i].ID == reservation.ID {
			if err := tx.write(CollectionReservations); err != nil {
				return err
			}
			tx.snap.reservations[i] = *reservation
			return nil
		}
	}
	return ErrNotFound
}
