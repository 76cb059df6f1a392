package library

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/store"
)

// Reserve queues userID for bookID. Books in any status can be reserved.
func (s *Service) Reserve(ctx context.Context, userID, bookID int32) (*model.Reservation, error) {
	var reservation *model.Reservation
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		user := userByID(tx, userID)
		if user == nil || user.Status != model.UserStatusActive {
			return errors.Wrapf(ErrUserIneligible, "user %d", userID)
		}
		if bookByID(tx, bookID) == nil {
			return errors.Wrapf(ErrRecordNotFound, "book %d", bookID)
		}

		pending := model.ReservationStatusPending
		if existing := tx.ListReservations(&model.FindReservation{UserID: &userID, BookID: &bookID, Status: &pending}); len(existing) > 0 {
			return errors.Wrapf(ErrDuplicateReservation, "reservation %d", existing[0].ID)
		}

		reservation = &model.Reservation{
			UserID:          userID,
			BookID:          bookID,
			ReservationTime: s.now(),
			Status:          model.ReservationStatusPending,
		}
		return tx.CreateReservation(reservation)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Book reserved", zap.Int32("reservation_id", reservation.ID), zap.Int32("user_id", userID), zap.Int32("book_id", bookID))
	return reservation, nil
}

// CancelReservation cancels a pending or notified reservation. Cancelling a
// notified reservation of a book still on the shelf passes the book on to the
// next reader in line.
func (s *Service) CancelReservation(ctx context.Context, id int32) (*model.Reservation, error) {
	var reservation *model.Reservation
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		reservation = tx.GetReservation(&model.FindReservation{ID: &id})
		if reservation == nil {
			return errors.Wrapf(ErrRecordNotFound, "reservation %d", id)
		}
		if reservation.Status == model.ReservationStatusCancelled {
			return errors.Wrapf(ErrAlreadyCancelled, "reservation %d", id)
		}

		wasNotified, err := markCancelled(tx, reservation)
		if err != nil || !wasNotified {
			return err
		}
		return s.offerBook(tx, reservation.BookID)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Reservation cancelled", zap.Int32("reservation_id", id))
	return reservation, nil
}

// markCancelled cancels r and reports whether r held a notice for its book.
func markCancelled(tx *store.Tx, r *model.Reservation) (bool, error) {
	wasNotified := r.Status == model.ReservationStatusNotified
	r.Status = model.ReservationStatusCancelled
	if err := tx.UpdateReservation(r); err != nil {
		return false, err
	}
	return wasNotified, nil
}

// offerBook publishes BookAvailable for a book on the shelf unless a reader
// already holds a notice for it.
func (s *Service) offerBook(tx *store.Tx, bookID int32) error {
	book := bookByID(tx, bookID)
	if book == nil || book.Status != model.BookStatusAvailable {
		return nil
	}
	if hasOutstandingNotice(tx, bookID) {
		log.Debug("Book already offered to a reader", zap.Int32("book_id", bookID))
		return nil
	}
	return s.bus.Publish(tx, Event{Type: EventBookAvailable, BookID: bookID, OccurredAt: s.now()})
}

// hasOutstandingNotice reports whether a notified reservation of bookID has
// not been followed by a loan of the book yet.
func hasOutstandingNotice(tx *store.Tx, bookID int32) bool {
	notified := model.ReservationStatusNotified
	notices := tx.ListReservations(&model.FindReservation{BookID: &bookID, Status: &notified})
	if len(notices) == 0 {
		return false
	}

	var lastBorrow time.Time
	for _, r := range tx.ListBorrowRecords(&model.FindBorrowRecord{BookID: &bookID}) {
		if r.BorrowDate.After(lastBorrow) {
			lastBorrow = r.BorrowDate
		}
	}
	for _, n := range notices {
		if n.NotifiedAt != nil && n.NotifiedAt.After(lastBorrow) {
			return true
		}
	}
	return false
}

func (s *Service) GetReservation(ctx context.Context, id int32) (*model.Reservation, error) {
	var reservation *model.Reservation
	err := s.store.View(func(tx *store.Tx) error {
		reservation = tx.GetReservation(&model.FindReservation{ID: &id})
		if reservation == nil {
			return errors.Wrapf(ErrRecordNotFound, "reservation %d", id)
		}
		return nil
	})
	return reservation, err
}

// ListReservations returns matching reservations, oldest first.
func (s *Service) ListReservations(ctx context.Context, find *model.FindReservation) ([]*model.Reservation, error) {
	var list []*model.Reservation
	err := s.store.View(func(tx *store.Tx) error {
		list = tx.ListReservations(find)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortQueue(list)
	return list, nil
}

func sortQueue(list []*model.Reservation) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].ReservationTime.Equal(list[j].ReservationTime) {
			return list[i].ReservationTime.Before(list[j].ReservationTime)
		}
		return list[i].ID < list[j].ID
	})
}

// notifyNext marks the oldest pending reservation of the book notified.
func (s *Service) notifyNext(tx *store.Tx, ev Event) error {
	pending := model.ReservationStatusPending
	queue := tx.ListReservations(&model.FindReservation{BookID: &ev.BookID, Status: &pending})
	if len(queue) == 0 {
		return nil
	}
	sortQueue(queue)

	next := queue[0]
	notifiedAt := ev.OccurredAt
	next.Status = model.ReservationStatusNotified
	next.NotifiedAt = &notifiedAt
	if err := tx.UpdateReservation(next); err != nil {
		return err
	}

	user := userByID(tx, next.UserID)
	if user == nil {
		log.Warn("Reservation references a missing user", zap.Int32("reservation_id", next.ID))
		return nil
	}
	title := fmt.Sprintf("book %d", ev.BookID)
	if book := bookByID(tx, ev.BookID); book != nil {
		title = book.Title
	}
	s.enqueue(tx, model.JobTypeReservationReady, &model.Notification{
		UserID:  user.ID,
		Name:    user.Name,
		Contact: user.Contact,
		Subject: "Your reservation is ready",
		Body:    fmt.Sprintf("%q is available. Please pick it up at the desk.", title),
	})

	log.Debug("Reservation notified", zap.Int32("reservation_id", next.ID), zap.Int32("book_id", ev.BookID))
	return nil
}
