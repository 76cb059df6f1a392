package library

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/fine"
	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/store"
)

// Borrow lends bookID to userID for model.LoanPeriod.
func (s *Service) Borrow(ctx context.Context, userID, bookID int32) (*model.BorrowRecord, error) {
	var record *model.BorrowRecord
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		user := userByID(tx, userID)
		if user == nil {
			return errors.Wrapf(ErrUserIneligible, "user %d does not exist", userID)
		}
		if user.Status != model.UserStatusActive {
			return errors.Wrapf(ErrUserIneligible, "user %d is %s", userID, user.Status)
		}

		book := bookByID(tx, bookID)
		if book == nil {
			return errors.Wrapf(ErrRecordNotFound, "book %d", bookID)
		}
		if book.Status != model.BookStatusAvailable {
			return errors.Wrapf(ErrBookUnavailable, "book %d is %s", bookID, book.Status)
		}

		policy, err := tx.GetPolicySetting()
		if err != nil {
			return err
		}
		open := true
		active := tx.ListBorrowRecords(&model.FindBorrowRecord{UserID: &userID, Open: &open})
		if len(active) >= policy.MaxBorrowLimit {
			return errors.Wrapf(ErrLimitExceeded, "user %d has %d open loans, limit %d", userID, len(active), policy.MaxBorrowLimit)
		}

		now := s.now()
		record = &model.BorrowRecord{
			UserID:     userID,
			BookID:     bookID,
			BorrowDate: now,
			DueDate:    now.Add(model.LoanPeriod),
			Status:     model.BorrowStatusBorrowed,
			Fine:       decimal.Zero,
		}
		if err := tx.CreateBorrowRecord(record); err != nil {
			return err
		}
		book.Status = model.BookStatusBorrowed
		return tx.UpdateBook(book)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Book borrowed", zap.Int32("record_id", record.ID), zap.Int32("user_id", userID), zap.Int32("book_id", bookID))
	return record, nil
}

// ReturnBook settles an open record. The fine owed at the moment of return is
// frozen into the record and the book goes back on the shelf.
func (s *Service) ReturnBook(ctx context.Context, recordID int32) (*model.BorrowRecord, error) {
	var record *model.BorrowRecord
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		record = tx.GetBorrowRecord(&model.FindBorrowRecord{ID: &recordID})
		if record == nil {
			return errors.Wrapf(ErrRecordNotFound, "borrow record %d", recordID)
		}
		if !record.IsOpen() {
			return errors.Wrapf(ErrAlreadyReturned, "borrow record %d", recordID)
		}

		policy, err := tx.GetPolicySetting()
		if err != nil {
			return err
		}
		now := s.now()
		record.Fine = fine.Calculate(record, now, policy.DailyFineRate)
		record.ReturnDate = &now
		record.Status = model.BorrowStatusReturned
		if err := tx.UpdateBorrowRecord(record); err != nil {
			return err
		}

		book := bookByID(tx, record.BookID)
		if book == nil {
			log.Warn("Returned record references a missing book", zap.Int32("record_id", recordID), zap.Int32("book_id", record.BookID))
			return nil
		}
		book.Status = model.BookStatusAvailable
		if err := tx.UpdateBook(book); err != nil {
			return err
		}
		return s.bus.Publish(tx, Event{Type: EventBookAvailable, BookID: book.ID, OccurredAt: now})
	})
	if err != nil {
		return nil, err
	}

	log.Info("Book returned", zap.Int32("record_id", recordID), zap.String("fine", record.Fine.StringFixed(2)))
	return record, nil
}

func (s *Service) GetRecord(ctx context.Context, id int32) (*model.BorrowRecordView, error) {
	var view *model.BorrowRecordView
	err := s.store.View(func(tx *store.Tx) error {
		record := tx.GetBorrowRecord(&model.FindBorrowRecord{ID: &id})
		if record == nil {
			return errors.Wrapf(ErrRecordNotFound, "borrow record %d", id)
		}
		policy, err := tx.GetPolicySetting()
		if err != nil {
			return err
		}
		view = recordView(tx, record, s.now(), policy.DailyFineRate)
		return nil
	})
	return view, err
}

// ListRecords returns matching records, most recently borrowed first.
func (s *Service) ListRecords(ctx context.Context, find *model.FindBorrowRecord) ([]*model.BorrowRecordView, error) {
	var views []*model.BorrowRecordView
	err := s.store.View(func(tx *store.Tx) error {
		policy, err := tx.GetPolicySetting()
		if err != nil {
			return err
		}
		now := s.now()
		records := tx.ListBorrowRecords(find)
		views = make([]*model.BorrowRecordView, 0, len(records))
		for _, r := range records {
			views = append(views, recordView(tx, r, now, policy.DailyFineRate))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(views, func(i, j int) bool {
		if !views[i].BorrowDate.Equal(views[j].BorrowDate) {
			return views[i].BorrowDate.After(views[j].BorrowDate)
		}
		return views[i].ID > views[j].ID
	})
	return views, nil
}

var statusOrder = map[model.BorrowStatus]int{
	model.BorrowStatusOverdue:  0,
	model.BorrowStatusBorrowed: 1,
	model.BorrowStatusReturned: 2,
}

// UserSummary returns a reader's loans ordered overdue, borrowed, returned.
func (s *Service) UserSummary(ctx context.Context, userID int32) (*model.LoanSummary, error) {
	var summary *model.LoanSummary
	err := s.store.View(func(tx *store.Tx) error {
		if userByID(tx, userID) == nil {
			return errors.Wrapf(ErrRecordNotFound, "user %d", userID)
		}
		policy, err := tx.GetPolicySetting()
		if err != nil {
			return err
		}

		now := s.now()
		summary = &model.LoanSummary{
			MaxBorrowLimit: policy.MaxBorrowLimit,
			TotalFine:      decimal.Zero,
			Records:        []*model.BorrowRecordView{},
		}
		for _, r := range tx.ListBorrowRecords(&model.FindBorrowRecord{UserID: &userID}) {
			view := recordView(tx, r, now, policy.DailyFineRate)
			switch view.EffectiveStatus {
			case model.BorrowStatusOverdue:
				summary.OverdueLoans++
				summary.ActiveLoans++
			case model.BorrowStatusBorrowed:
				summary.ActiveLoans++
			}
			summary.TotalFine = summary.TotalFine.Add(view.CurrentFine)
			summary.Records = append(summary.Records, view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(summary.Records, func(i, j int) bool {
		a, b := summary.Records[i], summary.Records[j]
		if statusOrder[a.EffectiveStatus] != statusOrder[b.EffectiveStatus] {
			return statusOrder[a.EffectiveStatus] < statusOrder[b.EffectiveStatus]
		}
		return a.DueDate.Before(b.DueDate)
	})
	return summary, nil
}

// SweepOverdue stores the overdue status on open records that are past due
// and queues a reminder for each of them. It returns how many records changed.
func (s *Service) SweepOverdue(ctx context.Context) (int, error) {
	swept := 0
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		policy, err := tx.GetPolicySetting()
		if err != nil {
			return err
		}
		now := s.now()
		open := true
		for _, record := range tx.ListBorrowRecords(&model.FindBorrowRecord{Open: &open}) {
			if record.Status == model.BorrowStatusOverdue || record.EffectiveStatus(now) != model.BorrowStatusOverdue {
				continue
			}
			record.Status = model.BorrowStatusOverdue
			if err := tx.UpdateBorrowRecord(record); err != nil {
				return err
			}
			swept++

			user := userByID(tx, record.UserID)
			if user == nil {
				continue
			}
			title := fmt.Sprintf("book %d", record.BookID)
			if book := bookByID(tx, record.BookID); book != nil {
				title = book.Title
			}
			s.enqueue(tx, model.JobTypeOverdueReminder, &model.Notification{
				UserID:  user.ID,
				Name:    user.Name,
				Contact: user.Contact,
				Subject: "Overdue loan",
				Body: fmt.Sprintf("%q was due on %s. The fine so far is %s.",
					title, record.DueDate.Format("2006-01-02"), fine.Calculate(record, now, policy.DailyFineRate).StringFixed(2)),
			})
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to sweep overdue records")
	}
	if swept > 0 {
		log.Info("Marked records overdue", zap.Int("count", swept))
	}
	return swept, nil
}

func recordView(tx *store.Tx, record *model.BorrowRecord, now time.Time, rate decimal.Decimal) *model.BorrowRecordView {
	view := &model.BorrowRecordView{
		BorrowRecord:    *record,
		EffectiveStatus: record.EffectiveStatus(now),
		CurrentFine:     fine.Calculate(record, now, rate),
	}
	if book := bookByID(tx, record.BookID); book != nil {
		view.BookTitle = book.Title
	}
	if user := userByID(tx, record.UserID); user != nil {
		view.UserName = user.Name
	}
	return view
}
