package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanPeriod is the time between borrowing and the due date.
const LoanPeriod = 60 * 24 * time.Hour

type BorrowStatus string

const (
	BorrowStatusBorrowed BorrowStatus = "borrowed"
	BorrowStatusOverdue  BorrowStatus = "overdue"
	BorrowStatusReturned BorrowStatus = "returned"
)

type BorrowRecord struct {
	ID         int32        `json:"id"`
	UserID     int32        `json:"user_id"`
	BookID     int32        `json:"book_id"`
	BorrowDate time.Time    `json:"borrow_date"`
	DueDate    time.Time    `json:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	Status     BorrowStatus `json:"status"`
	// Fine is authoritative only once the record is returned.
	Fine decimal.Decimal `json:"fine"`
}

// IsOpen reports whether the loan has not been settled yet.
func (r *BorrowRecord) IsOpen() bool {
	return r.Status != BorrowStatusReturned
}

// EffectiveStatus derives the status at now. The stored value only matters
// once the record is returned; an open record is overdue exactly when now is
// past the due date.
func (r *BorrowRecord) EffectiveStatus(now time.Time) BorrowStatus {
	if !r.IsOpen() {
		return BorrowStatusReturned
	}
	if now.After(r.DueDate) {
		return BorrowStatusOverdue
	}
	return BorrowStatusBorrowed
}

type FindBorrowRecord struct {
	ID     *int32 `json:"id"`
	UserID *int32 `json:"user_id"`
	BookID *int32 `json:"book_id"`
	// Open selects records that are not returned when true, returned ones when false.
	Open *bool `json:"open"`
}

// BorrowRecordView is a record as shown to clients, with the live status and fine.
type BorrowRecordView struct {
	BorrowRecord
	EffectiveStatus BorrowStatus    `json:"effective_status"`
	CurrentFine     decimal.Decimal `json:"current_fine"`
	BookTitle       string          `json:"book_title,omitempty"`
	UserName        string          `json:"user_name,omitempty"`
}

type BorrowRequest struct {
	BookID int32 `json:"book_id"`
	// UserID is honoured for admins only.
	UserID int32 `json:"user_id"`
}
