// Package fine computes overdue fines. Every fine shown or stored goes through Calculate.
package fine

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeroverload/SmartLib/internal/model"
)

const day = 24 * time.Hour

// Calculate returns the fine owed on record at now. A returned record keeps
// the fine frozen at settlement. An open record owes dailyRate for every
// started day past its due date.
func Calculate(record *model.BorrowRecord, now time.Time, dailyRate decimal.Decimal) decimal.Decimal {
	if !record.IsOpen() {
		return record.Fine
	}
	if !now.After(record.DueDate) {
		return decimal.Zero
	}
	return dailyRate.Mul(decimal.NewFromInt(OverdueDays(record.DueDate, now)))
}

// OverdueDays counts started days between due and now, zero when now is not past due.
func OverdueDays(due, now time.Time) int64 {
	elapsed := now.Sub(due)
	if elapsed <= 0 {
		return 0
	}
	days := int64(elapsed / day)
	if elapsed%day != 0 {
		days++
	}
	return days
}
