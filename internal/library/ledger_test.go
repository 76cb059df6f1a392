package library

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroverload/SmartLib/internal/model"
)

func TestBorrowAvailableBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Put 2002 back on the shelf first.
	_, err := f.svc.ReturnBook(ctx, 5001)
	require.NoError(t, err)
	require.Equal(t, model.BookStatusAvailable, f.book(t, 2002).Status)

	f.clock.Advance(time.Hour)
	record, err := f.svc.Borrow(ctx, 1001, 2002)
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now(), record.BorrowDate)
	assert.Equal(t, record.BorrowDate.Add(60*24*time.Hour), record.DueDate)
	assert.Equal(t, model.BorrowStatusBorrowed, record.Status)
	requireDecimal(t, "0", record.Fine)
	assert.Nil(t, record.ReturnDate)
	assert.Equal(t, model.BookStatusBorrowed, f.book(t, 2002).Status)
	f.checkInvariants(t)
}

func TestBorrowAdmission(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		setup  func(t *testing.T, f *fixture)
		userID int32
		bookID int32
		kind   error
	}{
		{name: "frozen user", userID: 1005, bookID: 2001, kind: ErrUserIneligible},
		{name: "unknown user", userID: 9999, bookID: 2001, kind: ErrUserIneligible},
		{name: "frozen user before unavailable book", userID: 1005, bookID: 2002, kind: ErrUserIneligible},
		{name: "unknown book", userID: 1002, bookID: 9999, kind: ErrRecordNotFound},
		{name: "borrowed book", userID: 1003, bookID: 2002, kind: ErrBookUnavailable},
		{
			name: "book in maintenance",
			setup: func(t *testing.T, f *fixture) {
				_, err := f.svc.UpdateBook(ctx, 2003, &model.BookCreateRequest{Title: "One Hundred Years of Solitude", Author: "Gabriel Garcia Marquez", Status: model.BookStatusMaintenance})
				require.NoError(t, err)
			},
			userID: 1003, bookID: 2003, kind: ErrBookUnavailable,
		},
		{
			name: "limit reached",
			setup: func(t *testing.T, f *fixture) {
				f.setPolicy(t, func(p *model.SystemSettingPolicy) { p.MaxBorrowLimit = 1 })
			},
			userID: 1001, bookID: 2001, kind: ErrLimitExceeded,
		},
		{
			name: "unavailable book before limit",
			setup: func(t *testing.T, f *fixture) {
				f.setPolicy(t, func(p *model.SystemSettingPolicy) { p.MaxBorrowLimit = 1 })
			},
			userID: 1001, bookID: 2004, kind: ErrBookUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(t, f)
			}
			before, err := f.svc.ListRecords(ctx, &model.FindBorrowRecord{})
			require.NoError(t, err)
			bookBefore, _ := f.svc.GetBook(ctx, tt.bookID)

			record, err := f.svc.Borrow(ctx, tt.userID, tt.bookID)
			requireKind(t, err, tt.kind)
			assert.Nil(t, record)

			after, err := f.svc.ListRecords(ctx, &model.FindBorrowRecord{})
			require.NoError(t, err)
			assert.Len(t, after, len(before))
			if bookBefore != nil {
				assert.Equal(t, bookBefore.Status, f.book(t, tt.bookID).Status)
			}
			f.checkInvariants(t)
		})
	}
}

func TestReturnFreezesFine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// 5003 was due 2024-12-31, 41 days before testNow.
	requireDecimal(t, "20.5", f.record(t, 5003).CurrentFine)

	record, err := f.svc.ReturnBook(ctx, 5003)
	require.NoError(t, err)
	assert.Equal(t, model.BorrowStatusReturned, record.Status)
	require.NotNil(t, record.ReturnDate)
	assert.Equal(t, testNow, *record.ReturnDate)
	requireDecimal(t, "20.5", record.Fine)
	assert.Equal(t, model.BookStatusAvailable, f.book(t, 2005).Status)

	f.clock.Advance(30 * 24 * time.Hour)
	f.setPolicy(t, func(p *model.SystemSettingPolicy) { p.DailyFineRate = decimal.NewFromInt(3) })

	_, err = f.svc.ReturnBook(ctx, 5003)
	requireKind(t, err, ErrAlreadyReturned)

	view := f.record(t, 5003)
	assert.Equal(t, testNow, *view.ReturnDate)
	requireDecimal(t, "20.5", view.Fine)
	requireDecimal(t, "20.5", view.CurrentFine)
	assert.Equal(t, model.BorrowStatusReturned, view.EffectiveStatus)
	f.checkInvariants(t)
}

func TestReturnUnknownRecord(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ReturnBook(context.Background(), 42)
	requireKind(t, err, ErrRecordNotFound)
}

func TestReturnOnTimeHasNoFine(t *testing.T) {
	f := newFixture(t)
	record, err := f.svc.ReturnBook(context.Background(), 5001)
	require.NoError(t, err)
	requireDecimal(t, "0", record.Fine)
}

func TestFailedCommitLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.storage.Fail(errors.New("disk full"))
	_, err := f.svc.ReturnBook(ctx, 5003)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.True(t, f.record(t, 5003).IsOpen())
	assert.Equal(t, model.BookStatusBorrowed, f.book(t, 2005).Status)
	assert.Equal(t, model.ReservationStatusPending, f.reservation(t, 6001).Status)
	assert.Empty(t, f.pool.Jobs())

	f.storage.Fail(nil)
	_, err = f.svc.ReturnBook(ctx, 5003)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusNotified, f.reservation(t, 6001).Status)
	assert.Len(t, f.pool.Jobs(), 1)
}

func TestConcurrentBorrowsOfOneBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	readers := []int32{1001, 1002, 1003, 1004, 1006}
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for _, id := range readers {
		wg.Add(1)
		go func(userID int32) {
			defer wg.Done()
			_, err := f.svc.Borrow(ctx, userID, 2001)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			assert.ErrorIs(t, err, ErrBookUnavailable)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	f.checkInvariants(t)
}

func TestInvariantsHoldUnderRandomOperations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setPolicy(t, func(p *model.SystemSettingPolicy) { p.MaxBorrowLimit = 2 })

	users := []int32{1001, 1002, 1003, 1004, 1005, 1006, 4242}
	books := []int32{2001, 2002, 2003, 2004, 2005, 9999}
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 400; i++ {
		f.clock.Advance(time.Duration(rnd.Intn(72)) * time.Hour)
		userID := users[rnd.Intn(len(users))]
		bookID := books[rnd.Intn(len(books))]

		switch rnd.Intn(4) {
		case 0:
			_, _ = f.svc.Borrow(ctx, userID, bookID)
		case 1:
			open := true
			records, err := f.svc.ListRecords(ctx, &model.FindBorrowRecord{Open: &open})
			require.NoError(t, err)
			if len(records) > 0 {
				_, err := f.svc.ReturnBook(ctx, records[rnd.Intn(len(records))].ID)
				require.NoError(t, err)
			}
		case 2:
			_, _ = f.svc.Reserve(ctx, userID, bookID)
		case 3:
			list, err := f.svc.ListReservations(ctx, &model.FindReservation{})
			require.NoError(t, err)
			if len(list) > 0 {
				_, _ = f.svc.CancelReservation(ctx, list[rnd.Intn(len(list))].ID)
			}
		}
		f.checkInvariants(t)
	}
}

func TestUserSummaryOrdering(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// 5001 falls due 2025-03-11.
	f.clock.Advance(49 * 24 * time.Hour)
	_, err := f.svc.ReturnBook(ctx, 5002)
	requireKind(t, err, ErrAlreadyReturned)

	summary, err := f.svc.UserSummary(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, summary.Records, 2)
	assert.Equal(t, int32(5001), summary.Records[0].ID)
	assert.Equal(t, model.BorrowStatusOverdue, summary.Records[0].EffectiveStatus)
	assert.Equal(t, model.BorrowStatusReturned, summary.Records[1].EffectiveStatus)
	assert.Equal(t, 1, summary.ActiveLoans)
	assert.Equal(t, 1, summary.OverdueLoans)
	assert.Equal(t, 10, summary.MaxBorrowLimit)
	// 2025-03-11 to 2025-03-31 is 20 days.
	requireDecimal(t, "10", summary.TotalFine)
	assert.Equal(t, "Introduction to Algorithms", summary.Records[0].BookTitle)

	_, err = f.svc.UserSummary(ctx, 4242)
	requireKind(t, err, ErrRecordNotFound)
}

func TestListRecordsUsesLiveStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	userID := int32(1001)
	records, err := f.svc.ListRecords(ctx, &model.FindBorrowRecord{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int32(5001), records[0].ID)
	assert.Equal(t, model.BorrowStatusBorrowed, records[0].EffectiveStatus)
	assert.Equal(t, "Zhang San", records[0].UserName)

	f.clock.Advance(60 * 24 * time.Hour)
	records, err = f.svc.ListRecords(ctx, &model.FindBorrowRecord{UserID: &userID})
	require.NoError(t, err)
	assert.Equal(t, model.BorrowStatusOverdue, records[0].EffectiveStatus)
	assert.Equal(t, model.BorrowStatusBorrowed, records[0].Status)
	assert.True(t, records[0].CurrentFine.IsPositive())
}

func TestSweepOverdue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	swept, err := f.svc.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, swept)
	assert.Empty(t, f.pool.Jobs())

	f.clock.Advance(50 * 24 * time.Hour)
	swept, err = f.svc.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)
	assert.Equal(t, model.BorrowStatusOverdue, f.record(t, 5001).Status)

	jobs := f.pool.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, model.JobTypeOverdueReminder, jobs[0].Type)
	assert.Equal(t, int32(1001), jobs[0].Item.UserID)
	assert.Contains(t, jobs[0].Item.Body, "Introduction to Algorithms")

	swept, err = f.svc.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, swept)
	f.checkInvariants(t)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.ReturnBook(ctx, 5004)
	require.NoError(t, err)
	_, err = f.svc.Borrow(ctx, 1003, 2001)
	require.NoError(t, err)

	dashboard, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, dashboard.TotalBooks)
	assert.Equal(t, 7, dashboard.TotalUsers)
	assert.Equal(t, 3, dashboard.ActiveLoans)
	assert.Equal(t, 1, dashboard.BorrowedToday)
	assert.Equal(t, 1, dashboard.ReturnedToday)
	require.Len(t, dashboard.OverdueRecords, 1)
	assert.Equal(t, int32(5003), dashboard.OverdueRecords[0].ID)
	requireDecimal(t, "20.5", dashboard.OutstandingFine)
	assert.Equal(t, []model.StatData{
		{Name: "Computer Science", Value: 3},
		{Name: "Literature", Value: 1},
		{Name: "Science Fiction", Value: 1},
	}, dashboard.Categories)
}
