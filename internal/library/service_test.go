package library

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/storage"
	"github.com/zeroverload/SmartLib/internal/store"
)

func init() {
	store.PasswordCost = bcrypt.MinCost
}

var testNow = time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPool struct {
	mu   sync.Mutex
	jobs []model.Job
}

func (p *recordingPool) Push(job model.Job) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, job)
}

func (p *recordingPool) Jobs() []model.Job {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Job(nil), p.jobs...)
}

type failingStorage struct {
	*storage.MemoryStorage
	mu  sync.Mutex
	err error
}

func (s *failingStorage) Save(ctx context.Context, batch map[string][]byte) error {
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStorage.Save(ctx, batch)
}

func (s *failingStorage) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

type fixture struct {
	svc     *Service
	store   *store.Store
	storage *failingStorage
	clock   *testClock
	pool    *recordingPool
}

// newFixture returns a service over the demo dataset at testNow.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	backend := &failingStorage{MemoryStorage: storage.NewMemoryStorage()}
	s, err := store.NewStore(ctx, backend)
	require.NoError(t, err)
	_, err = s.Seed(ctx, &model.SystemSettingPolicy{DailyFineRate: decimal.RequireFromString("0.5"), MaxBorrowLimit: 10})
	require.NoError(t, err)

	f := &fixture{
		store:   s,
		storage: backend,
		clock:   &testClock{now: testNow},
		pool:    &recordingPool{},
	}
	f.svc = NewService(s, WithClock(f.clock.Now), WithWorkPool(f.pool))
	return f
}

func (f *fixture) book(t *testing.T, id int32) *model.Book {
	t.Helper()
	book, err := f.svc.GetBook(context.Background(), id)
	require.NoError(t, err)
	return book
}

func (f *fixture) record(t *testing.T, id int32) *model.BorrowRecordView {
	t.Helper()
	record, err := f.svc.GetRecord(context.Background(), id)
	require.NoError(t, err)
	return record
}

func (f *fixture) reservation(t *testing.T, id int32) *model.Reservation {
	t.Helper()
	reservation, err := f.svc.GetReservation(context.Background(), id)
	require.NoError(t, err)
	return reservation
}

func (f *fixture) setPolicy(t *testing.T, mutate func(p *model.SystemSettingPolicy)) {
	t.Helper()
	ctx := context.Background()
	policy, err := f.svc.GetSettings(ctx)
	require.NoError(t, err)
	mutate(policy)
	_, err = f.svc.UpdateSettings(ctx, policy)
	require.NoError(t, err)
}

// checkInvariants verifies that book status and open loans agree and that no
// user holds more open loans than the limit.
func (f *fixture) checkInvariants(t *testing.T) {
	t.Helper()
	require.NoError(t, f.store.View(func(tx *store.Tx) error {
		policy, err := tx.GetPolicySetting()
		require.NoError(t, err)

		open := true
		for _, book := range tx.ListBooks(&model.FindBook{}) {
			records := tx.ListBorrowRecords(&model.FindBorrowRecord{BookID: &book.ID, Open: &open})
			if book.Status == model.BookStatusBorrowed {
				require.Len(t, records, 1, "borrowed book %d", book.ID)
			} else {
				require.Empty(t, records, "book %d is %s", book.ID, book.Status)
			}
		}
		for _, user := range tx.ListUsers(&model.FindUser{}) {
			records := tx.ListBorrowRecords(&model.FindBorrowRecord{UserID: &user.ID, Open: &open})
			require.LessOrEqual(t, len(records), policy.MaxBorrowLimit, "user %d", user.ID)
		}
		return nil
	}))
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func requireKind(t *testing.T, err, kind error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "want %v, got %v", kind, err)
}
