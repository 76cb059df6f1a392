package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
)

// PasswordCost is the bcrypt cost for stored credentials.
var PasswordCost = bcrypt.DefaultCost

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type seedUser struct {
	user     model.User
	password string
}

func demoUsers() []seedUser {
	return []seedUser{
		{model.User{ID: 1, Username: "admin", Name: "System Administrator", Role: model.RoleAdmin, Status: model.UserStatusActive, Contact: "admin@library.edu", AvatarURL: "https://picsum.photos/seed/admin/200/200", JoinedDate: date(2022, 1, 1)}, "123456"},
		{model.User{ID: 1001, Username: "student1", Name: "Zhang San", Role: model.RoleReader, Status: model.UserStatusActive, Contact: "13800138000", AvatarURL: "https://picsum.photos/seed/u1/200/200", JoinedDate: date(2023, 9, 1)}, "student1"},
		{model.User{ID: 1002, Username: "student2", Name: "Li Si", Role: model.RoleReader, Status: model.UserStatusActive, Contact: "13900139000", AvatarURL: "https://picsum.photos/seed/u2/200/200", JoinedDate: date(2023, 9, 5)}, "student2"},
		{model.User{ID: 1003, Username: "2023001", Name: "Wang Xiaoming", Role: model.RoleReader, Status: model.UserStatusActive, Contact: "13700000001", AvatarURL: "https://picsum.photos/seed/xiaoming/200/200", JoinedDate: date(2023, 9, 10)}, "123456"},
		{model.User{ID: 1004, Username: "prof_chen", Name: "Prof. Chen", Role: model.RoleReader, Status: model.UserStatusActive, Contact: "chen@univ.edu", AvatarURL: "https://picsum.photos/seed/prof/200/200", JoinedDate: date(2020, 3, 15)}, "123456"},
		{model.User{ID: 1005, Username: "guest", Name: "Guest", Role: model.RoleReader, Status: model.UserStatusFrozen, Contact: "guest@library.edu", AvatarURL: "https://picsum.photos/seed/guest/200/200", JoinedDate: date(2023, 11, 20)}, "123456"},
		{model.User{ID: 1006, Username: "zhaoliu", Name: "Zhao Liu", Role: model.RoleReader, Status: model.UserStatusActive, Contact: "15999999999", AvatarURL: "https://picsum.photos/seed/zhaoliu/200/200", JoinedDate: date(2023, 5, 20)}, "123456"},
	}
}

func demoBooks() []model.Book {
	return []model.Book{
		{ID: 2001, ISBN: "978-7-302-54321-0", Title: "Database System Concepts", Author: "Abraham Silberschatz", Publisher: "China Machine Press", PublishDate: "2021-05-01", Category: "Computer Science", Status: model.BookStatusAvailable, CoverURL: "https://picsum.photos/seed/db/300/400", Location: "A-01-02", Description: "The classic textbook on the concepts, principles and applications of database systems."},
		{ID: 2002, ISBN: "978-7-111-12345-6", Title: "Introduction to Algorithms", Author: "Thomas H. Cormen", Publisher: "Higher Education Press", PublishDate: "2019-01-01", Category: "Computer Science", Status: model.BookStatusBorrowed, CoverURL: "https://picsum.photos/seed/algo/300/400", Location: "A-02-05", Description: "Common algorithms with their design and analysis."},
		{ID: 2003, ISBN: "978-7-544-25897-5", Title: "One Hundred Years of Solitude", Author: "Gabriel Garcia Marquez", Publisher: "Thinkingdom", PublishDate: "2011-06-01", Category: "Literature", Status: model.BookStatusAvailable, CoverURL: "https://picsum.photos/seed/100years/300/400", Location: "B-10-01", Description: "Seven generations of the Buendia family."},
		{ID: 2004, ISBN: "978-7-115-56789-1", Title: "Vue.js Design and Implementation", Author: "Huo Chunyang", Publisher: "Posts & Telecom Press", PublishDate: "2022-02-01", Category: "Computer Science", Status: model.BookStatusBorrowed, CoverURL: "https://picsum.photos/seed/vue/300/400", Location: "A-03-12", Description: "The core principles and implementation of the Vue.js framework."},
		{ID: 2005, ISBN: "978-7-506-36543-7", Title: "The Three-Body Problem", Author: "Liu Cixin", Publisher: "Chongqing Press", PublishDate: "2008-01-01", Category: "Science Fiction", Status: model.BookStatusBorrowed, CoverURL: "https://picsum.photos/seed/3body/300/400", Location: "C-05-08", Description: "First contact between humanity and the Trisolaran civilization."},
	}
}

func demoRecords() []model.BorrowRecord {
	record := func(id, userID, bookID int32, borrowed time.Time, status model.BorrowStatus) model.BorrowRecord {
		return model.BorrowRecord{
			ID:         id,
			UserID:     userID,
			BookID:     bookID,
			BorrowDate: borrowed,
			DueDate:    borrowed.Add(model.LoanPeriod),
			Status:     status,
			Fine:       decimal.Zero,
		}
	}
	returned := record(5002, 1001, 2003, date(2025, 1, 1), model.BorrowStatusReturned)
	returnDate := date(2025, 1, 28)
	returned.ReturnDate = &returnDate

	return []model.BorrowRecord{
		record(5001, 1001, 2002, date(2025, 1, 10), model.BorrowStatusBorrowed),
		returned,
		record(5003, 1002, 2005, date(2024, 11, 1), model.BorrowStatusOverdue),
		record(5004, 1006, 2004, date(2024, 10, 1), model.BorrowStatusOverdue),
	}
}

// Seed writes the demo dataset when no user exists yet. It reports whether it wrote anything.
func (s *Store) Seed(ctx context.Context, policy *model.SystemSettingPolicy) (bool, error) {
	seeded := false
	err := s.Update(ctx, func(tx *Tx) error {
		if len(tx.snap.users) > 0 {
			return nil
		}
		for _, u := range demoUsers() {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.password), PasswordCost)
			if err != nil {
				return errors.Wrap(err, "failed to hash seed password")
			}
			user := u.user
			user.PasswordHash = string(hash)
			if err := tx.CreateUser(&user); err != nil {
				return err
			}
		}
		for _, book := range demoBooks() {
			if err := tx.CreateBook(&book); err != nil {
				return err
			}
		}
		for _, record := range demoRecords() {
			if err := tx.CreateBorrowRecord(&record); err != nil {
				return err
			}
		}
		if err := tx.CreateReservation(&model.Reservation{
			ID:              6001,
			UserID:          1001,
			BookID:          2005,
			ReservationTime: time.Date(2025, 2, 5, 14, 30, 0, 0, time.UTC),
			Status:          model.ReservationStatusPending,
		}); err != nil {
			return err
		}
		if err := tx.CreateReview(&model.Review{
			ID:      7001,
			UserID:  1001,
			BookID:  2003,
			Rating:  5,
			Content: "A stunning read, the rise and fall of a whole family.",
			Date:    date(2025, 1, 29),
		}); err != nil {
			return err
		}
		if tx.GetSystemSetting(model.SettingTypePolicy) == nil {
			if err := tx.UpsertPolicySetting(policy); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "failed to seed demo data")
	}
	if seeded {
		log.Info("Seeded demo data", zap.Int("users", len(demoUsers())), zap.Int("books", len(demoBooks())))
	}
	return seeded, nil
}

// EnsurePolicy writes policy when no policy setting exists.
func (s *Store) EnsurePolicy(ctx context.Context, policy *model.SystemSettingPolicy) error {
	return s.Update(ctx, func(tx *Tx) error {
		if tx.GetSystemSetting(model.SettingTypePolicy) != nil {
			return nil
		}
		return tx.UpsertPolicySetting(policy)
	})
}
