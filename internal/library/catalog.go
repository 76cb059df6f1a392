package library

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/store"
	"github.com/zeroverload/SmartLib/internal/validator"
)

func (s *Service) ListBooks(ctx context.Context, find *model.FindBook) ([]*model.Book, error) {
	var books []*model.Book
	err := s.store.View(func(tx *store.Tx) error {
		books = tx.ListBooks(find)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (s *Service) GetBook(ctx context.Context, id int32) (*model.Book, error) {
	var book *model.Book
	err := s.store.View(func(tx *store.Tx) error {
		book = bookByID(tx, id)
		if book == nil {
			return errors.Wrapf(ErrRecordNotFound, "book %d", id)
		}
		return nil
	})
	return book, err
}

func (s *Service) AddBook(ctx context.Context, create *model.BookCreateRequest) (*model.Book, error) {
	if err := validator.ValidateBookCreateRequest(create); err != nil {
		return nil, invalidInput(err)
	}
	book := bookFromRequest(create)
	if book.Status == "" {
		book.Status = model.BookStatusAvailable
	}
	if err := s.store.Update(ctx, func(tx *store.Tx) error {
		return tx.CreateBook(book)
	}); err != nil {
		return nil, err
	}

	log.Info("Book added", zap.Int32("book_id", book.ID), zap.String("title", book.Title))
	return book, nil
}

// UpdateBook replaces the catalog fields of a book. Status may move between
// available, maintenance and lost while the book is not on loan. Putting a
// book back to available serves the reservation queue.
func (s *Service) UpdateBook(ctx context.Context, id int32, update *model.BookCreateRequest) (*model.Book, error) {
	if err := validator.ValidateBookUpdateRequest(update); err != nil {
		return nil, invalidInput(err)
	}

	var book *model.Book
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		current := bookByID(tx, id)
		if current == nil {
			return errors.Wrapf(ErrRecordNotFound, "book %d", id)
		}

		status := update.Status
		if status == "" {
			status = current.Status
		}
		if status != current.Status {
			if current.Status == model.BookStatusBorrowed {
				return errors.Wrapf(ErrBookUnavailable, "book %d is on loan", id)
			}
			if status == model.BookStatusBorrowed {
				return invalidInput(errors.New("a book can only become borrowed through a loan"))
			}
		}

		book = bookFromRequest(update)
		book.ID = id
		book.Status = status
		if err := tx.UpdateBook(book); err != nil {
			return err
		}
		if current.Status != model.BookStatusAvailable && status == model.BookStatusAvailable {
			return s.offerBook(tx, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Categories returns the distinct book categories in alphabetical order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.store.View(func(tx *store.Tx) error {
		seen := map[string]bool{}
		for _, b := range tx.ListBooks(&model.FindBook{}) {
			if b.Category != "" && !seen[b.Category] {
				seen[b.Category] = true
				categories = append(categories, b.Category)
			}
		}
		return nil
	})
	sort.Strings(categories)
	return categories, err
}

func bookFromRequest(r *model.BookCreateRequest) *model.Book {
	return &model.Book{
		ISBN:        r.ISBN,
		Title:       r.Title,
		Author:      r.Author,
		Publisher:   r.Publisher,
		PublishDate: r.PublishDate,
		Category:    r.Category,
		Status:      r.Status,
		CoverURL:    r.CoverURL,
		Location:    r.Location,
		Description: r.Description,
	}
}
