package store

import (
	"strings"

	"github.com/zeroverload/SmartLib/internal/model"
)

func (tx *Tx) ListBooks(find *model.FindBook) []*model.Book {
	var keyword string
	if find.Keyword != nil {
		keyword = strings.ToLower(strings.TrimSpace(*find.Keyword))
	}

	list := []*model.Book{}
	for i := range tx.snap.books {
		book := tx.snap.books[i]
		if v := find.ID; v != nil && book.ID != *v {
			continue
		}
		if v := find.Status; v != nil && book.Status != *v {
			continue
		}
		if v := find.Category; v != nil && *v != "" && book.Category != *v {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(book.Title), keyword) &&
			!strings.Contains(strings.ToLower(book.Author), keyword) {
			continue
		}
		list = append(list, &book)
	}
	return list
}

// GetBook returns the first match or nil.
func (tx *Tx) GetBook(find *model.FindBook) *model.Book {
	list := tx.ListBooks(find)
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

// CreateBook stores book, assigning the next id when ID is zero.
func (tx *Tx) CreateBook(book *model.Book) error {
	if err := tx.write(CollectionBooks); err != nil {
		return err
	}
	if book.ID == 0 {
		book.ID = nextID(tx.snap.books, func(b *model.Book) int32 { return b.ID })
	}
	tx.snap.books = append(tx.snap.books, *book)
	return nil
}

func (tx *Tx) UpdateBook(book *model.Book) error {
	for i := range tx.snap.books {
		if tx.snap.books[i].ID == book.ID {
			if err := tx.write(CollectionBooks); err != nil {
				return err
			}
			tx.snap.books[i] = *book
			return nil
		}
	}
	return ErrNotFound
}
