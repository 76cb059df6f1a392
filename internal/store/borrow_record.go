package store

import (
	"github.com/zeroverload/SmartLib/internal/model"
)

func (tx *Tx) ListBorrowRecords(find *model.FindBorrowRecord) []*model.BorrowRecord {
	list := []*model.BorrowRecord{}
	for i := range tx.snap.records {
		record := tx.snap.records[i]
		if v := find.ID; v != nil && record.ID != *v {
			continue
		}
		if v := find.UserID; v != nil && record.UserID != *v {
			continue
		}
		if v := find.BookID; v != nil && record.BookID != *v {
			continue
		}
		if v := find.Open; v != nil && record.IsOpen() != *v {
			continue
		}
		list = append(list, &record)
	}
	return list
}

// GetBorrowRecord returns the first match or nil.
func (tx *Tx) GetBorrowRecord(find *model.FindBorrowRecord) *model.BorrowRecord {
	list := tx.ListBorrowRecords(find)
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

// CreateBorrowRecord stores record, assigning the next id when ID is zero.
func (tx *Tx) CreateBorrowRecord(record *model.BorrowRecord) error {
	if err := tx.write(CollectionRecords); err != nil {
		return err
	}
	if record.ID == 0 {
		record.ID = nextID(tx.snap.records, func(r *model.BorrowRecord) int32 { return r.ID })
	}
	tx.snap.records = append(tx.snap.records, *record)
	return nil
}

func (tx *Tx) UpdateBorrowRecord(record *model.BorrowRecord) error {
	for i := range tx.snap.records {
		if tx.snap.records[i].ID == record.ID {
			if err := tx.write(CollectionRecords); err != nil {
				return err
			}
			tx.snap.records[i] = *record
			return nil
		}
	}
	return ErrNotFound
}
