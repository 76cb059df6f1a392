package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	CollectionBooks          = "books"
	CollectionUsers          = "users"
	CollectionRecords        = "records"
	CollectionReservations   = "reservations"
	CollectionReviews        = "reviews"
	CollectionSystemSettings = "system_settings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrReadOnly = errors.New("write in a read-only transaction")
)

// snapshot is never modified once it is published. Writers work on a clone.
type snapshot struct {
	books        []model.Book
	users        []model.User
	records      []model.BorrowRecord
	reservations []model.Reservation
	reviews      []model.Review
	settings     []model.SystemSetting
}

func (s *snapshot) clone() *snapshot {
	return &snapshot{
		books:        slices.Clone(s.books),
		users:        slices.Clone(s.users),
		records:      slices.Clone(s.records),
		reservations: slices.Clone(s.reservations),
		reviews:      slices.Clone(s.reviews),
		settings:     slices.Clone(s.settings),
	}
}

func (s *snapshot) target(collection string) (any, error) {
	switch collection {
	case CollectionBooks:
		return &s.books, nil
	case CollectionUsers:
		return &s.users, nil
	case CollectionRecords:
		return &s.records, nil
	case CollectionReservations:
		return &s.reservations, nil
	case CollectionReviews:
		return &s.reviews, nil
	case CollectionSystemSettings:
		return &s.settings, nil
	}
	return nil, errors.Errorf("unknown collection %s", collection)
}

var collections = []string{
	CollectionBooks,
	CollectionUsers,
	CollectionRecords,
	CollectionReservations,
	CollectionReviews,
	CollectionSystemSettings,
}

type Store struct {
	storage   storage.Storage
	writeLock sync.Mutex // writeLock serializes Update
	current   atomic.Pointer[snapshot]
}

// NewStore loads every collection from storage.
func NewStore(ctx context.Context, storage storage.Storage) (*Store, error) {
	snap := &snapshot{}
	for _, name := range collections {
		data, err := storage.Load(ctx, name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load collection %s", name)
		}
		if data == nil {
			continue
		}
		target, err := snap.target(name)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, target); err != nil {
			return nil, errors.Wrapf(err, "failed to decode collection %s", name)
		}
	}

	s := &Store{storage: storage}
	s.current.Store(snap)
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

func (s *Store) Close() error {
	return s.storage.Close()
}

// View runs fn against the latest committed snapshot without locking.
func (s *Store) View(fn func(tx *Tx) error) error {
	return fn(&Tx{snap: s.current.Load()})
}

// Update runs fn on a private copy of the data. When fn succeeds the changed
// collections are saved in one batch and the copy becomes visible. When fn or
// the save fails nothing changes. Hooks registered with AfterCommit run after
// the new snapshot is visible.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.commit(ctx, fn)
	if err != nil {
		return err
	}
	for _, hook := range tx.hooks {
		hook()
	}
	return nil
}

func (s *Store) commit(ctx context.Context, fn func(tx *Tx) error) (*Tx, error) {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	tx := &Tx{
		snap:     s.current.Load().clone(),
		writable: true,
		dirty:    map[string]bool{},
	}
	if err := fn(tx); err != nil {
		return nil, err
	}
	if len(tx.dirty) == 0 {
		return tx, nil
	}

	names := make([]string, 0, len(tx.dirty))
	for name := range tx.dirty {
		names = append(names, name)
	}
	sort.Strings(names)

	batch := make(map[string][]byte, len(names))
	for _, name := range names {
		target, err := tx.snap.target(name)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(target)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode collection %s", name)
		}
		if string(data) == "null" {
			data = []byte("[]")
		}
		batch[name] = data
	}
	if err := s.storage.Save(ctx, batch); err != nil {
		log.Error("Failed to persist collections", zap.Strings("collections", names), zap.Error(err))
		return nil, errors.Wrap(err, "failed to persist collections")
	}

	s.current.Store(tx.snap)
	log.Debug("Committed collections", zap.Strings("collections", names))
	return tx, nil
}

// Tx is a view of the data inside View or Update.
type Tx struct {
	snap     *snapshot
	writable bool
	dirty    map[string]bool
	hooks    []func()
}

func (tx *Tx) write(collection string) error {
	if !tx.writable {
		return ErrReadOnly
	}
	tx.dirty[collection] = true
	return nil
}

// AfterCommit registers fn to run once the transaction is visible.
func (tx *Tx) AfterCommit(fn func()) {
	tx.hooks = append(tx.hooks, fn)
}

func nextID[T any](items []T, id func(*T) int32) int32 {
	var max int32
	for i := range items {
		if v := id(&items[i]); v > max {
			max = v
		}
	}
	return max + 1
}
