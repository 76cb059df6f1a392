// Package library implements lending: the catalog, members, loans,
// reservations, reviews and the lending policy.
package library

import (
	"time"

	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/store"
	"github.com/zeroverload/SmartLib/internal/util"
	"github.com/zeroverload/SmartLib/internal/worker"
)

type Service struct {
	store *store.Store
	bus   *Bus
	pool  worker.WorkPool
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithWorkPool sets where notification jobs go. Without a pool they are dropped.
func WithWorkPool(pool worker.WorkPool) Option {
	return func(s *Service) {
		s.pool = pool
	}
}

func NewService(store *store.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		bus:   NewBus(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bus.Subscribe(EventBookAvailable, s.notifyNext)
	return s
}

// enqueue pushes a notification job once tx is committed.
func (s *Service) enqueue(tx *store.Tx, jobType string, n *model.Notification) {
	tx.AfterCommit(func() {
		if s.pool == nil {
			log.Debug("No work pool, dropping notification", zap.String("type", jobType), zap.Int32("user_id", n.UserID))
			return
		}
		s.pool.Push(model.Job{ID: util.GenUUID(), Type: jobType, Item: n})
	})
}

func userByID(tx *store.Tx, id int32) *model.User {
	return tx.GetUser(&model.FindUser{ID: &id})
}

func bookByID(tx *store.Tx, id int32) *model.Book {
	return tx.GetBook(&model.FindBook{ID: &id})
}
