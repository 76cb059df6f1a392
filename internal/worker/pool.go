package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
)

type WorkPool interface {
	Push(job model.Job)
}

// Notifier delivers one notification.
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// NotificationPool delivers notification jobs on a fixed number of workers.
type NotificationPool struct {
	queue chan model.Job
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewNotificationPool(notifier Notifier, size int) *NotificationPool {
	if size < 1 {
		size = 1
	}
	pool := &NotificationPool{
		queue: make(chan model.Job, size*16),
	}

	for i := 0; i < size; i++ {
		worker := &NotificationWorker{id: i, notifier: notifier}
		pool.wg.Add(1)
		go func() {
			defer pool.wg.Done()
			worker.Run(pool.queue)
		}()
	}

	return pool
}

// Push queues job without blocking. A job is dropped with a warning when the
// pool is closed or its queue is full.
func (p *NotificationPool) Push(job model.Job) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		log.Warn("Notification pool is closed, dropping job", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return
	}
	select {
	case p.queue <- job:
	default:
		log.Warn("Notification queue is full, dropping job", zap.String("job_id", job.ID), zap.String("type", job.Type), zap.Int("capacity", cap(p.queue)))
	}
}

// Close stops accepting jobs and waits until the queued ones are delivered.
func (p *NotificationPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}
