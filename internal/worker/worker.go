package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
)

const deliveryTimeout = 30 * time.Second

type Worker interface {
	Run(c <-chan model.Job)
}

type NotificationWorker struct {
	id       int
	notifier Notifier
}

// Run delivers jobs until c is closed. A failed delivery is logged and dropped.
func (w *NotificationWorker) Run(c <-chan model.Job) {
	log.Debug("NotificationWorker is running", zap.Int("worker_id", w.id))

	for job := range c {
		if job.Item == nil {
			log.Warn("Job without notification", zap.Int("worker_id", w.id), zap.String("job_id", job.ID))
			continue
		}

		log.Debug("Job received by worker",
			zap.Int("worker_id", w.id),
			zap.String("job_id", job.ID),
			zap.String("type", job.Type),
			zap.Int32("user_id", job.Item.UserID))

		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		err := w.notifier.Notify(ctx, job.Item)
		cancel()
		if err != nil {
			log.Error("Failed to deliver notification",
				zap.String("job_id", job.ID),
				zap.String("type", job.Type),
				zap.Int32("user_id", job.Item.UserID),
				zap.Error(err))
			continue
		}
	}

	log.Debug("NotificationWorker stopped", zap.Int("worker_id", w.id))
}
