// Package notify delivers reader notifications.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/config"
	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
)

type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// NewNotifier returns a SendGrid notifier when an API key is configured and a
// log notifier otherwise.
func NewNotifier(opts *config.Options) Notifier {
	if opts.SendGridAPIKey == "" {
		log.Info("No SendGrid API key configured, notifications are logged only")
		return &LogNotifier{}
	}
	return NewSendGridNotifier(opts.SendGridAPIKey, opts.MailFromAddress, opts.MailFromName)
}

// LogNotifier writes notifications to the log.
type LogNotifier struct{}

func (*LogNotifier) Notify(_ context.Context, n *model.Notification) error {
	log.Info("Notification",
		zap.Int32("user_id", n.UserID),
		zap.String("contact", n.Contact),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body))
	return nil
}
