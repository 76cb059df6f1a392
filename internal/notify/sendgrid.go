package notify

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/log"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/util"
)

type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridNotifier e-mails readers whose contact is an address. Other
// contacts, such as phone numbers, go to the fallback.
type SendGridNotifier struct {
	client   mailSender
	from     *mail.Email
	fallback Notifier
}

func NewSendGridNotifier(apiKey, fromAddress, fromName string) *SendGridNotifier {
	return &SendGridNotifier{
		client:   sendgrid.NewSendClient(apiKey),
		from:     mail.NewEmail(fromName, fromAddress),
		fallback: &LogNotifier{},
	}
}

func (s *SendGridNotifier) Notify(ctx context.Context, n *model.Notification) error {
	if !util.ValidateEmail(n.Contact) {
		log.Debug("Contact is not an e-mail address", zap.Int32("user_id", n.UserID))
		return s.fallback.Notify(ctx, n)
	}

	to := mail.NewEmail(n.Name, n.Contact)
	message := mail.NewSingleEmail(s.from, n.Subject, to, n.Body, "")
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return errors.Wrap(err, "failed to send email")
	}
	if response.StatusCode >= 400 {
		return errors.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	log.Debug("Notification e-mailed", zap.Int32("user_id", n.UserID), zap.Int("status", response.StatusCode))
	return nil
}
