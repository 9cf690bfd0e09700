package notify

import (
	"context"
	"fmt"

	"github.com/gregdel/pushover"
	"github.com/sirupsen/logrus"
)

type pushoverApp interface {
	SendMessage(*pushover.Message, *pushover.Recipient) (*pushover.Response, error)
}

// PushoverSender sends through a Pushover application. The token passed to
// Send is the recipient's user key.
type PushoverSender struct {
	app    pushoverApp
	logger *logrus.Logger
}

func NewPushoverSender(appToken string, logger *logrus.Logger) *PushoverSender {
	return &PushoverSender{
		app:    pushover.New(appToken),
		logger: logger,
	}
}

func (s *PushoverSender) Send(ctx context.Context, token, title, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	msg := pushover.NewMessageWithTitle(body, title)
	msg.Priority = pushover.PriorityNormal

	resp, err := s.app.SendMessage(msg, pushover.NewRecipient(token))
	if err != nil {
		return "", fmt.Errorf("sending pushover notification: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"status":     resp.Status,
		"request_id": resp.ID,
	}).Debug("pushover accepted message")

	return resp.ID, nil
}
