package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

type fcmClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender sends through Firebase Cloud Messaging. The token passed to Send
// is a device registration token.
type FCMSender struct {
	client fcmClient
	logger *logrus.Logger
}

// NewFCMSender initialises the Firebase app from service account JSON.
func NewFCMSender(ctx context.Context, credentialsJSON []byte, logger *logrus.Logger) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("initialising firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating messaging client: %w", err)
	}

	return &FCMSender{client: client, logger: logger}, nil
}

func (s *FCMSender) Send(ctx context.Context, token, title, body string) (string, error) {
	id, err := s.client.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Token: token,
	})
	if err != nil {
		return "", fmt.Errorf("sending fcm message: %w", err)
	}

	s.logger.WithField("message_id", id).Debug("fcm accepted message")
	return id, nil
}
