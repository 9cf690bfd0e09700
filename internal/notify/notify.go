// Package notify delivers push notifications to a device or user token.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/niklo/internal/clock"
	"github.com/danpilch/niklo/internal/planner"
)

// ErrDisabled is returned when no notification backend is configured.
var ErrDisabled = errors.New("notifications are not configured")

// Sender delivers one message to token and returns the backend's message ID.
type Sender interface {
	Send(ctx context.Context, token, title, body string) (string, error)
}

type Backend string

const (
	BackendFCM      Backend = "fcm"
	BackendPushover Backend = "pushover"
	BackendDisabled Backend = "disabled"
)

// Disabled is the Sender used when no backend is configured.
type Disabled struct{}

func (Disabled) Send(context.Context, string, string, string) (string, error) {
	return "", ErrDisabled
}

type Notifier struct {
	sender Sender
	logger *logrus.Logger
}

func NewNotifier(sender Sender, logger *logrus.Logger) *Notifier {
	if sender == nil {
		sender = Disabled{}
	}
	return &Notifier{sender: sender, logger: logger}
}

func (n *Notifier) Send(ctx context.Context, token, title, body string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", errors.New("token is required")
	}

	id, err := n.sender.Send(ctx, token, title, body)
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			return "", err
		}
		return "", fmt.Errorf("sending notification: %w", err)
	}

	n.logger.WithFields(logrus.Fields{
		"title":      title,
		"message_id": id,
	}).Debug("notification sent")

	return id, nil
}

// SendCommutePlan pushes the recommendation for a named commute.
func (n *Notifier) SendCommutePlan(ctx context.Context, token, name string, plan *planner.CommutePlan) (string, error) {
	title, body := CommuteMessage(name, plan)
	return n.Send(ctx, token, title, body)
}

// CommuteMessage renders a plan as a notification title and body.
func CommuteMessage(name string, plan *planner.CommutePlan) (string, string) {
	best := plan.RoadRoute
	if plan.Recommendation == planner.RecommendTrain && plan.TrainRoute != nil {
		best = *plan.TrainRoute
	}

	title := fmt.Sprintf("Leave at %s (%s)", clock.Format(best.LeaveAt), plan.Recommendation)
	if name != "" {
		title = name + ": " + title
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Arrive by %s.\n", clock.Format(plan.Arrival))
	fmt.Fprintf(&b, "Road: leave %s, %d mins. %s\n",
		clock.Format(plan.RoadRoute.LeaveAt), plan.RoadRoute.TotalDurationMins, plan.RoadRoute.Details.Summary)

	if t := plan.TrainRoute; t != nil {
		fmt.Fprintf(&b, "Train: leave %s, %d mins.\n", clock.Format(t.LeaveAt), t.TotalDurationMins)
		fmt.Fprintf(&b, "%s\n%s\n%s", t.Details.Leg1Road, t.Details.Leg2Train, t.Details.Leg3Walk)
	} else {
		b.WriteString("Train: no feasible train.")
	}

	return title, b.String()
}
