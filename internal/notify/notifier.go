package notify

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
)

// Notifier fans a rendered notification out to every configured recipient.
// A Notifier with no recipients (or a nil sender) is disabled and reports
// success without sending anything.
type Notifier struct {
	sender     Sender
	recipients []string
}

// NewNotifier creates a Notifier delivering through sender.
func NewNotifier(sender Sender, recipients []string) *Notifier {
	return &Notifier{sender: sender, recipients: recipients}
}

// Enabled reports whether the notifier will actually deliver anything.
func (n *Notifier) Enabled() bool {
	return n != nil && n.sender != nil && len(n.recipients) > 0
}

// NotifyFailure renders and sends the failure notification for the run.
func (n *Notifier) NotifyFailure(ctx context.Context, in domain.NotificationInput) error {
	if !n.Enabled() {
		return nil
	}
	subject, html, err := renderFailure(in)
	if err != nil {
		return err
	}
	return n.deliver(ctx, subject, html)
}

// NotifySuccess renders and sends the success notification for the run.
func (n *Notifier) NotifySuccess(ctx context.Context, in domain.NotificationInput) error {
	if !n.Enabled() {
		return nil
	}
	subject, html, err := renderSuccess(in)
	if err != nil {
		return err
	}
	return n.deliver(ctx, subject, html)
}

// deliver sends to each recipient individually so one bad address does not
// block the rest; per-recipient failures are aggregated.
func (n *Notifier) deliver(ctx context.Context, subject, html string) error {
	var result *multierror.Error
	for _, to := range n.recipients {
		msg := Message{To: to, Subject: subject, HTML: html}
		if err := n.sender.Send(ctx, msg); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
