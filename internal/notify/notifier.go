package notify

import (
	"context"

	"github.com/Lixing-Zhang/tracksuit-store/backend/internal/models"
)

// Notifier turns persisted records into notification jobs
type Notifier struct {
	mailer      Mailer
	publisher   Publisher
	notifyEmail string
}

// NewNotifier creates a Notifier. publisher may be nil when no event bus is
// configured; an empty notifyEmail disables admin notifications.
func NewNotifier(mailer Mailer, publisher Publisher, notifyEmail string) *Notifier {
	return &Notifier{
		mailer:      mailer,
		publisher:   publisher,
		notifyEmail: notifyEmail,
	}
}

func (n *Notifier) ContactJobs(c *models.ContactMessage) []Job {
	var jobs []Job
	if n.notifyEmail != "" {
		jobs = append(jobs, n.mailJob("contact-admin-email", func() (Email, error) {
			return ContactNotification(c, n.notifyEmail)
		}))
	}
	return n.withEvent(jobs, EventContactCreated, c.ID, c)
}

func (n *Notifier) OrderJobs(o *models.Order) []Job {
	var jobs []Job
	if n.notifyEmail != "" {
		jobs = append(jobs, n.mailJob("order-admin-email", func() (Email, error) {
			return OrderNotification(o, n.notifyEmail)
		}))
	}
	return n.withEvent(jobs, EventOrderCreated, o.ID, o)
}

func (n *Notifier) TracksuitOrderJobs(o *models.TracksuitOrder) []Job {
	var jobs []Job
	if n.notifyEmail != "" {
		jobs = append(jobs, n.mailJob("tracksuit-admin-email", func() (Email, error) {
			return TracksuitOrderNotification(o, n.notifyEmail)
		}))
	}
	jobs = append(jobs, n.mailJob("tracksuit-customer-confirmation", func() (Email, error) {
		return CustomerConfirmation(o)
	}))
	return n.withEvent(jobs, EventTracksuitOrderCreated, o.ID, o)
}

func (n *Notifier) mailJob(name string, build func() (Email, error)) Job {
	return Job{
		Name: name,
		Run: func(ctx context.Context) error {
			email, err := build()
			if err != nil {
				return err
			}
			return n.mailer.Send(ctx, email)
		},
	}
}

func (n *Notifier) withEvent(jobs []Job, eventType, key string, payload any) []Job {
	if n.publisher == nil {
		return jobs
	}
	return append(jobs, Job{
		Name: eventType,
		Run: func(ctx context.Context) error {
			return n.publisher.Publish(ctx, eventType, key, payload)
		},
	})
}
