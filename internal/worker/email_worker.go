// Package worker consumes domain events from the events queue.
package worker

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/domain/event"
	"github.com/oksasatya/go-task-manager/pkg/mailer"
	mailtpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

const sendTimeout = 15 * time.Second

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack     Outcome = iota // done, or nothing to do
	Drop                   // malformed; never redeliver
	Requeue                // transient failure
)

type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// EmailWorker turns user.registered events into welcome emails.
type EmailWorker struct {
	Sender Sender
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewEmailWorker(sender Sender, cfg *config.Config, logger *logrus.Logger) *EmailWorker {
	return &EmailWorker{Sender: sender, Cfg: cfg, Logger: logger}
}

// JobFor maps an event to an email job. ok is false for events that send no mail.
func (w *EmailWorker) JobFor(evt event.Event) (mailer.EmailJob, bool) {
	if evt.Type != event.UserRegistered || evt.User == nil || evt.User.Email == "" {
		return mailer.EmailJob{}, false
	}
	return mailer.EmailJob{
		To:       evt.User.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(w.Cfg, evt.User.Name, evt.User.Email, mailtpl.WithTime(evt.OccurredAt)),
	}, true
}

// Handle processes one message body. msgType is the AMQP type property.
func (w *EmailWorker) Handle(ctx context.Context, msgType string, body []byte) Outcome {
	if msgType != "" && msgType != event.UserRegistered {
		return Ack
	}
	var evt event.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		w.Logger.WithError(err).Warn("bad event message")
		return Drop
	}
	job, ok := w.JobFor(evt)
	if !ok {
		return Ack
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			w.Logger.WithError(err).WithField("template", job.Template).Error("render failed")
			return Drop
		}
		subject, text, html = s, t, h
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		w.Logger.WithError(err).WithField("user_id", evt.UserID).Warn("send failed")
		return Requeue
	}
	w.Logger.WithField("user_id", evt.UserID).Info("welcome email sent")
	return Ack
}

// Run consumes deliveries until the channel closes or ctx is done.
func (w *EmailWorker) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			switch w.Handle(ctx, msg.Type, msg.Body) {
			case Ack:
				_ = msg.Ack(false)
			case Drop:
				_ = msg.Nack(false, false)
			case Requeue:
				_ = msg.Nack(false, true)
			}
		}
	}
}
