// Package processor runs reminder processing cycles: select due reminders,
// deliver them, and record the outcome on each reminder.
package processor

import (
	"context"
	"errors"
	"time"

	"github.com/pathakanu/remindmail/internal/database"
	"github.com/pathakanu/remindmail/internal/lease"
	"github.com/pathakanu/remindmail/internal/model"
	"github.com/pathakanu/remindmail/internal/schedule"
	"github.com/sirupsen/logrus"
)

// Store is the persistence the processor needs.
type Store interface {
	ListEnabledReminders(ctx context.Context) ([]model.Reminder, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	RecordDelivery(ctx context.Context, reminderID string, d database.Delivery) error
}

// Sender delivers one reminder and reports whether it was accepted.
type Sender interface {
	Channel() model.Channel
	SendReminder(ctx context.Context, address, displayName, targetTime, label string) bool
}

// Summary is the outcome of one cycle.
type Summary struct {
	Success   bool   `json:"success"`
	Processed int    `json:"processed"`
	Sent      int    `json:"sent"`
	Error     string `json:"error,omitempty"`
}

// Processor holds the long-lived collaborators shared by every cycle.
// Cycles are not serialised: two concurrent calls can both see a reminder
// as unsent and both deliver it, unless a Locker is configured.
type Processor struct {
	store    Store
	sender   Sender
	clock    schedule.Clock
	logger   logrus.FieldLogger
	locker   lease.Locker
	leaseTTL time.Duration
}

// Option configures optional Processor behaviour.
type Option func(*Processor)

// WithLocker claims each due reminder for ttl before delivering it.
func WithLocker(locker lease.Locker, ttl time.Duration) Option {
	return func(p *Processor) {
		p.locker = locker
		p.leaseTTL = ttl
	}
}

func New(store Store, sender Sender, clock schedule.Clock, logger logrus.FieldLogger, opts ...Option) *Processor {
	p := &Processor{
		store:  store,
		sender: sender,
		clock:  clock,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessReminders runs one cycle. Only a failure to list reminders aborts it;
// every other failure is confined to the reminder it concerns.
func (p *Processor) ProcessReminders(ctx context.Context) Summary {
	now := p.clock.Now()

	reminders, err := p.store.ListEnabledReminders(ctx)
	if err != nil {
		p.logger.WithError(err).Error("processor: fetch reminders")
		return Summary{Success: false, Error: err.Error()}
	}

	summary := Summary{Success: true}
	for _, reminder := range reminders {
		if !schedule.IsDue(reminder, now) {
			continue
		}

		log := p.logger.WithFields(logrus.Fields{
			"reminder_id": reminder.ID,
			"user_id":     reminder.UserID,
		})

		user, err := p.store.GetUser(ctx, reminder.UserID)
		if err != nil {
			if errors.Is(err, database.ErrUserNotFound) {
				log.Warn("processor: user not found, skipping reminder")
			} else {
				log.WithError(err).Error("processor: resolve user, skipping reminder")
			}
			continue
		}

		address := user.Address(p.sender.Channel())
		if address == "" {
			log.WithField("channel", p.sender.Channel()).Warn("processor: user has no address for channel, skipping reminder")
			continue
		}

		if !p.claim(ctx, log, reminder.ID, now) {
			continue
		}

		summary.Processed++
		if p.sender.SendReminder(ctx, address, user.DisplayName(), reminder.Time, reminder.Label) {
			summary.Sent++
			p.record(ctx, log, reminder.ID, database.Delivery{Status: model.DeliveryStatusSuccess, At: now})
		} else {
			p.record(ctx, log, reminder.ID, database.Delivery{Status: model.DeliveryStatusFailed, At: now})
		}
	}

	p.logger.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"sent":      summary.Sent,
	}).Info("processor: cycle complete")
	return summary
}

// claim reports whether this cycle may deliver the reminder.
// Without a locker every reminder is claimable; a locker error degrades to the same.
func (p *Processor) claim(ctx context.Context, log logrus.FieldLogger, reminderID string, now time.Time) bool {
	if p.locker == nil {
		return true
	}
	ok, err := p.locker.Acquire(ctx, lease.ReminderKey(reminderID, now), p.leaseTTL)
	if err != nil {
		log.WithError(err).Warn("processor: lease unavailable, delivering without it")
		return true
	}
	if !ok {
		log.Info("processor: reminder claimed by another cycle, skipping")
	}
	return ok
}

func (p *Processor) record(ctx context.Context, log logrus.FieldLogger, reminderID string, d database.Delivery) {
	if err := p.store.RecordDelivery(ctx, reminderID, d); err != nil {
		log.WithError(err).WithField("status", d.Status).Error("processor: record delivery")
	}
}
