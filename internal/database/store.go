package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pathakanu/remindmail/internal/model"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned by GetUser when no user has the requested id.
var ErrUserNotFound = errors.New("user not found")

// Delivery is the outcome of one send attempt, as written back to a reminder.
type Delivery struct {
	Status model.DeliveryStatus
	At     time.Time
}

// Store reads reminders and users and records delivery outcomes.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ListEnabledReminders returns every reminder with enabled set.
func (s *Store) ListEnabledReminders(ctx context.Context) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := s.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("created_at ASC").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list enabled reminders: %w", err)
	}
	return reminders, nil
}

// GetUser loads one user by id.
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}

// RecordDelivery writes the delivery fields of a reminder and leaves every other column alone.
// A success sets last_sent; a failure sets last_sent_error and never touches last_sent.
func (s *Store) RecordDelivery(ctx context.Context, reminderID string, d Delivery) error {
	updates := map[string]interface{}{
		"last_sent_status": d.Status,
	}
	switch d.Status {
	case model.DeliveryStatusSuccess:
		updates["last_sent"] = d.At
	case model.DeliveryStatusFailed:
		updates["last_sent_error"] = d.At
	default:
		return fmt.Errorf("record delivery %s: unexpected status %q", reminderID, d.Status)
	}

	result := s.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ?", reminderID).
		UpdateColumns(updates)
	if result.Error != nil {
		return fmt.Errorf("record delivery %s: %w", reminderID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("record delivery %s: reminder not found", reminderID)
	}
	return nil
}
