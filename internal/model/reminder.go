package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reminder is a user-configured recurring notification.
type Reminder struct {
	ID             string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         string         `gorm:"index;not null" json:"userId"`
	Enabled        bool           `gorm:"index;not null" json:"enabled"`
	Days           []string       `gorm:"serializer:json;type:text" json:"days"`
	Time           string         `gorm:"type:varchar(5);not null" json:"time"`
	Label          string         `gorm:"type:text" json:"label,omitempty"`
	LastSent       *time.Time     `json:"lastSent,omitempty"`
	LastSentStatus DeliveryStatus `gorm:"type:varchar(16)" json:"lastSentStatus,omitempty"`
	LastSentError  *time.Time     `json:"lastSentError,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate assigns an identifier when the caller did not provide one.
func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Weekdays returns the parsed form of Days. Unrecognised names are kept as WeekdayUnknown.
func (r Reminder) Weekdays() []Weekday {
	days := make([]Weekday, 0, len(r.Days))
	for _, name := range r.Days {
		days = append(days, ParseWeekday(name))
	}
	return days
}
