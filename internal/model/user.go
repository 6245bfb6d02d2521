package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultDisplayName is used when a user has neither a name nor a full name.
const DefaultDisplayName = "there"

// User owns reminders and receives their notifications.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email     string    `gorm:"index" json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Name      string    `json:"name,omitempty"`
	FullName  string    `json:"fullName,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// BeforeCreate assigns an identifier when the caller did not provide one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName prefers Name, then FullName, then DefaultDisplayName.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return DefaultDisplayName
}

// Address returns where notifications on channel should go, or "" when the user has none.
func (u User) Address(channel Channel) string {
	switch channel {
	case ChannelEmail:
		return strings.TrimSpace(u.Email)
	case ChannelWhatsApp:
		return strings.TrimSpace(u.Phone)
	default:
		return ""
	}
}
