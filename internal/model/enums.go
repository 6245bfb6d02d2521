package model

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a day of the week as stored on a reminder.
// Values match time.Weekday; WeekdayUnknown never matches any day.
type Weekday int

const (
	WeekdayUnknown Weekday = -1
	Sunday                 = Weekday(time.Sunday)
	Monday                 = Weekday(time.Monday)
	Tuesday                = Weekday(time.Tuesday)
	Wednesday              = Weekday(time.Wednesday)
	Thursday               = Weekday(time.Thursday)
	Friday                 = Weekday(time.Friday)
	Saturday               = Weekday(time.Saturday)
)

var weekdayNames = map[string]Weekday{
	"sunday":    Sunday,
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
	"saturday":  Saturday,
}

// ParseWeekday maps a full English day name, in any case, to a Weekday.
func ParseWeekday(name string) Weekday {
	if day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return day
	}
	return WeekdayUnknown
}

// Matches reports whether d is the same day as t.
func (d Weekday) Matches(t time.Weekday) bool {
	return d != WeekdayUnknown && time.Weekday(d) == t
}

func (d Weekday) String() string {
	if d == WeekdayUnknown {
		return "unknown"
	}
	return time.Weekday(d).String()
}

// DeliveryStatus records the outcome of the last delivery attempt.
type DeliveryStatus string

const (
	DeliveryStatusNone    DeliveryStatus = ""
	DeliveryStatusSuccess DeliveryStatus = "success"
	DeliveryStatusFailed  DeliveryStatus = "failed"
	DeliveryStatusUnknown DeliveryStatus = "unknown"
)

// ParseDeliveryStatus normalises a stored status; anything unrecognised is DeliveryStatusUnknown.
func ParseDeliveryStatus(value string) DeliveryStatus {
	switch DeliveryStatus(strings.ToLower(strings.TrimSpace(value))) {
	case DeliveryStatusNone:
		return DeliveryStatusNone
	case DeliveryStatusSuccess:
		return DeliveryStatusSuccess
	case DeliveryStatusFailed:
		return DeliveryStatusFailed
	default:
		return DeliveryStatusUnknown
	}
}

// Channel is the transport a notification is delivered over.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// ParseChannel validates a configured delivery channel.
func ParseChannel(value string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(value))) {
	case ChannelEmail:
		return ChannelEmail, nil
	case ChannelWhatsApp:
		return ChannelWhatsApp, nil
	default:
		return "", fmt.Errorf("unknown delivery channel %q", value)
	}
}
