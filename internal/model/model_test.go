package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	t.Parallel()

	cases := map[string]Weekday{
		"Monday":     Monday,
		"monday":     Monday,
		"SUNDAY":     Sunday,
		" Saturday ": Saturday,
		"Mon":        WeekdayUnknown,
		"Mondy":      WeekdayUnknown,
		"":           WeekdayUnknown,
	}

	for input, want := range cases {
		assert.Equalf(t, want, ParseWeekday(input), "ParseWeekday(%q)", input)
	}
}

func TestWeekdayUnknownNeverMatches(t *testing.T) {
	t.Parallel()

	for d := time.Sunday; d <= time.Saturday; d++ {
		assert.False(t, WeekdayUnknown.Matches(d), d.String())
		assert.True(t, Weekday(d).Matches(d), d.String())
	}
}

func TestParseDeliveryStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DeliveryStatusNone, ParseDeliveryStatus(""))
	assert.Equal(t, DeliveryStatusSuccess, ParseDeliveryStatus("Success"))
	assert.Equal(t, DeliveryStatusFailed, ParseDeliveryStatus("failed"))
	assert.Equal(t, DeliveryStatusUnknown, ParseDeliveryStatus("pending"))
}

func TestParseChannel(t *testing.T) {
	t.Parallel()

	ch, err := ParseChannel("Email")
	require.NoError(t, err)
	assert.Equal(t, ChannelEmail, ch)

	ch, err = ParseChannel("whatsapp")
	require.NoError(t, err)
	assert.Equal(t, ChannelWhatsApp, ch)

	_, err = ParseChannel("pigeon")
	assert.Error(t, err)
}

func TestUserDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ann", User{Name: "Ann", FullName: "Ann Lee"}.DisplayName())
	assert.Equal(t, "Ann Lee", User{FullName: "Ann Lee"}.DisplayName())
	assert.Equal(t, DefaultDisplayName, User{Name: "  "}.DisplayName())
}

func TestUserAddress(t *testing.T) {
	t.Parallel()

	u := User{Email: "ann@example.com", Phone: "+15550100"}
	assert.Equal(t, "ann@example.com", u.Address(ChannelEmail))
	assert.Equal(t, "+15550100", u.Address(ChannelWhatsApp))
	assert.Empty(t, u.Address(Channel("fax")))
}

func TestReminderWeekdays(t *testing.T) {
	t.Parallel()

	r := Reminder{Days: []string{"monday", "Funday", "FRIDAY"}}
	assert.Equal(t, []Weekday{Monday, WeekdayUnknown, Friday}, r.Weekdays())
}
