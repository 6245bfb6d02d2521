package database

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pathakanu/remindmail/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err, "open sqlite memory")
	require.NoError(t, Migrate(db), "migrate")

	return NewStore(db), db
}

func TestListEnabledReminders(t *testing.T) {
	t.Parallel()
	store, db := newTestStore(t)

	require.NoError(t, db.Create(&model.Reminder{ID: "on", UserID: "u1", Enabled: true, Days: []string{"Monday"}, Time: "09:00"}).Error)
	require.NoError(t, db.Create(&model.Reminder{ID: "off", UserID: "u1", Enabled: false, Days: []string{"Monday"}, Time: "09:00"}).Error)

	reminders, err := store.ListEnabledReminders(context.Background())
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "on", reminders[0].ID)
	assert.Equal(t, []string{"Monday"}, reminders[0].Days)
}

func TestListEnabledRemindersError(t *testing.T) {
	t.Parallel()
	store, db := newTestStore(t)

	require.NoError(t, db.Migrator().DropTable(&model.Reminder{}))

	_, err := store.ListEnabledReminders(context.Background())
	assert.Error(t, err)
}

func TestGetUser(t *testing.T) {
	t.Parallel()
	store, db := newTestStore(t)

	user := model.User{Email: "ann@example.com", Name: "Ann"}
	require.NoError(t, db.Create(&user).Error)
	require.NotEmpty(t, user.ID, "BeforeCreate assigns an id")

	got, err := store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got.Email)

	_, err = store.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRecordDeliverySuccess(t *testing.T) {
	t.Parallel()
	store, db := newTestStore(t)

	failedAt := time.Date(2026, time.October, 11, 9, 1, 0, 0, time.UTC)
	reminder := model.Reminder{
		UserID:         "u1",
		Enabled:        true,
		Days:           []string{"Monday"},
		Time:           "09:00",
		Label:          "stretch",
		LastSentStatus: model.DeliveryStatusFailed,
		LastSentError:  &failedAt,
	}
	require.NoError(t, db.Create(&reminder).Error)

	sentAt := time.Date(2026, time.October, 12, 9, 5, 0, 0, time.UTC)
	require.NoError(t, store.RecordDelivery(context.Background(), reminder.ID, Delivery{Status: model.DeliveryStatusSuccess, At: sentAt}))

	var got model.Reminder
	require.NoError(t, db.First(&got, "id = ?", reminder.ID).Error)
	require.NotNil(t, got.LastSent)
	assert.True(t, got.LastSent.Equal(sentAt))
	assert.Equal(t, model.DeliveryStatusSuccess, got.LastSentStatus)
	assert.Equal(t, "stretch", got.Label)
	assert.Equal(t, "09:00", got.Time)
	assert.Equal(t, []string{"Monday"}, got.Days)
}

func TestRecordDeliveryFailureKeepsLastSent(t *testing.T) {
	t.Parallel()
	store, db := newTestStore(t)

	previous := time.Date(2026, time.October, 5, 9, 2, 0, 0, time.UTC)
	reminder := model.Reminder{UserID: "u1", Enabled: true, Days: []string{"Monday"}, Time: "09:00", LastSent: &previous}
	require.NoError(t, db.Create(&reminder).Error)

	failedAt := time.Date(2026, time.October, 12, 9, 5, 0, 0, time.UTC)
	require.NoError(t, store.RecordDelivery(context.Background(), reminder.ID, Delivery{Status: model.DeliveryStatusFailed, At: failedAt}))

	var got model.Reminder
	require.NoError(t, db.First(&got, "id = ?", reminder.ID).Error)
	require.NotNil(t, got.LastSent)
	assert.True(t, got.LastSent.Equal(previous))
	assert.Equal(t, model.DeliveryStatusFailed, got.LastSentStatus)
	require.NotNil(t, got.LastSentError)
	assert.True(t, got.LastSentError.Equal(failedAt))
}

func TestRecordDeliveryRejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	err := store.RecordDelivery(context.Background(), "any", Delivery{Status: model.DeliveryStatusUnknown, At: time.Now()})
	assert.Error(t, err)
}

func TestRecordDeliveryMissingReminder(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	err := store.RecordDelivery(context.Background(), "missing", Delivery{Status: model.DeliveryStatusSuccess, At: time.Now()})
	assert.Error(t, err)
}
