package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/storyloom/treasury/internal/models"
	"github.com/storyloom/treasury/pkg/cache"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Notification{}, &models.NotificationCounter{}))
	return New(db, cache.NewMemory(), zap.NewNop().Sugar()), db
}

func testDonation(id string) *models.Donation {
	return &models.Donation{ID: id, DonorID: "donor-1", RecipientID: "recipient-1", AmountCents: 2500}
}

func TestNotifyDonation_ExactlyOnce(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	svc.NotifyDonation(ctx, testDonation("don-1"))
	svc.NotifyDonation(ctx, testDonation("don-1"))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	unread, err := svc.UnreadCount(ctx, "recipient-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestNotifyDonation_DedupBothOrders(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	// Interleave redeliveries the way the confirmation and webhook paths
	// can: each donation still yields exactly one row and one increment.
	svc.NotifyDonation(ctx, testDonation("don-1"))
	svc.NotifyDonation(ctx, testDonation("don-2"))
	svc.NotifyDonation(ctx, testDonation("don-1"))
	svc.NotifyDonation(ctx, testDonation("don-2"))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	var counter models.NotificationCounter
	require.NoError(t, db.Where("user_id = ?", "recipient-1").First(&counter).Error)
	assert.Equal(t, int64(2), counter.Unread)
}

func TestNotificationUniqueIndexBacksDedup(t *testing.T) {
	svc, db := newTestService(t)

	svc.NotifyDonation(context.Background(), testDonation("don-1"))

	// A concurrent writer that misses the fast-path read still cannot
	// produce a second row: the (user_id, donation_id) index rejects it.
	dup := buildDonationNotification(testDonation("don-1"))
	err := db.Create(dup).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}
