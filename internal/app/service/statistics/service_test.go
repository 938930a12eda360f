package statistics

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/storyloom/treasury/internal/models"
	"github.com/storyloom/treasury/pkg/tool"
	"github.com/storyloom/treasury/pkg/types"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Donation{}, &models.Payout{}))
	return New(db), db
}

func seedDonation(t *testing.T, db *gorm.DB, recipient string, netCents int64, status types.DonationStatus, payoutID *string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Donation{
		ID:             tool.GenerateUUIDV7(),
		DonorID:        "donor-1",
		RecipientID:    recipient,
		AmountCents:    netCents,
		NetAmountCents: netCents,
		PaymentMethod:  types.PaymentMethodStripe,
		ProcessorRef:   "pi_" + tool.GenerateUUIDV7(),
		Status:         status,
		PayoutID:       payoutID,
	}).Error)
}

func TestGetDonationStatistic_RecipientBalances(t *testing.T) {
	svc, db := newTestService(t)
	payoutID := tool.GenerateUUIDV7()
	seedDonation(t, db, "author-a", 500, types.DonationStatusCollected, nil)
	seedDonation(t, db, "author-a", 300, types.DonationStatusPaidOut, &payoutID)
	seedDonation(t, db, "author-b", 200, types.DonationStatusSucceeded, nil)
	seedDonation(t, db, "author-b", 900, types.DonationStatusFailed, nil)

	res, err := svc.GetDonationStatistic(context.Background(), &DonationStatisticRequest{
		DataItems: []*DonationStatisticDataItem{{ID: StatisticTypeRecipientBalances}},
	})
	require.NoError(t, err)

	items, ok := res.DataItems[StatisticTypeRecipientBalances]
	require.True(t, ok)
	require.Len(t, items, 2)

	// ordered by pending balance, descending
	assert.Equal(t, "author-a", items[0].Label)
	assert.Equal(t, int64(500), items[0].Value)
	assert.Equal(t, int64(300), items[0].Value2)
	assert.Equal(t, "author-b", items[1].Label)
	assert.Equal(t, int64(200), items[1].Value)
	assert.Equal(t, int64(0), items[1].Value2)
}

func TestGetDonationStatistic_AllItemsCollected(t *testing.T) {
	svc, db := newTestService(t)
	seedDonation(t, db, "author-a", 500, types.DonationStatusCollected, nil)

	// Every requested item must land in the response even when all workers
	// finish, and both channels close, before the collection loop starts.
	items := make([]*DonationStatisticDataItem, 0, 8)
	for i := 0; i < 8; i++ {
		items = append(items, &DonationStatisticDataItem{ID: StatisticTypeRecipientBalances})
	}
	res, err := svc.GetDonationStatistic(context.Background(), &DonationStatisticRequest{DataItems: items})
	require.NoError(t, err)
	require.Contains(t, res.DataItems, StatisticTypeRecipientBalances)
	assert.Len(t, res.DataItems[StatisticTypeRecipientBalances], 1)
}

func TestGetDonationStatistic_InvalidItem(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetDonationStatistic(context.Background(), &DonationStatisticRequest{
		DataItems: []*DonationStatisticDataItem{
			{ID: StatisticTypeRecipientBalances},
			{ID: StatisticType("bogus")},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data item id")
}
