package statistics

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storyloom/treasury/internal/models"
	"github.com/storyloom/treasury/pkg/types"
)

type StatisticType string

const (
	// Daily counts and gross volume over the donation table
	StatisticTypeDailyDonationCount StatisticType = "daily_donation_count"
	StatisticTypeDailyGrossCents    StatisticType = "daily_gross_cents"

	// Per-recipient collected vs paid-out net balances
	StatisticTypeRecipientBalances StatisticType = "recipient_balances"

	// Daily payout outcomes (succeeded vs failed)
	StatisticTypePayoutOutcomes StatisticType = "payout_outcomes"
)

type DonationStatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type DonationStatisticRequest struct {
	Filters   []*types.CommonFilter        `json:"filters"`
	DataItems []*DonationStatisticDataItem `json:"data_items"`
}

// Build composes a WHERE clause from the request filters.
func (f *DonationStatisticRequest) Build(builder clause.Builder) {
	if f == nil || len(f.Filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, filter := range f.Filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		filter.Build(builder)
	}
}

type DonationStatisticResponseDataItem struct {
	Date   string `json:"date,omitempty"`
	Label  string `json:"label,omitempty"`
	Value  int64  `json:"value"`
	Value2 int64  `json:"value2,omitempty"`
}

type DonationStatisticResponse struct {
	DataItems map[StatisticType][]DonationStatisticResponseDataItem `json:"data_items"`
}

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) getDailyDonationCount(ctx context.Context, request *DonationStatisticRequest) ([]DonationStatisticResponseDataItem, error) {
	var results []DonationStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Donation{}).TableName()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, status as label, count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Group("status").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyGrossCents(ctx context.Context, request *DonationStatisticRequest) ([]DonationStatisticResponseDataItem, error) {
	var results []DonationStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Donation{}).TableName()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, sum(amount_cents) as value, sum(net_amount_cents) as value2").
		Where("status != ?", types.DonationStatusFailed).
		Where(clause.Where{Exprs: []clause.Expression{request}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// getRecipientBalances reports, per recipient, net cents still awaiting
// payout (value) and net cents already paid out (value2).
func (s *Service) getRecipientBalances(ctx context.Context, _ *DonationStatisticRequest) ([]DonationStatisticResponseDataItem, error) {
	var results []DonationStatisticResponseDataItem
	err := s.db.WithContext(ctx).Raw(`
SELECT recipient_id as label,
       COALESCE(SUM(net_amount_cents) FILTER (WHERE status IN (?, ?) AND payout_id IS NULL), 0) as value,
       COALESCE(SUM(net_amount_cents) FILTER (WHERE status = ?), 0) as value2
FROM donation
GROUP BY recipient_id
ORDER BY value DESC
`, types.DonationStatusCollected, types.DonationStatusSucceeded, types.DonationStatusPaidOut).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getPayoutOutcomes(ctx context.Context, _ *DonationStatisticRequest) ([]DonationStatisticResponseDataItem, error) {
	var results []DonationStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Payout{}).TableName()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, status as label, count(*) as value, sum(amount_cents) as value2").
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Group("status").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDonationStatistic(ctx context.Context, request *DonationStatisticRequest, dataItem *DonationStatisticDataItem) ([]DonationStatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailyDonationCount:
		return s.getDailyDonationCount(ctx, request)
	case StatisticTypeDailyGrossCents:
		return s.getDailyGrossCents(ctx, request)
	case StatisticTypeRecipientBalances:
		return s.getRecipientBalances(ctx, request)
	case StatisticTypePayoutOutcomes:
		return s.getPayoutOutcomes(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

func (s *Service) GetDonationStatistic(ctx context.Context, request *DonationStatisticRequest) (*DonationStatisticResponse, error) {
	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []DonationStatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *DonationStatisticDataItem) {
			defer wg.Done()
			res, err := s.getDonationStatistic(ctx, request, di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []DonationStatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	go func() { wg.Wait(); close(errChan); close(resChan) }()

	// Drain the closed result channel first so a slow item cannot be dropped,
	// then report the first error, if any.
	results := make(map[StatisticType][]DonationStatisticResponseDataItem)
	for entry := range resChan {
		results[entry.Key] = entry.Value
	}
	if err := <-errChan; err != nil {
		return nil, err
	}
	return &DonationStatisticResponse{DataItems: results}, nil
}
