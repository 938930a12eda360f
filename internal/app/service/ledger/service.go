package ledger

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storyloom/treasury/internal/models"
	"github.com/storyloom/treasury/pkg/types"
)

// Service provides read-only listing over the donation and payout tables
// for admin pages. Mutation goes through the reconciler and payout services.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanDonationsResponse struct {
	Items []*models.Donation `json:"items"`
	Total int64              `json:"total"`
}

type ScanPayoutsResponse struct {
	Items []*models.Payout `json:"items"`
	Total int64            `json:"total"`
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

func (s *Service) ScanDonations(ctx context.Context, req *ScanRequest) (*ScanDonationsResponse, error) {
	var rows []*models.Donation
	total, err := s.scan(ctx, req, &models.Donation{}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan donations: %w", err)
	}
	return &ScanDonationsResponse{Items: rows, Total: total}, nil
}

func (s *Service) ScanPayouts(ctx context.Context, req *ScanRequest) (*ScanPayoutsResponse, error) {
	var rows []*models.Payout
	total, err := s.scan(ctx, req, &models.Payout{}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan payouts: %w", err)
	}
	return &ScanPayoutsResponse{Items: rows, Total: total}, nil
}

func (s *Service) scan(ctx context.Context, req *ScanRequest, model any, dest any) (int64, error) {
	if req == nil {
		return 0, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(model)
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, err
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
