package payout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/storyloom/treasury/internal/models"
	"github.com/storyloom/treasury/internal/platform/gateway"
	"github.com/storyloom/treasury/pkg/config"
	"github.com/storyloom/treasury/pkg/logctx"
	"github.com/storyloom/treasury/pkg/tool"
	"github.com/storyloom/treasury/pkg/types"
)

// ErrNoDestination marks a recipient with settled donations but no
// configured payout destination. Their group is skipped, not failed: the
// donations stay unclaimed until a destination exists.
var ErrNoDestination = errors.New("payout: recipient has no configured destination")

// DestinationResolver answers where a recipient's money should go.
type DestinationResolver interface {
	Resolve(ctx context.Context, recipientID string) (*models.PayoutDestination, error)
}

// GatewayRegistry resolves the transfer adapter for a payout method.
type GatewayRegistry interface {
	Get(method types.PaymentMethod) (gateway.Adapter, error)
}

type dbResolver struct {
	db *gorm.DB
}

func NewDBResolver(db *gorm.DB) DestinationResolver { return &dbResolver{db: db} }

func (r *dbResolver) Resolve(ctx context.Context, recipientID string) (*models.PayoutDestination, error) {
	var dest models.PayoutDestination
	if err := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID).First(&dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDestination
		}
		return nil, fmt.Errorf("failed to resolve payout destination: %w", err)
	}
	return &dest, nil
}

type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	log      *zap.SugaredLogger
	registry GatewayRegistry
	resolver DestinationResolver
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, registry GatewayRegistry, resolver DestinationResolver) *Service {
	return &Service{cfg: cfg, db: db, log: log, registry: registry, resolver: resolver}
}

// Run executes one payout sweep: settled, unclaimed donations are grouped by
// recipient and each group above the threshold is transferred as a single
// aggregated payout. Group failures are isolated; the run always continues
// to the next recipient and reports everything at the end.
func (s *Service) Run(ctx context.Context) (*BatchReport, error) {
	log := logctx.FromCtx(ctx, s.log)

	donations, err := s.selectPayable(ctx)
	if err != nil {
		return nil, err
	}

	report := &BatchReport{}
	groups := groupByRecipient(donations)
	log.Infow("payout run started", "donations", len(donations), "groups", len(groups))

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		s.processGroup(ctx, group, report)
	}

	log.Infow("payout run finished",
		"groups", report.GroupsProcessed, "succeeded", report.Succeeded,
		"failed", report.Failed, "skipped", report.Skipped)
	return report, nil
}

func (s *Service) selectPayable(ctx context.Context) ([]*models.Donation, error) {
	var donations []*models.Donation
	if err := s.db.WithContext(ctx).
		Where("status IN ? AND payout_id IS NULL",
			[]types.DonationStatus{types.DonationStatusCollected, types.DonationStatusSucceeded}).
		Order("created_at ASC").
		Find(&donations).Error; err != nil {
		return nil, fmt.Errorf("failed to select payable donations: %w", err)
	}
	return donations, nil
}

type recipientGroup struct {
	RecipientID string
	Donations   []*models.Donation
	NetCents    int64
}

// groupByRecipient buckets donations per recipient and orders the groups by
// recipient id so runs are deterministic.
func groupByRecipient(donations []*models.Donation) []*recipientGroup {
	byRecipient := lo.GroupBy(donations, func(d *models.Donation) string { return d.RecipientID })

	groups := make([]*recipientGroup, 0, len(byRecipient))
	for recipientID, ds := range byRecipient {
		groups = append(groups, &recipientGroup{
			RecipientID: recipientID,
			Donations:   ds,
			NetCents: lo.SumBy(ds, func(d *models.Donation) int64 {
				return d.NetAmountCents
			}),
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].RecipientID < groups[j].RecipientID })
	return groups
}

func (s *Service) processGroup(ctx context.Context, group *recipientGroup, report *BatchReport) {
	log := logctx.FromCtx(ctx, s.log).With("recipient_id", group.RecipientID)

	if group.NetCents < s.cfg.Payout.MinAmountCents {
		log.Infow("payout group below threshold, skipped",
			"net_cents", group.NetCents, "min_cents", s.cfg.Payout.MinAmountCents)
		report.recordSkip()
		return
	}

	dest, err := s.resolver.Resolve(ctx, group.RecipientID)
	if err != nil {
		if errors.Is(err, ErrNoDestination) {
			log.Warnw("payout group skipped: no destination configured",
				"net_cents", group.NetCents)
			report.recordSkip()
			return
		}
		report.recordFailure(group.RecipientID, err)
		return
	}

	adapter, err := s.registry.Get(dest.Method)
	if err != nil {
		report.recordFailure(group.RecipientID, err)
		return
	}

	// Write-ahead record: the payout row exists before any money moves, so a
	// crash mid-transfer leaves an auditable pending row. Its id doubles as
	// the gateway idempotency key.
	p := &models.Payout{
		ID:          tool.GenerateUUIDV7(),
		RecipientID: group.RecipientID,
		AmountCents: group.NetCents,
		Processor:   dest.Method,
		Status:      types.PayoutStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		report.recordFailure(group.RecipientID, fmt.Errorf("failed to create payout record: %w", err))
		return
	}

	transferCtx, cancel := context.WithTimeout(ctx, s.cfg.Payout.TransferTimeout)
	result, err := adapter.CreateTransfer(transferCtx, dest.Destination, p.AmountCents, p.ID)
	cancel()
	if err != nil {
		s.markFailed(ctx, p, err)
		report.recordFailure(group.RecipientID, err)
		return
	}

	if err := s.settle(ctx, p, group, result.Ref); err != nil {
		// The transfer went through but claiming did not commit. The payout
		// row stays pending with the transfer ref recorded for operator
		// reconciliation; re-running would reuse the same idempotency key.
		log.Errorw("payout transferred but settlement failed",
			"payout_id", p.ID, "transfer_ref", result.Ref, "error", err)
		report.recordFailure(group.RecipientID, err)
		return
	}

	log.Infow("payout completed",
		"payout_id", p.ID, "transfer_ref", result.Ref,
		"amount_cents", p.AmountCents, "donations", len(group.Donations))
	report.recordSuccess()
}

// settle marks the payout paid out and claims its donations atomically.
func (s *Service) settle(ctx context.Context, p *models.Payout, group *recipientGroup, transferRef string) error {
	now := time.Now()
	ids := lo.Map(group.Donations, func(d *models.Donation, _ int) string { return d.ID })

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payout{}).
			Where("id = ? AND status = ?", p.ID, types.PayoutStatusPending).
			Updates(map[string]any{
				"status":       types.PayoutStatusPaidOut,
				"transfer_ref": transferRef,
				"completed_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to complete payout: %w", err)
		}

		res := tx.Model(&models.Donation{}).
			Where("id IN ? AND payout_id IS NULL", ids).
			Updates(map[string]any{
				"status":      types.DonationStatusPaidOut,
				"payout_id":   p.ID,
				"paid_out_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to claim donations: %w", res.Error)
		}
		if res.RowsAffected != int64(len(ids)) {
			return fmt.Errorf("claimed %d of %d donations for payout %s",
				res.RowsAffected, len(ids), p.ID)
		}
		return nil
	})
}

// markFailed finalizes a payout whose transfer did not go through. Failed
// payouts are immutable; the donations stay unclaimed and the next run
// creates a fresh payout with a fresh idempotency key.
func (s *Service) markFailed(ctx context.Context, p *models.Payout, cause error) {
	msg := cause.Error()
	if err := s.db.WithContext(ctx).Model(&models.Payout{}).
		Where("id = ? AND status = ?", p.ID, types.PayoutStatusPending).
		Updates(map[string]any{
			"status":        types.PayoutStatusFailed,
			"error_message": msg,
		}).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("failed to mark payout failed",
			"payout_id", p.ID, "error", err)
	}
}
