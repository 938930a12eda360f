package reconciler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/storyloom/treasury/internal/models"
	"github.com/storyloom/treasury/pkg/config"
	"github.com/storyloom/treasury/pkg/logctx"
	"github.com/storyloom/treasury/pkg/tool"
	"github.com/storyloom/treasury/pkg/types"
)

// Notifier is the side-effect boundary invoked on a transition into a
// settled state. Implementations must swallow their own errors.
type Notifier interface {
	NotifyDonation(ctx context.Context, d *models.Donation)
}

type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	log      *zap.SugaredLogger
	notifier Notifier
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, notifier Notifier) Reconciler {
	return &Service{cfg: cfg, db: db, log: log, notifier: notifier}
}

func (s *Service) Reconcile(ctx context.Context, req *Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	log := logctx.FromCtx(ctx, s.log)

	existing, err := s.getByProcessorRef(ctx, req.Method, req.ProcessorRef)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load donation: %w", err)
	}

	if existing == nil {
		res, createErr := s.create(ctx, req)
		if createErr == nil {
			return res, nil
		}
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return nil, createErr
		}
		// Concurrent create from the other path won the unique index on
		// (payment_method, processor_ref). Re-read and fall through to the
		// update path once.
		log.Infow("donation create conflict, retrying as update",
			"processor_ref", req.ProcessorRef, "method", req.Method)
		existing, err = s.getByProcessorRef(ctx, req.Method, req.ProcessorRef)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read donation after conflict: %w", err)
		}
	}

	return s.update(ctx, existing, req)
}

func (s *Service) getByProcessorRef(ctx context.Context, method types.PaymentMethod, ref string) (*models.Donation, error) {
	var d models.Donation
	if err := s.db.WithContext(ctx).
		Where("payment_method = ? AND processor_ref = ?", method, ref).
		First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) create(ctx context.Context, req *Request) (*Result, error) {
	if req.Payload == nil {
		return nil, fmt.Errorf("%w: no donation exists for %s ref %s and no payload was provided",
			ErrValidation, req.Method, req.ProcessorRef)
	}

	d := &models.Donation{
		ID:             tool.GenerateUUIDV7(),
		DonorID:        req.Payload.DonorID,
		RecipientID:    req.Payload.RecipientID,
		AmountCents:    req.Payload.AmountCents,
		NetAmountCents: s.cfg.NetAmountCents(req.Payload.AmountCents),
		PaymentMethod:  req.Method,
		ProcessorRef:   req.ProcessorRef,
		StoryID:        req.Payload.StoryID,
		Message:        req.Payload.Message,
		Status:         req.ProposedStatus,
		Extra: datatypes.NewJSONType(&models.DonationExtra{
			PlatformFeeBps: s.cfg.Payout.PlatformFeeBps,
		}),
	}
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("donation created",
		"donation_id", d.ID, "processor_ref", d.ProcessorRef, "method", d.PaymentMethod,
		"status", d.Status, "amount_cents", d.AmountCents, "reason", req.Reason)
	s.saveLog(ctx, nil, d, req.Reason)

	if d.Status.IsSettled() {
		s.notifier.NotifyDonation(ctx, d)
	}
	return &Result{Donation: d, Created: true, Transitioned: true}, nil
}

func (s *Service) update(ctx context.Context, current *models.Donation, req *Request) (*Result, error) {
	log := logctx.FromCtx(ctx, s.log)

	switch decide(current.Status, req.ProposedStatus) {
	case decisionNoop:
		log.Infow("donation reconcile no-op",
			"donation_id", current.ID, "status", current.Status, "proposed", req.ProposedStatus)
		return &Result{Donation: current}, nil
	case decisionIgnore:
		log.Warnw("donation reconcile ignored: would regress",
			"donation_id", current.ID, "status", current.Status, "proposed", req.ProposedStatus)
		return &Result{Donation: current}, nil
	}

	applied, err := s.applyStatus(ctx, current, req.ProposedStatus)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Another writer moved the donation between our read and update.
		// Re-read once; the forward-only rule makes retrying converge.
		reread, rerr := s.getByProcessorRef(ctx, req.Method, req.ProcessorRef)
		if rerr != nil {
			return nil, fmt.Errorf("failed to re-read donation after update conflict: %w", rerr)
		}
		if decide(reread.Status, req.ProposedStatus) != decisionApply {
			log.Infow("donation reconcile resolved by concurrent writer",
				"donation_id", reread.ID, "status", reread.Status, "proposed", req.ProposedStatus)
			return &Result{Donation: reread}, nil
		}
		applied, err = s.applyStatus(ctx, reread, req.ProposedStatus)
		if err != nil {
			return nil, err
		}
		if !applied {
			return nil, fmt.Errorf("donation %s: update conflict persisted after retry", reread.ID)
		}
		current = reread
	}

	before := *current
	current.Status = req.ProposedStatus
	log.Infow("donation status transitioned",
		"donation_id", current.ID, "from", before.Status, "to", current.Status, "reason", req.Reason)
	s.saveLog(ctx, &before, current, req.Reason)

	if current.Status.IsSettled() {
		s.notifier.NotifyDonation(ctx, current)
	}
	return &Result{Donation: current, Transitioned: true}, nil
}

// applyStatus performs a conditional update guarded by the previously read
// status, so a concurrent writer cannot be overwritten with an earlier state.
func (s *Service) applyStatus(ctx context.Context, d *models.Donation, next types.DonationStatus) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Donation{}).
		Where("id = ? AND status = ?", d.ID, d.Status).
		Update("status", next)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update donation status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// saveLog writes the change audit row asynchronously; errors are logged but
// never returned.
func (s *Service) saveLog(ctx context.Context, before, after *models.Donation, reason types.DonationChangeReason) {
	go func() {
		entry := &models.DonationLog{
			ID:           tool.GenerateUUIDV7(),
			DonationID:   after.ID,
			ProcessorRef: after.ProcessorRef,
			Reason:       reason,
			Before:       datatypes.NewJSONType(before),
			After:        datatypes.NewJSONType(after),
			Extra:        datatypes.JSONMap{},
		}
		if err := s.db.Save(entry).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save donation log: %v", err)
		}
	}()
}
