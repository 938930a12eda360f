package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storyloom/treasury/internal/models"
	"github.com/storyloom/treasury/pkg/cache"
	"github.com/storyloom/treasury/pkg/logctx"
	"github.com/storyloom/treasury/pkg/tool"
)

const unreadCacheTTL = 10 * time.Minute

// Service creates exactly one donation notification per donation regardless
// of how many times the confirmation and webhook paths fire. The guarantee
// is constraint-backed: a unique index on (user_id, donation_id) turns the
// insert into an insert-if-absent primitive; the read before it is only a
// fast path.
type Service struct {
	db    *gorm.DB
	cache cache.Cache
	log   *zap.SugaredLogger
}

func New(db *gorm.DB, c cache.Cache, log *zap.SugaredLogger) *Service {
	return &Service{db: db, cache: c, log: log}
}

// NotifyDonation ensures one notification row and one unread increment for
// the donation. Errors never propagate: the money has already moved, and a
// notification failure must not fail payment confirmation or webhook
// acknowledgment.
func (s *Service) NotifyDonation(ctx context.Context, d *models.Donation) {
	if d == nil || d.ID == "" {
		return
	}
	log := logctx.FromCtx(ctx, s.log)

	var existing models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND donation_id = ?", d.RecipientID, models.NotificationTypeDonation, d.ID).
		First(&existing).Error
	if err == nil {
		log.Infow("donation already notified", "donation_id", d.ID, "notification_id", existing.ID)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Errorw("notification lookup failed", "donation_id", d.ID, "error", err.Error())
		return
	}

	n := buildDonationNotification(d)
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return err
		}
		return bumpUnread(tx, d.RecipientID, 1)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			// Lost the race to the other path; the row exists, nothing to do.
			log.Infow("donation already notified", "donation_id", d.ID)
			return
		}
		log.Errorw("failed to create donation notification", "donation_id", d.ID, "error", txErr.Error())
		return
	}

	// Best-effort hot counter; the DB row is the source of truth.
	if _, err := s.cache.Incr(ctx, unreadKey(d.RecipientID), 1); err != nil {
		log.Warnw("unread cache incr failed", "user_id", d.RecipientID, "error", err.Error())
	} else {
		_ = s.cache.Expire(ctx, unreadKey(d.RecipientID), unreadCacheTTL)
	}

	log.Infow("donation notification created",
		"donation_id", d.ID, "recipient_id", d.RecipientID, "notification_id", n.ID)
}

func buildDonationNotification(d *models.Donation) *models.Notification {
	return &models.Notification{
		ID:         tool.GenerateUUIDV7(),
		UserID:     d.RecipientID,
		Type:       models.NotificationTypeDonation,
		Title:      "You received a donation",
		Message:    fmt.Sprintf("A reader donated $%d.%02d to you.", d.AmountCents/100, d.AmountCents%100),
		DonationID: &d.ID,
		Content: datatypes.NewJSONType(&models.NotificationContent{
			DonationID:  d.ID,
			DonorID:     d.DonorID,
			AmountCents: d.AmountCents,
			StoryID:     d.StoryID,
			Message:     d.Message,
		}),
	}
}

// bumpUnread adjusts the durable unread counter, flooring at zero.
func bumpUnread(tx *gorm.DB, userID string, delta int64) error {
	if delta >= 0 {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"unread": gorm.Expr("notification_counter.unread + ?", delta)}),
		}).Create(&models.NotificationCounter{UserID: userID, Unread: delta}).Error
	}
	return tx.Model(&models.NotificationCounter{}).
		Where("user_id = ?", userID).
		Update("unread", gorm.Expr("GREATEST(unread + ?, 0)", delta)).Error
}

// UnreadCount returns the user's unread notification count, preferring the
// cache and falling back to (and repopulating from) the database.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if v, err := s.cache.Get(ctx, unreadKey(userID)); err == nil {
		if n, perr := strconv.ParseInt(v, 10, 64); perr == nil {
			return n, nil
		}
	}

	var counter models.NotificationCounter
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&counter).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to load unread counter: %w", err)
	}
	_ = s.cache.Set(ctx, unreadKey(userID), strconv.FormatInt(counter.Unread, 10), unreadCacheTTL)
	return counter.Unread, nil
}

// List returns a page of the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	var items []*models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

// MarkRead marks one notification read and decrements the unread counter.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Notification{}).
			Where("id = ? AND user_id = ? AND read = false", notificationID, userID).
			Update("read", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return bumpUnread(tx, userID, -1)
	})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	_ = s.cache.Del(ctx, unreadKey(userID))
	return nil
}

// MarkAllRead marks all of the user's notifications read and zeroes the
// counter.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Notification{}).
			Where("user_id = ? AND read = false", userID).
			Update("read", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.NotificationCounter{}).
			Where("user_id = ?", userID).
			Update("unread", 0).Error
	})
	if err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	_ = s.cache.Del(ctx, unreadKey(userID))
	return nil
}

func unreadKey(userID string) string {
	return "notif:unread:" + userID
}
