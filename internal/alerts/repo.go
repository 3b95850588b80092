package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inventag/inventag-backend/pkg/db/models"
)

// Repository exposes alert persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an alerts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new alert row.
func (r *Repository) Create(ctx context.Context, alert *models.Alert) (*models.Alert, error) {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

// ListByUser returns the user's alerts, newest first. When unreadOnly is set,
// alerts that have been marked read are excluded.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Alert, error) {
	qb := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		qb = qb.Where("read_at IS NULL")
	}

	var rows []models.Alert
	err := qb.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// MarkRead stamps a single alert as read.
func (r *Repository) MarkRead(ctx context.Context, userID, alertID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ? AND user_id = ?", alertID, userID).
		Update("read_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead stamps every unread alert belonging to the user.
func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at).
		Error
}

// CountUnread returns the number of unread alerts for the user.
func (r *Repository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).
		Error
	return count, err
}
