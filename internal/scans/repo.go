package scans

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inventag/inventag-backend/pkg/db/models"
)

// Repository exposes the append-only scan record store.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a scans repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts a new scan record. Records are never updated after insert.
func (r *Repository) Append(ctx context.Context, record *models.ScanRecord) (*models.ScanRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// ListByUser returns the user's scan history, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ScanRecord, error) {
	qb := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("scanned_at DESC")
	if limit > 0 {
		qb = qb.Limit(limit)
	}

	var rows []models.ScanRecord
	err := qb.Find(&rows).Error
	return rows, err
}

// ListAll returns the global scan feed, newest first.
func (r *Repository) ListAll(ctx context.Context, limit int) ([]models.ScanRecord, error) {
	qb := r.db.WithContext(ctx).Order("scanned_at DESC")
	if limit > 0 {
		qb = qb.Limit(limit)
	}

	var rows []models.ScanRecord
	err := qb.Find(&rows).Error
	return rows, err
}
