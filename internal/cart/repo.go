package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inventag/inventag-backend/pkg/db/models"
)

// Repository exposes cart line persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddOrMerge inserts a cart line or bumps the quantity of the existing line
// for the same user and item. The merge is a single upsert keyed on the
// (user_id, item_id) unique index, so concurrent adds never lose an
// increment. Name and price come from the caller on first add and are never
// refreshed on merge.
func (r *Repository) AddOrMerge(ctx context.Context, line *models.CartLine) (*models.CartLine, error) {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_lines.quantity + excluded.quantity"),
			}),
		}).
		Create(line).
		Error
	if err != nil {
		return nil, err
	}
	return r.FindLine(ctx, line.UserID, line.ItemID)
}

// FindLine loads the user's cart line for an item.
func (r *Repository) FindLine(ctx context.Context, userID, itemID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		First(&line).
		Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// SetQuantity replaces the line quantity. A quantity of zero or below removes
// the line entirely.
func (r *Repository) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return r.Remove(ctx, userID, itemID)
	}
	result := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Remove deletes the user's line for an item. Removing an absent line is not
// an error.
func (r *Repository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&models.CartLine{}).
		Error
}

// Clear drops every line in the user's cart.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartLine{}).
		Error
}

// List returns the user's cart lines in the order they were added.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lines).
		Error
	return lines, err
}
