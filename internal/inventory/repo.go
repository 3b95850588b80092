package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inventag/inventag-backend/pkg/db/models"
)

// Repository exposes stock item persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an inventory repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new stock item.
func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads a stock item by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByTag returns the oldest item associated with the given tag. Several
// items may share a tag; first-created wins.
func (r *Repository) FindByTag(ctx context.Context, tagID string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("tag_id = ?", tagID).
		Order("created_at ASC").
		First(&item).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update persists the full item row.
func (r *Repository) Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InventoryItem{}).Error
}

// List returns items matching the filters, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.InventoryItem, error) {
	qb := r.db.WithContext(ctx).Model(&models.InventoryItem{})
	if filters.Category != "" {
		qb = qb.Where("category = ?", filters.Category)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(name) LIKE ?", pattern)
	}

	var rows []models.InventoryItem
	err := qb.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// ListCategories returns the distinct non-empty categories in use.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).
		Error
	return categories, err
}

// AssociateTag binds a tag to the item. A tag may be bound to several items;
// prior associations are left alone.
func (r *Repository) AssociateTag(ctx context.Context, itemID uuid.UUID, tagID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", itemID).
		Updates(map[string]any{
			"tag_id":     tagID,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Decrement subtracts amount from the item's quantity in a single statement,
// clamping at zero. It returns the quantity after the update. The conditional
// assignment keeps concurrent decrements from driving the count negative.
func (r *Repository) Decrement(ctx context.Context, itemID uuid.UUID, amount int) (int, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE inventory_items
		 SET quantity = CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END,
		     updated_at = ?
		 WHERE id = ?`,
		amount, amount, time.Now().UTC(), itemID,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var quantity int
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", itemID).
		Pluck("quantity", &quantity).
		Error
	if err != nil {
		return 0, err
	}
	return quantity, nil
}
