package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/inventag/inventag-backend/pkg/db/models"
)

// ItemDTO is the transport shape for a stock item.
type ItemDTO struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	PriceCents int        `json:"price_cents"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Category   string     `json:"category"`
	TagID      *string    `json:"tag_id,omitempty"`
	Expired    bool       `json:"expired"`
	LowStock   bool       `json:"low_stock"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CreateItemDTO holds the data required to persist a new stock item.
type CreateItemDTO struct {
	Name       string     `json:"name" validate:"required"`
	Quantity   int        `json:"quantity" validate:"gte=0"`
	PriceCents int        `json:"price_cents" validate:"gte=0"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Category   string     `json:"category"`
	TagID      *string    `json:"tag_id,omitempty"`
	CreatedBy  *uuid.UUID `json:"-"`
}

// UpdateItemDTO carries a partial update; nil fields are left untouched.
type UpdateItemDTO struct {
	Name       *string    `json:"name,omitempty"`
	Quantity   *int       `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	PriceCents *int       `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Category   *string    `json:"category,omitempty"`
}

// ListFilters narrows the item listing.
type ListFilters struct {
	Category string
	Query    string
}

func (c CreateItemDTO) ToModel() *models.InventoryItem {
	return &models.InventoryItem{
		ID:         uuid.New(),
		Name:       c.Name,
		Quantity:   c.Quantity,
		PriceCents: c.PriceCents,
		ExpiresAt:  c.ExpiresAt,
		Category:   c.Category,
		TagID:      c.TagID,
		CreatedBy:  c.CreatedBy,
	}
}

func fromModel(item *models.InventoryItem, now time.Time, lowStockThreshold int) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:         item.ID,
		Name:       item.Name,
		Quantity:   item.Quantity,
		PriceCents: item.PriceCents,
		ExpiresAt:  item.ExpiresAt,
		Category:   item.Category,
		TagID:      item.TagID,
		Expired:    item.Expired(now),
		LowStock:   item.Quantity < lowStockThreshold,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}
