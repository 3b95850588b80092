package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is the store-wide stock record. Quantity is only ever
// reduced through the atomic decrement path; direct writes happen via the
// ordinary CRUD endpoints and carry last-write-wins semantics.
type InventoryItem struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name       string     `gorm:"column:name;not null" json:"name"`
	Quantity   int        `gorm:"column:quantity;not null;default:0" json:"quantity"`
	PriceCents int        `gorm:"column:price_cents;not null;default:0" json:"price_cents"`
	ExpiresAt  *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	Category   string     `gorm:"column:category;not null;default:''" json:"category"`
	TagID      *string    `gorm:"column:tag_id" json:"tag_id,omitempty"`
	CreatedBy  *uuid.UUID `gorm:"column:created_by;type:uuid" json:"created_by,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Expired reports whether the item's expiry lies strictly before now.
func (i InventoryItem) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}
