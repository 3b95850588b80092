package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one pending line in a user's cart. Name and price are captured
// at add time and never re-read from the live item. The (user_id, item_id)
// pair is unique: repeated adds merge into the existing line.
type CartLine struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_lines_user_item" json:"user_id"`
	ItemID     uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_cart_lines_user_item" json:"item_id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	PriceCents int       `gorm:"column:price_cents;not null" json:"price_cents"`
	Quantity   int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
