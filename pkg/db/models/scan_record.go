package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanRecord is an append-only fact describing a committed scan/checkout line.
// Rows are never updated or deleted.
type ScanRecord struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	ItemName  string    `gorm:"column:item_name;not null" json:"item_name"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	ScannedAt time.Time `gorm:"column:scanned_at;autoCreateTime" json:"scanned_at"`
	Valid     bool      `gorm:"column:valid;not null;default:true" json:"valid"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	UserName  string    `gorm:"column:user_name;not null;default:''" json:"user_name"`
}
