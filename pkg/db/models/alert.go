package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/inventag/inventag-backend/pkg/enums"
)

// Alert stores a stock alert scoped to the user it was raised for.
// Alerts are never deleted; only the read marker changes.
type Alert struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Kind      enums.AlertKind `gorm:"column:kind;type:alert_kind;not null" json:"kind"`
	Title     string          `gorm:"column:title;type:text;not null" json:"title"`
	Message   string          `gorm:"column:message;type:text;not null" json:"message"`
	ItemID    *uuid.UUID      `gorm:"column:item_id;type:uuid" json:"item_id,omitempty"`
	ReadAt    *time.Time      `gorm:"column:read_at;type:timestamptz" json:"read_at,omitempty"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
