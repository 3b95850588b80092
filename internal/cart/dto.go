package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/inventag/inventag-backend/pkg/db/models"
)

// LineDTO is the transport shape for one cart line.
type LineDTO struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"item_id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
}

// CartDTO bundles a user's lines with the running total.
type CartDTO struct {
	Lines      []LineDTO `json:"lines"`
	TotalCents int       `json:"total_cents"`
}

// AddItemRequest adds an item to the cart by ID.
type AddItemRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"omitempty,gte=1"`
}

// AddTagRequest adds an item to the cart by scanned tag.
type AddTagRequest struct {
	TagID    string `json:"tag_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"omitempty,gte=1"`
}

// SetQuantityRequest replaces a line's quantity. Zero or below removes the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func lineFromModel(line *models.CartLine) LineDTO {
	return LineDTO{
		ID:         line.ID,
		ItemID:     line.ItemID,
		Name:       line.Name,
		PriceCents: line.PriceCents,
		Quantity:   line.Quantity,
		CreatedAt:  line.CreatedAt,
	}
}

func cartFromModels(lines []models.CartLine) CartDTO {
	dto := CartDTO{Lines: make([]LineDTO, 0, len(lines))}
	for i := range lines {
		dto.Lines = append(dto.Lines, lineFromModel(&lines[i]))
		dto.TotalCents += lines[i].PriceCents * lines[i].Quantity
	}
	return dto
}
