package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inventag/inventag-backend/internal/inventory"
	"github.com/inventag/inventag-backend/pkg/db/models"
	pkgerrors "github.com/inventag/inventag-backend/pkg/errors"
)

// Service exposes cart operations scoped to a user.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*LineDTO, error)
	AddFromTag(ctx context.Context, userID uuid.UUID, req AddTagRequest) (*LineDTO, error)
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

type repository interface {
	AddOrMerge(ctx context.Context, line *models.CartLine) (*models.CartLine, error)
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
}

type itemResolver interface {
	GetItem(ctx context.Context, id uuid.UUID) (*inventory.ItemDTO, error)
	ResolveTag(ctx context.Context, tagID string) (*inventory.ItemDTO, error)
}

type service struct {
	repo  repository
	items itemResolver
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Repo      repository
	Inventory itemResolver
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service is required")
	}
	return &service{
		repo:  params.Repo,
		items: params.Inventory,
	}, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*LineDTO, error) {
	if req.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.items.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	return s.addLine(ctx, userID, item, req.Quantity)
}

func (s *service) AddFromTag(ctx context.Context, userID uuid.UUID, req AddTagRequest) (*LineDTO, error) {
	item, err := s.items.ResolveTag(ctx, req.TagID)
	if err != nil {
		return nil, err
	}
	return s.addLine(ctx, userID, item, req.Quantity)
}

func (s *service) addLine(ctx context.Context, userID uuid.UUID, item *inventory.ItemDTO, quantity int) (*LineDTO, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	line, err := s.repo.AddOrMerge(ctx, &models.CartLine{
		UserID:     userID,
		ItemID:     item.ID,
		Name:       item.Name,
		PriceCents: item.PriceCents,
		Quantity:   quantity,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart line")
	}

	dto := lineFromModel(line)
	return &dto, nil
}

func (s *service) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if err := s.repo.SetQuantity(ctx, userID, itemID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set cart quantity")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.repo.Remove(ctx, userID, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart line")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	lines, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}
	dto := cartFromModels(lines)
	return &dto, nil
}
