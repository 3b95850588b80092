package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inventag/inventag-backend/pkg/config"
	"github.com/inventag/inventag-backend/pkg/db/models"
	pkgerrors "github.com/inventag/inventag-backend/pkg/errors"
	"github.com/inventag/inventag-backend/pkg/watch"
)

// Service exposes the stock item operations used by controllers and the
// checkout flow.
type Service interface {
	CreateItem(ctx context.Context, dto CreateItemDTO) (*ItemDTO, error)
	GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, dto UpdateItemDTO) (*ItemDTO, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, filters ListFilters) ([]ItemDTO, error)
	ListCategories(ctx context.Context) ([]string, error)
	AssociateTag(ctx context.Context, itemID uuid.UUID, tagID string) error
	ResolveTag(ctx context.Context, tagID string) (*ItemDTO, error)
	Decrement(ctx context.Context, itemID uuid.UUID, amount int) (int, error)
	WatchItems() (<-chan []ItemDTO, func())
}

type repository interface {
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindByTag(ctx context.Context, tagID string) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters) ([]models.InventoryItem, error)
	ListCategories(ctx context.Context) ([]string, error)
	AssociateTag(ctx context.Context, itemID uuid.UUID, tagID string) error
	Decrement(ctx context.Context, itemID uuid.UUID, amount int) (int, error)
}

type service struct {
	repo      repository
	alertsCfg config.AlertsConfig
	changes   *watch.Hub[[]ItemDTO]
	now       func() time.Time
}

// ServiceParams bundles the dependencies required to build an inventory service.
type ServiceParams struct {
	Repo         repository
	AlertsConfig config.AlertsConfig

	// Now overrides the clock, primarily for tests.
	Now func() time.Time
}

// NewService constructs an inventory service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	threshold := params.AlertsConfig.LowStockThreshold
	if threshold <= 0 {
		threshold = 5
	}
	return &service{
		repo:      params.Repo,
		alertsCfg: config.AlertsConfig{LowStockThreshold: threshold},
		changes:   watch.NewHub[[]ItemDTO](),
		now:       now,
	}, nil
}

func (s *service) CreateItem(ctx context.Context, dto CreateItemDTO) (*ItemDTO, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if dto.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if dto.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	item, err := s.repo.Create(ctx, dto.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	s.broadcast(ctx)
	return fromModel(item, s.now(), s.alertsCfg.LowStockThreshold), nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}
	return fromModel(item, s.now(), s.alertsCfg.LowStockThreshold), nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, dto UpdateItemDTO) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		item.Name = name
	}
	if dto.Quantity != nil {
		if *dto.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		item.Quantity = *dto.Quantity
	}
	if dto.PriceCents != nil {
		if *dto.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		item.PriceCents = *dto.PriceCents
	}
	if dto.ExpiresAt != nil {
		item.ExpiresAt = dto.ExpiresAt
	}
	if dto.Category != nil {
		item.Category = strings.TrimSpace(*dto.Category)
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item")
	}
	s.broadcast(ctx)
	return fromModel(updated, s.now(), s.alertsCfg.LowStockThreshold), nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
	}
	s.broadcast(ctx)
	return nil
}

func (s *service) ListItems(ctx context.Context, filters ListFilters) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}
	return s.toDTOs(rows), nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return categories, nil
}

func (s *service) AssociateTag(ctx context.Context, itemID uuid.UUID, tagID string) error {
	tagID = strings.TrimSpace(tagID)
	if tagID == "" || strings.EqualFold(tagID, "null") {
		return pkgerrors.New(pkgerrors.CodeValidation, "tag id is required")
	}
	if err := s.repo.AssociateTag(ctx, itemID, tagID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "associate tag")
	}
	s.broadcast(ctx)
	return nil
}

func (s *service) ResolveTag(ctx context.Context, tagID string) (*ItemDTO, error) {
	tagID = strings.TrimSpace(tagID)
	if tagID == "" || strings.EqualFold(tagID, "null") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tag id is required")
	}
	item, err := s.repo.FindByTag(ctx, tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no item registered for tag")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve tag")
	}
	return fromModel(item, s.now(), s.alertsCfg.LowStockThreshold), nil
}

func (s *service) Decrement(ctx context.Context, itemID uuid.UUID, amount int) (int, error) {
	if amount <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	remaining, err := s.repo.Decrement(ctx, itemID, amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
	}
	s.broadcast(ctx)
	return remaining, nil
}

func (s *service) WatchItems() (<-chan []ItemDTO, func()) {
	return s.changes.Subscribe()
}

func (s *service) toDTOs(rows []models.InventoryItem) []ItemDTO {
	now := s.now()
	dtos := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *fromModel(&rows[i], now, s.alertsCfg.LowStockThreshold))
	}
	return dtos
}

// broadcast pushes the current item list to watchers. Failures here never
// surface to the caller; the mutation already committed.
func (s *service) broadcast(ctx context.Context) {
	if s.changes.Len() == 0 {
		return
	}
	rows, err := s.repo.List(ctx, ListFilters{})
	if err != nil {
		return
	}
	s.changes.Publish(s.toDTOs(rows))
}
