package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inventag/inventag-backend/api/middleware"
	"github.com/inventag/inventag-backend/internal/inventory"
	"github.com/inventag/inventag-backend/pkg/logger"
)

type testInventoryService struct {
	createFn     func(ctx context.Context, dto inventory.CreateItemDTO) (*inventory.ItemDTO, error)
	getFn        func(ctx context.Context, id uuid.UUID) (*inventory.ItemDTO, error)
	updateFn     func(ctx context.Context, id uuid.UUID, dto inventory.UpdateItemDTO) (*inventory.ItemDTO, error)
	deleteFn     func(ctx context.Context, id uuid.UUID) error
	listFn       func(ctx context.Context, filters inventory.ListFilters) ([]inventory.ItemDTO, error)
	categoriesFn func(ctx context.Context) ([]string, error)
	associateFn  func(ctx context.Context, itemID uuid.UUID, tagID string) error
	resolveFn    func(ctx context.Context, tagID string) (*inventory.ItemDTO, error)
	watchFn      func() (<-chan []inventory.ItemDTO, func())
}

func (s *testInventoryService) CreateItem(ctx context.Context, dto inventory.CreateItemDTO) (*inventory.ItemDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, dto)
	}
	return &inventory.ItemDTO{}, nil
}

func (s *testInventoryService) GetItem(ctx context.Context, id uuid.UUID) (*inventory.ItemDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &inventory.ItemDTO{ID: id}, nil
}

func (s *testInventoryService) UpdateItem(ctx context.Context, id uuid.UUID, dto inventory.UpdateItemDTO) (*inventory.ItemDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, dto)
	}
	return &inventory.ItemDTO{ID: id}, nil
}

func (s *testInventoryService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *testInventoryService) ListItems(ctx context.Context, filters inventory.ListFilters) ([]inventory.ItemDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filters)
	}
	return nil, nil
}

func (s *testInventoryService) ListCategories(ctx context.Context) ([]string, error) {
	if s.categoriesFn != nil {
		return s.categoriesFn(ctx)
	}
	return nil, nil
}

func (s *testInventoryService) AssociateTag(ctx context.Context, itemID uuid.UUID, tagID string) error {
	if s.associateFn != nil {
		return s.associateFn(ctx, itemID, tagID)
	}
	return nil
}

func (s *testInventoryService) ResolveTag(ctx context.Context, tagID string) (*inventory.ItemDTO, error) {
	if s.resolveFn != nil {
		return s.resolveFn(ctx, tagID)
	}
	return &inventory.ItemDTO{}, nil
}

func (s *testInventoryService) Decrement(ctx context.Context, itemID uuid.UUID, amount int) (int, error) {
	return 0, nil
}

func (s *testInventoryService) WatchItems() (<-chan []inventory.ItemDTO, func()) {
	if s.watchFn != nil {
		return s.watchFn()
	}
	ch := make(chan []inventory.ItemDTO)
	return ch, func() { close(ch) }
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestInventoryDetailSuccess(t *testing.T) {
	itemID := uuid.New()
	svc := &testInventoryService{
		getFn: func(ctx context.Context, id uuid.UUID) (*inventory.ItemDTO, error) {
			if id != itemID {
				t.Fatalf("unexpected item %s", id)
			}
			return &inventory.ItemDTO{ID: id, Name: "Milk"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/"+itemID.String(), nil)
	req = addRouteParam(req, "itemId", itemID.String())
	resp := httptest.NewRecorder()
	InventoryDetail(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data inventory.ItemDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Name != "Milk" {
		t.Fatalf("unexpected item name %q", envelope.Data.Name)
	}
}

func TestInventoryDetailInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/not-a-uuid", nil)
	req = addRouteParam(req, "itemId", "not-a-uuid")
	resp := httptest.NewRecorder()
	InventoryDetail(&testInventoryService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestInventoryCreateRejectsBadBody(t *testing.T) {
	body := strings.NewReader(`{"quantity": -1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory", body)
	resp := httptest.NewRecorder()
	InventoryCreate(&testInventoryService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestInventoryCreateSetsCreator(t *testing.T) {
	userID := uuid.New()
	var got *uuid.UUID
	svc := &testInventoryService{
		createFn: func(ctx context.Context, dto inventory.CreateItemDTO) (*inventory.ItemDTO, error) {
			got = dto.CreatedBy
			return &inventory.ItemDTO{Name: dto.Name}, nil
		},
	}

	body := strings.NewReader(`{"name":"Milk","quantity":3,"price_cents":349}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory", body)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	InventoryCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got == nil || *got != userID {
		t.Fatalf("expected creator %s recorded, got %v", userID, got)
	}
}

func TestInventoryListPassesFilters(t *testing.T) {
	svc := &testInventoryService{
		listFn: func(ctx context.Context, filters inventory.ListFilters) ([]inventory.ItemDTO, error) {
			if filters.Category != "dairy" || filters.Query != "mil" {
				t.Fatalf("unexpected filters %+v", filters)
			}
			return []inventory.ItemDTO{{Name: "Milk"}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory?category=dairy&q=mil", nil)
	resp := httptest.NewRecorder()
	InventoryList(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestInventoryResolveTagPassesParam(t *testing.T) {
	svc := &testInventoryService{
		resolveFn: func(ctx context.Context, tagID string) (*inventory.ItemDTO, error) {
			if tagID != "04:AB:CD" {
				t.Fatalf("unexpected tag %q", tagID)
			}
			return &inventory.ItemDTO{Name: "Milk"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/tags/04:AB:CD", nil)
	req = addRouteParam(req, "tagId", "04:AB:CD")
	resp := httptest.NewRecorder()
	InventoryResolveTag(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
