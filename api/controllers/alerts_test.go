package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/inventag/inventag-backend/internal/alerts"
)

type testAlertsService struct {
	raiseFn       func(ctx context.Context, dto alerts.CreateAlertDTO) (*alerts.AlertDTO, error)
	listFn        func(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]alerts.AlertDTO, error)
	markReadFn    func(ctx context.Context, userID, alertID uuid.UUID) error
	markAllReadFn func(ctx context.Context, userID uuid.UUID) error
	countUnreadFn func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (s *testAlertsService) Raise(ctx context.Context, dto alerts.CreateAlertDTO) (*alerts.AlertDTO, error) {
	if s.raiseFn != nil {
		return s.raiseFn(ctx, dto)
	}
	return &alerts.AlertDTO{}, nil
}

func (s *testAlertsService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]alerts.AlertDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, unreadOnly)
	}
	return nil, nil
}

func (s *testAlertsService) MarkRead(ctx context.Context, userID, alertID uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, userID, alertID)
	}
	return nil
}

func (s *testAlertsService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, userID)
	}
	return nil
}

func (s *testAlertsService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.countUnreadFn != nil {
		return s.countUnreadFn(ctx, userID)
	}
	return 0, nil
}

func TestAlertsListUnreadFlag(t *testing.T) {
	userID := uuid.New()
	svc := &testAlertsService{
		listFn: func(ctx context.Context, uid uuid.UUID, unreadOnly bool) ([]alerts.AlertDTO, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			if !unreadOnly {
				t.Fatal("expected unread filter set")
			}
			return nil, nil
		},
	}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/alerts?unread_only=true", nil), userID)
	resp := httptest.NewRecorder()
	AlertsList(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestAlertsMarkReadSuccess(t *testing.T) {
	userID := uuid.New()
	alertID := uuid.New()
	called := false
	svc := &testAlertsService{
		markReadFn: func(ctx context.Context, uid, aid uuid.UUID) error {
			called = true
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			if aid != alertID {
				t.Fatalf("unexpected alert %s", aid)
			}
			return nil
		},
	}

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/alerts/"+alertID.String()+"/read", nil), userID)
	req = addRouteParam(req, "alertId", alertID.String())
	resp := httptest.NewRecorder()
	AlertsMarkRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestAlertsMarkReadInvalidID(t *testing.T) {
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/alerts/bad/read", nil), uuid.New())
	req = addRouteParam(req, "alertId", "bad")
	resp := httptest.NewRecorder()
	AlertsMarkRead(&testAlertsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAlertsUnreadCountPayload(t *testing.T) {
	svc := &testAlertsService{
		countUnreadFn: func(ctx context.Context, uid uuid.UUID) (int64, error) {
			return 4, nil
		},
	}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/alerts/unread-count", nil), uuid.New())
	resp := httptest.NewRecorder()
	AlertsUnreadCount(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["unread"] != 4 {
		t.Fatalf("unexpected count %d", envelope.Data["unread"])
	}
}
