package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/inventag/inventag-backend/internal/inventory"
	"github.com/inventag/inventag-backend/internal/settings"
	"github.com/inventag/inventag-backend/pkg/config"
)

func TestInventoryWatchStreamsSnapshots(t *testing.T) {
	ch := make(chan []inventory.ItemDTO, 2)
	ch <- []inventory.ItemDTO{{Name: "Milk", Quantity: 3}}
	ch <- []inventory.ItemDTO{{Name: "Milk", Quantity: 2}}
	close(ch)

	var cancelled bool
	svc := &testInventoryService{
		watchFn: func() (<-chan []inventory.ItemDTO, func()) {
			return ch, func() { cancelled = true }
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/watch", nil)
	rec := httptest.NewRecorder()
	InventoryWatch(svc, testLogger())(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	if got := strings.Count(body, "data: "); got != 2 {
		t.Fatalf("expected 2 events, got %d in %q", got, body)
	}
	if !strings.Contains(body, `"Milk"`) {
		t.Fatalf("expected item payload in stream, got %q", body)
	}
	if !cancelled {
		t.Fatal("expected the subscription to be released")
	}
}

type memorySettingsStore struct {
	mu     sync.Mutex
	values map[string]string
}

func (s *memorySettingsStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value.(string)
	return nil
}

func (s *memorySettingsStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

type prefixKeyer struct{}

func (prefixKeyer) SettingsKey(name string) string { return "settings:" + name }

func TestSettingsWatchReaderAddressStreamsChanges(t *testing.T) {
	svc, err := settings.NewService(settings.ServiceParams{
		Store:        &memorySettingsStore{},
		Keyer:        prefixKeyer{},
		ReaderConfig: config.ReaderConfig{DefaultAddress: "10.0.2.2:9090"},
	})
	if err != nil {
		t.Fatalf("settings service: %v", err)
	}

	if err := svc.SetReaderAddress(context.Background(), "10.0.0.5:9090"); err != nil {
		t.Fatalf("set reader address: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings/reader/watch", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		SettingsWatchReaderAddress(svc, testLogger())(rec, req)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after context cancel")
	}

	body := rec.Body.String()
	if !strings.Contains(body, "10.0.0.5:9090") {
		t.Fatalf("expected stored address in stream, got %q", body)
	}
}
