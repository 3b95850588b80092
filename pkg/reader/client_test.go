package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inventag/inventag-backend/pkg/config"
	"github.com/inventag/inventag-backend/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	address := strings.TrimPrefix(server.URL, "http://")
	client, err := NewClient(StaticAddress(address), config.ReaderConfig{
		ReadTimeout:   2 * time.Second,
		SignalTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestReadTag(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nfc/read" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"tagId":"04A1B2C3"}`))
	}))

	tagID, err := client.ReadTag(context.Background())
	if err != nil {
		t.Fatalf("read tag: %v", err)
	}
	if tagID != "04A1B2C3" {
		t.Fatalf("expected tag 04A1B2C3, got %q", tagID)
	}
}

func TestReadTagNoTagPresent(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"empty":   `{"tagId":""}`,
		"literal": `{"tagId":"null"}`,
	} {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))

			_, err := client.ReadTag(context.Background())
			typed := errors.As(err)
			if typed == nil || typed.Code() != errors.CodeNotFound {
				t.Fatalf("expected not found error, got %v", err)
			}
		})
	}
}

func TestSignalEndpoints(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotQuery map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		w.WriteHeader(http.StatusOK)
	}))

	ctx := context.Background()

	if err := client.TriggerBuzzer(ctx, 3*time.Second); err != nil {
		t.Fatalf("buzzer: %v", err)
	}
	if gotPath != "/buzzer" || gotQuery["duration"] != "3000" {
		t.Fatalf("unexpected buzzer request %q %v", gotPath, gotQuery)
	}

	if err := client.SetLED(ctx, "red", "on"); err != nil {
		t.Fatalf("led: %v", err)
	}
	if gotPath != "/led" || gotQuery["color"] != "red" || gotQuery["state"] != "on" {
		t.Fatalf("unexpected led request %q %v", gotPath, gotQuery)
	}

	if err := client.SendAlert(ctx, "low_stock", "Item 'Milk' is running low on stock (2 remaining)."); err != nil {
		t.Fatalf("alert: %v", err)
	}
	if gotPath != "/alert" || gotQuery["type"] != "low_stock" {
		t.Fatalf("unexpected alert request %q %v", gotPath, gotQuery)
	}
	if !strings.Contains(gotQuery["message"], "running low on stock") {
		t.Fatalf("unexpected alert message %q", gotQuery["message"])
	}
}

func TestReaderUnreachable(t *testing.T) {
	t.Parallel()

	client, err := NewClient(StaticAddress("127.0.0.1:1"), config.ReaderConfig{
		ReadTimeout:   500 * time.Millisecond,
		SignalTimeout: 500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.ReadTag(context.Background())
	typed := errors.As(err)
	if typed == nil || typed.Code() != errors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
