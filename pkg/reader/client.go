package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inventag/inventag-backend/pkg/config"
	"github.com/inventag/inventag-backend/pkg/errors"
)

// AddressSource resolves the current reader device address. Implementations
// may consult persisted settings so the address can change at runtime.
type AddressSource interface {
	ReaderAddress(ctx context.Context) (string, error)
}

// StaticAddress is an AddressSource that always returns the same address.
type StaticAddress string

func (s StaticAddress) ReaderAddress(ctx context.Context) (string, error) {
	return string(s), nil
}

// Client talks to the NFC reader device over HTTP.
type Client struct {
	address       AddressSource
	readTimeout   time.Duration
	signalTimeout time.Duration
	httpClient    *http.Client
}

// NewClient builds a reader client. The address source is required; timeouts
// fall back to the configured defaults when zero.
func NewClient(address AddressSource, cfg config.ReaderConfig) (*Client, error) {
	if address == nil {
		return nil, fmt.Errorf("address source is required")
	}
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 15 * time.Second
	}
	signalTimeout := cfg.SignalTimeout
	if signalTimeout <= 0 {
		signalTimeout = 5 * time.Second
	}

	return &Client{
		address:       address,
		readTimeout:   readTimeout,
		signalTimeout: signalTimeout,
		httpClient:    &http.Client{},
	}, nil
}

type readResponse struct {
	TagID string `json:"tagId"`
}

// ReadTag performs a single blocking read against the device. It returns the
// tag identifier, or a typed not-found error when no tag is present on the
// antenna. The device reports an absent tag as an empty or literal "null" id.
func (c *Client) ReadTag(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/nfc/read", nil, c.readTimeout)
	if err != nil {
		return "", err
	}

	var parsed readResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "decoding reader response")
	}

	tagID := strings.TrimSpace(parsed.TagID)
	if tagID == "" || strings.EqualFold(tagID, "null") {
		return "", errors.New(errors.CodeNotFound, "no tag detected")
	}
	return tagID, nil
}

// TriggerBuzzer sounds the device buzzer for the given duration.
func (c *Client) TriggerBuzzer(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		duration = 3 * time.Second
	}
	query := url.Values{}
	query.Set("duration", fmt.Sprintf("%d", duration.Milliseconds()))
	_, err := c.get(ctx, "/buzzer", query, c.signalTimeout)
	return err
}

// SetLED switches the device LED to the given color and state.
func (c *Client) SetLED(ctx context.Context, color, state string) error {
	query := url.Values{}
	query.Set("color", color)
	query.Set("state", state)
	_, err := c.get(ctx, "/led", query, c.signalTimeout)
	return err
}

// SendAlert pushes an alert notification to the device display.
func (c *Client) SendAlert(ctx context.Context, kind, message string) error {
	query := url.Values{}
	query.Set("type", kind)
	query.Set("message", message)
	_, err := c.get(ctx, "/alert", query, c.signalTimeout)
	return err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, timeout time.Duration) ([]byte, error) {
	address, err := c.address.ReaderAddress(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "resolving reader address")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, errors.New(errors.CodeDependency, "reader address is not configured")
	}

	endpoint := fmt.Sprintf("http://%s%s", address, path)
	if len(query) > 0 {
		endpoint = endpoint + "?" + query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "building reader request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "calling reader device")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "reading reader response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.CodeDependency, fmt.Sprintf("reader device returned status %d", resp.StatusCode))
	}
	return body, nil
}
