package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/inventag/inventag-backend/pkg/config"
	pkgerrors "github.com/inventag/inventag-backend/pkg/errors"
	"github.com/inventag/inventag-backend/pkg/watch"
)

const readerAddressSetting = "reader_address"

type settingsStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

type settingsKeyer interface {
	SettingsKey(name string) string
}

// Service persists device settings and notifies watchers on change.
type Service struct {
	store     settingsStore
	keyer     settingsKeyer
	readerCfg config.ReaderConfig
	changes   *watch.Hub[string]
}

// ServiceParams bundles the dependencies required to build a settings service.
type ServiceParams struct {
	Store        settingsStore
	Keyer        settingsKeyer
	ReaderConfig config.ReaderConfig
}

// NewService constructs a settings service with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("settings store is required")
	}
	if params.Keyer == nil {
		return nil, fmt.Errorf("settings keyer is required")
	}
	return &Service{
		store:     params.Store,
		keyer:     params.Keyer,
		readerCfg: params.ReaderConfig,
		changes:   watch.NewHub[string](),
	}, nil
}

// ReaderAddress returns the persisted reader address, falling back to the
// configured default when nothing has been stored yet.
func (s *Service) ReaderAddress(ctx context.Context) (string, error) {
	value, err := s.store.Get(ctx, s.keyer.SettingsKey(readerAddressSetting))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return s.readerCfg.DefaultAddress, nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reader address")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return s.readerCfg.DefaultAddress, nil
	}
	return value, nil
}

// SetReaderAddress persists a new reader address and broadcasts it to watchers.
func (s *Service) SetReaderAddress(ctx context.Context, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if err := s.store.Set(ctx, s.keyer.SettingsKey(readerAddressSetting), address, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reader address")
	}
	s.changes.Publish(address)
	return nil
}

// WatchReaderAddress subscribes to reader address changes. The cancel func
// must be called when the watcher is done.
func (s *Service) WatchReaderAddress() (<-chan string, func()) {
	return s.changes.Subscribe()
}
