package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/inventag/inventag-backend/api/responses"
	"github.com/inventag/inventag-backend/internal/inventory"
	"github.com/inventag/inventag-backend/internal/settings"
	pkgerrors "github.com/inventag/inventag-backend/pkg/errors"
	"github.com/inventag/inventag-backend/pkg/logger"
)

// InventoryWatch streams stock snapshots as server-sent events. The current
// snapshot is delivered immediately and every change after it follows, until
// the client disconnects.
func InventoryWatch(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := beginEventStream(w, r, logg)
		if !ok {
			return
		}

		ch, cancel := svc.WatchItems()
		defer cancel()

		for {
			select {
			case items, open := <-ch:
				if !open {
					return
				}
				if !writeEvent(w, r, flusher, logg, items) {
					return
				}
			case <-r.Context().Done():
				return
			}
		}
	}
}

// SettingsWatchReaderAddress streams reader address changes as server-sent
// events until the client disconnects.
func SettingsWatchReaderAddress(svc *settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := beginEventStream(w, r, logg)
		if !ok {
			return
		}

		ch, cancel := svc.WatchReaderAddress()
		defer cancel()

		for {
			select {
			case address, open := <-ch:
				if !open {
					return
				}
				if !writeEvent(w, r, flusher, logg, readerAddressPayload{Address: address}) {
					return
				}
			case <-r.Context().Done():
				return
			}
		}
	}
}

func beginEventStream(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.New(pkgerrors.CodeInternal, "streaming is not supported"))
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return flusher, true
}

func writeEvent(w http.ResponseWriter, r *http.Request, flusher http.Flusher, logg *logger.Logger, payload any) bool {
	encoded, err := json.Marshal(payload)
	if err != nil {
		logg.Error(r.Context(), "encoding stream event", err)
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", encoded); err != nil {
		return false
	}
	flusher.Flush()
	return true
}
