package controllers

import (
	"net/http"

	"github.com/inventag/inventag-backend/api/responses"
	"github.com/inventag/inventag-backend/api/validators"
	"github.com/inventag/inventag-backend/internal/settings"
	"github.com/inventag/inventag-backend/pkg/logger"
)

type readerAddressPayload struct {
	Address string `json:"address" validate:"required"`
}

// SettingsGetReaderAddress returns the configured reader host:port, falling
// back to the default when nothing has been stored.
func SettingsGetReaderAddress(svc *settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address, err := svc.ReaderAddress(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, readerAddressPayload{Address: address})
	}
}

// SettingsSetReaderAddress stores a new reader host:port and notifies
// watchers.
func SettingsSetReaderAddress(svc *settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req readerAddressPayload
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetReaderAddress(r.Context(), req.Address); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, readerAddressPayload{Address: req.Address})
	}
}
