package controllers

import (
	"net/http"

	"github.com/inventag/inventag-backend/api/responses"
	"github.com/inventag/inventag-backend/internal/scanner"
	"github.com/inventag/inventag-backend/pkg/logger"
)

type scannerStatus struct {
	Active bool            `json:"active"`
	Last   *scanner.Result `json:"last,omitempty"`
}

// ScannerStart kicks off an acquisition run on the reader. Starting while a
// run is active is a no-op.
func ScannerStart(session *scanner.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session.Start(r.Context())
		responses.WriteSuccessStatus(w, http.StatusAccepted, scannerStatus{Active: session.Active()})
	}
}

// ScannerStop cancels the active acquisition run, if any.
func ScannerStop(session *scanner.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session.Stop()
		responses.WriteSuccess(w, scannerStatus{Active: session.Active()})
	}
}

// ScannerStatus reports whether a run is active and the most recent result.
func ScannerStatus(session *scanner.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, scannerStatus{
			Active: session.Active(),
			Last:   session.LastResult(),
		})
	}
}

// ScannerWait blocks until the current run publishes a result or the request
// is cancelled.
func ScannerWait(session *scanner.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch, cancel := session.Watch()
		defer cancel()

		select {
		case result, ok := <-ch:
			if !ok {
				responses.WriteSuccess(w, scannerStatus{Active: session.Active()})
				return
			}
			responses.WriteSuccess(w, scannerStatus{Active: session.Active(), Last: &result})
		case <-r.Context().Done():
			responses.WriteSuccess(w, scannerStatus{Active: session.Active(), Last: session.LastResult()})
		}
	}
}
