package controllers

import (
	"net/http"

	"github.com/inventag/inventag-backend/api/middleware"
	"github.com/inventag/inventag-backend/api/responses"
	"github.com/inventag/inventag-backend/internal/checkout"
	"github.com/inventag/inventag-backend/pkg/logger"
)

// CheckoutRun commits the caller's cart against stock. Lines commit one at a
// time; a mid-run failure keeps already committed lines and leaves the cart
// in place so the run can be retried.
func CheckoutRun(coord *checkout.Coordinator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := coord.Checkout(r.Context(), userID, middleware.UserNameFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
