package controllers

import (
	"net/http"

	"github.com/NextOxyOfficial/LyriczFashion/api/middleware"
	"github.com/NextOxyOfficial/LyriczFashion/api/responses"
	orderssvc "github.com/NextOxyOfficial/LyriczFashion/internal/orders"
	pkgerrors "github.com/NextOxyOfficial/LyriczFashion/pkg/errors"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/logger"
)

// SellerOrders returns incoming orders narrowed to the caller's store lines.
func SellerOrders(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		rollup, err := svc.SellerOrders(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rollup)
	}
}
