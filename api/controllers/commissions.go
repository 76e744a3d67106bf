package controllers

import (
	"net/http"
	"time"

	"github.com/NextOxyOfficial/LyriczFashion/api/middleware"
	"github.com/NextOxyOfficial/LyriczFashion/api/responses"
	"github.com/NextOxyOfficial/LyriczFashion/api/validators"
	commissionssvc "github.com/NextOxyOfficial/LyriczFashion/internal/commissions"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
	pkgerrors "github.com/NextOxyOfficial/LyriczFashion/pkg/errors"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/logger"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/pagination"
)

// ListCommissions returns the authenticated designer's commission ledger
// with a status summary.
func ListCommissions(svc commissionssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "commissions service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ownerID := middleware.UserIDFromContext(r.Context())
		commissions, summary, err := svc.ListForOwner(r.Context(), ownerID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCommissionListResponse(commissions, summary, limit))
	}
}

type commissionResponse struct {
	ID         int64  `json:"id"`
	DesignID   int64  `json:"design_id"`
	DesignName string `json:"design_name,omitempty"`
	OrderID    int64  `json:"order_id"`
	Quantity   int    `json:"quantity"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

type commissionSummaryResponse struct {
	PendingAmount   string `json:"pending_amount"`
	CompletedAmount string `json:"completed_amount"`
	PendingCount    int64  `json:"pending_count"`
	CompletedCount  int64  `json:"completed_count"`
	Balance         string `json:"balance"`
}

type commissionListResponse struct {
	Commissions []commissionResponse      `json:"commissions"`
	Summary     commissionSummaryResponse `json:"summary"`
	NextCursor  string                    `json:"next_cursor,omitempty"`
}

func newCommissionListResponse(commissions []models.DesignCommission, summary commissionssvc.OwnerSummary, limit int) commissionListResponse {
	resp := commissionListResponse{
		Commissions: make([]commissionResponse, 0, len(commissions)),
		Summary: commissionSummaryResponse{
			PendingAmount:   summary.PendingAmount.String(),
			CompletedAmount: summary.CompletedAmount.String(),
			PendingCount:    summary.PendingCount,
			CompletedCount:  summary.CompletedCount,
			Balance:         summary.Balance.String(),
		},
	}

	hasMore := len(commissions) > limit
	if hasMore {
		commissions = commissions[:limit]
	}
	for _, commission := range commissions {
		entry := commissionResponse{
			ID:        commission.ID,
			DesignID:  commission.DesignID,
			OrderID:   commission.OrderID,
			Quantity:  commission.Quantity,
			Amount:    commission.Amount.String(),
			Status:    string(commission.Status),
			CreatedAt: commission.CreatedAt.UTC().Format(time.RFC3339),
		}
		if commission.Design != nil {
			entry.DesignName = commission.Design.Name
		}
		resp.Commissions = append(resp.Commissions, entry)
	}
	if hasMore && len(commissions) > 0 {
		last := commissions[len(commissions)-1]
		resp.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return resp
}
