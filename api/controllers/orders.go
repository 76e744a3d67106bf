package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/NextOxyOfficial/LyriczFashion/api/middleware"
	"github.com/NextOxyOfficial/LyriczFashion/api/responses"
	"github.com/NextOxyOfficial/LyriczFashion/api/validators"
	orderssvc "github.com/NextOxyOfficial/LyriczFashion/internal/orders"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
	pkgerrors "github.com/NextOxyOfficial/LyriczFashion/pkg/errors"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/logger"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/pagination"
)

// CreateOrder handles checkout for customers and guests.
func CreateOrder(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orderssvc.PlaceOrderInput{
			ShippingAddress: payload.ShippingAddress,
			CustomerName:    payload.CustomerName,
			CustomerPhone:   payload.CustomerPhone,
			PaymentMethod:   enums.PaymentMethodCOD,
		}
		if payload.PaymentMethod != "" {
			method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method").
						WithDetails(map[string]any{"payment_method": payload.PaymentMethod}))
				return
			}
			input.PaymentMethod = method
		}
		if userID := middleware.UserIDFromContext(r.Context()); userID > 0 {
			input.UserID = &userID
		}
		for _, line := range payload.Items {
			input.Items = append(input.Items, orderssvc.PlaceOrderItemInput{
				ProductID: line.ProductID,
				Quantity:  coerceQuantity(line.Quantity),
			})
		}

		result, err := svc.Place(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, createOrderResponse{
			Order:               newOrderResponse(result.Order),
			ShippingFee:         result.ShippingFee.String(),
			CommissionsRecorded: result.CommissionsRecorded,
		})
	}
}

// ListOrders returns the authenticated customer's order history.
func ListOrders(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		orders, err := svc.ListForUser(r.Context(), userID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderListResponse(orders, limit))
	}
}

// GetOrder returns one order when it belongs to the caller. Staff see all
// orders.
func GetOrder(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		isStaff := middleware.RoleFromContext(ctx) == string(enums.UserRoleStaff)
		order, err := svc.FindForUser(ctx, orderID, middleware.UserIDFromContext(ctx), isStaff)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// UpdateOrderStatus applies a staff-initiated lifecycle transition.
func UpdateOrderStatus(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
					WithDetails(map[string]any{"status": payload.Status}))
			return
		}

		result, err := svc.UpdateStatus(r.Context(), orderssvc.UpdateStatusInput{
			OrderID:     orderID,
			NextStatus:  status,
			ActorUserID: middleware.UserIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updateStatusResponse{
			Order:                newOrderResponse(result.Order),
			PreviousStatus:       string(result.PreviousStatus),
			CommissionsSettled:   result.CommissionsSettled,
			CommissionsCancelled: result.CommissionsCancelled,
		})
	}
}

type createOrderRequest struct {
	Items           []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string                   `json:"shipping_address" validate:"required"`
	CustomerName    *string                  `json:"customer_name,omitempty"`
	CustomerPhone   *string                  `json:"customer_phone,omitempty"`
	PaymentMethod   string                   `json:"payment_method,omitempty"`
}

type createOrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  any   `json:"quantity"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type createOrderResponse struct {
	Order               orderResponse `json:"order"`
	ShippingFee         string        `json:"shipping_fee"`
	CommissionsRecorded int           `json:"commissions_recorded"`
}

type updateStatusResponse struct {
	Order                orderResponse `json:"order"`
	PreviousStatus       string        `json:"previous_status"`
	CommissionsSettled   int64         `json:"commissions_settled"`
	CommissionsCancelled int64         `json:"commissions_cancelled"`
}

type orderResponse struct {
	ID              int64               `json:"id"`
	Status          string              `json:"status"`
	PaymentMethod   string              `json:"payment_method"`
	TotalAmount     string              `json:"total_amount"`
	ShippingAddress string              `json:"shipping_address"`
	CustomerName    *string             `json:"customer_name,omitempty"`
	CustomerPhone   *string             `json:"customer_phone,omitempty"`
	CreatedAt       string              `json:"created_at"`
	Items           []orderItemResponse `json:"items"`
}

type orderItemResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

type orderListResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func newOrderResponse(order *models.Order) orderResponse {
	if order == nil {
		return orderResponse{}
	}
	resp := orderResponse{
		ID:              order.ID,
		Status:          string(order.Status),
		PaymentMethod:   string(order.PaymentMethod),
		TotalAmount:     order.TotalAmount.String(),
		ShippingAddress: order.ShippingAddress,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CreatedAt:       order.CreatedAt.UTC().Format(time.RFC3339),
		Items:           make([]orderItemResponse, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		line := orderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price.String(),
			LineTotal: item.TotalPrice().String(),
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}

func newOrderListResponse(orders []models.Order, limit int) orderListResponse {
	resp := orderListResponse{Orders: make([]orderResponse, 0, len(orders))}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, newOrderResponse(&orders[i]))
	}
	if hasMore && len(orders) > 0 {
		last := orders[len(orders)-1]
		resp.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return resp
}

// coerceQuantity mirrors lenient client behavior: numbers are truncated to
// integers, numeric strings are parsed, and anything unusable becomes 1.
// Values below 1 survive coercion and are rejected later.
func coerceQuantity(raw any) int {
	switch value := raw.(type) {
	case nil:
		return 1
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return int(n)
		}
		if f, err := value.Float64(); err == nil {
			return int(f)
		}
		return 1
	case string:
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		return 1
	case float64:
		return int(value)
	default:
		return 1
	}
}
