package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/NextOxyOfficial/LyriczFashion/internal/commissions"
	"github.com/NextOxyOfficial/LyriczFashion/internal/designusage"
	"github.com/NextOxyOfficial/LyriczFashion/internal/inventory"
	"github.com/NextOxyOfficial/LyriczFashion/internal/products"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/config"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
	pkgerrors "github.com/NextOxyOfficial/LyriczFashion/pkg/errors"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/logger"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/metrics"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the order placement and lifecycle operations.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*UpdateStatusResult, error)
	ListForUser(ctx context.Context, userID int64, params pagination.Params) ([]models.Order, error)
	FindForUser(ctx context.Context, orderID, userID int64, isStaff bool) (*models.Order, error)
	SellerOrders(ctx context.Context, userID int64) (*SellerRollup, error)
}

type service struct {
	repo        Repository
	products    products.Repository
	commissions commissions.Service
	tx          txRunner
	cfg         config.CheckoutConfig
	logger      *logger.Logger
	metrics     *metrics.CheckoutMetrics
}

// NewService builds an orders service with the required dependencies.
func NewService(
	repo Repository,
	productRepo products.Repository,
	commissionSvc commissions.Service,
	tx txRunner,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
	checkoutMetrics *metrics.CheckoutMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if commissionSvc == nil {
		return nil, fmt.Errorf("commissions service is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:        repo,
		products:    productRepo,
		commissions: commissionSvc,
		tx:          tx,
		cfg:         cfg,
		logger:      logg,
		metrics:     checkoutMetrics,
	}, nil
}

// Place runs the whole checkout in one transaction: every line is validated,
// stock-reserved and priced, commissions are recorded for referenced designs,
// and the order total including the shipping fee is committed. Any refusal
// rolls the entire order back.
func (s *service) Place(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	if err := validatePlaceInput(input); err != nil {
		s.metrics.IncRejected("validation")
		return nil, err
	}

	started := time.Now()
	var result PlaceOrderResult

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := s.products.WithTx(tx)
		orderRepo := s.repo.WithTx(tx)

		order := &models.Order{
			UserID:          input.UserID,
			Status:          enums.OrderStatusPending,
			PaymentMethod:   input.PaymentMethod,
			ShippingAddress: input.ShippingAddress,
			CustomerName:    input.CustomerName,
			CustomerPhone:   input.CustomerPhone,
			TotalAmount:     decimal.Zero,
		}
		if _, err := orderRepo.Create(ctx, order); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		total := decimal.Zero
		recorded := 0
		for _, line := range input.Items {
			product, err := productRepo.FindActiveByID(ctx, line.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
					WithDetails(map[string]any{"product_id": line.ProductID})
			}
			if err != nil {
				return fmt.Errorf("loading product %d: %w", line.ProductID, err)
			}

			if err := checkEligibility(product, input.UserID); err != nil {
				return err
			}

			buyPrice := product.BuyPrice
			switch {
			case product.Kind == enums.ProductKindCustom && product.MockupVariantID != nil:
				if err := inventory.ReserveVariantStock(ctx, tx, *product.MockupVariantID, line.Quantity); err != nil {
					return err
				}
				if product.MockupVariant != nil {
					buyPrice = product.MockupVariant.EffectivePrice()
				}
			case product.Kind == enums.ProductKindCustom:
				// Freehand customs are printed to order and carry no
				// stock of their own.
			default:
				if err := inventory.ReserveProductStock(ctx, tx, product.ID, line.Quantity); err != nil {
					return err
				}
			}

			item := models.OrderItem{
				OrderID:         order.ID,
				ProductID:       product.ID,
				MockupVariantID: product.MockupVariantID,
				Quantity:        line.Quantity,
				BuyPrice:        buyPrice,
				Price:           product.EffectivePrice(),
			}
			if err := orderRepo.CreateItems(ctx, []models.OrderItem{item}); err != nil {
				return fmt.Errorf("creating order item: %w", err)
			}
			total = total.Add(item.TotalPrice())

			for _, designID := range designusage.ExtractDesignIDs(product.DesignData) {
				commission, err := s.commissions.RecordUse(ctx, tx, commissions.RecordUseInput{
					DesignID:    designID,
					UsedByID:    input.UserID,
					OrderID:     order.ID,
					OrderItemID: item.ID,
					Quantity:    line.Quantity,
				})
				if err != nil {
					return fmt.Errorf("recording commission for design %d: %w", designID, err)
				}
				if commission != nil {
					recorded++
				}
			}
		}

		fee := s.shippingFee(total)
		order.TotalAmount = total.Add(fee)
		if err := orderRepo.UpdateTotal(ctx, order.ID, order.TotalAmount); err != nil {
			return fmt.Errorf("updating order total: %w", err)
		}

		result = PlaceOrderResult{
			Order:               order,
			ShippingFee:         fee,
			CommissionsRecorded: recorded,
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			s.metrics.IncRejected(string(typed.Code()))
		} else {
			s.metrics.IncRejected("internal")
		}
		return nil, err
	}

	s.metrics.IncPlaced()
	s.metrics.AddCommissionsRecorded(result.CommissionsRecorded)
	s.metrics.ObservePlacementDuration(time.Since(started))

	ctx = s.logger.WithOrderID(ctx, result.Order.ID)
	s.logger.Info(s.logger.WithFields(ctx, map[string]any{
		"total":       result.Order.TotalAmount.String(),
		"items":       len(input.Items),
		"commissions": result.CommissionsRecorded,
	}), "order placed")
	return &result, nil
}

// UpdateStatus applies one lifecycle transition. Delivery settles the order's
// commissions and cancellation restocks every line and voids its pending
// commissions, all inside the same transaction as the status flip.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*UpdateStatusResult, error) {
	if input.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !input.NextStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": string(input.NextStatus)})
	}

	var result UpdateStatusResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.repo.WithTx(tx)

		order, err := orderRepo.FindByID(ctx, input.OrderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if err != nil {
			return fmt.Errorf("loading order: %w", err)
		}

		if !order.Status.CanTransitionTo(input.NextStatus) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition disallowed").
				WithDetails(map[string]any{
					"current": string(order.Status),
					"next":    string(input.NextStatus),
				})
		}

		// Guard on the loaded status so a concurrent transition loses
		// instead of silently overwriting.
		changed, err := orderRepo.UpdateStatus(ctx, order.ID, order.Status, input.NextStatus)
		if err != nil {
			return fmt.Errorf("updating status: %w", err)
		}
		if changed == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order was updated concurrently")
		}

		result = UpdateStatusResult{PreviousStatus: order.Status}

		switch input.NextStatus {
		case enums.OrderStatusDelivered:
			settled, err := s.commissions.SettleForOrder(ctx, tx, order.ID)
			if err != nil {
				return fmt.Errorf("settling commissions: %w", err)
			}
			result.CommissionsSettled = settled
		case enums.OrderStatusCancelled:
			for _, item := range order.Items {
				switch {
				case item.MockupVariantID != nil:
					if err := inventory.ReleaseVariantStock(ctx, tx, *item.MockupVariantID, item.Quantity); err != nil {
						return err
					}
				case item.Product != nil && item.Product.Kind == enums.ProductKindCustom:
					// Nothing was reserved for a variantless custom.
				default:
					if err := inventory.ReleaseProductStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
						return err
					}
				}
			}
			cancelled, err := s.commissions.CancelForOrder(ctx, tx, order.ID)
			if err != nil {
				return fmt.Errorf("cancelling commissions: %w", err)
			}
			result.CommissionsCancelled = cancelled
		}

		order.Status = input.NextStatus
		result.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddCommissionsSettled(int(result.CommissionsSettled))
	s.metrics.AddCommissionsCancelled(int(result.CommissionsCancelled))

	ctx = s.logger.WithOrderID(ctx, input.OrderID)
	s.logger.Info(s.logger.WithFields(ctx, map[string]any{
		"from":  string(result.PreviousStatus),
		"to":    string(input.NextStatus),
		"actor": input.ActorUserID,
	}), "order status updated")
	return &result, nil
}

func (s *service) ListForUser(ctx context.Context, userID int64, params pagination.Params) ([]models.Order, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	orders, err := s.repo.ListForUser(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

func (s *service) FindForUser(ctx context.Context, orderID, userID int64, isStaff bool) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading order: %w", err)
	}
	if !isStaff && (order.UserID == nil || *order.UserID != userID) {
		// Hide other users' orders entirely.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// SellerOrders narrows incoming orders to the lines sold by the user's store
// and aggregates revenue and profit over them.
func (s *service) SellerOrders(ctx context.Context, userID int64) (*SellerRollup, error) {
	store, err := s.repo.FindStoreByOwner(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading store: %w", err)
	}

	orders, err := s.repo.ListForStore(ctx, store.ID)
	if err != nil {
		return nil, fmt.Errorf("listing store orders: %w", err)
	}

	rollup := &SellerRollup{
		Orders:       make([]SellerOrder, 0, len(orders)),
		TotalRevenue: decimal.Zero,
		TotalProfit:  decimal.Zero,
	}
	for _, order := range orders {
		view := SellerOrder{
			OrderID:  order.ID,
			Status:   order.Status,
			PlacedAt: order.CreatedAt.UTC().Format(time.RFC3339),
			Total:    decimal.Zero,
			Profit:   decimal.Zero,
		}
		for _, item := range order.Items {
			if item.Product == nil || item.Product.StoreID == nil || *item.Product.StoreID != store.ID {
				continue
			}
			line := SellerOrderLine{
				OrderItemID: item.ID,
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   item.Price,
				LineTotal:   item.TotalPrice(),
				LineProfit:  item.TotalProfit(),
			}
			view.Lines = append(view.Lines, line)
			view.Total = view.Total.Add(line.LineTotal)
			view.Profit = view.Profit.Add(line.LineProfit)
			view.ItemCount += item.Quantity
		}
		if len(view.Lines) == 0 {
			continue
		}

		rollup.Orders = append(rollup.Orders, view)
		rollup.OrderCount++
		switch order.Status {
		case enums.OrderStatusDelivered:
			rollup.DeliveredCount++
		case enums.OrderStatusPending:
			rollup.PendingCount++
		}
		rollup.TotalRevenue = rollup.TotalRevenue.Add(view.Total)
		rollup.TotalProfit = rollup.TotalProfit.Add(view.Profit)
	}
	return rollup, nil
}

// shippingFee charges the flat fee on orders up to the free-shipping
// threshold. Empty orders and orders above the threshold ship free.
func (s *service) shippingFee(total decimal.Decimal) decimal.Decimal {
	if total.IsPositive() && total.LessThanOrEqual(s.cfg.FreeShippingThreshold) {
		return s.cfg.FlatShippingFee
	}
	return decimal.Zero
}

func validatePlaceInput(input PlaceOrderInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	if input.ShippingAddress == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method").
			WithDetails(map[string]any{"payment_method": string(input.PaymentMethod)})
	}
	for _, line := range input.Items {
		if line.ProductID <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
	}
	return nil
}

func checkEligibility(product *models.Product, userID *int64) error {
	switch product.Kind {
	case enums.ProductKindDesign:
		if !product.IsPublished {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": product.ID})
		}
	case enums.ProductKindCustom:
		// Custom garments are private to their creator. Guests may buy
		// guest-created customs, which carry no creator.
		if product.CreatedByID != nil && (userID == nil || *userID != *product.CreatedByID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another customer").
				WithDetails(map[string]any{"product_id": product.ID})
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown product kind").
			WithDetails(map[string]any{"product_id": product.ID, "kind": string(product.Kind)})
	}
	return nil
}
