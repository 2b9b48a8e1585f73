package services

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/providers"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/observability"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
)

// totalsTolerance absorbs float rounding when validating money arithmetic.
// Anything beyond half a cent is a caller bug, not rounding.
const totalsTolerance = 0.005

// SaleService commits walk-in sales against pharmacy stock
type SaleService struct {
	orders   repositories.OrderRepository
	listings repositories.ListingRepository
	bus      providers.EventBus
	metrics  *observability.Metrics
}

// NewSaleService creates a new sale service
func NewSaleService(orders repositories.OrderRepository, listings repositories.ListingRepository, bus providers.EventBus, metrics *observability.Metrics) *SaleService {
	return &SaleService{
		orders:   orders,
		listings: listings,
		bus:      bus,
		metrics:  metrics,
	}
}

// CommitSale validates and commits a sale. Persistence is atomic: invoice
// allocation, order rows and stock decrements land together or not at all.
// After the commit a stock.changed event is published with the remaining
// quantities; event delivery is best-effort and never fails the sale.
func (s *SaleService) CommitSale(ctx context.Context, order *entities.Order) (*entities.Order, error) {
	if err := s.validate(order); err != nil {
		observability.RecordSaleFailed(ctx, s.metrics, string(apperrors.TypeOf(err)))
		return nil, err
	}

	committed, err := s.orders.CreateSale(ctx, order)
	if err != nil {
		observability.RecordSaleFailed(ctx, s.metrics, string(apperrors.TypeOf(err)))
		return nil, err
	}

	observability.RecordSaleCommitted(ctx, s.metrics, committed.PharmacyID)
	s.publishStockChanged(ctx, committed)

	return committed, nil
}

// GetByID retrieves an order with its line items
func (s *SaleService) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// UpdateStatus applies a fulfillment status transition
func (s *SaleService) UpdateStatus(ctx context.Context, id string, status entities.OrderStatus) error {
	switch status {
	case entities.OrderStatusPending,
		entities.OrderStatusReady,
		entities.OrderStatusCompleted,
		entities.OrderStatusHold:
	default:
		return apperrors.NewValidationError("unknown order status: " + string(status))
	}

	return s.orders.UpdateStatus(ctx, id, status)
}

// ListByPharmacy returns a pharmacy's orders, newest first
func (s *SaleService) ListByPharmacy(ctx context.Context, pharmacyID string, filter repositories.OrderFilter) ([]*entities.Order, error) {
	return s.orders.ListByPharmacy(ctx, pharmacyID, filter)
}

func (s *SaleService) validate(order *entities.Order) error {
	if order.PharmacyID == "" {
		return apperrors.NewValidationError("pharmacy id is required")
	}
	if order.CustomerName == "" {
		return apperrors.NewValidationError("customer name is required")
	}
	if !entities.ValidPaymentMethod(order.PaymentMethod) {
		return apperrors.NewValidationError("unknown payment method: " + string(order.PaymentMethod))
	}
	if len(order.Items) == 0 {
		return apperrors.NewValidationError("sale must contain at least one item")
	}
	if order.Discount < 0 || order.Tax < 0 {
		return apperrors.NewValidationError("discount and tax cannot be negative")
	}

	var subtotal float64
	for _, item := range order.Items {
		if item.ListingID == "" {
			return apperrors.NewValidationError("line item listing id is required")
		}
		if item.Quantity <= 0 {
			return apperrors.NewValidationError("line item quantity must be positive")
		}
		if item.UnitPrice < 0 {
			return apperrors.NewValidationError("line item unit price cannot be negative")
		}
		subtotal += float64(item.Quantity) * item.UnitPrice
	}

	if math.Abs(subtotal-order.Subtotal) > totalsTolerance {
		return apperrors.NewValidationError("subtotal does not match line items")
	}
	if math.Abs((order.Subtotal-order.Discount+order.Tax)-order.Total) > totalsTolerance {
		return apperrors.NewValidationError("total does not match subtotal, discount and tax")
	}

	return nil
}

// publishStockChanged fans out remaining quantities after a committed sale.
// Quantities are re-read after commit; a listing that vanished in between is
// simply omitted.
func (s *SaleService) publishStockChanged(ctx context.Context, order *entities.Order) {
	if s.bus == nil {
		return
	}

	remaining := map[string]int{}
	for _, item := range order.Items {
		listing, err := s.listings.GetByID(ctx, item.ListingID)
		if err != nil {
			continue
		}
		remaining[listing.ID] = listing.Quantity
	}

	payload, err := json.Marshal(entities.StockChangedPayload{
		OrderID:   order.ID,
		Invoice:   order.InvoiceNumber,
		Remaining: remaining,
	})
	if err != nil {
		return
	}

	event := &entities.PharmacyEvent{
		ID:         uuid.New().String(),
		Type:       entities.EventTypeStockChanged,
		PharmacyID: order.PharmacyID,
		Payload:    payload,
		CreatedAt:  time.Now(),
	}

	for _, channel := range []string{
		providers.GetPharmacyChannel(order.PharmacyID),
		providers.EventChannelPharmacyUpdates,
	} {
		if err := s.bus.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("channel", channel).
				Str("order_id", order.ID).
				Msg("failed to publish stock change event")
		}
	}
}
