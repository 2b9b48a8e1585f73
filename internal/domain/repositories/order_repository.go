package repositories

import (
	"context"
	"time"

	"github.com/medzoshop/medzo-backend/internal/domain/entities"
)

// OrderRepository defines the interface for sale persistence.
type OrderRepository interface {
	// CreateSale commits a sale as one atomic unit of work: it allocates the
	// next invoice number, persists the order header and line items, and
	// decrements each sold listing's quantity, failing with InsufficientStock
	// if any decrement would go negative. On any failure nothing is persisted.
	CreateSale(ctx context.Context, order *entities.Order) (*entities.Order, error)

	// GetByID retrieves an order with its line items
	GetByID(ctx context.Context, id string) (*entities.Order, error)

	// UpdateStatus applies a fulfillment status transition. Transitions are
	// driven by the order-fulfillment workflow, not the engine.
	UpdateStatus(ctx context.Context, id string, status entities.OrderStatus) error

	// ListByPharmacy returns a pharmacy's orders, newest first
	ListByPharmacy(ctx context.Context, pharmacyID string, filter OrderFilter) ([]*entities.Order, error)
}

// OrderFilter defines filters for listing orders
type OrderFilter struct {
	Status entities.OrderStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
