package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/medzoshop/medzo-backend/internal/domain/entities"
	"github.com/medzoshop/medzo-backend/internal/domain/repositories"
	"github.com/medzoshop/medzo-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medzoshop/medzo-backend/pkg/errors"
)

// OrderAdapter implements the OrderRepository interface
type OrderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewOrderAdapter creates a new order adapter
func NewOrderAdapter(client *postgres.Client) repositories.OrderRepository {
	return &OrderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CreateSale commits a sale atomically: invoice allocation, order header,
// line items and stock decrements either all land or none do. A decrement
// that would drive quantity negative aborts the whole transaction with
// InsufficientStock, leaving every listing untouched.
func (a *OrderAdapter) CreateSale(ctx context.Context, order *entities.Order) (*entities.Order, error) {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.NewTransactionFailedError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	// Invoice numbers come off a database sequence so they stay monotonic
	// across concurrent sales and across restarts.
	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT nextval('invoice_seq')`).Scan(&seq); err != nil {
		return nil, apperrors.NewTransactionFailedError("failed to allocate invoice number", err)
	}

	now := time.Now()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.InvoiceNumber = fmt.Sprintf("INV-%s-%d", now.Format("060102"), seq)
	order.Status = entities.OrderStatusPending
	order.CreatedAt = now

	headerQuery, headerArgs, err := a.db.Insert("orders").Rows(goqu.Record{
		"id":             order.ID,
		"pharmacy_id":    order.PharmacyID,
		"invoice_number": order.InvoiceNumber,
		"customer_name":  order.CustomerName,
		"customer_phone": order.CustomerPhone,
		"payment_method": order.PaymentMethod,
		"subtotal":       order.Subtotal,
		"discount":       order.Discount,
		"tax":            order.Tax,
		"total":          order.Total,
		"status":         order.Status,
		"created_at":     order.CreatedAt,
	}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build order insert", err)
	}

	if _, err := tx.ExecContext(ctx, headerQuery, headerArgs...); err != nil {
		return nil, apperrors.NewTransactionFailedError("failed to insert order", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = order.ID
		item.LineTotal = float64(item.Quantity) * item.UnitPrice

		itemQuery, itemArgs, err := a.db.Insert("order_items").Rows(goqu.Record{
			"id":         item.ID,
			"order_id":   item.OrderID,
			"listing_id": item.ListingID,
			"name":       item.Name,
			"quantity":   item.Quantity,
			"unit_price": item.UnitPrice,
			"line_total": item.LineTotal,
		}).ToSQL()
		if err != nil {
			return nil, apperrors.NewInternalError("failed to build item insert", err)
		}

		if _, err := tx.ExecContext(ctx, itemQuery, itemArgs...); err != nil {
			return nil, apperrors.NewTransactionFailedError("failed to insert order item", err)
		}

		if err := a.decrementStock(ctx, tx, item); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewTransactionFailedError("failed to commit sale", err)
	}

	return order, nil
}

// decrementStock applies a guarded decrement: the WHERE clause refuses the
// update when quantity on hand is below the sold amount, so stock can never
// go negative even under concurrent sales.
func (a *OrderAdapter) decrementStock(ctx context.Context, tx *sql.Tx, item *entities.LineItem) error {
	query, args, err := a.db.Update("listings").
		Set(goqu.Record{
			"quantity":   goqu.L("quantity - ?", item.Quantity),
			"updated_at": time.Now(),
		}).
		Where(
			goqu.Ex{"id": item.ListingID},
			goqu.C("quantity").Gte(item.Quantity),
		).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build stock update", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewTransactionFailedError("failed to decrement stock", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewTransactionFailedError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		// Distinguish a missing listing from one that exists but is short.
		var quantity int
		err := tx.QueryRowContext(ctx, `SELECT quantity FROM listings WHERE id = $1`, item.ListingID).Scan(&quantity)
		if err == sql.ErrNoRows {
			return apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", item.ListingID))
		}
		if err != nil {
			return apperrors.NewTransactionFailedError("failed to check stock", err)
		}
		return apperrors.NewInsufficientStockError(
			fmt.Sprintf("insufficient stock for %s: requested %d, available %d", item.Name, item.Quantity, quantity),
		)
	}

	return nil
}

// GetByID retrieves an order with its line items
func (a *OrderAdapter) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	query, args, err := a.db.Select(
		"id", "pharmacy_id", "invoice_number", "customer_name", "customer_phone",
		"payment_method", "subtotal", "discount", "tax", "total",
		"status", "created_at",
	).From("orders").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	order := &entities.Order{}
	var customerPhone sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&order.ID,
		&order.PharmacyID,
		&order.InvoiceNumber,
		&order.CustomerName,
		&customerPhone,
		&order.PaymentMethod,
		&order.Subtotal,
		&order.Discount,
		&order.Tax,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get order", err)
	}

	order.CustomerPhone = customerPhone.String

	items, err := a.listItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// UpdateStatus applies a fulfillment status transition
func (a *OrderAdapter) UpdateStatus(ctx context.Context, id string, status entities.OrderStatus) error {
	query, args, err := a.db.Update("orders").
		Set(goqu.Record{"status": status}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update order status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}

	return nil
}

// ListByPharmacy returns a pharmacy's orders, newest first. Line items are
// omitted from list views; GetByID loads them.
func (a *OrderAdapter) ListByPharmacy(ctx context.Context, pharmacyID string, filter repositories.OrderFilter) ([]*entities.Order, error) {
	ds := a.db.Select(
		"id", "pharmacy_id", "invoice_number", "customer_name", "customer_phone",
		"payment_method", "subtotal", "discount", "tax", "total",
		"status", "created_at",
	).From("orders").
		Where(goqu.Ex{"pharmacy_id": pharmacyID})

	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": filter.Status})
	}

	if filter.From != nil {
		ds = ds.Where(goqu.C("created_at").Gte(*filter.From))
	}

	if filter.To != nil {
		ds = ds.Where(goqu.C("created_at").Lte(*filter.To))
	}

	ds = ds.Order(goqu.I("created_at").Desc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list orders", err)
	}
	defer rows.Close()

	orders := []*entities.Order{}
	for rows.Next() {
		order := &entities.Order{}
		var customerPhone sql.NullString

		err := rows.Scan(
			&order.ID,
			&order.PharmacyID,
			&order.InvoiceNumber,
			&order.CustomerName,
			&customerPhone,
			&order.PaymentMethod,
			&order.Subtotal,
			&order.Discount,
			&order.Tax,
			&order.Total,
			&order.Status,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan order", err)
		}

		order.CustomerPhone = customerPhone.String
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating orders", err)
	}

	return orders, nil
}

func (a *OrderAdapter) listItems(ctx context.Context, orderID string) ([]entities.LineItem, error) {
	query, args, err := a.db.Select(
		"id", "order_id", "listing_id", "name", "quantity", "unit_price", "line_total",
	).From("order_items").
		Where(goqu.Ex{"order_id": orderID}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build items query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list order items", err)
	}
	defer rows.Close()

	items := []entities.LineItem{}
	for rows.Next() {
		item := entities.LineItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ListingID,
			&item.Name,
			&item.Quantity,
			&item.UnitPrice,
			&item.LineTotal,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan order item", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating order items", err)
	}

	return items, nil
}
