package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"food_marketplace/internal/model"

	"github.com/jackc/pgx/v5"
)

// OrderRepository defines operations for order documents
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByCustomer(ctx context.Context, customerID string) ([]model.Order, error)
	FindByRestaurant(ctx context.Context, restaurantID string, filters model.OrderFilters) ([]model.Order, error)
	UpdateStatus(ctx context.Context, order *model.Order, status model.OrderStatus) error
}

type orderRepository struct {
	db DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderSelect = `SELECT o.id, o.customer_id, o.restaurant_id, o.items, o.total_price, o.status, o.payment_method,
       o.delivery_address, o.notes, o.version, o.created_at, o.updated_at,
       r.name, r.location, r.user_id, u.name
FROM orders o
JOIN restaurants r ON r.id = o.restaurant_id
JOIN users u ON u.id = o.customer_id`

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	var items []byte
	err := row.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &items, &o.TotalPrice, &o.Status, &o.PaymentMethod,
		&o.DeliveryAddress, &o.Notes, &o.Version, &o.CreatedAt, &o.UpdatedAt,
		&o.RestaurantName, &o.RestaurantAddress, &o.RestaurantOwnerID, &o.CustomerName)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items of order %s: %w", o.ID, err)
	}
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()
	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}
	return orders, nil
}

// Create inserts a new order. Line items are stored as a JSONB snapshot.
func (r *orderRepository) Create(ctx context.Context, o *model.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	if o.Version == 0 {
		o.Version = 1
	}
	sql := `INSERT INTO orders (id, customer_id, restaurant_id, items, total_price, status, payment_method, delivery_address, notes, version, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.db.Exec(ctx, sql, o.ID, o.CustomerID, o.RestaurantID, items, int64(o.TotalPrice), string(o.Status),
		o.PaymentMethod, o.DeliveryAddress, o.Notes, o.Version, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// FindByID retrieves an order. A missing order yields (nil, nil).
func (r *orderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	return o, nil
}

// FindByCustomer returns the customer's orders, newest first
func (r *orderRepository) FindByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, orderSelect+` WHERE o.customer_id = $1 ORDER BY o.created_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by customer: %w", err)
	}
	return collectOrders(rows)
}

// FindByRestaurant returns the restaurant's orders, newest first
func (r *orderRepository) FindByRestaurant(ctx context.Context, restaurantID string, filters model.OrderFilters) ([]model.Order, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(orderSelect + ` WHERE o.restaurant_id = $1`)
	args := []interface{}{restaurantID}

	if filters.Status != nil {
		queryBuilder.WriteString(" AND o.status = $2")
		args = append(args, string(*filters.Status))
	}
	queryBuilder.WriteString(" ORDER BY o.created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by restaurant: %w", err)
	}
	return collectOrders(rows)
}

// UpdateStatus writes the new status only if the stored version still
// matches order.Version. On success the order's status, version and
// updated_at are refreshed in place.
func (r *orderRepository) UpdateStatus(ctx context.Context, o *model.Order, status model.OrderStatus) error {
	sql := `UPDATE orders SET status = $3, version = version + 1, updated_at = NOW()
            WHERE id = $1 AND version = $2 RETURNING version, updated_at`
	err := r.db.QueryRow(ctx, sql, o.ID, o.Version, string(status)).Scan(&o.Version, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVersionConflict
		}
		return fmt.Errorf("failed to update order status: %w", err)
	}
	o.Status = status
	return nil
}
