package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food_marketplace/internal/logger"
	"food_marketplace/internal/model"
	"food_marketplace/internal/notifier"
	"food_marketplace/internal/repository"

	"github.com/google/uuid"
)

// OrderService owns the order lifecycle: placement, status transitions
// and role-scoped reads.
type OrderService interface {
	Create(ctx context.Context, actor model.Actor, req model.PlaceOrderRequest) (*model.OrderView, error)
	Transition(ctx context.Context, actor model.Actor, orderID, status, reason string) (*model.OrderView, error)
	Cancel(ctx context.Context, actor model.Actor, orderID, reason string) (*model.OrderView, error)
	Get(ctx context.Context, actor model.Actor, orderID string) (*model.OrderView, error)
	ListForCustomer(ctx context.Context, actor model.Actor) ([]model.OrderView, error)
	ListForRestaurant(ctx context.Context, actor model.Actor, filters model.OrderFilters) ([]model.OrderView, error)
	GetForRestaurant(ctx context.Context, actor model.Actor, orderID string) (*model.OrderView, error)
}

type orderService struct {
	orders      repository.OrderRepository
	restaurants repository.RestaurantRepository
	notifier    notifier.Notifier
	policy      TransitionPolicy
	log         *logger.Logger
}

// NewOrderService creates a new OrderService. A nil policy means LoosePolicy.
func NewOrderService(orders repository.OrderRepository, restaurants repository.RestaurantRepository,
	n notifier.Notifier, policy TransitionPolicy, log *logger.Logger) OrderService {
	if policy == nil {
		policy = LoosePolicy{}
	}
	if n == nil {
		n = notifier.Nop{}
	}
	return &orderService{
		orders:      orders,
		restaurants: restaurants,
		notifier:    n,
		policy:      policy,
		log:         log,
	}
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *orderService) Create(ctx context.Context, actor model.Actor, req model.PlaceOrderRequest) (*model.OrderView, error) {
	if !actor.Is(model.RoleCustomer) {
		return nil, ErrAccessDenied
	}
	if !isUUID(req.RestaurantID) {
		return nil, Validation("Invalid restaurant ID format")
	}

	restaurant, err := s.restaurants.FindByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant for order: %w", err)
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}

	items, total, err := AssembleOrder(restaurant, req.Items)
	if err != nil {
		return nil, err
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.PaymentCard
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:                uuid.NewString(),
		CustomerID:        actor.UserID,
		RestaurantID:      restaurant.ID,
		Items:             items,
		TotalPrice:        total,
		Status:            model.StatusNew,
		PaymentMethod:     paymentMethod,
		DeliveryAddress:   req.DeliveryAddress,
		Notes:             req.Notes,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
		RestaurantName:    restaurant.Name,
		RestaurantAddress: restaurant.Location,
		RestaurantOwnerID: restaurant.UserID,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repo: %w", err)
	}

	view := order.View(false)
	s.publish(ctx, model.TopicOrderCreated, order.ID, model.OrderEvent{
		OrderID:        order.ID,
		Status:         order.Status,
		RestaurantID:   order.RestaurantID,
		RestaurantName: order.RestaurantName,
		Order:          &view,
	})

	s.log.Info(ctx, "order_created", "Order placed",
		"order_id", order.ID, "restaurant_id", order.RestaurantID, "total", total.String())
	return &view, nil
}

func (s *orderService) Transition(ctx context.Context, actor model.Actor, orderID, status, reason string) (*model.OrderView, error) {
	next, ok := model.ParseOrderStatus(status)

	switch actor.Role {
	case model.RoleCustomer:
		if !ok || next != model.StatusCancelled {
			return nil, ErrCustomerCancelOnly
		}
		return s.cancelAsCustomer(ctx, actor, orderID, reason)
	case model.RoleRestaurant:
		if !ok {
			return nil, Validation("Invalid status value")
		}
		return s.transitionAsRestaurant(ctx, actor, orderID, next, reason)
	default:
		return nil, ErrAccessDenied
	}
}

func (s *orderService) Cancel(ctx context.Context, actor model.Actor, orderID, reason string) (*model.OrderView, error) {
	return s.Transition(ctx, actor, orderID, string(model.StatusCancelled), reason)
}

func (s *orderService) cancelAsCustomer(ctx context.Context, actor model.Actor, orderID, reason string) (*model.OrderView, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != actor.UserID {
		return nil, ErrOrderNotFound
	}

	if order.Status == model.StatusCancelled {
		view := order.View(false)
		return &view, nil
	}
	if order.Status.IsCompleted() {
		return nil, ErrOrderCompleted
	}
	if err := s.policy.Check(order.Status, model.StatusCancelled); err != nil {
		return nil, err
	}

	if err := s.applyStatus(ctx, order, model.StatusCancelled, actor, reason); err != nil {
		return nil, err
	}
	view := order.View(false)
	return &view, nil
}

func (s *orderService) transitionAsRestaurant(ctx context.Context, actor model.Actor, orderID string, next model.OrderStatus, reason string) (*model.OrderView, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RestaurantOwnerID != actor.UserID {
		return nil, ErrOrderNotFound
	}
	if err := s.policy.Check(order.Status, next); err != nil {
		return nil, err
	}

	if err := s.applyStatus(ctx, order, next, actor, reason); err != nil {
		return nil, err
	}
	view := order.View(true)
	return &view, nil
}

// applyStatus persists the status change and then emits the matching
// event. A lost compare-and-swap surfaces as a conflict.
func (s *orderService) applyStatus(ctx context.Context, order *model.Order, next model.OrderStatus, actor model.Actor, reason string) error {
	previous := order.Status

	if err := s.orders.UpdateStatus(ctx, order, next); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return ErrConcurrentUpdate
		}
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if next == model.StatusCancelled {
		s.publish(ctx, model.TopicOrderCancelled, order.ID, model.OrderEvent{
			OrderID:        order.ID,
			Status:         next,
			PreviousStatus: previous,
			RestaurantID:   order.RestaurantID,
			Reason:         reason,
			CancelledBy:    actor.Role,
		})
	} else {
		s.publish(ctx, model.TopicOrderStatusUpdated, order.ID, model.OrderEvent{
			OrderID:        order.ID,
			Status:         next,
			PreviousStatus: previous,
			RestaurantID:   order.RestaurantID,
			RestaurantName: order.RestaurantName,
		})
	}

	s.log.Info(ctx, "order_status_changed", "Order status updated",
		"order_id", order.ID, "from", string(previous), "to", string(next), "by", actor.Role)
	return nil
}

func (s *orderService) Get(ctx context.Context, actor model.Actor, orderID string) (*model.OrderView, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch actor.UserID {
	case order.CustomerID:
		view := order.View(false)
		return &view, nil
	case order.RestaurantOwnerID:
		view := order.View(true)
		return &view, nil
	default:
		return nil, ErrAccessDenied
	}
}

func (s *orderService) ListForCustomer(ctx context.Context, actor model.Actor) ([]model.OrderView, error) {
	orders, err := s.orders.FindByCustomer(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer orders: %w", err)
	}
	views := make([]model.OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, orders[i].View(false))
	}
	return views, nil
}

func (s *orderService) ListForRestaurant(ctx context.Context, actor model.Actor, filters model.OrderFilters) ([]model.OrderView, error) {
	restaurant, err := s.ownedRestaurant(ctx, actor)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.FindByRestaurant(ctx, restaurant.ID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurant orders: %w", err)
	}
	views := make([]model.OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, orders[i].View(true))
	}
	return views, nil
}

func (s *orderService) GetForRestaurant(ctx context.Context, actor model.Actor, orderID string) (*model.OrderView, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RestaurantOwnerID != actor.UserID {
		return nil, ErrOrderNotFound
	}
	view := order.View(true)
	return &view, nil
}

func (s *orderService) findOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if !isUUID(orderID) {
		return nil, ErrOrderNotFound
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ownedRestaurant(ctx context.Context, actor model.Actor) (*model.Restaurant, error) {
	restaurant, err := s.restaurants.FindByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find restaurant for owner: %w", err)
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, nil
}

// publish is best effort: the notifier bounds its own attempt and a
// failure only produces a warning.
func (s *orderService) publish(ctx context.Context, topic, key string, event model.OrderEvent) {
	if !s.notifier.Publish(ctx, topic, key, event) {
		s.log.Warn(ctx, "order_event_not_delivered", "Order event could not be published",
			"topic", topic, "order_id", key, "error", ErrUpstreamUnavailable.Error())
	}
}
