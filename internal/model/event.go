package model

// Topics published on the order event bus
const (
	TopicOrderCreated       = "order_created"
	TopicOrderStatusUpdated = "order_status_updated"
	TopicOrderCancelled     = "order_cancelled"
)

// OrderEvent is the payload of every order lifecycle message. Order is
// only set for order_created.
type OrderEvent struct {
	OrderID        string      `json:"orderId"`
	Status         OrderStatus `json:"status"`
	PreviousStatus OrderStatus `json:"previousStatus,omitempty"`
	RestaurantID   string      `json:"restaurantId,omitempty"`
	RestaurantName string      `json:"restaurantName,omitempty"`
	Reason         string      `json:"reason,omitempty"`
	CancelledBy    string      `json:"cancelledBy,omitempty"`
	Order          *OrderView  `json:"order,omitempty"`
}
