package model

import (
	"strings"
	"time"
)

// OrderStatus is a flat enum; which moves between values are legal is
// decided by the service's transition policy, not by the type.
type OrderStatus string

const (
	StatusNew            OrderStatus = "New"
	StatusOrderReceived  OrderStatus = "Order Received"
	StatusConfirmed      OrderStatus = "Confirmed"
	StatusPreparing      OrderStatus = "Preparing"
	StatusReadyForPickup OrderStatus = "Ready for Pickup"
	StatusOnTheWay       OrderStatus = "On the Way"
	StatusDelivered      OrderStatus = "Delivered"
	StatusPickedUp       OrderStatus = "Picked Up"
	StatusCancelled      OrderStatus = "Cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusNew, StatusOrderReceived, StatusConfirmed, StatusPreparing,
	StatusReadyForPickup, StatusOnTheWay, StatusDelivered, StatusPickedUp, StatusCancelled,
}

// ParseOrderStatus matches s against the known statuses, ignoring case
// and surrounding whitespace.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range OrderStatuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further lifecycle progress is expected.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusPickedUp || s == StatusCancelled
}

// IsCompleted reports whether the order reached the customer.
func (s OrderStatus) IsCompleted() bool {
	return s == StatusDelivered || s == StatusPickedUp
}

const (
	PaymentCard = "card"
	PaymentCOD  = "cod"
)

func IsPaymentMethod(s string) bool {
	return s == PaymentCard || s == PaymentCOD
}

// LineItem is a snapshot of a dish taken when the order was placed.
// Later dish edits never reach it.
type LineItem struct {
	DishID   string `json:"dishId"`
	Name     string `json:"name"`
	Price    Money  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Order is the persisted order document. Customer and restaurant
// references are fixed at creation.
type Order struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customer_id"`
	RestaurantID    string      `json:"restaurant_id"`
	Items           []LineItem  `json:"items"`
	TotalPrice      Money       `json:"total_price"`
	Status          OrderStatus `json:"status"`
	PaymentMethod   string      `json:"payment_method"`
	DeliveryAddress *string     `json:"delivery_address,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
	Version         int         `json:"-"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// Read-side joins, never written back
	RestaurantName    string `json:"-"`
	RestaurantAddress string `json:"-"`
	RestaurantOwnerID string `json:"-"`
	CustomerName      string `json:"-"`
}

// OrderView is the normalized representation returned by every
// order-reading endpoint.
type OrderView struct {
	ID                string      `json:"id"`
	CreatedAt         time.Time   `json:"created_at"`
	Status            OrderStatus `json:"status"`
	TotalPrice        Money       `json:"total_price"`
	RestaurantID      string      `json:"restaurant_id"`
	RestaurantName    string      `json:"restaurant_name"`
	RestaurantAddress string      `json:"restaurant_address,omitempty"`
	CustomerID        string      `json:"customer_id,omitempty"`
	CustomerName      string      `json:"customer_name,omitempty"`
	Items             []LineItem  `json:"items"`
	DeliveryAddress   string      `json:"delivery_address"`
	PaymentMethod     string      `json:"payment_method"`
	Notes             string      `json:"notes"`
}

// View builds the normalized representation. withCustomer adds the
// customer block shown to restaurant operators.
func (o *Order) View(withCustomer bool) OrderView {
	v := OrderView{
		ID:                o.ID,
		CreatedAt:         o.CreatedAt,
		Status:            o.Status,
		TotalPrice:        o.TotalPrice,
		RestaurantID:      o.RestaurantID,
		RestaurantName:    o.RestaurantName,
		RestaurantAddress: o.RestaurantAddress,
		Items:             o.Items,
		PaymentMethod:     o.PaymentMethod,
	}
	if v.Items == nil {
		v.Items = []LineItem{}
	}
	if o.DeliveryAddress != nil {
		v.DeliveryAddress = *o.DeliveryAddress
	}
	if o.Notes != nil {
		v.Notes = *o.Notes
	}
	if withCustomer {
		v.CustomerID = o.CustomerID
		v.CustomerName = o.CustomerName
	}
	return v
}

// OrderFilters contains filter parameters for restaurant order queries
type OrderFilters struct {
	Status *OrderStatus
}

// RequestedItem is one line of a place-order request. A nil quantity
// means one.
type RequestedItem struct {
	DishID   string `json:"dishId" binding:"required"`
	Quantity *int   `json:"quantity"`
}

type PlaceOrderRequest struct {
	RestaurantID    string          `json:"restaurantId" binding:"required"`
	Items           []RequestedItem `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress *string         `json:"deliveryAddress"`
	Notes           *string         `json:"notes"`
	PaymentMethod   string          `json:"paymentMethod" binding:"omitempty,paymentmethod"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}
