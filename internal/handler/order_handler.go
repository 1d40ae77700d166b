package handler

import (
	"context"
	"net/http"

	"food_marketplace/internal/service"
	"food_marketplace/internal/tracking"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// OrderHandler serves order reads shared by customers and restaurant
// owners, including the live tracking stream.
type OrderHandler struct {
	orders   service.OrderService
	hub      *tracking.Hub
	render   *Renderer
	upgrader websocket.Upgrader
}

// NewOrderHandler creates an OrderHandler. Websocket upgrades are only
// accepted from allowedOrigins; an empty list accepts any origin.
func NewOrderHandler(orders service.OrderService, hub *tracking.Hub, render *Renderer, allowedOrigins []string) *OrderHandler {
	h := &OrderHandler{orders: orders, hub: hub, render: render}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if len(allowedOrigins) == 0 || origin == "" {
				return true
			}
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}
	return h
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), actor, c.Param("orderId"))
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Track upgrades to a websocket and streams the order's lifecycle events.
// The current order is sent first so clients start from a known state; it
// is re-read once the stream is subscribed.
func (h *OrderHandler) Track(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), actor, c.Param("orderId"))
	if err != nil {
		h.render.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		return
	}
	h.hub.Stream(c.Request.Context(), conn, order.ID, func(ctx context.Context) (any, error) {
		return h.orders.Get(ctx, actor, order.ID)
	})
}

// RegisterOrderRoutes registers order routes open to any signed-in actor
func (h *OrderHandler) RegisterOrderRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	orderRoutes := rg.Group("/orders")
	orderRoutes.Use(authMW)
	{
		orderRoutes.GET("/:orderId", h.GetOrder)
		orderRoutes.GET("/:orderId/track", h.Track)
	}
}
