package handler

import (
	"net/http"

	"food_marketplace/internal/model"
	"food_marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

// CustomerHandler serves the customer's profile, orders and favorites
type CustomerHandler struct {
	customers service.CustomerService
	orders    service.OrderService
	render    *Renderer
}

func NewCustomerHandler(customers service.CustomerService, orders service.OrderService, render *Renderer) *CustomerHandler {
	return &CustomerHandler{customers: customers, orders: orders, render: render}
}

func (h *CustomerHandler) GetProfile(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	user, err := h.customers.GetProfile(c.Request.Context(), actor)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.render.BadRequest(c, err)
		return
	}
	user, err := h.customers.UpdateProfile(c.Request.Context(), actor, req)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *CustomerHandler) ListOrders(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListForCustomer(c.Request.Context(), actor)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *CustomerHandler) PlaceOrder(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	var req model.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.render.BadRequest(c, err)
		return
	}
	order, err := h.orders.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *CustomerHandler) CancelOrder(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	var req model.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.render.BadRequest(c, err)
			return
		}
	}
	order, err := h.orders.Cancel(c.Request.Context(), actor, c.Param("orderId"), req.Reason)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *CustomerHandler) ListFavorites(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	favorites, err := h.customers.ListFavorites(c.Request.Context(), actor)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

func (h *CustomerHandler) AddFavorite(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	if err := h.customers.AddFavorite(c.Request.Context(), actor, c.Param("restaurantId")); err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to favorites"})
}

func (h *CustomerHandler) RemoveFavorite(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	if err := h.customers.RemoveFavorite(c.Request.Context(), actor, c.Param("restaurantId")); err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
}

func (h *CustomerHandler) CheckFavorite(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	isFavorite, err := h.customers.IsFavorite(c.Request.Context(), actor, c.Param("restaurantId"))
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorite": isFavorite})
}

// RegisterCustomerRoutes registers customer routes behind auth and role checks
func (h *CustomerHandler) RegisterCustomerRoutes(rg *gin.RouterGroup, authMW, customerMW gin.HandlerFunc) {
	customerRoutes := rg.Group("/customer")
	customerRoutes.Use(authMW, customerMW)
	{
		customerRoutes.GET("/profile", h.GetProfile)
		customerRoutes.PUT("/profile", h.UpdateProfile)
		customerRoutes.GET("/orders", h.ListOrders)
		customerRoutes.POST("/orders", h.PlaceOrder)
		customerRoutes.PUT("/orders/:orderId/cancel", h.CancelOrder)
		customerRoutes.GET("/favorites", h.ListFavorites)
		customerRoutes.POST("/favorites/:restaurantId", h.AddFavorite)
		customerRoutes.DELETE("/favorites/:restaurantId", h.RemoveFavorite)
		customerRoutes.GET("/favorites/:restaurantId/check", h.CheckFavorite)
	}
}
