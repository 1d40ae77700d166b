package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"food_marketplace/internal/model"
	"food_marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

// RestaurantHandler serves the owner's profile, menu and incoming orders
type RestaurantHandler struct {
	catalog service.CatalogService
	orders  service.OrderService
	render  *Renderer
}

func NewRestaurantHandler(catalog service.CatalogService, orders service.OrderService, render *Renderer) *RestaurantHandler {
	return &RestaurantHandler{catalog: catalog, orders: orders, render: render}
}

// optionalImage returns the "image" file of a multipart request, or nil.
func optionalImage(c *gin.Context) (*multipart.FileHeader, error) {
	if c.ContentType() != "multipart/form-data" {
		return nil, nil
	}
	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return file, err
}

func (h *RestaurantHandler) GetProfile(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	restaurant, err := h.catalog.GetProfile(c.Request.Context(), actor)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func (h *RestaurantHandler) UpdateProfile(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	var req model.UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.render.BadRequest(c, err)
		return
	}
	restaurant, err := h.catalog.UpdateProfile(c.Request.Context(), actor, req)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func (h *RestaurantHandler) UploadImage(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	restaurant, err := h.catalog.UploadImage(c.Request.Context(), actor, file)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": restaurant.Images[len(restaurant.Images)-1], "images": restaurant.Images})
}

func (h *RestaurantHandler) ListDishes(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	dishes, err := h.catalog.ListDishes(c.Request.Context(), actor)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dishes)
}

func (h *RestaurantHandler) AddDish(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	var req model.CreateDishRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render.BadRequest(c, err)
		return
	}
	image, err := optionalImage(c)
	if err != nil {
		h.render.BadRequest(c, err)
		return
	}
	dish, err := h.catalog.AddDish(c.Request.Context(), actor, req, image)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dish)
}

func (h *RestaurantHandler) UpdateDish(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	var req model.UpdateDishRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render.BadRequest(c, err)
		return
	}
	image, err := optionalImage(c)
	if err != nil {
		h.render.BadRequest(c, err)
		return
	}
	dish, err := h.catalog.UpdateDish(c.Request.Context(), actor, c.Param("dishId"), req, image)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

func (h *RestaurantHandler) DeleteDish(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteDish(c.Request.Context(), actor, c.Param("dishId")); err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dish deleted"})
}

func (h *RestaurantHandler) ListOrders(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	var filters model.OrderFilters
	if statusParam := c.Query("status"); statusParam != "" {
		status, valid := model.ParseOrderStatus(statusParam)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
			return
		}
		filters.Status = &status
	}
	orders, err := h.orders.ListForRestaurant(c.Request.Context(), actor, filters)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *RestaurantHandler) GetOrder(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	order, err := h.orders.GetForRestaurant(c.Request.Context(), actor, c.Param("orderId"))
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *RestaurantHandler) UpdateOrderStatus(c *gin.Context) {
	actor, ok := h.render.Actor(c)
	if !ok {
		return
	}
	var req model.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.render.BadRequest(c, err)
		return
	}
	order, err := h.orders.Transition(c.Request.Context(), actor, c.Param("orderId"), req.Status, "")
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// RegisterRestaurantRoutes registers restaurant owner routes behind auth and role checks
func (h *RestaurantHandler) RegisterRestaurantRoutes(rg *gin.RouterGroup, authMW, restaurantMW gin.HandlerFunc) {
	restaurantRoutes := rg.Group("/restaurant")
	restaurantRoutes.Use(authMW, restaurantMW)
	{
		restaurantRoutes.GET("/profile", h.GetProfile)
		restaurantRoutes.PUT("/profile", h.UpdateProfile)
		restaurantRoutes.POST("/profile/image", h.UploadImage)
		restaurantRoutes.GET("/dishes", h.ListDishes)
		restaurantRoutes.POST("/dishes", h.AddDish)
		restaurantRoutes.PUT("/dishes/:dishId", h.UpdateDish)
		restaurantRoutes.DELETE("/dishes/:dishId", h.DeleteDish)
		restaurantRoutes.GET("/orders", h.ListOrders)
		restaurantRoutes.GET("/orders/:orderId", h.GetOrder)
		restaurantRoutes.PUT("/orders/:orderId/status", h.UpdateOrderStatus)
	}
}
