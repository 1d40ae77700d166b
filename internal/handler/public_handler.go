package handler

import (
	"net/http"
	"strings"

	"food_marketplace/internal/model"
	"food_marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated restaurant catalog
type PublicHandler struct {
	catalog service.CatalogService
	render  *Renderer
}

func NewPublicHandler(catalog service.CatalogService, render *Renderer) *PublicHandler {
	return &PublicHandler{catalog: catalog, render: render}
}

func (h *PublicHandler) ListRestaurants(c *gin.Context) {
	var filters model.RestaurantFilters
	if cuisine := strings.TrimSpace(c.Query("cuisine")); cuisine != "" {
		filters.Cuisine = &cuisine
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		filters.Query = &q
	}

	restaurants, err := h.catalog.ListRestaurants(c.Request.Context(), filters)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

func (h *PublicHandler) GetRestaurant(c *gin.Context) {
	restaurant, err := h.catalog.GetRestaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func (h *PublicHandler) GetMenu(c *gin.Context) {
	dishes, err := h.catalog.GetMenu(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dishes)
}

func (h *PublicHandler) OrderStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, model.OrderStatuses)
}

// RegisterPublicRoutes registers the catalog routes, including the
// singular /restaurant/:id aliases older clients use.
func (h *PublicHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/restaurants", h.ListRestaurants)
	rg.GET("/restaurants/:id", h.GetRestaurant)
	rg.GET("/restaurants/:id/menu", h.GetMenu)
	rg.GET("/restaurant/:id", h.GetRestaurant)
	rg.GET("/restaurant/:id/menu", h.GetMenu)
	rg.GET("/order-statuses", h.OrderStatuses)
}
