package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"food_marketplace/internal/model"
	"food_marketplace/internal/repository"

	"github.com/google/uuid"
)

// CatalogService serves the public restaurant listing and lets restaurant
// owners manage their profile and menu.
type CatalogService interface {
	ListRestaurants(ctx context.Context, filters model.RestaurantFilters) ([]model.RestaurantSummary, error)
	GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error)
	GetMenu(ctx context.Context, id string) ([]model.Dish, error)

	GetProfile(ctx context.Context, actor model.Actor) (*model.Restaurant, error)
	UpdateProfile(ctx context.Context, actor model.Actor, req model.UpdateRestaurantRequest) (*model.Restaurant, error)
	UploadImage(ctx context.Context, actor model.Actor, file *multipart.FileHeader) (*model.Restaurant, error)
	ListDishes(ctx context.Context, actor model.Actor) ([]model.Dish, error)
	AddDish(ctx context.Context, actor model.Actor, req model.CreateDishRequest, image *multipart.FileHeader) (*model.Dish, error)
	UpdateDish(ctx context.Context, actor model.Actor, dishID string, req model.UpdateDishRequest, image *multipart.FileHeader) (*model.Dish, error)
	DeleteDish(ctx context.Context, actor model.Actor, dishID string) error
}

type catalogService struct {
	restaurants repository.RestaurantRepository
	images      *ImageStore
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(restaurants repository.RestaurantRepository, images *ImageStore) CatalogService {
	return &catalogService{restaurants: restaurants, images: images}
}

func (s *catalogService) ListRestaurants(ctx context.Context, filters model.RestaurantFilters) ([]model.RestaurantSummary, error) {
	list, err := s.restaurants.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return list, nil
}

// GetRestaurant never substitutes another restaurant for a malformed or
// unknown id.
func (s *catalogService) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	if !isUUID(id) {
		return nil, ErrRestaurantNotFound
	}
	restaurant, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find restaurant by ID: %w", err)
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, nil
}

func (s *catalogService) GetMenu(ctx context.Context, id string) ([]model.Dish, error) {
	restaurant, err := s.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	return restaurant.Dishes, nil
}

func (s *catalogService) owned(ctx context.Context, actor model.Actor) (*model.Restaurant, error) {
	restaurant, err := s.restaurants.FindByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find restaurant for owner: %w", err)
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, nil
}

func (s *catalogService) GetProfile(ctx context.Context, actor model.Actor) (*model.Restaurant, error) {
	return s.owned(ctx, actor)
}

// optional maps an empty string to nil so it clears the field.
func optional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *catalogService) UpdateProfile(ctx context.Context, actor model.Actor, req model.UpdateRestaurantRequest) (*model.Restaurant, error) {
	restaurant, err := s.owned(ctx, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		restaurant.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		restaurant.Email = normalizeEmail(*req.Email)
	}
	if req.Location != nil {
		restaurant.Location = strings.TrimSpace(*req.Location)
	}
	if req.OwnerName != nil {
		restaurant.OwnerName = optional(req.OwnerName)
	}
	if req.Phone != nil {
		restaurant.Phone = optional(req.Phone)
	}
	if req.Cuisine != nil {
		restaurant.Cuisine = optional(req.Cuisine)
	}
	if req.Description != nil {
		restaurant.Description = optional(req.Description)
	}
	if req.Hours != nil {
		restaurant.Hours = optional(req.Hours)
	}
	if restaurant.Name == "" || restaurant.Location == "" {
		return nil, Validation("Name and location cannot be empty")
	}

	if err := s.restaurants.UpdateProfileByOwner(ctx, restaurant); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to update restaurant profile: %w", err)
	}
	return restaurant, nil
}

func (s *catalogService) UploadImage(ctx context.Context, actor model.Actor, file *multipart.FileHeader) (*model.Restaurant, error) {
	if file == nil {
		return nil, Validation("Image file is required")
	}
	restaurant, err := s.owned(ctx, actor)
	if err != nil {
		return nil, err
	}

	publicPath, filePath, err := s.images.Save(file, "restaurants", restaurant.ID)
	if err != nil {
		return nil, err
	}
	if err := s.restaurants.AddImage(ctx, restaurant.ID, publicPath); err != nil {
		s.images.Remove(filePath)
		return nil, fmt.Errorf("failed to record restaurant image: %w", err)
	}

	restaurant.Images = append(restaurant.Images, publicPath)
	return restaurant, nil
}

func (s *catalogService) ListDishes(ctx context.Context, actor model.Actor) ([]model.Dish, error) {
	restaurant, err := s.owned(ctx, actor)
	if err != nil {
		return nil, err
	}
	return restaurant.Dishes, nil
}

func validatePrice(price model.Money) error {
	if price < 0 {
		return Validation("Price must not be negative")
	}
	return nil
}

func (s *catalogService) AddDish(ctx context.Context, actor model.Actor, req model.CreateDishRequest, image *multipart.FileHeader) (*model.Dish, error) {
	if req.Price == nil {
		return nil, Validation("Price is required")
	}
	if err := validatePrice(*req.Price); err != nil {
		return nil, err
	}
	restaurant, err := s.owned(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dish := model.Dish{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       *req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Ingredients: req.Ingredients,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if dish.Category == "" {
		dish.Category = model.CategoryOther
	}
	if req.IsAvailable != nil {
		dish.IsAvailable = *req.IsAvailable
	}

	var filePath string
	if image != nil {
		dish.Image, filePath, err = s.images.Save(image, "restaurants", restaurant.ID, "dishes")
		if err != nil {
			return nil, err
		}
	}

	restaurant.Dishes = append(restaurant.Dishes, dish)
	if err := s.restaurants.SaveDishes(ctx, restaurant.ID, restaurant.Dishes); err != nil {
		if filePath != "" {
			s.images.Remove(filePath)
		}
		return nil, fmt.Errorf("failed to add dish: %w", err)
	}
	return &dish, nil
}

// UpdateDish applies a partial update. Orders already placed keep their
// own snapshot of the dish.
func (s *catalogService) UpdateDish(ctx context.Context, actor model.Actor, dishID string, req model.UpdateDishRequest, image *multipart.FileHeader) (*model.Dish, error) {
	restaurant, err := s.owned(ctx, actor)
	if err != nil {
		return nil, err
	}
	dish := restaurant.FindDish(dishID)
	if dish == nil {
		return nil, ErrDishNotFound
	}

	if req.Name != nil {
		dish.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		dish.Description = *req.Description
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		dish.Price = *req.Price
	}
	if req.Image != nil {
		dish.Image = *req.Image
	}
	if req.Category != nil {
		dish.Category = *req.Category
	}
	if req.Ingredients != nil {
		dish.Ingredients = req.Ingredients
	}
	if req.IsAvailable != nil {
		dish.IsAvailable = *req.IsAvailable
	}

	var filePath string
	if image != nil {
		dish.Image, filePath, err = s.images.Save(image, "restaurants", restaurant.ID, "dishes")
		if err != nil {
			return nil, err
		}
	}
	dish.UpdatedAt = time.Now().UTC()

	if err := s.restaurants.SaveDishes(ctx, restaurant.ID, restaurant.Dishes); err != nil {
		if filePath != "" {
			s.images.Remove(filePath)
		}
		return nil, fmt.Errorf("failed to update dish: %w", err)
	}
	updated := *dish
	return &updated, nil
}

func (s *catalogService) DeleteDish(ctx context.Context, actor model.Actor, dishID string) error {
	restaurant, err := s.owned(ctx, actor)
	if err != nil {
		return err
	}
	if !restaurant.RemoveDish(dishID) {
		return ErrDishNotFound
	}
	if err := s.restaurants.SaveDishes(ctx, restaurant.ID, restaurant.Dishes); err != nil {
		return fmt.Errorf("failed to delete dish: %w", err)
	}
	return nil
}
