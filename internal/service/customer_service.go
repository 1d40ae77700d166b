package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food_marketplace/internal/model"
	"food_marketplace/internal/repository"
)

// CustomerService covers the customer's own profile and favorites.
type CustomerService interface {
	GetProfile(ctx context.Context, actor model.Actor) (*model.User, error)
	UpdateProfile(ctx context.Context, actor model.Actor, req model.UpdateProfileRequest) (*model.User, error)
	ListFavorites(ctx context.Context, actor model.Actor) ([]model.RestaurantSummary, error)
	AddFavorite(ctx context.Context, actor model.Actor, restaurantID string) error
	RemoveFavorite(ctx context.Context, actor model.Actor, restaurantID string) error
	IsFavorite(ctx context.Context, actor model.Actor, restaurantID string) (bool, error)
}

type customerService struct {
	users       repository.UserRepository
	restaurants repository.RestaurantRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(users repository.UserRepository, restaurants repository.RestaurantRepository) CustomerService {
	return &customerService{users: users, restaurants: restaurants}
}

func (s *customerService) GetProfile(ctx context.Context, actor model.Actor) (*model.User, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile never touches the password. Empty strings clear optional
// fields.
func (s *customerService) UpdateProfile(ctx context.Context, actor model.Actor, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetProfile(ctx, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, Validation("Name cannot be empty")
		}
		user.Name = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			existing, err := s.users.FindByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if existing != nil && existing.ID != user.ID {
				return nil, ErrEmailTaken
			}
			user.Email = email
		}
	}
	if req.Phone != nil {
		user.Phone = optional(req.Phone)
	}
	if req.Avatar != nil {
		user.Avatar = optional(req.Avatar)
	}
	if req.Address != nil {
		user.Address = optional(req.Address)
	}
	if req.City != nil {
		user.City = optional(req.City)
	}
	if req.State != nil {
		user.State = optional(req.State)
	}
	if req.Country != nil {
		user.Country = optional(req.Country)
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ListFavorites returns the favorites that still exist, skipping
// restaurants deleted since they were added.
func (s *customerService) ListFavorites(ctx context.Context, actor model.Actor) ([]model.RestaurantSummary, error) {
	user, err := s.GetProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	list, err := s.restaurants.FindSummariesByIDs(ctx, user.Favorites)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite restaurants: %w", err)
	}
	return list, nil
}

func (s *customerService) AddFavorite(ctx context.Context, actor model.Actor, restaurantID string) error {
	if !isUUID(restaurantID) {
		return ErrRestaurantNotFound
	}
	restaurant, err := s.restaurants.FindByID(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("failed to find restaurant: %w", err)
	}
	if restaurant == nil {
		return ErrRestaurantNotFound
	}
	if err := s.users.AddFavorite(ctx, actor.UserID, restaurantID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *customerService) RemoveFavorite(ctx context.Context, actor model.Actor, restaurantID string) error {
	if !isUUID(restaurantID) {
		return ErrRestaurantNotFound
	}
	if err := s.users.RemoveFavorite(ctx, actor.UserID, restaurantID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *customerService) IsFavorite(ctx context.Context, actor model.Actor, restaurantID string) (bool, error) {
	user, err := s.GetProfile(ctx, actor)
	if err != nil {
		return false, err
	}
	return user.HasFavorite(restaurantID), nil
}
