package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food_marketplace/internal/logger"
	"food_marketplace/internal/model"
	"food_marketplace/internal/repository"
	"food_marketplace/internal/utils"

	"github.com/google/uuid"
)

const defaultCountry = "USA"

// AuthService provides authentication related services
type AuthService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, actor model.Actor) (*model.User, error)
	ChangePassword(ctx context.Context, actor model.Actor, req model.ChangePasswordRequest) error
}

type authService struct {
	userRepo       repository.UserRepository
	restaurantRepo repository.RestaurantRepository
	guard          *AccessGuard
	log            *logger.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, restaurantRepo repository.RestaurantRepository, guard *AccessGuard, log *logger.Logger) AuthService {
	return &authService{
		userRepo:       userRepo,
		restaurantRepo: restaurantRepo,
		guard:          guard,
		log:            log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a new account. Restaurant accounts also get their
// restaurant profile. The caller is signed in on success.
func (s *authService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, string, error) {
	email := normalizeEmail(req.Email)
	location := strings.TrimSpace(req.Location)
	if req.Role == model.RoleRestaurant && location == "" {
		return nil, "", Validation("Location is required for restaurant accounts")
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	country := defaultCountry
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		Phone:        req.Phone,
		Role:         req.Role,
		Favorites:    []string{},
		Country:      &country,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	if user.Role == model.RoleRestaurant {
		restaurant := &model.Restaurant{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Name:      user.Name,
			OwnerName: req.OwnerName,
			Email:     user.Email,
			Phone:     req.Phone,
			Location:  location,
			Cuisine:   req.Cuisine,
			Images:    []string{},
			Dishes:    []model.Dish{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.restaurantRepo.Create(ctx, restaurant); err != nil {
			s.log.Error(ctx, "restaurant_profile_failed", "User created but restaurant profile was not", err, "user_id", user.ID)
			return nil, "", fmt.Errorf("failed to create restaurant profile: %w", err)
		}
	}

	token, err := s.guard.StartSession(ctx, user)
	if err != nil {
		s.log.Error(ctx, "session_start_failed", "User created, but session could not be started", err, "user_id", user.ID)
		return user, "", fmt.Errorf("user created, but failed to start session: %w", err)
	}

	s.log.Info(ctx, "user_signed_up", "New account created", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// Login authenticates a user and starts a session. When a role is given it
// must match the account's role.
func (s *authService) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if req.Role != "" && req.Role != user.Role {
		return nil, "", ErrRoleMismatch
	}

	token, err := s.guard.StartSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.guard.EndSession(ctx, token)
}

func (s *authService) CurrentUser(ctx context.Context, actor model.Actor) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ChangePassword re-hashes only when the new password differs from the
// stored one.
func (s *authService) ChangePassword(ctx context.Context, actor model.Actor, req model.ChangePasswordRequest) error {
	user, err := s.CurrentUser(ctx, actor)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return Validation("Current password is incorrect")
	}
	if utils.CheckPasswordHash(req.NewPassword, user.PasswordHash) {
		return nil
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
