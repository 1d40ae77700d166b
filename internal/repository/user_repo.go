package repository

import (
	"context"
	"errors"
	"fmt"

	"food_marketplace/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	AddFavorite(ctx context.Context, userID, restaurantID string) error
	RemoveFavorite(ctx context.Context, userID, restaurantID string) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, phone, role, avatar, favorites, address, city, state, country, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.Avatar,
		&u.Favorites, &u.Address, &u.City, &u.State, &u.Country, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if u.Favorites == nil {
		u.Favorites = []string{}
	}
	return u, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (id, name, email, password_hash, phone, role, country, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, sql, user.ID, user.Name, user.Email, user.PasswordHash, user.Phone,
		user.Role, user.Country, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email. A missing user yields (nil, nil).
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by id. A missing user yields (nil, nil).
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// UpdateProfile writes the editable profile fields
func (r *userRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET name = $2, email = $3, phone = $4, avatar = $5, address = $6, city = $7,
            state = $8, country = $9, updated_at = NOW() WHERE id = $1 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, user.ID, user.Name, user.Email, user.Phone, user.Avatar,
		user.Address, user.City, user.State, user.Country).Scan(&user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	sql := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, sql, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddFavorite appends restaurantID to the user's favorites unless present
func (r *userRepository) AddFavorite(ctx context.Context, userID, restaurantID string) error {
	sql := `UPDATE users SET favorites = array_append(favorites, $2), updated_at = NOW()
            WHERE id = $1 AND NOT ($2 = ANY(favorites))`
	if _, err := r.db.Exec(ctx, sql, userID, restaurantID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *userRepository) RemoveFavorite(ctx context.Context, userID, restaurantID string) error {
	sql := `UPDATE users SET favorites = array_remove(favorites, $2), updated_at = NOW() WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, userID, restaurantID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
