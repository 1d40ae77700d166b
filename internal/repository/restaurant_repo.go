package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"food_marketplace/internal/model"

	"github.com/jackc/pgx/v5"
)

// RestaurantRepository defines operations for restaurant documents. The
// dish collection is stored inside the restaurant row.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *model.Restaurant) error
	FindByID(ctx context.Context, id string) (*model.Restaurant, error)
	FindByOwner(ctx context.Context, userID string) (*model.Restaurant, error)
	List(ctx context.Context, filters model.RestaurantFilters) ([]model.RestaurantSummary, error)
	FindSummariesByIDs(ctx context.Context, ids []string) ([]model.RestaurantSummary, error)
	UpdateProfileByOwner(ctx context.Context, restaurant *model.Restaurant) error
	SaveDishes(ctx context.Context, restaurantID string, dishes []model.Dish) error
	AddImage(ctx context.Context, restaurantID, imagePath string) error
}

type restaurantRepository struct {
	db DB
}

// NewRestaurantRepository creates a new RestaurantRepository
func NewRestaurantRepository(db DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

const restaurantColumns = `id, user_id, name, owner_name, email, phone, location, cuisine, description, hours, images, dishes, created_at, updated_at`

const summaryColumns = `id, name, cuisine, location, phone, description`

func scanRestaurant(row pgx.Row) (*model.Restaurant, error) {
	r := &model.Restaurant{}
	var dishes []byte
	err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.OwnerName, &r.Email, &r.Phone, &r.Location,
		&r.Cuisine, &r.Description, &r.Hours, &r.Images, &dishes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(dishes) > 0 {
		if err := json.Unmarshal(dishes, &r.Dishes); err != nil {
			return nil, fmt.Errorf("failed to decode dishes of restaurant %s: %w", r.ID, err)
		}
	}
	if r.Dishes == nil {
		r.Dishes = []model.Dish{}
	}
	if r.Images == nil {
		r.Images = []string{}
	}
	return r, nil
}

func collectSummaries(rows pgx.Rows) ([]model.RestaurantSummary, error) {
	defer rows.Close()
	summaries := []model.RestaurantSummary{}
	for rows.Next() {
		var s model.RestaurantSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Cuisine, &s.Location, &s.Phone, &s.Description); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurant rows: %w", err)
	}
	return summaries, nil
}

// Create inserts a new restaurant profile
func (r *restaurantRepository) Create(ctx context.Context, rest *model.Restaurant) error {
	dishes, err := json.Marshal(rest.Dishes)
	if err != nil {
		return fmt.Errorf("failed to encode dishes: %w", err)
	}
	if rest.Images == nil {
		rest.Images = []string{}
	}
	sql := `INSERT INTO restaurants (id, user_id, name, owner_name, email, phone, location, cuisine, description, hours, images, dishes, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.db.Exec(ctx, sql, rest.ID, rest.UserID, rest.Name, rest.OwnerName, rest.Email, rest.Phone,
		rest.Location, rest.Cuisine, rest.Description, rest.Hours, rest.Images, dishes, rest.CreatedAt, rest.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

// FindByID retrieves a restaurant with its dishes. A missing restaurant yields (nil, nil).
func (r *restaurantRepository) FindByID(ctx context.Context, id string) (*model.Restaurant, error) {
	sql := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`
	rest, err := scanRestaurant(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find restaurant by ID: %w", err)
	}
	return rest, nil
}

// FindByOwner retrieves the restaurant owned by userID. A missing restaurant yields (nil, nil).
func (r *restaurantRepository) FindByOwner(ctx context.Context, userID string) (*model.Restaurant, error) {
	sql := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE user_id = $1`
	rest, err := scanRestaurant(r.db.QueryRow(ctx, sql, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find restaurant by owner: %w", err)
	}
	return rest, nil
}

// List returns restaurant summaries ordered by name
func (r *restaurantRepository) List(ctx context.Context, filters model.RestaurantFilters) ([]model.RestaurantSummary, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + summaryColumns + ` FROM restaurants WHERE 1=1`)
	args := []interface{}{}
	argCount := 1

	if filters.Cuisine != nil && *filters.Cuisine != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND cuisine ILIKE $%d", argCount))
		args = append(args, *filters.Cuisine)
		argCount++
	}
	if filters.Query != nil && *filters.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*filters.Query+"%")
	}

	queryBuilder.WriteString(" ORDER BY name ASC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	return collectSummaries(rows)
}

// FindSummariesByIDs returns the summaries of the restaurants that still exist among ids
func (r *restaurantRepository) FindSummariesByIDs(ctx context.Context, ids []string) ([]model.RestaurantSummary, error) {
	if len(ids) == 0 {
		return []model.RestaurantSummary{}, nil
	}
	sql := `SELECT ` + summaryColumns + ` FROM restaurants WHERE id = ANY($1) ORDER BY name ASC`
	rows, err := r.db.Query(ctx, sql, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants by ids: %w", err)
	}
	return collectSummaries(rows)
}

// UpdateProfileByOwner writes the profile fields, scoped to the owning user
func (r *restaurantRepository) UpdateProfileByOwner(ctx context.Context, rest *model.Restaurant) error {
	sql := `UPDATE restaurants SET name = $3, owner_name = $4, email = $5, phone = $6, location = $7,
            cuisine = $8, description = $9, hours = $10, updated_at = NOW()
            WHERE id = $1 AND user_id = $2 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, rest.ID, rest.UserID, rest.Name, rest.OwnerName, rest.Email, rest.Phone,
		rest.Location, rest.Cuisine, rest.Description, rest.Hours).Scan(&rest.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update restaurant profile: %w", err)
	}
	return nil
}

// SaveDishes replaces the embedded dish collection
func (r *restaurantRepository) SaveDishes(ctx context.Context, restaurantID string, dishes []model.Dish) error {
	if dishes == nil {
		dishes = []model.Dish{}
	}
	payload, err := json.Marshal(dishes)
	if err != nil {
		return fmt.Errorf("failed to encode dishes: %w", err)
	}
	sql := `UPDATE restaurants SET dishes = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, sql, restaurantID, payload)
	if err != nil {
		return fmt.Errorf("failed to save dishes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *restaurantRepository) AddImage(ctx context.Context, restaurantID, imagePath string) error {
	sql := `UPDATE restaurants SET images = array_append(images, $2), updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, sql, restaurantID, imagePath)
	if err != nil {
		return fmt.Errorf("failed to add restaurant image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
