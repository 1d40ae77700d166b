package model

import "time"

// DishCategory is the fixed set of menu sections
const (
	CategoryAppetizer  = "Appetizer"
	CategorySalad      = "Salad"
	CategoryMainCourse = "Main Course"
	CategoryDessert    = "Dessert"
	CategoryBeverage   = "Beverage"
	CategoryOther      = "Other"
)

var DishCategories = []string{
	CategoryAppetizer, CategorySalad, CategoryMainCourse,
	CategoryDessert, CategoryBeverage, CategoryOther,
}

func IsDishCategory(s string) bool {
	for _, c := range DishCategories {
		if c == s {
			return true
		}
	}
	return false
}

// Dish is a menu entry owned by exactly one restaurant. Its id is only
// unique within that restaurant's dish collection.
type Dish struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       Money     `json:"price"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category,omitempty"`
	Ingredients []string  `json:"ingredients,omitempty"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Restaurant is the aggregate root for a restaurant profile and its menu
type Restaurant struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user"`
	Name        string    `json:"name"`
	OwnerName   *string   `json:"ownerName,omitempty"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	Location    string    `json:"location"`
	Cuisine     *string   `json:"cuisine,omitempty"`
	Description *string   `json:"description,omitempty"`
	Hours       *string   `json:"hours,omitempty"`
	Images      []string  `json:"images"`
	Dishes      []Dish    `json:"dishes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FindDish returns the dish with the given id, or nil.
func (r *Restaurant) FindDish(id string) *Dish {
	for i := range r.Dishes {
		if r.Dishes[i].ID == id {
			return &r.Dishes[i]
		}
	}
	return nil
}

// RemoveDish drops the dish with the given id and reports whether it existed.
func (r *Restaurant) RemoveDish(id string) bool {
	for i := range r.Dishes {
		if r.Dishes[i].ID == id {
			r.Dishes = append(r.Dishes[:i], r.Dishes[i+1:]...)
			return true
		}
	}
	return false
}

// RestaurantSummary is the public listing shape
type RestaurantSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Cuisine     *string `json:"cuisine,omitempty"`
	Location    string  `json:"location"`
	Phone       *string `json:"phone,omitempty"`
	Description *string `json:"description,omitempty"`
}

// RestaurantFilters contains filter parameters for the public listing
type RestaurantFilters struct {
	Cuisine *string
	Query   *string
}

type UpdateRestaurantRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1"`
	OwnerName   *string `json:"ownerName,omitempty"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone       *string `json:"phone,omitempty"`
	Location    *string `json:"location,omitempty" binding:"omitempty,min=1"`
	Cuisine     *string `json:"cuisine,omitempty"`
	Description *string `json:"description,omitempty"`
	Hours       *string `json:"hours,omitempty"`
}

// CreateDishRequest binds from JSON or multipart form (with optional image file)
type CreateDishRequest struct {
	Name        string   `json:"name" form:"name" binding:"required"`
	Description string   `json:"description" form:"description"`
	Price       *Money   `json:"price" form:"price" binding:"required"`
	Image       string   `json:"image" form:"-"`
	Category    string   `json:"category" form:"category" binding:"omitempty,dishcategory"`
	Ingredients []string `json:"ingredients" form:"ingredients"`
	IsAvailable *bool    `json:"is_available" form:"is_available"`
}

type UpdateDishRequest struct {
	Name        *string  `json:"name,omitempty" form:"name" binding:"omitempty,min=1"`
	Description *string  `json:"description,omitempty" form:"description"`
	Price       *Money   `json:"price,omitempty" form:"price"`
	Image       *string  `json:"image,omitempty" form:"-"`
	Category    *string  `json:"category,omitempty" form:"category" binding:"omitempty,dishcategory"`
	Ingredients []string `json:"ingredients,omitempty" form:"ingredients"`
	IsAvailable *bool    `json:"is_available,omitempty" form:"is_available"`
}
