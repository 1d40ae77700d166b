package service

import (
	"context"
	"sync"
	"time"

	"food_marketplace/internal/model"
	"food_marketplace/internal/repository"

	"github.com/stretchr/testify/mock"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Publish(ctx context.Context, topic, key string, payload any) bool {
	args := m.Called(ctx, topic, key, payload)
	return args.Bool(0)
}

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[string]*model.User
	fails error
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*model.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails != nil {
		return nil, f.fails
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	cp.Favorites = append([]string{}, u.Favorites...)
	return &cp, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	cp := *user
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUsers) AddFavorite(_ context.Context, userID, restaurantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[userID]
	if u != nil && !u.HasFavorite(restaurantID) {
		u.Favorites = append(u.Favorites, restaurantID)
	}
	return nil
}

func (f *fakeUsers) RemoveFavorite(_ context.Context, userID, restaurantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[userID]
	if u == nil {
		return nil
	}
	kept := u.Favorites[:0]
	for _, id := range u.Favorites {
		if id != restaurantID {
			kept = append(kept, id)
		}
	}
	u.Favorites = kept
	return nil
}

type fakeRestaurants struct {
	mu   sync.Mutex
	byID map[string]*model.Restaurant
}

func newFakeRestaurants(rs ...*model.Restaurant) *fakeRestaurants {
	f := &fakeRestaurants{byID: map[string]*model.Restaurant{}}
	for _, r := range rs {
		f.byID[r.ID] = r
	}
	return f
}

func cloneRestaurant(r *model.Restaurant) *model.Restaurant {
	cp := *r
	cp.Dishes = append([]model.Dish{}, r.Dishes...)
	cp.Images = append([]string{}, r.Images...)
	return &cp
}

func summaryOf(r *model.Restaurant) model.RestaurantSummary {
	return model.RestaurantSummary{ID: r.ID, Name: r.Name, Cuisine: r.Cuisine, Location: r.Location, Phone: r.Phone, Description: r.Description}
}

func (f *fakeRestaurants) Create(_ context.Context, r *model.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[r.ID] = cloneRestaurant(r)
	return nil
}

func (f *fakeRestaurants) FindByID(_ context.Context, id string) (*model.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneRestaurant(r), nil
}

func (f *fakeRestaurants) FindByOwner(_ context.Context, userID string) (*model.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.UserID == userID {
			return cloneRestaurant(r), nil
		}
	}
	return nil, nil
}

func (f *fakeRestaurants) List(_ context.Context, _ model.RestaurantFilters) ([]model.RestaurantSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []model.RestaurantSummary{}
	for _, r := range f.byID {
		list = append(list, summaryOf(r))
	}
	return list, nil
}

func (f *fakeRestaurants) FindSummariesByIDs(_ context.Context, ids []string) ([]model.RestaurantSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []model.RestaurantSummary{}
	for _, id := range ids {
		if r, ok := f.byID[id]; ok {
			list = append(list, summaryOf(r))
		}
	}
	return list, nil
}

func (f *fakeRestaurants) UpdateProfileByOwner(_ context.Context, r *model.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[r.ID]
	if !ok || stored.UserID != r.UserID {
		return repository.ErrNotFound
	}
	f.byID[r.ID] = cloneRestaurant(r)
	return nil
}

func (f *fakeRestaurants) SaveDishes(_ context.Context, restaurantID string, dishes []model.Dish) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[restaurantID]
	if !ok {
		return repository.ErrNotFound
	}
	r.Dishes = append([]model.Dish{}, dishes...)
	return nil
}

func (f *fakeRestaurants) AddImage(_ context.Context, restaurantID, imagePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[restaurantID]
	if !ok {
		return repository.ErrNotFound
	}
	r.Images = append(r.Images, imagePath)
	return nil
}

type fakeOrders struct {
	mu          sync.Mutex
	byID        map[string]*model.Order
	restaurants *fakeRestaurants
	writes      int
	conflict    bool
}

func newFakeOrders(restaurants *fakeRestaurants) *fakeOrders {
	return &fakeOrders{byID: map[string]*model.Order{}, restaurants: restaurants}
}

func (f *fakeOrders) Create(_ context.Context, o *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *o
	cp.Items = append([]model.LineItem{}, o.Items...)
	f.byID[o.ID] = &cp
	f.writes++
	return nil
}

func (f *fakeOrders) joined(o *model.Order) *model.Order {
	cp := *o
	cp.Items = append([]model.LineItem{}, o.Items...)
	if r, ok := f.restaurants.byID[o.RestaurantID]; ok {
		cp.RestaurantName = r.Name
		cp.RestaurantAddress = r.Location
		cp.RestaurantOwnerID = r.UserID
	}
	return &cp
}

func (f *fakeOrders) FindByID(_ context.Context, id string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return f.joined(o), nil
}

func (f *fakeOrders) FindByCustomer(_ context.Context, customerID string) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := []model.Order{}
	for _, o := range f.byID {
		if o.CustomerID == customerID {
			orders = append(orders, *f.joined(o))
		}
	}
	return orders, nil
}

func (f *fakeOrders) FindByRestaurant(_ context.Context, restaurantID string, filters model.OrderFilters) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := []model.Order{}
	for _, o := range f.byID {
		if o.RestaurantID != restaurantID {
			continue
		}
		if filters.Status != nil && o.Status != *filters.Status {
			continue
		}
		orders = append(orders, *f.joined(o))
	}
	return orders, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, o *model.Order, status model.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[o.ID]
	if !ok || f.conflict || stored.Version != o.Version {
		return repository.ErrVersionConflict
	}
	stored.Status = status
	stored.Version++
	stored.UpdatedAt = time.Now()
	o.Status, o.Version, o.UpdatedAt = stored.Status, stored.Version, stored.UpdatedAt
	f.writes++
	return nil
}

type fakeSessions struct {
	mu   sync.Mutex
	byID map[string]*model.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[string]*model.Session{}}
}

func (f *fakeSessions) Create(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSessions) FindByID(_ context.Context, id string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok || !s.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func (f *fakeSessions) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.byID {
		if !s.ExpiresAt.After(time.Now()) {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}
