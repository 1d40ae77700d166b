package handler

import (
	"context"
	"mime/multipart"

	"food_marketplace/internal/model"
	"food_marketplace/internal/service"

	"github.com/stretchr/testify/mock"
)

type mockOrders struct{ mock.Mock }

var _ service.OrderService = (*mockOrders)(nil)

func (m *mockOrders) view(args mock.Arguments) (*model.OrderView, error) {
	v, _ := args.Get(0).(*model.OrderView)
	return v, args.Error(1)
}

func (m *mockOrders) Create(ctx context.Context, actor model.Actor, req model.PlaceOrderRequest) (*model.OrderView, error) {
	return m.view(m.Called(ctx, actor, req))
}

func (m *mockOrders) Transition(ctx context.Context, actor model.Actor, orderID, status, reason string) (*model.OrderView, error) {
	return m.view(m.Called(ctx, actor, orderID, status, reason))
}

func (m *mockOrders) Cancel(ctx context.Context, actor model.Actor, orderID, reason string) (*model.OrderView, error) {
	return m.view(m.Called(ctx, actor, orderID, reason))
}

func (m *mockOrders) Get(ctx context.Context, actor model.Actor, orderID string) (*model.OrderView, error) {
	return m.view(m.Called(ctx, actor, orderID))
}

func (m *mockOrders) ListForCustomer(ctx context.Context, actor model.Actor) ([]model.OrderView, error) {
	args := m.Called(ctx, actor)
	v, _ := args.Get(0).([]model.OrderView)
	return v, args.Error(1)
}

func (m *mockOrders) ListForRestaurant(ctx context.Context, actor model.Actor, filters model.OrderFilters) ([]model.OrderView, error) {
	args := m.Called(ctx, actor, filters)
	v, _ := args.Get(0).([]model.OrderView)
	return v, args.Error(1)
}

func (m *mockOrders) GetForRestaurant(ctx context.Context, actor model.Actor, orderID string) (*model.OrderView, error) {
	return m.view(m.Called(ctx, actor, orderID))
}

type mockCatalog struct{ mock.Mock }

var _ service.CatalogService = (*mockCatalog)(nil)

func (m *mockCatalog) ListRestaurants(ctx context.Context, filters model.RestaurantFilters) ([]model.RestaurantSummary, error) {
	args := m.Called(ctx, filters)
	v, _ := args.Get(0).([]model.RestaurantSummary)
	return v, args.Error(1)
}

func (m *mockCatalog) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*model.Restaurant)
	return v, args.Error(1)
}

func (m *mockCatalog) GetMenu(ctx context.Context, id string) ([]model.Dish, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).([]model.Dish)
	return v, args.Error(1)
}

func (m *mockCatalog) GetProfile(ctx context.Context, actor model.Actor) (*model.Restaurant, error) {
	args := m.Called(ctx, actor)
	v, _ := args.Get(0).(*model.Restaurant)
	return v, args.Error(1)
}

func (m *mockCatalog) UpdateProfile(ctx context.Context, actor model.Actor, req model.UpdateRestaurantRequest) (*model.Restaurant, error) {
	args := m.Called(ctx, actor, req)
	v, _ := args.Get(0).(*model.Restaurant)
	return v, args.Error(1)
}

func (m *mockCatalog) UploadImage(ctx context.Context, actor model.Actor, file *multipart.FileHeader) (*model.Restaurant, error) {
	args := m.Called(ctx, actor, file)
	v, _ := args.Get(0).(*model.Restaurant)
	return v, args.Error(1)
}

func (m *mockCatalog) ListDishes(ctx context.Context, actor model.Actor) ([]model.Dish, error) {
	args := m.Called(ctx, actor)
	v, _ := args.Get(0).([]model.Dish)
	return v, args.Error(1)
}

func (m *mockCatalog) AddDish(ctx context.Context, actor model.Actor, req model.CreateDishRequest, image *multipart.FileHeader) (*model.Dish, error) {
	args := m.Called(ctx, actor, req, image)
	v, _ := args.Get(0).(*model.Dish)
	return v, args.Error(1)
}

func (m *mockCatalog) UpdateDish(ctx context.Context, actor model.Actor, dishID string, req model.UpdateDishRequest, image *multipart.FileHeader) (*model.Dish, error) {
	args := m.Called(ctx, actor, dishID, req, image)
	v, _ := args.Get(0).(*model.Dish)
	return v, args.Error(1)
}

func (m *mockCatalog) DeleteDish(ctx context.Context, actor model.Actor, dishID string) error {
	return m.Called(ctx, actor, dishID).Error(0)
}

type mockAuth struct{ mock.Mock }

var _ service.AuthService = (*mockAuth)(nil)

func (m *mockAuth) Signup(ctx context.Context, req model.SignupRequest) (*model.User, string, error) {
	args := m.Called(ctx, req)
	v, _ := args.Get(0).(*model.User)
	return v, args.String(1), args.Error(2)
}

func (m *mockAuth) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	args := m.Called(ctx, req)
	v, _ := args.Get(0).(*model.User)
	return v, args.String(1), args.Error(2)
}

func (m *mockAuth) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAuth) CurrentUser(ctx context.Context, actor model.Actor) (*model.User, error) {
	args := m.Called(ctx, actor)
	v, _ := args.Get(0).(*model.User)
	return v, args.Error(1)
}

func (m *mockAuth) ChangePassword(ctx context.Context, actor model.Actor, req model.ChangePasswordRequest) error {
	return m.Called(ctx, actor, req).Error(0)
}

// tokenAuth maps fixed tokens to actors.
type tokenAuth map[string]model.Actor

func (a tokenAuth) Authenticate(_ context.Context, token string) (*model.Actor, error) {
	actor, ok := a[token]
	if !ok {
		return nil, service.ErrNotLoggedIn
	}
	return &actor, nil
}
