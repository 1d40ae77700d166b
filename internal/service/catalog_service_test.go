package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"food_marketplace/internal/model"
	"food_marketplace/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"][0]
}

type catalogFixture struct {
	svc         CatalogService
	restaurants *fakeRestaurants
	restaurant  *model.Restaurant
	owner       model.Actor
	uploads     string
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	owner := model.Actor{UserID: uuid.NewString(), Role: model.RoleRestaurant}
	restaurant := &model.Restaurant{
		ID: uuid.NewString(), UserID: owner.UserID, Name: "Luigi's", Location: "12 Main St",
		Dishes: []model.Dish{{ID: "d1", Name: "Lasagna", Price: model.Cents(1000), IsAvailable: true}},
		Images: []string{},
	}
	restaurants := newFakeRestaurants(restaurant)
	uploads := t.TempDir()
	return &catalogFixture{
		svc:         NewCatalogService(restaurants, NewImageStore(uploads)),
		restaurants: restaurants,
		restaurant:  restaurant,
		owner:       owner,
		uploads:     uploads,
	}
}

func TestCatalogService_GetRestaurantNoFallback(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	got, err := f.svc.GetRestaurant(ctx, f.restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Luigi's", got.Name)

	_, err = f.svc.GetRestaurant(ctx, "1")
	assert.ErrorIs(t, err, ErrRestaurantNotFound)

	_, err = f.svc.GetMenu(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrRestaurantNotFound)

	menu, err := f.svc.GetMenu(ctx, f.restaurant.ID)
	require.NoError(t, err)
	assert.Len(t, menu, 1)
}

func TestCatalogService_DishLifecycle(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	price := model.Cents(799)

	dish, err := f.svc.AddDish(ctx, f.owner, model.CreateDishRequest{Name: "Bruschetta", Price: &price, Category: model.CategoryAppetizer}, nil)
	require.NoError(t, err)
	assert.True(t, dish.IsAvailable)
	_, err = uuid.Parse(dish.ID)
	assert.NoError(t, err)

	newPrice := model.Cents(899)
	off := false
	updated, err := f.svc.UpdateDish(ctx, f.owner, dish.ID, model.UpdateDishRequest{Price: &newPrice, IsAvailable: &off}, nil)
	require.NoError(t, err)
	assert.Equal(t, newPrice, updated.Price)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "Bruschetta", updated.Name)

	dishes, err := f.svc.ListDishes(ctx, f.owner)
	require.NoError(t, err)
	assert.Len(t, dishes, 2)

	require.NoError(t, f.svc.DeleteDish(ctx, f.owner, dish.ID))
	assert.ErrorIs(t, f.svc.DeleteDish(ctx, f.owner, dish.ID), ErrDishNotFound)

	_, err = f.svc.UpdateDish(ctx, f.owner, "missing", model.UpdateDishRequest{}, nil)
	assert.ErrorIs(t, err, ErrDishNotFound)
}

func TestCatalogService_AddDishRejectsNegativePrice(t *testing.T) {
	f := newCatalogFixture(t)
	price := model.Cents(-1)

	_, err := f.svc.AddDish(context.Background(), f.owner, model.CreateDishRequest{Name: "Free money", Price: &price}, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_DishEditDoesNotTouchPlacedOrders(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	restaurant, _ := f.restaurants.FindByID(ctx, f.restaurant.ID)
	items, _, err := AssembleOrder(restaurant, []model.RequestedItem{{DishID: "d1"}})
	require.NoError(t, err)

	newPrice := model.Cents(1500)
	_, err = f.svc.UpdateDish(ctx, f.owner, "d1", model.UpdateDishRequest{Price: &newPrice}, nil)
	require.NoError(t, err)

	assert.Equal(t, model.Cents(1000), items[0].Price)
}

func TestCatalogService_UpdateProfile(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	updated, err := f.svc.UpdateProfile(ctx, f.owner, model.UpdateRestaurantRequest{
		Description: strPtr("Family run"), Hours: strPtr("9-5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Family run", *updated.Description)

	updated, err = f.svc.UpdateProfile(ctx, f.owner, model.UpdateRestaurantRequest{Description: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)

	_, err = f.svc.UpdateProfile(ctx, f.owner, model.UpdateRestaurantRequest{Location: strPtr("  ")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.GetProfile(ctx, model.Actor{UserID: uuid.NewString(), Role: model.RoleRestaurant})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

// vanishingRestaurants loses the restaurant between the read and the write.
type vanishingRestaurants struct{ *fakeRestaurants }

func (vanishingRestaurants) UpdateProfileByOwner(context.Context, *model.Restaurant) error {
	return repository.ErrNotFound
}

func TestCatalogService_UpdateProfileMissingOnWrite(t *testing.T) {
	f := newCatalogFixture(t)
	svc := NewCatalogService(vanishingRestaurants{f.restaurants}, NewImageStore(f.uploads))

	_, err := svc.UpdateProfile(context.Background(), f.owner, model.UpdateRestaurantRequest{Hours: strPtr("9-5")})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestCatalogService_UploadImage(t *testing.T) {
	f := newCatalogFixture(t)

	updated, err := f.svc.UploadImage(context.Background(), f.owner, fileHeader(t, "front.PNG", []byte("png-bytes")))
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	publicPath := updated.Images[0]
	assert.True(t, strings.HasPrefix(publicPath, "/uploads/restaurants/"+f.restaurant.ID+"/"))
	assert.True(t, strings.HasSuffix(publicPath, ".png"))

	onDisk := filepath.Join(f.uploads, strings.TrimPrefix(publicPath, "/uploads/"))
	content, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))
}

func TestCatalogService_UploadImageRejectsFormat(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.svc.UploadImage(context.Background(), f.owner, fileHeader(t, "menu.pdf", []byte("%PDF")))
	assert.ErrorIs(t, err, ErrInvalidFileFormat)
	assert.ErrorIs(t, err, ErrValidation)
}
