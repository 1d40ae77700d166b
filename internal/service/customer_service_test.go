package service

import (
	"context"
	"testing"

	"food_marketplace/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customerFixture struct {
	svc        CustomerService
	users      *fakeUsers
	restaurant *model.Restaurant
	actor      model.Actor
}

func newCustomerFixture() *customerFixture {
	user := &model.User{ID: uuid.NewString(), Name: "Ann", Email: "ann@example.com", Role: model.RoleCustomer, Favorites: []string{}}
	other := &model.User{ID: uuid.NewString(), Name: "Bob", Email: "bob@example.com", Role: model.RoleCustomer}
	restaurant := &model.Restaurant{ID: uuid.NewString(), UserID: uuid.NewString(), Name: "Luigi's", Location: "12 Main St"}
	users := newFakeUsers(user, other)
	return &customerFixture{
		svc:        NewCustomerService(users, newFakeRestaurants(restaurant)),
		users:      users,
		restaurant: restaurant,
		actor:      model.Actor{UserID: user.ID, Role: model.RoleCustomer},
	}
}

func TestCustomerService_Favorites(t *testing.T) {
	f := newCustomerFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.AddFavorite(ctx, f.actor, f.restaurant.ID))
	require.NoError(t, f.svc.AddFavorite(ctx, f.actor, f.restaurant.ID))

	fav, err := f.svc.IsFavorite(ctx, f.actor, f.restaurant.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	list, err := f.svc.ListFavorites(ctx, f.actor)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Luigi's", list[0].Name)

	require.NoError(t, f.svc.RemoveFavorite(ctx, f.actor, f.restaurant.ID))
	fav, err = f.svc.IsFavorite(ctx, f.actor, f.restaurant.ID)
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestCustomerService_AddFavoriteUnknownRestaurant(t *testing.T) {
	f := newCustomerFixture()

	assert.ErrorIs(t, f.svc.AddFavorite(context.Background(), f.actor, uuid.NewString()), ErrRestaurantNotFound)
	assert.ErrorIs(t, f.svc.AddFavorite(context.Background(), f.actor, "junk"), ErrRestaurantNotFound)
}

func TestCustomerService_ListFavoritesSkipsDeleted(t *testing.T) {
	f := newCustomerFixture()
	f.users.byID[f.actor.UserID].Favorites = []string{f.restaurant.ID, uuid.NewString()}

	list, err := f.svc.ListFavorites(context.Background(), f.actor)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCustomerService_UpdateProfile(t *testing.T) {
	f := newCustomerFixture()
	ctx := context.Background()

	updated, err := f.svc.UpdateProfile(ctx, f.actor, model.UpdateProfileRequest{
		City: strPtr("Springfield"), Phone: strPtr("555-1234"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Springfield", *updated.City)

	updated, err = f.svc.UpdateProfile(ctx, f.actor, model.UpdateProfileRequest{Phone: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Phone)
	assert.Equal(t, "Springfield", *updated.City)

	_, err = f.svc.UpdateProfile(ctx, f.actor, model.UpdateProfileRequest{Email: strPtr("BOB@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.svc.UpdateProfile(ctx, f.actor, model.UpdateProfileRequest{Name: strPtr("   ")})
	assert.ErrorIs(t, err, ErrValidation)
}
