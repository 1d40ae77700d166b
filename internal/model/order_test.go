package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	st, ok := ParseOrderStatus("  ready for pickup ")
	assert.True(t, ok)
	assert.Equal(t, StatusReadyForPickup, st)

	_, ok = ParseOrderStatus("Lost")
	assert.False(t, ok)
}

func TestOrderStatus_Terminal(t *testing.T) {
	for _, st := range OrderStatuses {
		want := st == StatusDelivered || st == StatusPickedUp || st == StatusCancelled
		assert.Equal(t, want, st.IsTerminal(), st)
	}
	assert.False(t, StatusCancelled.IsCompleted())
	assert.True(t, StatusPickedUp.IsCompleted())
}

func TestOrderView(t *testing.T) {
	addr := "1 Main St"
	o := &Order{
		ID:              "o1",
		CustomerID:      "c1",
		CustomerName:    "Ann",
		RestaurantID:    "r1",
		RestaurantName:  "Thai Place",
		Status:          StatusNew,
		TotalPrice:      Cents(2550),
		PaymentMethod:   PaymentCard,
		DeliveryAddress: &addr,
	}

	v := o.View(false)
	assert.Equal(t, "1 Main St", v.DeliveryAddress)
	assert.Equal(t, "", v.Notes)
	assert.NotNil(t, v.Items)
	assert.Empty(t, v.CustomerID)
	assert.Empty(t, v.CustomerName)

	v = o.View(true)
	assert.Equal(t, "c1", v.CustomerID)
	assert.Equal(t, "Ann", v.CustomerName)
}

func TestRestaurant_Dishes(t *testing.T) {
	r := &Restaurant{Dishes: []Dish{{ID: "d1"}, {ID: "d2"}}}

	assert.NotNil(t, r.FindDish("d2"))
	assert.Nil(t, r.FindDish("d3"))
	assert.True(t, r.RemoveDish("d1"))
	assert.False(t, r.RemoveDish("d1"))
	assert.Len(t, r.Dishes, 1)
}
