package service

import (
	"fmt"

	"food_marketplace/internal/model"
)

// MaxQuantity caps a single order line.
const MaxQuantity = 1000

// AssembleOrder resolves every requested dish against the restaurant's
// current menu and returns the line item snapshots and their exact total.
// It never modifies restaurant. One unknown dish fails the whole order.
func AssembleOrder(restaurant *model.Restaurant, requested []model.RequestedItem) ([]model.LineItem, model.Money, error) {
	if len(requested) == 0 {
		return nil, 0, Validation("Order must contain at least one item")
	}

	items := make([]model.LineItem, 0, len(requested))
	var total model.Money

	for _, req := range requested {
		qty := 1
		if req.Quantity != nil {
			qty = *req.Quantity
		}
		if qty <= 0 {
			return nil, 0, Validation("Quantity must be a positive number")
		}
		if qty > MaxQuantity {
			return nil, 0, Validation(fmt.Sprintf("Quantity must not exceed %d", MaxQuantity))
		}

		dish := restaurant.FindDish(req.DishID)
		if dish == nil {
			return nil, 0, ErrDishNotFound
		}

		items = append(items, model.LineItem{
			DishID:   dish.ID,
			Name:     dish.Name,
			Price:    dish.Price,
			Quantity: qty,
		})
		line, ok := dish.Price.MulChecked(qty)
		if !ok {
			return nil, 0, Validation("Order total is too large")
		}
		if total, ok = total.AddChecked(line); !ok {
			return nil, 0, Validation("Order total is too large")
		}
	}

	return items, total, nil
}
