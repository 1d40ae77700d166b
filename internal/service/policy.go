package service

import (
	"fmt"

	"food_marketplace/internal/model"
)

// TransitionPolicy decides whether an order may move between two statuses.
type TransitionPolicy interface {
	Check(from, to model.OrderStatus) error
}

// LoosePolicy lets restaurants set any status, including moving an order
// back to an earlier one. Customer cancellation lockout is enforced by
// the order service regardless of policy.
type LoosePolicy struct{}

func (LoosePolicy) Check(from, to model.OrderStatus) error { return nil }

// StrictPolicy only allows forward moves along the delivery or pickup
// flow, plus cancellation from any non-terminal status.
type StrictPolicy struct{}

var successors = map[model.OrderStatus][]model.OrderStatus{
	model.StatusNew:            {model.StatusOrderReceived},
	model.StatusOrderReceived:  {model.StatusConfirmed},
	model.StatusConfirmed:      {model.StatusPreparing},
	model.StatusPreparing:      {model.StatusReadyForPickup},
	model.StatusReadyForPickup: {model.StatusOnTheWay, model.StatusPickedUp},
	model.StatusOnTheWay:       {model.StatusDelivered},
}

func (StrictPolicy) Check(from, to model.OrderStatus) error {
	if from.IsTerminal() {
		return newError(ErrInvalidTransition, fmt.Sprintf("Order is already %s", from))
	}
	if to == model.StatusCancelled {
		return nil
	}
	for _, next := range successors[from] {
		if next == to {
			return nil
		}
	}
	return newError(ErrInvalidTransition, fmt.Sprintf("Cannot change status from %s to %s", from, to))
}

// NewTransitionPolicy returns the policy registered under name.
func NewTransitionPolicy(name string) (TransitionPolicy, error) {
	switch name {
	case "", "loose":
		return LoosePolicy{}, nil
	case "strict":
		return StrictPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown transition policy %q", name)
	}
}
