package core

import (
	"fmt"
	"strconv"
)

const (
	DirectionNeutral  Direction = "neutral"
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"

	// AddedChange tags the log entry written when an item is created.
	AddedChange = "Added"
)

type (
	Direction string

	// Change is the human-readable record of a quantity edit.
	Change struct {
		Descriptor string
		Direction  Direction
	}
)

// Diff computes the change between the quantity of prev and next.
// The boolean is false when nothing observable changed, in which case no log entry is due.
func Diff(prev, next Item) (Change, bool, error) {
	if prev.Kind != next.Kind {
		from, err := prev.renderQuantity()
		if err != nil {
			return Change{}, false, err
		}
		to, err := next.renderQuantity()
		if err != nil {
			return Change{}, false, err
		}
		return transition(from, to)
	}

	switch next.Kind {
	case QuantityNumber:
		delta := next.Quantity - prev.Quantity
		if delta == 0 {
			return Change{}, false, nil
		}
		if delta > 0 {
			return Change{Descriptor: "+" + strconv.Itoa(delta), Direction: DirectionIncrease}, true, nil
		}
		return Change{Descriptor: strconv.Itoa(delta), Direction: DirectionDecrease}, true, nil
	case QuantityOptions:
		from, err := prev.Label(prev.Quantity)
		if err != nil {
			return Change{}, false, err
		}
		to, err := next.Label(next.Quantity)
		if err != nil {
			return Change{}, false, err
		}
		return transition(from, to)
	default:
		return Change{}, false, fmt.Errorf("diff: unknown quantity type %q", next.Kind)
	}
}

// Added is the change recorded when an item enters the list.
func Added() Change {
	return Change{Descriptor: AddedChange, Direction: DirectionNeutral}
}

func transition(from, to string) (Change, bool, error) {
	if from == to {
		return Change{}, false, nil
	}
	return Change{Descriptor: from + " > " + to, Direction: DirectionNeutral}, true, nil
}

func (it Item) renderQuantity() (string, error) {
	if it.Kind == QuantityOptions {
		return it.Label(it.Quantity)
	}
	return strconv.Itoa(it.Quantity), nil
}

// IsValid returns true if the direction is a known classification
func (d Direction) IsValid() bool {
	switch d {
	case DirectionNeutral, DirectionIncrease, DirectionDecrease:
		return true
	default:
		return false
	}
}

// DirectionOf classifies a stored descriptor. Only signed numeric deltas carry a direction.
func DirectionOf(descriptor string) Direction {
	n, err := strconv.Atoi(descriptor)
	switch {
	case err != nil || n == 0:
		return DirectionNeutral
	case n > 0:
		return DirectionIncrease
	default:
		return DirectionDecrease
	}
}
