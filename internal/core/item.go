package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	QuantityNumber  QuantityKind = "number"
	QuantityOptions QuantityKind = "options"

	// DefaultUnit is the unit of measure preselected for new numeric items.
	DefaultUnit = "Unidades"
)

type (
	QuantityKind string

	// Item is one tracked stock entry. JSON tags follow the exported file format.
	Item struct {
		ID            string       `json:"id"`
		Name          string       `json:"name"`
		Kind          QuantityKind `json:"qtdType"`
		Unit          string       `json:"numberOf"`
		OptionLabels  []string     `json:"options"`
		Quantity      int          `json:"quantity"`
		AlertQuantity int          `json:"alertQuantity"`
		Description   string       `json:"description"`
	}
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateID  = errors.New("duplicate id")
	ErrInvalidIndex = errors.New("invalid option index")
)

// ValidationError reports a single invalid field so callers can show it next to the input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValid returns true if the kind is one of the known quantity representations
func (k QuantityKind) IsValid() bool {
	switch k {
	case QuantityNumber, QuantityOptions:
		return true
	default:
		return false
	}
}

func (k QuantityKind) String() string {
	return string(k)
}

func (it Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return invalid("name", "name cannot be empty")
	}
	if len(it.Name) > 200 {
		return invalid("name", "name too long (max 200 characters)")
	}

	switch it.Kind {
	case QuantityNumber:
		if it.Quantity < 0 {
			return invalid("quantity", "quantity cannot be negative")
		}
		if it.AlertQuantity < 0 {
			return invalid("alertQuantity", "alert quantity cannot be negative")
		}
	case QuantityOptions:
		if len(it.OptionLabels) == 0 {
			return invalid("options", "at least one option is required")
		}
		for _, l := range it.OptionLabels {
			if strings.TrimSpace(l) == "" {
				return invalid("options", "options cannot be blank")
			}
		}
		if !it.inRange(it.Quantity) {
			return invalid("quantity", fmt.Sprintf("option %d does not exist", it.Quantity))
		}
		if !it.inRange(it.AlertQuantity) {
			return invalid("alertQuantity", fmt.Sprintf("option %d does not exist", it.AlertQuantity))
		}
	default:
		return invalid("qtdType", fmt.Sprintf("unknown quantity type %q", it.Kind))
	}
	return nil
}

func (it Item) inRange(idx int) bool {
	return idx >= 0 && idx < len(it.OptionLabels)
}

// Label returns the option label at idx.
func (it Item) Label(idx int) (string, error) {
	if !it.inRange(idx) {
		return "", fmt.Errorf("%w: %d of %d options", ErrInvalidIndex, idx, len(it.OptionLabels))
	}
	return it.OptionLabels[idx], nil
}

// NeedsRestock reports whether the quantity reached the alert threshold.
// For option items both values are indices, so the comparison follows label order.
func (it Item) NeedsRestock() bool {
	return it.Quantity <= it.AlertQuantity
}

// Clone returns a copy that does not share the label slice.
func (it Item) Clone() Item {
	if it.OptionLabels != nil {
		it.OptionLabels = append([]string(nil), it.OptionLabels...)
	}
	return it
}
