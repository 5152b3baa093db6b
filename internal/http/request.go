package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"estoque/internal/core"
)

const maxBodyBytes = 1 << 20

// itemRequest is the body of POST /items and PUT /items/{id}.
type itemRequest struct {
	Name          string            `json:"name"`
	Kind          core.QuantityKind `json:"qtdType"`
	Unit          string            `json:"numberOf"`
	OptionLabels  []string          `json:"options"`
	Quantity      int               `json:"quantity"`
	AlertQuantity int               `json:"alertQuantity"`
	Description   string            `json:"description"`
}

func (req itemRequest) item(id string) core.Item {
	labels := make([]string, 0, len(req.OptionLabels))
	for _, l := range req.OptionLabels {
		labels = append(labels, sanitizeInput(l))
	}
	unit := sanitizeInput(req.Unit)
	if req.Kind == core.QuantityNumber && unit == "" {
		unit = core.DefaultUnit
	}
	return core.Item{
		ID:            id,
		Name:          sanitizeInput(req.Name),
		Kind:          req.Kind,
		Unit:          unit,
		OptionLabels:  labels,
		Quantity:      req.Quantity,
		AlertQuantity: req.AlertQuantity,
		Description:   sanitizeInput(req.Description),
	}
}

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

// parseMonthQuery reads the month parameter: absent means the current month, "all" means every month.
func parseMonthQuery(q url.Values, now time.Time) (time.Month, error) {
	v := strings.TrimSpace(q.Get("month"))
	switch {
	case !q.Has("month"):
		return now.Month(), nil
	case v == "" || strings.EqualFold(v, "all") || v == "0":
		return 0, nil
	}
	return core.ParseMonth(v)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
