package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"estoque/internal/core"
)

// flexID accepts identifiers sent either as JSON strings or numbers.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

type item struct {
	ID            flexID   `json:"id"`
	Name          string   `json:"name"`
	QtdType       string   `json:"qtd_type"`
	NumberOf      string   `json:"number_of"`
	Options       []string `json:"options"`
	Quantity      int      `json:"quantity"`
	AlertQuantity int      `json:"alert_quantity"`
	Description   string   `json:"description"`
}

// wireTimeLayout is the "dd/mm/yyyy, hh:mm:ss" local time the API stores with each log entry.
const wireTimeLayout = core.DateLayout + ", " + core.TimeLayout

type logEntry struct {
	ID       flexID `json:"id"`
	Time     string `json:"time"`
	ItemName string `json:"item_name"`
	Change   string `json:"change"`
	Type     string `json:"type"`
}

type itemsEnvelope struct {
	UserItems []item `json:"user_items"`
}

type logsEnvelope struct {
	UserLogs []logEntry `json:"user_logs"`
}

func fromItem(it core.Item) item {
	return item{
		ID:            flexID(it.ID),
		Name:          it.Name,
		QtdType:       string(it.Kind),
		NumberOf:      it.Unit,
		Options:       it.OptionLabels,
		Quantity:      it.Quantity,
		AlertQuantity: it.AlertQuantity,
		Description:   it.Description,
	}
}

func (w item) toCore() core.Item {
	return core.Item{
		ID:            string(w.ID),
		Name:          w.Name,
		Kind:          core.QuantityKind(w.QtdType),
		Unit:          w.NumberOf,
		OptionLabels:  w.Options,
		Quantity:      w.Quantity,
		AlertQuantity: w.AlertQuantity,
		Description:   w.Description,
	}
}

func fromLog(e core.LogEntry, loc *time.Location) logEntry {
	return logEntry{
		ID:       flexID(e.ID),
		Time:     e.Timestamp.In(loc).Format(wireTimeLayout),
		ItemName: e.ItemName,
		Change:   e.Change,
		Type:     string(e.Direction),
	}
}

func (w logEntry) toCore(loc *time.Location) (core.LogEntry, error) {
	ts, err := parseWireTime(w.Time, loc)
	if err != nil {
		return core.LogEntry{}, fmt.Errorf("log %s: %w", w.ID, err)
	}
	dir := core.Direction(w.Type)
	if !dir.IsValid() {
		dir = core.DirectionOf(w.Change)
	}
	return core.LogEntry{
		ID:        string(w.ID),
		Timestamp: ts,
		ItemName:  w.ItemName,
		Change:    w.Change,
		Direction: dir,
	}, nil
}

// parseWireTime reads the local "dd/mm/yyyy, hh:mm:ss" form, or RFC 3339.
func parseWireTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(wireTimeLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

func monthKey(m time.Month) string {
	if m == 0 {
		return "all"
	}
	return strconv.Itoa(int(m))
}
