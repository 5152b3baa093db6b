package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"estoque/internal/core"
)

// Column order of the log sheet.
var logHeader = []string{"Date", "Time", "Item", "Change", "Direction", "ID"}

func logRow(e core.LogEntry, loc *time.Location) []interface{} {
	return []interface{}{
		e.DatePart(loc),
		e.TimePart(loc),
		e.ItemName,
		e.Change,
		string(e.Direction),
		e.ID,
	}
}

// parseLogRows reads rows written by logRow. The header row and rows without an id are skipped.
func parseLogRows(values [][]interface{}, loc *time.Location) []core.LogEntry {
	var out []core.LogEntry
	for _, raw := range values {
		row := toStrings(raw)
		if len(row) < len(logHeader) {
			continue
		}
		if strings.EqualFold(row[0], logHeader[0]) {
			continue
		}
		id := row[5]
		if id == "" {
			continue
		}
		ts, err := time.ParseInLocation(core.DateLayout+" "+core.TimeLayout, row[0]+" "+row[1], loc)
		if err != nil {
			ts = time.Time{}
		}
		dir := core.Direction(row[4])
		if !dir.IsValid() {
			dir = core.DirectionOf(row[3])
		}
		out = append(out, core.LogEntry{ID: id, Timestamp: ts, ItemName: row[2], Change: row[3], Direction: dir})
	}
	return out
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
