// Package view holds the read-side projections over the change log.
package view

import (
	"strings"
	"time"

	"estoque/internal/core"
)

// Filter returns the entries logged in month (any year) whose item name contains search,
// ignoring case. A zero month or an empty search disables that condition.
// The result keeps the input order.
func Filter(logs []core.LogEntry, search string, month time.Month, loc *time.Location) []core.LogEntry {
	if loc == nil {
		loc = time.Local
	}
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]core.LogEntry, 0, len(logs))
	for _, e := range logs {
		if month != 0 && e.Timestamp.In(loc).Month() != month {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(e.ItemName), needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Restock returns the items whose quantity reached the alert threshold.
func Restock(items []core.Item) []core.Item {
	var out []core.Item
	for _, it := range items {
		if it.NeedsRestock() {
			out = append(out, it)
		}
	}
	return out
}
