package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"estoque/internal/core"
)

func entry(id, name string, month time.Month, day int) core.LogEntry {
	return core.LogEntry{
		ID:        id,
		ItemName:  name,
		Timestamp: time.Date(2024, month, day, 12, 0, 0, 0, time.UTC),
	}
}

func idsOf(logs []core.LogEntry) []string {
	out := make([]string, len(logs))
	for i, e := range logs {
		out[i] = e.ID
	}
	return out
}

func TestFilterByMonthKeepsOrder(t *testing.T) {
	logs := []core.LogEntry{
		entry("1", "Arroz", time.January, 10),
		entry("2", "Feijão", time.March, 2),
		entry("3", "Arroz", time.March, 1),
	}

	assert.Equal(t, []string{"2", "3"}, idsOf(Filter(logs, "", time.March, time.UTC)))
	assert.Equal(t, []string{"1"}, idsOf(Filter(logs, "", time.January, time.UTC)))
	assert.Empty(t, Filter(logs, "", time.February, time.UTC))
	assert.Equal(t, []string{"1", "2", "3"}, idsOf(Filter(logs, "", 0, time.UTC)))
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	logs := []core.LogEntry{
		entry("1", "Arroz Integral", time.May, 1),
		entry("2", "FEIJÃO", time.May, 1),
		entry("3", "arroz", time.June, 1),
	}

	tests := []struct {
		search string
		month  time.Month
		want   []string
	}{
		{"arroz", 0, []string{"1", "3"}},
		{"ARROZ", time.May, []string{"1"}},
		{"feijão", 0, []string{"2"}},
		{"  integral ", 0, []string{"1"}},
		{"", 0, []string{"1", "2", "3"}},
		{"sal", 0, []string{}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, idsOf(Filter(logs, tc.search, tc.month, time.UTC)), "search=%q month=%d", tc.search, tc.month)
	}
}

func TestFilterIgnoresYear(t *testing.T) {
	logs := []core.LogEntry{
		{ID: "a", Timestamp: time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Timestamp: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, []string{"a", "b"}, idsOf(Filter(logs, "", time.March, time.UTC)))
}

func TestFilterUsesLocation(t *testing.T) {
	// 02:00 UTC on the 1st of April is still March in São Paulo (UTC-3).
	loc := time.FixedZone("BRT", -3*60*60)
	logs := []core.LogEntry{{ID: "x", Timestamp: time.Date(2024, time.April, 1, 2, 0, 0, 0, time.UTC)}}

	assert.Len(t, Filter(logs, "", time.March, loc), 1)
	assert.Empty(t, Filter(logs, "", time.March, time.UTC))
}

func TestRestock(t *testing.T) {
	items := []core.Item{
		{ID: "1", Quantity: 1, AlertQuantity: 2},
		{ID: "2", Quantity: 5, AlertQuantity: 2},
		{ID: "3", Quantity: 2, AlertQuantity: 2},
	}
	got := Restock(items)
	assert.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}
