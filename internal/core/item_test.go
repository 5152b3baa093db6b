package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemValidate(t *testing.T) {
	good := []Item{
		numberItem(0),
		optionsItem(3),
	}
	for i, it := range good {
		assert.NoError(t, it.Validate(), "case %d", i)
	}

	bads := []struct {
		item  Item
		field string
	}{
		{Item{Name: "  ", Kind: QuantityNumber}, "name"},
		{Item{Name: "x", Kind: QuantityNumber, Quantity: -1}, "quantity"},
		{Item{Name: "x", Kind: QuantityNumber, AlertQuantity: -2}, "alertQuantity"},
		{Item{Name: "x", Kind: QuantityOptions}, "options"},
		{Item{Name: "x", Kind: QuantityOptions, OptionLabels: []string{"a", " "}}, "options"},
		{Item{Name: "x", Kind: QuantityOptions, OptionLabels: []string{"a"}, Quantity: 1}, "quantity"},
		{Item{Name: "x", Kind: QuantityOptions, OptionLabels: []string{"a"}, AlertQuantity: 3}, "alertQuantity"},
		{Item{Name: "x", Kind: "weight"}, "qtdType"},
	}
	for i, tc := range bads {
		err := tc.item.Validate()
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "case %d expected validation error, got %v", i, err)
		assert.Equal(t, tc.field, verr.Field, "case %d", i)
	}
}

func TestItemLabel(t *testing.T) {
	it := optionsItem(0)
	l, err := it.Label(2)
	require.NoError(t, err)
	assert.Equal(t, "Suficiente", l)

	_, err = it.Label(4)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestItemNeedsRestock(t *testing.T) {
	it := numberItem(2)
	it.AlertQuantity = 2
	assert.True(t, it.NeedsRestock())
	it.Quantity = 3
	assert.False(t, it.NeedsRestock())
}

func TestItemCloneDoesNotShareLabels(t *testing.T) {
	it := optionsItem(0)
	cp := it.Clone()
	cp.OptionLabels[0] = "changed"
	assert.Equal(t, "Acabou", it.OptionLabels[0])
}

func TestLogEntryParts(t *testing.T) {
	e := LogEntry{Timestamp: time.Date(2026, 3, 7, 9, 5, 1, 0, time.UTC)}
	assert.Equal(t, "07/03/2026", e.DatePart(time.UTC))
	assert.Equal(t, "09:05:01", e.TimePart(time.UTC))
}

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in   string
		want time.Month
		ok   bool
	}{
		{"", 0, true},
		{"3", time.March, true},
		{"março", time.March, true},
		{"Dezembro", time.December, true},
		{"13", 0, false},
		{"March", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseMonth(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, m, tc.in)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
	assert.Equal(t, "Março", MonthName(time.March))
	assert.Equal(t, "", MonthName(0))
}
