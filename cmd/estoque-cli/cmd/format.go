package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"estoque/internal/core"
)

// quantityText renders the current quantity the way the item shows it.
func quantityText(it core.Item) string {
	if it.Kind == core.QuantityOptions {
		label, err := it.Label(it.Quantity)
		if err != nil {
			return "?"
		}
		return label
	}
	return strconv.Itoa(it.Quantity) + " " + it.Unit
}

func alertText(it core.Item) string {
	if it.Kind == core.QuantityOptions {
		label, err := it.Label(it.AlertQuantity)
		if err != nil {
			return "?"
		}
		return label
	}
	return strconv.Itoa(it.AlertQuantity)
}

func changeStyle(d core.Direction) lipgloss.Style {
	switch d {
	case core.DirectionIncrease:
		return increaseStyle
	case core.DirectionDecrease:
		return decreaseStyle
	default:
		return lipgloss.NewStyle()
	}
}

// fileSafe turns an export name with a DD/MM/YYYY date into a valid file name.
func fileSafe(name string) string {
	return strings.ReplaceAll(name, "/", "-")
}

// parseMonthFlag reads --month. Unset means the current month; "all" or "0" means every month.
func parseMonthFlag(v string, set bool, now time.Time) (time.Month, error) {
	v = strings.TrimSpace(v)
	switch {
	case !set:
		return now.Month(), nil
	case v == "" || strings.EqualFold(v, "all") || v == "0":
		return 0, nil
	}
	return core.ParseMonth(v)
}

// splitLabels parses a comma separated option list.
func splitLabels(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func itemsTable(items []core.Item) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(headerStyle).
		Headers("ID", "NOME", "QUANTIDADE", "ALERTA", "DESCRIÇÃO")
	for _, it := range items {
		qty := quantityText(it)
		if it.NeedsRestock() {
			qty = restockStyle.Render(qty)
		}
		t.Row(it.ID, it.Name, qty, alertText(it), it.Description)
	}
	return t.Render()
}

func logsTable(entries []core.LogEntry, loc *time.Location) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(headerStyle).
		Headers("ID", "DATA", "HORA", "ITEM", "ALTERAÇÃO")
	for _, e := range entries {
		t.Row(e.ID, e.DatePart(loc), e.TimePart(loc), e.ItemName, changeStyle(e.Direction).Render(e.Change))
	}
	return t.Render()
}

func monthLabel(m time.Month) string {
	if m == 0 {
		return "todos os meses"
	}
	return core.MonthName(m)
}

func printMutation(item core.Item, entry *core.LogEntry, verb string) {
	fmt.Printf("%s %s (%s)\n", verb, item.Name, item.ID)
	if entry != nil {
		fmt.Println(mutedStyle.Render("registro "+entry.ID+": ") + changeStyle(entry.Direction).Render(entry.Change))
	}
}
