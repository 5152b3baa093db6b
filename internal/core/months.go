package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the Portuguese month name used by the remote API.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// ParseMonth accepts a month name (case-insensitive) or a number between 1 and 12.
// An empty string yields 0, meaning "no month filter".
func ParseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("invalid month %d", n)
		}
		return time.Month(n), nil
	}
	for i, name := range monthNames {
		if strings.EqualFold(name, s) {
			return time.Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("invalid month %q", s)
}
