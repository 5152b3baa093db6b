package inventory

import (
	"slices"
	"sync"
)

// DefaultScale is the option set offered before the user saved any of their own.
var DefaultScale = []string{"Acabou", "Pouco", "Suficiente", "Bastante"}

// OptionLibrary remembers option label sequences so they can be reused.
// Sets are only appended, and two sets are the same when they hold the same labels in the same order.
type OptionLibrary struct {
	mu   sync.RWMutex
	sets [][]string
}

func NewOptionLibrary(seed ...[]string) *OptionLibrary {
	l := &OptionLibrary{}
	for _, s := range seed {
		l.Save(s)
	}
	return l
}

// Save stores labels unless an equal set exists. It reports whether the set was new.
func (l *OptionLibrary) Save(labels []string) bool {
	if len(labels) == 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.sets {
		if slices.Equal(s, labels) {
			return false
		}
	}
	l.sets = append(l.sets, slices.Clone(labels))
	return true
}

func (l *OptionLibrary) Contains(labels []string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.ContainsFunc(l.sets, func(s []string) bool { return slices.Equal(s, labels) })
}

func (l *OptionLibrary) List() [][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([][]string, len(l.sets))
	for i, s := range l.sets {
		out[i] = slices.Clone(s)
	}
	return out
}
