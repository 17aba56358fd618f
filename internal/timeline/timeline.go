// Package timeline resolves the value of a lever on a given day from a sparse
// list of scheduled changes.
package timeline

import (
	"sort"

	"profit-forecast/internal/model"
)

// ValueAtDay returns the value of the change with the largest Day <= day, or
// def when no change is active yet. On equal days the later entry in the list
// wins. The list does not have to be sorted.
func ValueAtDay(changes []model.RateChange, day int, def float64) float64 {
	found := false
	bestDay := 0
	value := def
	for _, c := range changes {
		if c.Day > day {
			continue
		}
		if !found || c.Day >= bestDay {
			found = true
			bestDay = c.Day
			value = c.Value
		}
	}
	return value
}

// Insert adds c keeping the list ordered by day. It goes after any existing
// change on the same day so the newest write wins. The input slice is not modified.
func Insert(changes []model.RateChange, c model.RateChange) []model.RateChange {
	i := sort.Search(len(changes), func(i int) bool { return changes[i].Day > c.Day })
	out := make([]model.RateChange, 0, len(changes)+1)
	out = append(out, changes[:i]...)
	out = append(out, c)
	out = append(out, changes[i:]...)
	return out
}

// Remove drops every change scheduled on day.
func Remove(changes []model.RateChange, day int) []model.RateChange {
	out := make([]model.RateChange, 0, len(changes))
	for _, c := range changes {
		if c.Day != day {
			out = append(out, c)
		}
	}
	return out
}

// Sort orders changes by day in place, keeping insertion order on ties.
func Sort(changes []model.RateChange) {
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Day < changes[j].Day })
}

// Normalize returns a copy of s whose override lists are sorted by day, equal
// days keeping their list order. The lists of s are not modified.
func Normalize(s model.MetricsState) model.MetricsState {
	out := s
	for _, l := range model.Levers {
		changes := s.Changes(l)
		if changes == nil {
			continue
		}
		sorted := make([]model.RateChange, len(changes))
		copy(sorted, changes)
		Sort(sorted)
		out.SetChanges(l, sorted)
	}
	return out
}

// Schedule returns a copy of s with c inserted into the list of lever l.
func Schedule(s model.MetricsState, l model.Lever, c model.RateChange) model.MetricsState {
	s.SetChanges(l, Insert(s.Changes(l), c))
	return s
}

// Clear returns a copy of s without the changes of lever l on day.
func Clear(s model.MetricsState, l model.Lever, day int) model.MetricsState {
	s.SetChanges(l, Remove(s.Changes(l), day))
	return s
}
