package service

import (
	"sort"
	"time"

	"todo-manager/internal/model"
)

// Score maps a todo and the current time to its urgency. Higher scores
// sort first. Completed todos sink to 0, dateless todos float at 0.5,
// and the three future bands (due within a day, within a week, later)
// occupy disjoint ranges so closer deadlines always win. Overdue todos
// score above 1000, growing with hours overdue.
//
// A due date/time that does not parse is treated as no due date.
func Score(t *model.Todo, now time.Time) float64 {
	if t.Completed {
		return 0.0
	}

	due, ok := t.DueInstant()
	if !ok {
		return 0.5
	}

	if due.Before(now) {
		hoursOverdue := now.Sub(due).Hours()
		return 1000.0 + hoursOverdue
	}

	hoursUntil := due.Sub(now).Hours()
	switch {
	case hoursUntil < 24:
		return 100.0 - hoursUntil
	case hoursUntil < 168: // one week
		return 50.0 - hoursUntil/7
	default:
		return 10.0 - hoursUntil/168
	}
}

// Rank returns the todos ordered by descending urgency. The sort is
// stable: equal scores keep their input order. The input slice is not
// modified.
func Rank(todos []*model.Todo, now time.Time) []*model.Todo {
	ranked := append([]*model.Todo(nil), todos...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i], now) > Score(ranked[j], now)
	})
	return ranked
}
