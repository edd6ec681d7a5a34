package service

import (
	"log"
	"time"

	"todo-manager/internal/model"
)

// NextOccurrences scans todos for completed recurring entries whose next
// occurrence is already due and returns the successors to materialize.
// It never mutates its input, and it is idempotent: merging its output
// back into todos and calling it again yields nothing new, because each
// candidate is deduplicated against both the existing todos and the
// successors emitted earlier in the same pass.
//
// Bad data (missing rule, unparsable completion timestamp, unknown unit)
// skips that one todo and never aborts the pass.
func NextOccurrences(todos []*model.Todo, now time.Time) []*model.Todo {
	var emitted []*model.Todo

	for _, todo := range todos {
		if !todo.Recurring || todo.RecurringRule == nil || !todo.Completed {
			continue
		}

		completedAt, err := model.ParseTimestamp(todo.CompletedDate)
		if err != nil {
			log.Printf("[warn] todo %s: bad completed date: %v", todo.ID, err)
			continue
		}

		nextDue, ok := nextDueDate(completedAt, todo.RecurringRule)
		if !ok {
			log.Printf("[warn] todo %s: unknown recurrence unit %q", todo.ID, todo.RecurringRule.Unit)
			continue
		}

		// Lazy materialization: wait until the occurrence is actionable.
		if now.Before(nextDue) {
			continue
		}

		dueDate := nextDue.Format("2006-01-02")
		if hasOccurrence(todos, todo, dueDate) || hasOccurrence(emitted, todo, dueDate) {
			continue
		}

		emitted = append(emitted, successor(todo, dueDate))
	}

	return emitted
}

// nextDueDate computes the next occurrence instant from the completion
// time and the rule. Month arithmetic carries the year and clamps the
// day-of-month downward until the date is valid, so completing on
// Jan 31 with a monthly rule lands on Feb 29 (or 28).
func nextDueDate(completedAt time.Time, rule *model.RecurrenceRule) (time.Time, bool) {
	switch rule.Unit {
	case model.UnitDays:
		return completedAt.AddDate(0, 0, rule.Interval), true
	case model.UnitWeeks:
		return completedAt.AddDate(0, 0, rule.Interval*7), true
	case model.UnitMonths:
		year := completedAt.Year()
		month := int(completedAt.Month()) + rule.Interval
		for month > 12 {
			month -= 12
			year++
		}
		for day := completedAt.Day(); day >= 1; day-- {
			candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
			if candidate.Month() == time.Month(month) && candidate.Day() == day {
				return candidate, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// hasOccurrence reports whether an incomplete occurrence for the
// computed due date already exists. Todos carrying a series id match on
// it; older todos without one fall back to the natural key of title,
// rule, and due date.
func hasOccurrence(todos []*model.Todo, src *model.Todo, dueDate string) bool {
	for _, existing := range todos {
		if existing.Completed || existing.DueDate != dueDate {
			continue
		}
		if src.SeriesID != "" {
			if existing.SeriesID == src.SeriesID {
				return true
			}
			continue
		}
		if existing.Title == src.Title && existing.Recurring &&
			existing.RecurringRule.Equal(src.RecurringRule) {
			return true
		}
	}
	return false
}

// successor copies a completed recurring todo into its next occurrence:
// fresh id, incomplete, no result, computed due date, list items
// unchecked. Everything else, the series id included, carries over.
func successor(src *model.Todo, dueDate string) *model.Todo {
	next := src.Clone()
	next.ID = model.NewID()
	next.Completed = false
	next.CompletedDate = ""
	next.Result = ""
	next.DueDate = dueDate
	for i := range next.Items {
		next.Items[i].Checked = false
	}
	return next
}
