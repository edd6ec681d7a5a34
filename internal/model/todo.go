package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Todo types.
const (
	TypeSimple   = "simple"
	TypeComplex  = "complex"
	TypeShopping = "shopping"
	TypePacking  = "packing"
)

// Recurrence units.
const (
	UnitDays   = "days"
	UnitWeeks  = "weeks"
	UnitMonths = "months"
)

// DefaultDueTime is assumed when a todo has a due date but no time.
const DefaultDueTime = "23:59"

// NewID returns a fresh opaque entity id.
func NewID() string {
	return uuid.NewString()
}

// RecurrenceRule describes how often a recurring todo repeats.
type RecurrenceRule struct {
	Interval int    `json:"interval"`
	Unit     string `json:"unit"`
}

// Equal reports whether two rules describe the same schedule.
// A nil rule only equals another nil rule.
func (r *RecurrenceRule) Equal(other *RecurrenceRule) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Interval == other.Interval && r.Unit == other.Unit
}

// Item is a single entry of a shopping or packing list.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Checked  bool   `json:"checked"`
}

// Todo represents a single tracked task or list.
type Todo struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	DueDate       string          `json:"due_date,omitempty"` // YYYY-MM-DD
	DueTime       string          `json:"due_time,omitempty"` // HH:MM
	Type          string          `json:"todo_type"`
	Persons       []string        `json:"persons"`
	Recurring     bool            `json:"recurring"`
	RecurringRule *RecurrenceRule `json:"recurring_rule,omitempty"`
	SeriesID      string          `json:"series_id,omitempty"`
	Completed     bool            `json:"completed"`
	CompletedDate string          `json:"completed_date,omitempty"`
	Result        string          `json:"result,omitempty"`
	Items         []Item          `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// HasItems reports whether the todo type carries an item list.
func (t *Todo) HasItems() bool {
	return t.Type == TypeShopping || t.Type == TypePacking
}

// Clone returns a deep copy of the todo.
func (t *Todo) Clone() *Todo {
	clone := *t
	if t.RecurringRule != nil {
		rule := *t.RecurringRule
		clone.RecurringRule = &rule
	}
	if t.Persons != nil {
		clone.Persons = append([]string(nil), t.Persons...)
	}
	if t.Items != nil {
		clone.Items = append([]Item(nil), t.Items...)
	}
	return &clone
}

// DueInstant combines due date and time into a naive local instant.
// The second return value is false when the todo has no due date or the
// combination does not parse.
func (t *Todo) DueInstant() (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	dueTime := t.DueTime
	if dueTime == "" {
		dueTime = DefaultDueTime
	}
	due, err := time.ParseInLocation("2006-01-02 15:04", t.DueDate+" "+dueTime, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// ParseTimestamp parses an ISO-8601 timestamp into naive local time.
// A trailing "Z" or an explicit offset is tolerated by dropping it, so
// the wall-clock fields are kept as-is.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
	} {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		year, month, day := parsed.Date()
		hour, minute, sec := parsed.Clock()
		return time.Date(year, month, day, hour, minute, sec, parsed.Nanosecond(), time.Local), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}

// FormatTimestamp renders a timestamp the way ParseTimestamp reads it back.
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}
