package repository

import (
	"testing"
	"time"

	"todo-manager/internal/model"
)

func TestTodoRowRoundTrip(t *testing.T) {
	todo := &model.Todo{
		ID:            "t1",
		Title:         "Buy milk",
		Description:   "from the corner shop",
		DueDate:       "2024-05-08",
		DueTime:       "18:00",
		Type:          model.TypeShopping,
		Persons:       []string{"p1", "p2"},
		Recurring:     true,
		RecurringRule: &model.RecurrenceRule{Interval: 2, Unit: model.UnitDays},
		SeriesID:      "s1",
		Completed:     true,
		CompletedDate: "2024-05-08T18:30:00",
		Result:        "got oat milk instead",
		Items:         []model.Item{{ID: "i1", Name: "milk", Quantity: "2", Checked: true}},
		CreatedAt:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	got := rowToTodo(*todoToRow(todo))

	if got.ID != todo.ID || got.Title != todo.Title || got.Result != todo.Result {
		t.Errorf("rowToTodo(todoToRow()) = %+v", got)
	}
	if !got.RecurringRule.Equal(todo.RecurringRule) {
		t.Errorf("rule = %+v, want %+v", got.RecurringRule, todo.RecurringRule)
	}
	if len(got.Persons) != 2 || len(got.Items) != 1 || !got.Items[0].Checked {
		t.Errorf("persons/items = %+v / %+v", got.Persons, got.Items)
	}
	if !got.CreatedAt.Equal(todo.CreatedAt) {
		t.Errorf("created at = %v, want %v", got.CreatedAt, todo.CreatedAt)
	}
}
