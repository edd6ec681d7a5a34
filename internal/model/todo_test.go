package model

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "naive",
			value: "2024-01-31T10:30:00",
			want:  time.Date(2024, 1, 31, 10, 30, 0, 0, time.Local),
		},
		{
			name:  "trailing z is dropped",
			value: "2024-01-31T10:30:00Z",
			want:  time.Date(2024, 1, 31, 10, 30, 0, 0, time.Local),
		},
		{
			name:  "offset is dropped",
			value: "2024-01-31T10:30:00+05:00",
			want:  time.Date(2024, 1, 31, 10, 30, 0, 0, time.Local),
		},
		{
			name:  "fractional seconds",
			value: "2024-01-31T10:30:00.123456",
			want:  time.Date(2024, 1, 31, 10, 30, 0, 123456000, time.Local),
		},
		{name: "empty", value: "", wantErr: true},
		{name: "garbage", value: "not a timestamp", wantErr: true},
		{name: "date only", value: "2024-01-31", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimestamp(%q) = %v, want error", tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q): %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	stamp := time.Date(2024, 6, 2, 8, 15, 42, 0, time.Local)
	parsed, err := ParseTimestamp(FormatTimestamp(stamp))
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	if !parsed.Equal(stamp) {
		t.Errorf("round trip = %v, want %v", parsed, stamp)
	}
}

func TestDueInstant(t *testing.T) {
	todo := &Todo{DueDate: "2024-03-05", DueTime: "08:30"}
	due, ok := todo.DueInstant()
	if !ok {
		t.Fatal("DueInstant() not ok")
	}
	want := time.Date(2024, 3, 5, 8, 30, 0, 0, time.Local)
	if !due.Equal(want) {
		t.Errorf("DueInstant() = %v, want %v", due, want)
	}

	// Missing time falls back to end of day.
	todo = &Todo{DueDate: "2024-03-05"}
	due, ok = todo.DueInstant()
	if !ok {
		t.Fatal("DueInstant() without time not ok")
	}
	if due.Hour() != 23 || due.Minute() != 59 {
		t.Errorf("default due time = %02d:%02d, want 23:59", due.Hour(), due.Minute())
	}

	if _, ok := (&Todo{}).DueInstant(); ok {
		t.Error("DueInstant() ok for dateless todo")
	}
	if _, ok := (&Todo{DueDate: "soon", DueTime: "08:30"}).DueInstant(); ok {
		t.Error("DueInstant() ok for malformed date")
	}
}

func TestCloneIsDeep(t *testing.T) {
	todo := &Todo{
		ID:            "t1",
		Title:         "pack bags",
		Persons:       []string{"p1"},
		RecurringRule: &RecurrenceRule{Interval: 1, Unit: UnitWeeks},
		Items:         []Item{{ID: "i1", Name: "socks"}},
	}

	clone := todo.Clone()
	clone.Items[0].Checked = true
	clone.Persons[0] = "p2"
	clone.RecurringRule.Interval = 9

	if todo.Items[0].Checked {
		t.Error("clone shares items with original")
	}
	if todo.Persons[0] != "p1" {
		t.Error("clone shares persons with original")
	}
	if todo.RecurringRule.Interval != 1 {
		t.Error("clone shares rule with original")
	}
}

func TestRecurrenceRuleEqual(t *testing.T) {
	weekly := &RecurrenceRule{Interval: 1, Unit: UnitWeeks}
	if !weekly.Equal(&RecurrenceRule{Interval: 1, Unit: UnitWeeks}) {
		t.Error("identical rules not equal")
	}
	if weekly.Equal(&RecurrenceRule{Interval: 2, Unit: UnitWeeks}) {
		t.Error("different intervals equal")
	}
	if weekly.Equal(nil) {
		t.Error("rule equals nil")
	}
	var none *RecurrenceRule
	if !none.Equal(nil) {
		t.Error("nil rule not equal to nil")
	}
}
