package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"todo-manager/internal/model"
)

func sampleDocument() *model.Document {
	doc := model.NewDocument()
	doc.Todos["t1"] = &model.Todo{
		ID:        "t1",
		Title:     "Buy milk",
		Type:      model.TypeShopping,
		DueDate:   "2024-05-08",
		DueTime:   "18:00",
		Persons:   []string{"p1"},
		Recurring: true,
		RecurringRule: &model.RecurrenceRule{
			Interval: 1,
			Unit:     model.UnitWeeks,
		},
		SeriesID:  "s1",
		Items:     []model.Item{{ID: "i1", Name: "milk", Quantity: "2"}},
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	doc.Persons["p1"] = &model.Person{ID: "p1", Name: "Alex", Color: "#336699"}
	return doc
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "snapshot.json"))

	if err := store.Save(ctx, sampleDocument()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil after Save")
	}
	if got.SchemaVersion != model.SchemaVersion {
		t.Errorf("schema version = %d, want %d", got.SchemaVersion, model.SchemaVersion)
	}

	todo := got.Todos["t1"]
	if todo == nil {
		t.Fatal("todo t1 missing after round trip")
	}
	if todo.Title != "Buy milk" || todo.SeriesID != "s1" {
		t.Errorf("todo = %q series %q", todo.Title, todo.SeriesID)
	}
	if todo.RecurringRule == nil || todo.RecurringRule.Unit != model.UnitWeeks {
		t.Errorf("rule = %+v, want weekly", todo.RecurringRule)
	}
	if len(todo.Items) != 1 || todo.Items[0].Quantity != "2" {
		t.Errorf("items = %+v", todo.Items)
	}
	if got.Persons["p1"] == nil || got.Persons["p1"].Name != "Alex" {
		t.Errorf("persons = %+v", got.Persons)
	}
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope", "snapshot.json"))

	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc != nil {
		t.Errorf("Load = %+v, want nil for missing snapshot", doc)
	}
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Error("Load of corrupt snapshot succeeded")
	}
}

func TestFileStoreMigrateBackfillsMaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(`{"schema_version":1}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	doc, err := NewFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Todos == nil || doc.Persons == nil {
		t.Error("Load left nil maps in place")
	}
}

func TestFileStoreSaveCreatesDirAndLeavesNoTemp(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "state", "snapshot.json")
	store := NewFileStore(path)

	if err := store.Save(ctx, model.NewDocument()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot missing: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after Save")
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "snapshot.json"))

	if err := store.Save(ctx, sampleDocument()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, model.NewDocument()); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Todos) != 0 {
		t.Errorf("todos = %d, want 0 after overwrite", len(doc.Todos))
	}
}
