package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"todo-manager/internal/model"
)

// todoRow is the relational shape of a todo. Nested structures go
// through gorm's JSON serializer so the row round-trips the document
// fields without a second schema.
type todoRow struct {
	ID            string `gorm:"primaryKey"`
	Title         string
	Description   string
	DueDate       string
	DueTime       string
	Type          string
	Persons       []string              `gorm:"serializer:json"`
	Recurring     bool                  `gorm:"default:false"`
	RecurringRule *model.RecurrenceRule `gorm:"serializer:json"`
	SeriesID      string                `gorm:"index"`
	Completed     bool                  `gorm:"default:false"`
	CompletedDate string
	Result        string
	Items         []model.Item `gorm:"serializer:json"`
	CreatedAt     time.Time
}

func (todoRow) TableName() string { return "todos" }

type personRow struct {
	ID    string `gorm:"primaryKey"`
	Name  string
	Color string
}

func (personRow) TableName() string { return "persons" }

// GormStore persists the snapshot in SQLite. It still honors the
// whole-document contract: Load reads everything, Save replaces
// everything in one transaction.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens (and migrates) the database behind the DSN.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := NewDB(dsn)
	if err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

// Load reads the whole snapshot. An empty database means no snapshot
// has been written yet.
func (s *GormStore) Load(ctx context.Context) (*model.Document, error) {
	var todos []todoRow
	if err := s.db.WithContext(ctx).Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	var persons []personRow
	if err := s.db.WithContext(ctx).Find(&persons).Error; err != nil {
		return nil, fmt.Errorf("load persons: %w", err)
	}

	if len(todos) == 0 && len(persons) == 0 {
		return nil, nil
	}

	doc := model.NewDocument()
	for _, row := range todos {
		doc.Todos[row.ID] = rowToTodo(row)
	}
	for _, row := range persons {
		doc.Persons[row.ID] = &model.Person{ID: row.ID, Name: row.Name, Color: row.Color}
	}
	return doc, nil
}

// Save replaces the stored snapshot with doc in a single transaction.
func (s *GormStore) Save(ctx context.Context, doc *model.Document) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&todoRow{}).Error; err != nil {
			return fmt.Errorf("clear todos: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&personRow{}).Error; err != nil {
			return fmt.Errorf("clear persons: %w", err)
		}

		for _, todo := range doc.Todos {
			if err := tx.Create(todoToRow(todo)).Error; err != nil {
				return fmt.Errorf("save todo %s: %w", todo.ID, err)
			}
		}
		for _, person := range doc.Persons {
			row := personRow{ID: person.ID, Name: person.Name, Color: person.Color}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("save person %s: %w", person.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func todoToRow(t *model.Todo) *todoRow {
	return &todoRow{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		DueDate:       t.DueDate,
		DueTime:       t.DueTime,
		Type:          t.Type,
		Persons:       t.Persons,
		Recurring:     t.Recurring,
		RecurringRule: t.RecurringRule,
		SeriesID:      t.SeriesID,
		Completed:     t.Completed,
		CompletedDate: t.CompletedDate,
		Result:        t.Result,
		Items:         t.Items,
		CreatedAt:     t.CreatedAt,
	}
}

func rowToTodo(row todoRow) *model.Todo {
	return &model.Todo{
		ID:            row.ID,
		Title:         row.Title,
		Description:   row.Description,
		DueDate:       row.DueDate,
		DueTime:       row.DueTime,
		Type:          row.Type,
		Persons:       row.Persons,
		Recurring:     row.Recurring,
		RecurringRule: row.RecurringRule,
		SeriesID:      row.SeriesID,
		Completed:     row.Completed,
		CompletedDate: row.CompletedDate,
		Result:        row.Result,
		Items:         row.Items,
		CreatedAt:     row.CreatedAt,
	}
}
