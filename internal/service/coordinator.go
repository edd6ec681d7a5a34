package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"todo-manager/internal/model"
	"todo-manager/internal/repository"
)

// Lookup failures on mutating operations. All of them unwrap to
// ErrNotFound.
var (
	ErrNotFound       = errors.New("not found")
	ErrTodoNotFound   = fmt.Errorf("todo %w", ErrNotFound)
	ErrItemNotFound   = fmt.Errorf("item %w", ErrNotFound)
	ErrPersonNotFound = fmt.Errorf("person %w", ErrNotFound)
)

// ErrSuccessorExists is returned when reopening a completed recurring
// todo whose next occurrence was already spawned.
var ErrSuccessorExists = errors.New("an open successor of this todo already exists")

// TodoInput carries the fields for creating a todo.
type TodoInput struct {
	Title         string
	Description   string
	DueDate       string
	DueTime       string
	Type          string
	Persons       []string
	Recurring     bool
	RecurringRule *model.RecurrenceRule
	Items         []ItemInput
}

// ItemInput is a list entry supplied on creation or update. A bare name
// is enough; id and checked state are filled in.
type ItemInput struct {
	Name     string
	Quantity string
}

// TodoUpdate carries optional field changes for an update. Nil fields
// are left unchanged.
type TodoUpdate struct {
	Title         *string
	Description   *string
	DueDate       *string
	DueTime       *string
	Type          *string
	Persons       []string
	Recurring     *bool
	RecurringRule *model.RecurrenceRule
	Completed     *bool
	Result        *string
	Items         []ItemInput
}

// PersonUpdate carries optional field changes for a person.
type PersonUpdate struct {
	Name  *string
	Color *string
}

// Counts summarizes the todo collection for display adapters.
type Counts struct {
	All     int
	Active  int
	Overdue int
}

// Coordinator owns the live todo and person collections. Every mutation
// persists the whole snapshot through the store before returning; reads
// hand out copies so nothing outside holds a reference into the maps.
// The public surface is serialized behind one mutex.
type Coordinator struct {
	store repository.Store

	mu      sync.Mutex
	todos   map[string]*model.Todo
	persons map[string]*model.Person
}

// NewCoordinator returns a coordinator backed by the given store.
// Call Load before anything else.
func NewCoordinator(store repository.Store) *Coordinator {
	return &Coordinator{
		store:   store,
		todos:   make(map[string]*model.Todo),
		persons: make(map[string]*model.Person),
	}
}

// Load reads the snapshot from the store. A missing snapshot is a first
// run: the coordinator starts empty and seeds the default person.
func (c *Coordinator) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if doc != nil {
		c.todos = doc.Todos
		c.persons = doc.Persons
	}

	if len(c.persons) == 0 {
		id := model.NewID()
		c.persons[id] = &model.Person{
			ID:    id,
			Name:  model.DefaultPersonName,
			Color: model.DefaultPersonColor,
		}
		if err := c.save(ctx); err != nil {
			return err
		}
		log.Printf("[info] seeded default person %q", model.DefaultPersonName)
	}
	return nil
}

// Save persists the current snapshot.
func (c *Coordinator) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx)
}

// save writes the whole document. Callers hold c.mu.
func (c *Coordinator) save(ctx context.Context) error {
	doc := &model.Document{
		SchemaVersion: model.SchemaVersion,
		Todos:         c.todos,
		Persons:       c.persons,
	}
	if err := c.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Tick runs the recurrence check: any completed recurring todo whose
// next occurrence is due gets its successor merged in, and the snapshot
// is persisted once if anything materialized. Safe to call more often
// than scheduled.
func (c *Coordinator) Tick(ctx context.Context, now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	successors := NextOccurrences(c.sortedTodos(), now)
	if len(successors) == 0 {
		return nil
	}
	for _, todo := range successors {
		c.todos[todo.ID] = todo
		log.Printf("[info] materialized occurrence %s of %q due %s", todo.ID, todo.Title, todo.DueDate)
	}
	return c.save(ctx)
}

// CreateTodo adds a new todo and persists. Items are only kept for
// shopping and packing types; recurring todos get a series id linking
// all of their occurrences.
func (c *Coordinator) CreateTodo(ctx context.Context, input TodoInput) (*model.Todo, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	todoType := input.Type
	if todoType == "" {
		todoType = model.TypeSimple
	}
	dueTime := input.DueTime
	if dueTime == "" {
		dueTime = model.DefaultDueTime
	}

	todo := &model.Todo{
		ID:            model.NewID(),
		Title:         input.Title,
		Description:   input.Description,
		DueDate:       input.DueDate,
		DueTime:       dueTime,
		Type:          todoType,
		Persons:       append([]string(nil), input.Persons...),
		Recurring:     input.Recurring,
		RecurringRule: input.RecurringRule,
		CreatedAt:     time.Now(),
	}
	if todo.Recurring {
		todo.SeriesID = model.NewID()
	} else {
		todo.RecurringRule = nil
	}
	if todo.HasItems() {
		todo.Items = buildItems(input.Items)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.todos[todo.ID] = todo
	if err := c.save(ctx); err != nil {
		return nil, err
	}
	log.Printf("[info] created todo %s %q", todo.ID, todo.Title)
	return todo.Clone(), nil
}

// UpdateTodo applies the provided field changes to one todo and
// persists. Turning recurrence off drops the rule; turning it on
// assigns a series id if the todo never had one.
func (c *Coordinator) UpdateTodo(ctx context.Context, id string, update TodoUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	todo, ok := c.todos[id]
	if !ok {
		log.Printf("[warn] update: todo %s not found", id)
		return ErrTodoNotFound
	}

	if update.Title != nil {
		todo.Title = *update.Title
	}
	if update.Description != nil {
		todo.Description = *update.Description
	}
	if update.DueDate != nil {
		todo.DueDate = *update.DueDate
	}
	if update.DueTime != nil {
		todo.DueTime = *update.DueTime
	}
	if update.Type != nil {
		todo.Type = *update.Type
	}
	if update.Persons != nil {
		todo.Persons = append([]string(nil), update.Persons...)
	}
	if update.RecurringRule != nil {
		todo.RecurringRule = update.RecurringRule
	}
	if update.Recurring != nil {
		todo.Recurring = *update.Recurring
		if todo.Recurring {
			if todo.SeriesID == "" {
				todo.SeriesID = model.NewID()
			}
		} else {
			todo.RecurringRule = nil
		}
	}
	if update.Result != nil {
		todo.Result = *update.Result
	}
	if update.Items != nil {
		todo.Items = buildItems(update.Items)
	}
	if update.Completed != nil {
		todo.Completed = *update.Completed
		if !todo.Completed {
			todo.CompletedDate = ""
		}
	}

	if err := c.save(ctx); err != nil {
		return err
	}
	log.Printf("[info] updated todo %s", id)
	return nil
}

// DeleteTodo removes a todo and persists.
func (c *Coordinator) DeleteTodo(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.todos[id]; !ok {
		log.Printf("[warn] delete: todo %s not found", id)
		return ErrTodoNotFound
	}
	delete(c.todos, id)
	if err := c.save(ctx); err != nil {
		return err
	}
	log.Printf("[info] deleted todo %s", id)
	return nil
}

// CompleteTodo toggles completion. Completing stamps the completion
// time and records an optional result. Reopening clears the stamp, but
// is refused once the recurrence check has already spawned the next
// occurrence, so a series never has two live heads.
func (c *Coordinator) CompleteTodo(ctx context.Context, id, result string, now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	todo, ok := c.todos[id]
	if !ok {
		log.Printf("[warn] complete: todo %s not found", id)
		return ErrTodoNotFound
	}

	if todo.Completed {
		if todo.Recurring && c.hasOpenSuccessor(todo) {
			return ErrSuccessorExists
		}
		todo.Completed = false
		todo.CompletedDate = ""
	} else {
		todo.Completed = true
		todo.CompletedDate = model.FormatTimestamp(now)
		if result != "" {
			todo.Result = result
		}
	}

	if err := c.save(ctx); err != nil {
		return err
	}
	log.Printf("[info] completed todo %s: %v", id, todo.Completed)
	return nil
}

// hasOpenSuccessor reports whether another incomplete todo of the same
// series exists. Callers hold c.mu.
func (c *Coordinator) hasOpenSuccessor(todo *model.Todo) bool {
	for _, other := range c.todos {
		if other.ID == todo.ID || other.Completed {
			continue
		}
		if todo.SeriesID != "" && other.SeriesID == todo.SeriesID {
			return true
		}
		if todo.SeriesID == "" && other.Title == todo.Title && other.Recurring &&
			other.RecurringRule.Equal(todo.RecurringRule) {
			return true
		}
	}
	return false
}

// ToggleItem flips one list item's checked state and persists.
func (c *Coordinator) ToggleItem(ctx context.Context, todoID, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	todo, ok := c.todos[todoID]
	if !ok {
		log.Printf("[warn] toggle item: todo %s not found", todoID)
		return ErrTodoNotFound
	}
	for i := range todo.Items {
		if todo.Items[i].ID != itemID {
			continue
		}
		todo.Items[i].Checked = !todo.Items[i].Checked
		if err := c.save(ctx); err != nil {
			return err
		}
		log.Printf("[info] toggled item %s in todo %s", itemID, todoID)
		return nil
	}

	log.Printf("[warn] toggle item: item %s not found in todo %s", itemID, todoID)
	return ErrItemNotFound
}

// CreatePerson adds a person and persists.
func (c *Coordinator) CreatePerson(ctx context.Context, name, color string) (*model.Person, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if color == "" {
		color = model.DefaultPersonColor
	}

	person := &model.Person{ID: model.NewID(), Name: name, Color: color}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.persons[person.ID] = person
	if err := c.save(ctx); err != nil {
		return nil, err
	}
	log.Printf("[info] created person %s %q", person.ID, person.Name)
	clone := *person
	return &clone, nil
}

// UpdatePerson applies the provided field changes to one person and
// persists.
func (c *Coordinator) UpdatePerson(ctx context.Context, id string, update PersonUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	person, ok := c.persons[id]
	if !ok {
		log.Printf("[warn] update: person %s not found", id)
		return ErrPersonNotFound
	}
	if update.Name != nil {
		person.Name = *update.Name
	}
	if update.Color != nil {
		person.Color = *update.Color
	}
	if err := c.save(ctx); err != nil {
		return err
	}
	log.Printf("[info] updated person %s", id)
	return nil
}

// DeletePerson removes a person and scrubs its id from every todo's
// assignment set, so no dangling references survive. The scrub is
// best-effort and never fails on its own.
func (c *Coordinator) DeletePerson(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.persons[id]; !ok {
		log.Printf("[warn] delete: person %s not found", id)
		return ErrPersonNotFound
	}

	for _, todo := range c.todos {
		todo.Persons = removeString(todo.Persons, id)
	}
	delete(c.persons, id)

	if err := c.save(ctx); err != nil {
		return err
	}
	log.Printf("[info] deleted person %s", id)
	return nil
}

// ListTodos returns the todos ranked by urgency, the most urgent first.
// When filterCompleted is true, completed todos are dropped before
// ranking. The result holds copies.
func (c *Coordinator) ListTodos(filterCompleted bool, now time.Time) []*model.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()

	todos := c.sortedTodos()
	if filterCompleted {
		active := todos[:0]
		for _, todo := range todos {
			if !todo.Completed {
				active = append(active, todo)
			}
		}
		todos = active
	}

	ranked := Rank(todos, now)
	out := make([]*model.Todo, len(ranked))
	for i, todo := range ranked {
		out[i] = todo.Clone()
	}
	return out
}

// GetTodo returns a copy of one todo.
func (c *Coordinator) GetTodo(id string) (*model.Todo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	todo, ok := c.todos[id]
	if !ok {
		return nil, ErrTodoNotFound
	}
	return todo.Clone(), nil
}

// ListPersons returns copies of all persons, sorted by name.
func (c *Coordinator) ListPersons() []*model.Person {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*model.Person, 0, len(c.persons))
	for _, person := range c.persons {
		clone := *person
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// GetPerson returns a copy of one person.
func (c *Coordinator) GetPerson(id string) (*model.Person, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	person, ok := c.persons[id]
	if !ok {
		return nil, ErrPersonNotFound
	}
	clone := *person
	return &clone, nil
}

// OverdueCount returns how many active todos have a due instant
// strictly before now.
func (c *Coordinator) OverdueCount(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overdueCount(now)
}

// Counts returns the all/active/overdue totals for display adapters.
func (c *Coordinator) Counts(now time.Time) Counts {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := Counts{All: len(c.todos), Overdue: c.overdueCount(now)}
	for _, todo := range c.todos {
		if !todo.Completed {
			counts.Active++
		}
	}
	return counts
}

// overdueCount counts active todos past their due instant. Callers
// hold c.mu.
func (c *Coordinator) overdueCount(now time.Time) int {
	count := 0
	for _, todo := range c.todos {
		if todo.Completed {
			continue
		}
		if due, ok := todo.DueInstant(); ok && due.Before(now) {
			count++
		}
	}
	return count
}

// sortedTodos returns the todos in a deterministic base order, oldest
// first, so ranking ties resolve the same way on every call. Callers
// hold c.mu.
func (c *Coordinator) sortedTodos() []*model.Todo {
	todos := make([]*model.Todo, 0, len(c.todos))
	for _, todo := range c.todos {
		todos = append(todos, todo)
	}
	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.Before(todos[j].CreatedAt)
		}
		return todos[i].ID < todos[j].ID
	})
	return todos
}

// buildItems assigns ids and unchecked state to the supplied entries.
func buildItems(inputs []ItemInput) []model.Item {
	items := make([]model.Item, 0, len(inputs))
	for _, input := range inputs {
		if input.Name == "" {
			continue
		}
		items = append(items, model.Item{
			ID:       model.NewID(),
			Name:     input.Name,
			Quantity: input.Quantity,
		})
	}
	return items
}

// removeString returns values without any occurrence of value.
func removeString(values []string, value string) []string {
	out := values[:0]
	for _, v := range values {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
