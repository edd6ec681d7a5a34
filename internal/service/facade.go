package service

import (
	"context"
	"log"
	"time"
)

// Facade exposes the coordinator with fire-and-forget semantics:
// every failure is logged and swallowed. Callers that need to branch on
// errors use the Coordinator directly; callers that only want to issue
// a command and re-read state afterwards go through here.
type Facade struct {
	c *Coordinator
}

// NewFacade wraps a coordinator.
func NewFacade(c *Coordinator) *Facade {
	return &Facade{c: c}
}

// Coordinator returns the wrapped coordinator for reads.
func (f *Facade) Coordinator() *Coordinator {
	return f.c
}

func (f *Facade) Tick(ctx context.Context, now time.Time) {
	if err := f.c.Tick(ctx, now); err != nil {
		log.Printf("[error] recurrence tick: %v", err)
	}
}

func (f *Facade) CreateTodo(ctx context.Context, input TodoInput) {
	if _, err := f.c.CreateTodo(ctx, input); err != nil {
		log.Printf("[error] create todo: %v", err)
	}
}

func (f *Facade) UpdateTodo(ctx context.Context, id string, update TodoUpdate) {
	if err := f.c.UpdateTodo(ctx, id, update); err != nil {
		log.Printf("[error] update todo: %v", err)
	}
}

func (f *Facade) DeleteTodo(ctx context.Context, id string) {
	if err := f.c.DeleteTodo(ctx, id); err != nil {
		log.Printf("[error] delete todo: %v", err)
	}
}

func (f *Facade) CompleteTodo(ctx context.Context, id, result string, now time.Time) {
	if err := f.c.CompleteTodo(ctx, id, result, now); err != nil {
		log.Printf("[error] complete todo: %v", err)
	}
}

func (f *Facade) ToggleItem(ctx context.Context, todoID, itemID string) {
	if err := f.c.ToggleItem(ctx, todoID, itemID); err != nil {
		log.Printf("[error] toggle item: %v", err)
	}
}

func (f *Facade) CreatePerson(ctx context.Context, name, color string) {
	if _, err := f.c.CreatePerson(ctx, name, color); err != nil {
		log.Printf("[error] create person: %v", err)
	}
}

func (f *Facade) UpdatePerson(ctx context.Context, id string, update PersonUpdate) {
	if err := f.c.UpdatePerson(ctx, id, update); err != nil {
		log.Printf("[error] update person: %v", err)
	}
}

func (f *Facade) DeletePerson(ctx context.Context, id string) {
	if err := f.c.DeletePerson(ctx, id); err != nil {
		log.Printf("[error] delete person: %v", err)
	}
}
