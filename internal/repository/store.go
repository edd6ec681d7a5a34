package repository

import (
	"context"

	"todo-manager/internal/model"
)

// Store persists the whole snapshot document. Load returns (nil, nil)
// when no snapshot has ever been written. Save replaces the previous
// snapshot atomically.
type Store interface {
	Load(ctx context.Context) (*model.Document, error)
	Save(ctx context.Context, doc *model.Document) error
}
