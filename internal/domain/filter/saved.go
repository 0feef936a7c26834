package filter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Saved - именованный фильтр для повторного использования
type Saved struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Spec      Spec      `json:"spec"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository интерфейс хранилища сохраненных фильтров
type Repository interface {
	// Save сохраняет новый фильтр, занятое имя - ErrFilterExists
	Save(ctx context.Context, f *Saved) error

	// GetByName возвращает фильтр или ErrFilterNotFound
	GetByName(ctx context.Context, name string) (*Saved, error)

	List(ctx context.Context) ([]*Saved, error)

	Delete(ctx context.Context, name string) error
}
