package supplier

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists suppliers.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	List(ctx context.Context, activeOnly bool) ([]*Supplier, error)
	Update(ctx context.Context, s *Supplier) error
}
