package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists materials and their stock movements.
type Repository interface {
	Create(ctx context.Context, m *Material) error
	GetByID(ctx context.Context, id uuid.UUID) (*Material, error)
	List(ctx context.Context, branch string, activeOnly bool) ([]*Material, error)
	Update(ctx context.Context, m *Material) error

	// AdjustQuantity applies delta to the stored quantity, flooring the
	// result at zero, and returns the new quantity.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta float64) (float64, error)

	RecordMove(ctx context.Context, move *StockMove) error
	ListMoves(ctx context.Context, materialID uuid.UUID, limit int) ([]*StockMove, error)
}
