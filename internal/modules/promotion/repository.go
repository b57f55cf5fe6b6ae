package promotion

import "context"

// Repository defines data access for promotions.
type Repository interface {
	Create(ctx context.Context, p *Promotion) error
	GetByID(ctx context.Context, id string) (*Promotion, error)
	GetByCode(ctx context.Context, code string) (*Promotion, error)
	List(ctx context.Context, activeOnly bool) ([]*Promotion, error)
	Update(ctx context.Context, p *Promotion) error
	Delete(ctx context.Context, id string) error
}
