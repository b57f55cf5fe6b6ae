package invoice

import "context"

// Repository defines data access for invoices.
type Repository interface {
	// Create inserts the invoice and its details atomically, assigning ID.
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id int64) (*Invoice, error)
	// List returns invoices for a branch, optionally filtered by status.
	List(ctx context.Context, branch, status string) ([]*Invoice, error)
	// ReplaceDetails overwrites the invoice's lines and totals atomically.
	ReplaceDetails(ctx context.Context, inv *Invoice) error
	UpdateStatus(ctx context.Context, id int64, status Status, method PaymentMethod) error
}
